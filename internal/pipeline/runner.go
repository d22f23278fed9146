package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joseph-ayodele/cookbook-cataloger/constants"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/catalog"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/extract"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/llm"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/vision"
)

// PageClassifier decides what kind of page an image shows.
type PageClassifier interface {
	Classify(ctx context.Context, image llm.ImageAttachment, file string) entity.Classification
}

// ChapterReader extracts chapter/TOC pages.
type ChapterReader interface {
	Extract(ctx context.Context, image llm.ImageAttachment, file string) (entity.Chapter, error)
}

// RecipeReader extracts recipe pages.
type RecipeReader interface {
	Extract(ctx context.Context, req extract.Request) extract.Result
}

// PartialReader continues an in-flight recipe on a continuation-only page.
type PartialReader interface {
	Continue(ctx context.Context, image llm.ImageAttachment, file string, pending entity.Recipe) entity.Recipe
}

// Loader reads a page image into an attachment. Swappable in tests.
type Loader func(path string) (llm.ImageAttachment, error)

// Runner walks cookbook page images in order, carrying chapter context and
// at most one pending (incomplete) recipe across pages.
type Runner struct {
	classifier PageClassifier
	chapters   ChapterReader
	recipes    RecipeReader
	partials   PartialReader
	load       Loader
	maxRetries int
	logger     *slog.Logger
}

type RunnerParams struct {
	Classifier PageClassifier
	Chapters   ChapterReader
	Recipes    RecipeReader
	Partials   PartialReader
	Loader     Loader
	MaxRetries int
	Logger     *slog.Logger
}

func NewRunner(p RunnerParams) *Runner {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	load := p.Loader
	if load == nil {
		load = vision.LoadAttachment
	}
	return &Runner{
		classifier: p.Classifier,
		chapters:   p.Chapters,
		recipes:    p.Recipes,
		partials:   p.Partials,
		load:       load,
		maxRetries: p.MaxRetries,
		logger:     logger,
	}
}

// ProcessFolder catalogs every image in folder, sorted by file name or by
// modification time. It returns a fresh catalog with the derived index
// built and metadata filled in.
func (r *Runner) ProcessFolder(ctx context.Context, folder, model, sortBy string) (*entity.Catalog, error) {
	paths, err := vision.ListImages(folder)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no image files found in %s", folder)
	}

	if sortBy == "date" {
		sort.Slice(paths, func(i, j int) bool {
			return modTime(paths[i]) < modTime(paths[j])
		})
	} else {
		sort.Strings(paths)
	}

	r.logger.Info("pipeline.folder.start", "folder", folder, "images", len(paths), "sort_by", sortBy)

	cat := entity.NewCatalog(folder, model, len(paths))
	var currentChapter *entity.Chapter
	var pending *entity.Recipe

	for i, path := range paths {
		file := filepath.Base(path)
		r.logger.Info("pipeline.folder.page", "index", i+1, "total", len(paths), "file", file)

		image, err := r.load(path)
		if err != nil {
			r.logger.Error("pipeline.folder.load_error", "file", file, "error", err)
			cat.ProcessingLog = append(cat.ProcessingLog, entity.ProcessingLogEntry{
				File:      file,
				Status:    "skipped - unreadable",
				Timestamp: nowStamp(),
			})
			continue
		}

		classification := r.classifier.Classify(ctx, image, file)
		entry := entity.ProcessingLogEntry{
			File:           file,
			PageType:       classification.Type,
			PageNumbers:    classification.PageNumbers,
			Classification: classification,
			Timestamp:      nowStamp(),
		}

		switch {
		case classification.Type == constants.PageChapter:
			chapter, err := r.chapters.Extract(ctx, image, file)
			if err != nil {
				r.logger.Warn("pipeline.folder.chapter_error", "file", file, "error", err)
			}
			chapter.SourceImage = file
			chapter.PageNumbers = classification.PageNumbers
			cat.Chapters = append(cat.Chapters, chapter)
			currentChapter = &cat.Chapters[len(cat.Chapters)-1]

			entry.ChapterTitle = chapter.ChapterTitle
			entry.RecipesListed = len(chapter.RecipeList)

		case classification.Type.IsRecipePage():
			result := r.recipes.Extract(ctx, extract.Request{
				Path:           path,
				File:           file,
				Image:          image,
				Chapter:        currentChapter,
				Pending:        pending,
				Classification: classification,
				MaxRetries:     r.maxRetries,
			})

			for _, recipe := range result.Recipes {
				recipe.SourceImage = file
				cat.Recipes = append(cat.Recipes, recipe)
				entry.RecipesExtracted = append(entry.RecipesExtracted, recipe.Name)
			}

			pending = r.carryPartial(cat, result.Partial, pending, file, &entry)
			if result.Partial == nil && pending != nil && len(result.Recipes) > 0 {
				pending = nil
			}
			entry.HasContinuation = pending != nil

		case classification.Type == constants.PageArticle:
			entry.Status = "skipped - article"

		case classification.Type == constants.PagePhoto:
			entry.Status = "skipped - photo"

		default:
			entry.Status = "skipped"
		}

		cat.ProcessingLog = append(cat.ProcessingLog, entry)
	}

	if pending != nil {
		r.logger.Warn("pipeline.folder.truncated_recipe", "recipe", pending.Name)
		pending.IsComplete = false
		pending.Note = "Recipe may be incomplete - continued beyond processed pages"
		cat.Recipes = append(cat.Recipes, *pending)
	}

	cat.Index = catalog.BuildIndex(cat)
	cat.Metadata.ChaptersFound = len(cat.Chapters)
	cat.Metadata.RecipesExtracted = len(cat.Recipes)
	cat.Metadata.IndexedRecipes = len(cat.Index.ByName)

	r.logger.Info("pipeline.folder.done",
		"chapters", len(cat.Chapters),
		"recipes", len(cat.Recipes),
	)
	return cat, nil
}

// carryPartial decides what to do with the partial recipe one page produced.
// A "partial" carrying a name, ingredients, and instructions is really a
// complete recipe the model mislabeled (usually an orphan continuation), so
// it is saved instead of carried.
func (r *Runner) carryPartial(cat *entity.Catalog, partial, pending *entity.Recipe, file string, entry *entity.ProcessingLogEntry) *entity.Recipe {
	if partial == nil {
		return pending
	}
	partial.SourceImage = file

	if partial.HasBody() && partial.IsContinuation && pending == nil {
		r.logger.Info("pipeline.folder.orphan_continuation", "recipe", partial.Name)
		partial.Note = "Was marked as continuation but no previous context - saved as complete"
		partial.IsContinuation = false
		partial.IsComplete = true
		cat.Recipes = append(cat.Recipes, *partial)
		entry.RecipesExtracted = append(entry.RecipesExtracted, partial.Name)
		return nil
	}

	r.logger.Info("pipeline.folder.recipe_continues", "recipe", partial.Name)
	return partial
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func modTime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixNano()
}
