package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/cookbook-cataloger/constants"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/extract"
)

// FilesResult is what an ordered-files run produced, ready for upsert into
// an existing catalog.
type FilesResult struct {
	Recipes  []entity.Recipe
	Chapters []entity.Chapter
	Log      []entity.ProcessingLogEntry
}

// ProcessFiles walks the given image files in the given order with full
// continuation support. Unlike ProcessFolder it does not build a catalog;
// the caller upserts the result into one. Continuation-only pages go
// through the partial extractor so the pending recipe absorbs them instead
// of spawning duplicates.
func (r *Runner) ProcessFiles(ctx context.Context, paths []string) (FilesResult, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return FilesResult{}, fmt.Errorf("file not found: %s", p)
		}
	}

	r.logger.Info("pipeline.files.start", "files", len(paths))

	var out FilesResult
	var currentChapter *entity.Chapter
	var pending *entity.Recipe

	for i, path := range paths {
		file := filepath.Base(path)
		r.logger.Info("pipeline.files.page", "index", i+1, "total", len(paths), "file", file)

		image, err := r.load(path)
		if err != nil {
			r.logger.Error("pipeline.files.load_error", "file", file, "error", err)
			out.Log = append(out.Log, entity.ProcessingLogEntry{
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
				r.logger.Warn("pipeline.files.chapter_error", "file", file, "error", err)
			}
			chapter.SourceImage = file
			chapter.PageNumbers = classification.PageNumbers
			out.Chapters = append(out.Chapters, chapter)
			currentChapter = &out.Chapters[len(out.Chapters)-1]

			entry.ChapterTitle = chapter.ChapterTitle
			entry.RecipesListed = len(chapter.RecipeList)

		case classification.Type.IsRecipePage():
			hasNewRecipe := classification.HasRecipeStart || len(classification.RecipeNamesVisible) > 0
			pureContinuation := classification.HasContinuation && pending != nil && !hasNewRecipe
			partialPage := classification.Type == constants.PageRecipePartial && pending != nil

			if partialPage || pureContinuation {
				r.logger.Info("pipeline.files.continuing", "recipe", pending.Name, "file", file)
				continued := r.partials.Continue(ctx, image, file, *pending)
				if continued.IsComplete {
					continued.SourceImage = file
					if currentChapter != nil {
						continued.Chapter = currentChapter.ChapterTitle
					}
					out.Recipes = append(out.Recipes, continued)
					entry.RecipesExtracted = append(entry.RecipesExtracted, continued.Name)
					pending = nil
				} else {
					pending = &continued
					entry.HasContinuation = true
				}
			} else {
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
					if currentChapter != nil {
						recipe.Chapter = currentChapter.ChapterTitle
					}
					out.Recipes = append(out.Recipes, recipe)
					entry.RecipesExtracted = append(entry.RecipesExtracted, recipe.Name)
				}

				if partial := result.Partial; partial != nil {
					partial.SourceImage = file
					if partial.HasBody() {
						if partial.IsContinuation && pending == nil {
							partial.Note = "Was marked as continuation but no previous context"
						}
						partial.IsComplete = true
						if currentChapter != nil {
							partial.Chapter = currentChapter.ChapterTitle
						}
						out.Recipes = append(out.Recipes, *partial)
						entry.RecipesExtracted = append(entry.RecipesExtracted, partial.Name)
						pending = nil
					} else {
						pending = partial
						entry.HasContinuation = true
					}
				} else {
					pending = nil
				}
			}

		case classification.Type == constants.PageArticle:
			entry.Status = "skipped - article"

		case classification.Type == constants.PagePhoto:
			entry.Status = "skipped - photo"

		default:
			entry.Status = "skipped"
		}

		out.Log = append(out.Log, entry)
	}

	if pending != nil {
		if pending.HasBody() {
			pending.Note = "Final partial saved as complete"
			pending.IsComplete = true
			out.Recipes = append(out.Recipes, *pending)
			r.logger.Info("pipeline.files.final_partial_saved", "recipe", pending.Name)
		} else {
			r.logger.Warn("pipeline.files.incomplete_dropped",
				"recipe", pending.Name,
				"has_ingredients", len(pending.Ingredients) > 0,
				"has_instructions", len(pending.Instructions) > 0,
			)
		}
	}

	r.logger.Info("pipeline.files.done",
		"chapters", len(out.Chapters),
		"recipes", len(out.Recipes),
	)
	return out, nil
}
