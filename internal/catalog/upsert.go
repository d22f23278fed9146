package catalog

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/extract"
)

// UpsertStats reports what an upsert did.
type UpsertStats struct {
	Added      int
	Updated    int
	Merged     int
	Reassigned int
}

// UpsertRecipes folds new recipes and chapters into the catalog. A new
// recipe whose name matches an existing one (exactly or fuzzily) either
// merges with it, when the two look like halves of a page-split recipe, or
// replaces it. Every decision lands in the upsert log, and the index is
// rebuilt unconditionally before returning.
func UpsertRecipes(cat *entity.Catalog, newRecipes []entity.Recipe, newChapters []entity.Chapter, sourceImage string, logger *slog.Logger) UpsertStats {
	if logger == nil {
		logger = slog.Default()
	}
	var stats UpsertStats

	existing := make(map[string]int, len(cat.Recipes))
	for i, r := range cat.Recipes {
		if r.Name != "" {
			existing[NormalizeName(r.Name)] = i
		}
	}

	for _, recipe := range newRecipes {
		if recipe.Name == "" {
			continue
		}
		normalized := NormalizeName(recipe.Name)

		matchIdx, ok := existing[normalized]
		if !ok {
			// Scan in catalog order so the same inputs always pick the
			// same fuzzy candidate.
			matchIdx = -1
			for idx, candidate := range cat.Recipes {
				if candidate.Name == "" {
					continue
				}
				if FuzzyMatch(recipe.Name, candidate.Name) {
					matchIdx = idx
					break
				}
			}
		}

		if matchIdx >= 0 {
			old := cat.Recipes[matchIdx]
			oldIng, newIng := len(old.Ingredients), len(recipe.Ingredients)
			oldInstr, newInstr := len(old.Instructions), len(recipe.Instructions)

			if shouldMerge(oldIng, oldInstr, newIng, newInstr) {
				merged := extract.MergeContinuation(old, recipe)
				newSrc := recipe.SourceImage
				if newSrc == "" {
					newSrc = orUnknown(sourceImage)
				}
				merged.MergedFromSources = []string{orUnknown(old.SourceImage), newSrc}
				cat.Recipes[matchIdx] = merged
				stats.Merged++

				cat.UpsertLog = append(cat.UpsertLog, entity.UpsertLogEntry{
					Action:         "merged",
					RecipeName:     recipe.Name,
					SourceImage:    firstNonEmpty(sourceImage, recipe.SourceImage),
					Timestamp:      now(),
					PreviousSource: old.SourceImage,
					Note:           fmt.Sprintf("Merged: old had %d ing/%d steps, new had %d ing/%d steps", oldIng, oldInstr, newIng, newInstr),
				})
			} else {
				cat.Recipes[matchIdx] = recipe
				stats.Updated++

				cat.UpsertLog = append(cat.UpsertLog, entity.UpsertLogEntry{
					Action:         "updated",
					RecipeName:     recipe.Name,
					SourceImage:    firstNonEmpty(sourceImage, recipe.SourceImage),
					Timestamp:      now(),
					PreviousSource: old.SourceImage,
				})
			}
		} else {
			cat.Recipes = append(cat.Recipes, recipe)
			existing[normalized] = len(cat.Recipes) - 1
			stats.Added++

			cat.UpsertLog = append(cat.UpsertLog, entity.UpsertLogEntry{
				Action:      "added",
				RecipeName:  recipe.Name,
				SourceImage: firstNonEmpty(sourceImage, recipe.SourceImage),
				Timestamp:   now(),
			})
		}
	}

	upsertChapters(cat, newChapters)

	stats.Reassigned = ReassignUnknownChapters(cat)
	if stats.Reassigned > 0 {
		logger.Info("catalog.upsert.reassigned", "count", stats.Reassigned)
	}

	cat.Index = BuildIndex(cat)
	cat.Metadata.RecipesExtracted = len(cat.Recipes)
	cat.Metadata.IndexedRecipes = len(cat.Index.ByName)
	cat.Metadata.LastUpsert = now()

	logger.Info("catalog.upsert.done",
		"added", stats.Added,
		"updated", stats.Updated,
		"merged", stats.Merged,
		"source_image", sourceImage,
	)
	return stats
}

// shouldMerge decides merge-vs-replace for two same-named recipes. Merge
// when they look like two halves of one page-split recipe: one side has the
// ingredients, the other has the bulk of the instructions.
func shouldMerge(oldIng, oldInstr, newIng, newInstr int) bool {
	if oldIng > 0 && oldInstr < 3 && newInstr > oldInstr {
		return true
	}
	if newIng > 0 && newInstr < 3 && oldInstr > newInstr {
		return true
	}
	if oldInstr > 0 && newInstr > 0 && oldIng > 0 && newIng == 0 {
		return true
	}
	if newInstr > 0 && oldInstr > 0 && newIng > 0 && oldIng == 0 {
		return true
	}
	return false
}

// upsertChapters replaces chapters by case-insensitive title, appending the
// rest.
func upsertChapters(cat *entity.Catalog, newChapters []entity.Chapter) {
	if len(newChapters) == 0 {
		return
	}
	existing := make(map[string]int, len(cat.Chapters))
	for i, ch := range cat.Chapters {
		if ch.ChapterTitle != "" {
			existing[strings.ToLower(ch.ChapterTitle)] = i
		}
	}
	for _, ch := range newChapters {
		if ch.ChapterTitle == "" {
			continue
		}
		if idx, ok := existing[strings.ToLower(ch.ChapterTitle)]; ok {
			cat.Chapters[idx] = ch
		} else {
			cat.Chapters = append(cat.Chapters, ch)
			existing[strings.ToLower(ch.ChapterTitle)] = len(cat.Chapters) - 1
		}
	}
}

// ReassignUnknownChapters moves recipes with no chapter (or "Unknown") into
// the chapter whose advertised recipe list fuzzily names them. Returns how
// many recipes moved.
func ReassignUnknownChapters(cat *entity.Catalog) int {
	type chapterRef struct {
		title  string
		number string
	}
	lookup := make(map[string]chapterRef)
	var order []string
	for _, ch := range cat.Chapters {
		title := ch.ChapterTitle
		if title == "" {
			title = "Unknown"
		}
		for _, listed := range ch.RecipeList {
			key := NormalizeName(listed)
			if _, ok := lookup[key]; !ok {
				order = append(order, key)
			}
			lookup[key] = chapterRef{title: title, number: ch.ChapterNumber}
		}
	}

	reassigned := 0
	for i := range cat.Recipes {
		current := cat.Recipes[i].Chapter
		if current != "" && !strings.EqualFold(current, "unknown") {
			continue
		}
		for _, listed := range order {
			ref := lookup[listed]
			if FuzzyMatch(cat.Recipes[i].Name, listed) {
				cat.Recipes[i].Chapter = ref.title
				if ref.number != "" {
					cat.Recipes[i].ChapterNumber = ref.number
				}
				cat.Recipes[i].ChapterReassigned = true
				reassigned++
				break
			}
		}
	}
	return reassigned
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
