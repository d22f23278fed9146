package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/cookbook-cataloger/constants"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
)

var reFirstInt = regexp.MustCompile(`\d+`)

// BuildIndex derives the full lookup index from the catalog's recipes and
// chapters. Pure: same catalog in, same index out. Callers replace the
// catalog's index wholesale; nothing edits an index in place.
func BuildIndex(cat *entity.Catalog) *entity.Index {
	idx := &entity.Index{
		ByName:    make(map[string]entity.IndexEntry),
		ByChapter: make(map[string][]string),
		ByDietary: make(map[string][]string),
	}

	for i, recipe := range cat.Recipes {
		name := recipe.Name
		if name == "" {
			continue
		}

		idx.ByName[name] = entity.IndexEntry{
			RecipeIndex: i,
			Chapter:     recipe.Chapter,
			Serves:      recipe.Serves,
			DietaryInfo: recipe.DietaryInfo,
			Calories:    recipe.Calories,
			Protein:     recipe.Protein,
			PrepTime:    recipe.PrepTime,
		}
		idx.AllRecipes = append(idx.AllRecipes, name)

		chapter := recipe.Chapter
		if chapter == "" {
			chapter = "Unknown"
		}
		idx.ByChapter[chapter] = append(idx.ByChapter[chapter], name)

		for _, diet := range recipe.DietaryInfo {
			idx.ByDietary[DietaryKey(diet)] = append(idx.ByDietary[DietaryKey(diet)], name)
		}

		if v, ok := firstInt(recipe.Protein); ok && v > constants.HighProteinGrams {
			idx.ByMacros.HighProtein = append(idx.ByMacros.HighProtein, name)
		}
		if v, ok := firstInt(recipe.Carbs); ok && v < constants.LowCarbGrams {
			idx.ByMacros.LowCarb = append(idx.ByMacros.LowCarb, name)
		}
		if v, ok := firstInt(recipe.Calories); ok && v < constants.LowCalorieKcal {
			idx.ByMacros.LowCalorie = append(idx.ByMacros.LowCalorie, name)
		}
	}

	// Chapter pages advertise recipes that may not be extracted yet. Record
	// each miss once.
	seen := make(map[string]struct{})
	for _, chapter := range cat.Chapters {
		title := chapter.ChapterTitle
		if title == "" {
			title = "Unknown"
		}
		for _, listed := range chapter.RecipeList {
			normalized := NormalizeName(listed)
			if _, dup := seen[normalized]; dup {
				continue
			}

			matched := false
			for _, recipe := range cat.Recipes {
				if FuzzyMatch(listed, recipe.Name) {
					matched = true
					break
				}
			}
			if matched {
				continue
			}
			if containsString(idx.AllRecipes, listed) {
				continue
			}
			idx.Unmatched = append(idx.Unmatched, entity.UnmatchedEntry{
				Name:    listed,
				Chapter: title,
				Note:    "Listed in chapter but not yet extracted",
			})
			seen[normalized] = struct{}{}
		}
	}

	if idx.ByMacros.HighProtein == nil {
		idx.ByMacros.HighProtein = []string{}
	}
	if idx.ByMacros.LowCarb == nil {
		idx.ByMacros.LowCarb = []string{}
	}
	if idx.ByMacros.LowCalorie == nil {
		idx.ByMacros.LowCalorie = []string{}
	}
	if idx.AllRecipes == nil {
		idx.AllRecipes = []string{}
	}
	if idx.Unmatched == nil {
		idx.Unmatched = []entity.UnmatchedEntry{}
	}
	return idx
}

// DietaryKey canonicalizes a dietary tag for index lookup: lowercase, with
// dashes and spaces collapsed to underscores ("DAIRY-FREE" -> "dairy_free").
func DietaryKey(tag string) string {
	k := strings.ToLower(strings.TrimSpace(tag))
	k = strings.ReplaceAll(k, "-", "_")
	k = strings.ReplaceAll(k, " ", "_")
	return k
}

// firstInt parses the first run of digits out of a free-form macro string
// ("24g", "about 350 cal").
func firstInt(s string) (int, bool) {
	m := reFirstInt.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
