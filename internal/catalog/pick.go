package catalog

import (
	"math/rand"
	"sort"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/common"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
)

// PickFilters narrow the random recipe pool. Empty fields match everything.
type PickFilters struct {
	Chapter string
	Dietary string
	Macro   string
}

// RandomRecipe picks one recipe uniformly from the recipes matching every
// filter. The candidate pool is the set intersection of the index buckets
// the filters name.
func RandomRecipe(cat *entity.Catalog, f PickFilters) (entity.Recipe, error) {
	if cat.Index == nil {
		return entity.Recipe{}, common.NewAppError(common.CodeNotFound, "catalog has no index", common.ErrNotFound)
	}

	pool := make(map[string]struct{}, len(cat.Index.AllRecipes))
	for _, name := range cat.Index.AllRecipes {
		pool[name] = struct{}{}
	}

	if f.Chapter != "" {
		pool = intersect(pool, cat.Index.ByChapter[f.Chapter])
	}
	if f.Dietary != "" {
		pool = intersect(pool, cat.Index.ByDietary[DietaryKey(f.Dietary)])
	}
	if f.Macro != "" {
		pool = intersect(pool, macroBucket(cat.Index, f.Macro))
	}

	if len(pool) == 0 {
		return entity.Recipe{}, common.NewAppError(common.CodeNotFound, "no recipes match the given filters", common.ErrNotFound)
	}

	names := make([]string, 0, len(pool))
	for name := range pool {
		names = append(names, name)
	}
	sort.Strings(names)
	chosen := names[rand.Intn(len(names))]

	entry, ok := cat.Index.ByName[chosen]
	if !ok || entry.RecipeIndex < 0 || entry.RecipeIndex >= len(cat.Recipes) {
		return entity.Recipe{}, common.NewAppError(common.CodeInternal, "index entry points outside the catalog: "+chosen, common.ErrInternal)
	}
	return cat.Recipes[entry.RecipeIndex], nil
}

func macroBucket(idx *entity.Index, macro string) []string {
	switch macro {
	case "high_protein":
		return idx.ByMacros.HighProtein
	case "low_carb":
		return idx.ByMacros.LowCarb
	case "low_calorie":
		return idx.ByMacros.LowCalorie
	}
	return nil
}

func intersect(pool map[string]struct{}, names []string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, name := range names {
		if _, ok := pool[name]; ok {
			out[name] = struct{}{}
		}
	}
	return out
}
