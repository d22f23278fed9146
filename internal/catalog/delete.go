package catalog

import (
	"fmt"
	"sort"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/common"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
)

// DeleteByOrdinals removes recipes by their 1-based catalog positions, the
// numbers the list command prints. Deletion runs highest-ordinal first so
// earlier removals cannot shift later targets. The batch is recorded in the
// deletion log and the index rebuilt.
func DeleteByOrdinals(cat *entity.Catalog, ordinals []int) ([]string, error) {
	if len(ordinals) == 0 {
		return nil, common.NewAppError(common.CodeInvalidInput, "no recipe numbers given", common.ErrInvalidInput)
	}

	seen := make(map[int]struct{}, len(ordinals))
	var unique []int
	for _, n := range ordinals {
		if n < 1 || n > len(cat.Recipes) {
			return nil, common.NewAppError(common.CodeInvalidInput,
				fmt.Sprintf("recipe number %d out of range 1..%d", n, len(cat.Recipes)), common.ErrInvalidInput)
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		unique = append(unique, n)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(unique)))

	var deleted []string
	for _, n := range unique {
		i := n - 1
		deleted = append(deleted, cat.Recipes[i].Name)
		cat.Recipes = append(cat.Recipes[:i], cat.Recipes[i+1:]...)
	}

	cat.DeletionLog = append(cat.DeletionLog, entity.DeletionLogEntry{
		Deleted:   deleted,
		Timestamp: now(),
	})

	cat.Index = BuildIndex(cat)
	cat.Metadata.RecipesExtracted = len(cat.Recipes)
	cat.Metadata.IndexedRecipes = len(cat.Index.ByName)
	return deleted, nil
}
