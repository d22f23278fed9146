package extract

import "github.com/joseph-ayodele/cookbook-cataloger/internal/entity"

// MergeContinuation folds a continuation fragment into the recipe it
// continues. Lists concatenate in page order, scalars keep the first
// non-empty value, and completeness follows the incoming fragment since it
// saw the recipe's ending (or lack of one).
func MergeContinuation(base, incoming entity.Recipe) entity.Recipe {
	merged := base

	merged.Ingredients = append(merged.Ingredients, incoming.Ingredients...)
	merged.Instructions = append(merged.Instructions, incoming.Instructions...)
	merged.Tips = append(merged.Tips, incoming.Tips...)
	merged.DietaryInfo = append(merged.DietaryInfo, incoming.DietaryInfo...)
	merged.SubRecipes = append(merged.SubRecipes, incoming.SubRecipes...)

	fillScalar(&merged.Serves, incoming.Serves)
	fillScalar(&merged.PrepTime, incoming.PrepTime)
	fillScalar(&merged.CookTime, incoming.CookTime)
	fillScalar(&merged.TotalTime, incoming.TotalTime)
	fillScalar(&merged.Calories, incoming.Calories)
	fillScalar(&merged.Protein, incoming.Protein)
	fillScalar(&merged.Carbs, incoming.Carbs)
	fillScalar(&merged.Fat, incoming.Fat)
	fillScalar(&merged.Description, incoming.Description)
	fillScalar(&merged.NutritionFull, incoming.NutritionFull)

	merged.IsComplete = incoming.IsComplete
	merged.IsContinuation = false

	if len(merged.SourceImages) == 0 {
		src := merged.SourceImage
		if src == "" {
			src = "unknown"
		}
		merged.SourceImages = []string{src}
	}
	if incoming.SourceImage != "" {
		merged.SourceImages = append(merged.SourceImages, incoming.SourceImage)
	}
	return merged
}

func fillScalar(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}
