package entity

import "github.com/joseph-ayodele/cookbook-cataloger/constants"

// SubRecipe is a named component (dressing, sauce, marinade) nested inside a
// parent recipe. It never appears as a top-level catalog entry.
type SubRecipe struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
}

// Recipe represents one extracted recipe for transfer between layers and for
// persistence in the catalog file. Macro fields stay free-form strings because
// source text varies ("8g", "8 grams", "about 8").
type Recipe struct {
	Name          string             `json:"name"`
	Chapter       string             `json:"chapter,omitempty"`
	ChapterNumber string             `json:"chapter_number,omitempty"`
	MealType      constants.MealType `json:"meal_type,omitempty"`
	DishRole      constants.DishRole `json:"dish_role,omitempty"`
	Serves        string             `json:"serves,omitempty"`
	PrepTime      string             `json:"prep_time,omitempty"`
	CookTime      string             `json:"cook_time,omitempty"`
	TotalTime     string             `json:"total_time,omitempty"`
	Calories      string             `json:"calories,omitempty"`
	Protein       string             `json:"protein,omitempty"`
	Carbs         string             `json:"carbs,omitempty"`
	Fat           string             `json:"fat,omitempty"`
	DietaryInfo   []string           `json:"dietary_info,omitempty"`
	Description   string             `json:"description,omitempty"`
	Ingredients   []string           `json:"ingredients,omitempty"`
	SubRecipes    []SubRecipe        `json:"sub_recipes,omitempty"`
	Instructions  []string           `json:"instructions,omitempty"`
	Tips          []string           `json:"tips,omitempty"`
	NutritionFull string             `json:"nutrition_full,omitempty"`

	IsComplete     bool   `json:"is_complete"`
	IsContinuation bool   `json:"is_continuation,omitempty"`
	Note           string `json:"note,omitempty"`
	Preprocessed   bool   `json:"preprocessed,omitempty"`

	ChapterReassigned bool `json:"chapter_reassigned,omitempty"`

	SourceImage  string   `json:"source_image,omitempty"`
	SourceImages []string `json:"source_images,omitempty"`

	MergedFromSources []string `json:"merged_from_sources,omitempty"`
}

// HasBody reports whether the recipe carries name, ingredients, and
// instructions, the bar for treating a partial as effectively complete.
func (r *Recipe) HasBody() bool {
	return r.Name != "" && len(r.Ingredients) > 0 && len(r.Instructions) > 0
}

// Sources returns every image this recipe was extracted from.
func (r *Recipe) Sources() []string {
	if len(r.SourceImages) > 0 {
		return r.SourceImages
	}
	if r.SourceImage != "" {
		return []string{r.SourceImage}
	}
	return nil
}
