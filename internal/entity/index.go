package entity

// IndexEntry is a compact lookup card for one recipe, keyed by its exact
// catalog name in Index.ByName.
type IndexEntry struct {
	RecipeIndex int      `json:"recipe_index"`
	Chapter     string   `json:"chapter,omitempty"`
	Serves      string   `json:"serves,omitempty"`
	DietaryInfo []string `json:"dietary_info,omitempty"`
	Calories    string   `json:"calories,omitempty"`
	Protein     string   `json:"protein,omitempty"`
	PrepTime    string   `json:"prep_time,omitempty"`
}

// UnmatchedEntry names a recipe a chapter page listed but no extracted
// recipe matched, even fuzzily.
type UnmatchedEntry struct {
	Name    string `json:"name"`
	Chapter string `json:"chapter"`
	Note    string `json:"note"`
}

// MacroIndex buckets recipe names by parsed macro thresholds.
type MacroIndex struct {
	HighProtein []string `json:"high_protein"`
	LowCarb     []string `json:"low_carb"`
	LowCalorie  []string `json:"low_calorie"`
}

// Index is derived entirely from Catalog.Recipes and Catalog.Chapters.
// It is rebuilt from scratch after every catalog mutation and never
// edited in place.
type Index struct {
	ByName     map[string]IndexEntry `json:"by_name"`
	ByChapter  map[string][]string   `json:"by_chapter"`
	AllRecipes []string              `json:"all_recipes"`
	ByDietary  map[string][]string   `json:"by_dietary"`
	ByMacros   MacroIndex            `json:"by_macros"`
	Unmatched  []UnmatchedEntry      `json:"unmatched"`
}
