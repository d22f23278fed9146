package entity

// Chapter is a section heading plus the recipe names it advertises (not
// necessarily extracted). Created from chapter/TOC pages.
type Chapter struct {
	ChapterNumber string   `json:"chapter_number,omitempty"`
	ChapterTitle  string   `json:"chapter_title,omitempty"`
	RecipeList    []string `json:"recipe_list,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	RawResponse   string   `json:"raw_response,omitempty"`
	SourceImage   string   `json:"source_image,omitempty"`
	PageNumbers   []int    `json:"page_numbers,omitempty"`
}
