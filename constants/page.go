package constants

// PageType is the canonical classification for a cookbook page image.
type PageType string

// Stable values (store these exact strings in the catalog).
const (
	PageChapter       PageType = "chapter"        // chapter/TOC page listing recipe names
	PageRecipe        PageType = "recipe"         // substantial recipe content (title, ingredients, instructions)
	PageRecipePartial PageType = "recipe_partial" // only part of a recipe (continuation, photo + name)
	PageArticle       PageType = "article"        // stories/tips, no recipe content
	PagePhoto         PageType = "photo"          // primarily a food photo
	PageOther         PageType = "other"          // anything else
)

var allPageTypes = []PageType{
	PageChapter,
	PageRecipe,
	PageRecipePartial,
	PageArticle,
	PagePhoto,
	PageOther,
}

// IsRecipePage reports whether the page type carries recipe content.
func (p PageType) IsRecipePage() bool {
	return p == PageRecipe || p == PageRecipePartial
}

// ParsePageType maps a raw model label onto a known page type, defaulting to other.
func ParsePageType(s string) (PageType, bool) {
	for _, pt := range allPageTypes {
		if s == string(pt) {
			return pt, true
		}
	}
	return PageOther, false
}

// Confidence is the classifier's self-reported certainty.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ParseConfidence normalizes a raw confidence label, defaulting to low.
func ParseConfidence(s string) Confidence {
	switch s {
	case string(ConfidenceHigh):
		return ConfidenceHigh
	case string(ConfidenceMedium):
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
