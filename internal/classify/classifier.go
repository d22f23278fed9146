package classify

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/cookbook-cataloger/constants"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/llm"
)

const classificationPrompt = `Analyze this cookbook page image carefully. Determine what type of content it shows.

Respond in this exact JSON format:
{
    "type": "one of: chapter, recipe, recipe_partial, article, photo, other",
    "has_recipe_start": true/false (does a NEW recipe title and ingredients START on this page?),
    "has_recipe_continuation": true/false (see below for how to determine this),
    "recipe_names_visible": ["list any recipe titles/names you can see"],
    "page_numbers": [list of page numbers visible, as integers] or [],
    "total_pages": total book pages if shown (e.g., from "page 5 of 200") or null,
    "confidence": "high/medium/low"
}

HOW TO DETECT has_recipe_continuation:
Set this to TRUE if you see ANY of these signs that content continues from a previous page:
- An instruction step that does NOT start with "1" at the very top of the page (e.g., seeing "5." or "3." at the top)
- Text that starts mid-sentence at the top
- Instructions appearing ABOVE or BEFORE a recipe title
- A step number > 1 appearing before any recipe title on the page

Example: If you see "5. Bake in oven for 15 minutes. Serve." at the top of the page, that's a continuation!

Page type definitions:
- "chapter": A chapter/section title page listing recipe names (table of contents style)
- "recipe": A page with complete or substantial recipe content (title, ingredients, AND instructions)
- "recipe_partial": A page showing ONLY part of a recipe (just instructions continuing, or just a photo with recipe name)
- "article": Text-heavy page with stories, tips, or information but NO recipe ingredients/instructions
- "photo": Primarily a food photo with minimal or no recipe text
- "other": Anything else (intro pages, blank, etc.)

Important:
- A recipe page must have BOTH ingredients AND at least some instructions visible
- If you only see a photo and recipe title (no ingredients), that's "photo" or "recipe_partial"
- If you see instructions but no ingredients (continued from previous page), that's "recipe_partial"
- A page can have BOTH has_recipe_continuation=true AND has_recipe_start=true (previous recipe ends, new one starts)

Respond with ONLY the JSON, no other text.`

// Classifier decides what kind of page an image shows.
type Classifier struct {
	gateway llm.Gateway
	logger  *slog.Logger
}

func NewClassifier(gateway llm.Gateway, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{gateway: gateway, logger: logger}
}

// rawClassification mirrors the model's reply shape before normalization.
type rawClassification struct {
	Type               string   `json:"type"`
	HasRecipeStart     bool     `json:"has_recipe_start"`
	HasContinuation    bool     `json:"has_recipe_continuation"`
	RecipeNamesVisible []string `json:"recipe_names_visible"`
	PageNumbers        []int    `json:"page_numbers"`
	TotalPages         int      `json:"total_pages"`
	Confidence         string   `json:"confidence"`
}

// Classify asks the model what this page is. It never returns an error for
// a malformed reply: any failure degrades to the safe default verdict, so
// one bad page cannot stop a folder run.
func (c *Classifier) Classify(ctx context.Context, image llm.ImageAttachment, file string) entity.Classification {
	result := entity.Classification{
		Type:               constants.PageOther,
		RecipeNamesVisible: []string{},
		PageNumbers:        []int{},
		Confidence:         constants.ConfidenceLow,
	}

	reply, err := c.gateway.Query(ctx, llm.QueryRequest{
		Prompt:    classificationPrompt,
		Images:    []llm.ImageAttachment{image},
		ForceJSON: true,
	})
	if err != nil {
		c.logger.Warn("classify.query_error", "file", file, "error", err)
		return result
	}

	obj, err := llm.ExtractJSONObjectBytes(reply)
	if err != nil {
		c.logger.Warn("classify.parse_error", "file", file, "error", err)
		return fallbackFromText(reply, result)
	}
	if err := llm.ValidateClassification(obj); err != nil {
		c.logger.Warn("classify.schema_error", "file", file, "error", err)
		return fallbackFromText(reply, result)
	}
	var raw rawClassification
	if err := json.Unmarshal(obj, &raw); err != nil {
		c.logger.Warn("classify.parse_error", "file", file, "error", err)
		return fallbackFromText(reply, result)
	}

	if raw.Type != "" {
		result.Type, _ = constants.ParsePageType(raw.Type)
	}
	result.HasRecipeStart = raw.HasRecipeStart
	result.HasContinuation = raw.HasContinuation
	if raw.RecipeNamesVisible != nil {
		result.RecipeNamesVisible = raw.RecipeNamesVisible
	}
	if raw.PageNumbers != nil {
		result.PageNumbers = raw.PageNumbers
	}
	result.TotalPages = raw.TotalPages
	if raw.Confidence != "" {
		result.Confidence = constants.ParseConfidence(raw.Confidence)
	}
	return result
}

// fallbackFromText scans a non-JSON reply for type keywords so a chatty
// model still yields a usable verdict.
func fallbackFromText(reply string, result entity.Classification) entity.Classification {
	lower := strings.ToLower(reply)
	switch {
	case strings.Contains(lower, "chapter"):
		result.Type = constants.PageChapter
	case strings.Contains(lower, "recipe"):
		result.Type = constants.PageRecipe
	case strings.Contains(lower, "article"):
		result.Type = constants.PageArticle
	case strings.Contains(lower, "photo"):
		result.Type = constants.PagePhoto
	}
	return result
}
