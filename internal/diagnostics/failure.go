package diagnostics

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/llm"
)

// VisibleRecipe is the model's account of one recipe it can see on a page.
type VisibleRecipe struct {
	Name                        string `json:"name"`
	IsComplete                  bool   `json:"is_complete"`
	HasContinuationFromPrevious bool   `json:"has_continuation_from_previous"`
	ContinuesToNextPage         bool   `json:"continues_to_next_page"`
	IngredientCount             int    `json:"ingredient_count"`
	InstructionCount            int    `json:"instruction_count"`
	Notes                       string `json:"notes"`
}

// FailureDiagnosis is the model's explanation of why extraction fell short.
type FailureDiagnosis struct {
	RecipesVisible           []VisibleRecipe `json:"recipes_visible"`
	FailureReasons           []string        `json:"failure_reasons"`
	ContinuationTextAtTop    string          `json:"continuation_text_at_top"`
	LayoutDescription        string          `json:"layout_description"`
	Recommendations          []string        `json:"recommendations"`
	CorrectExtractionSummary string          `json:"correct_extraction_summary"`

	Error       string `json:"error,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
}

// DiagnoseFailure asks the model to explain why a page that classified as a
// recipe page produced too few recipes. Debug tooling; never on the hot path.
func DiagnoseFailure(ctx context.Context, gateway llm.Gateway, image llm.ImageAttachment, classification entity.Classification, extracted []string, logger *slog.Logger) FailureDiagnosis {
	if logger == nil {
		logger = slog.Default()
	}

	prompt := fmt.Sprintf(`
CONTEXT: Our recipe extraction pipeline detected a recipe page but failed to properly extract the recipe(s).

CLASSIFICATION RESULT:
- Page type: %s
- Recipes visible: [%s]
- Has recipe start: %t
- Has continuation: %t

EXTRACTION RESULT:
- Complete recipes extracted: %d
- Recipe names found: [%s]

THE PROBLEM: We detected recipe(s) but extracted %d complete recipe(s).

Please analyze this cookbook page image and help diagnose the extraction failure:

1. WHAT RECIPES ARE VISIBLE?
   - List all recipe titles/names you can see
   - For each: is it complete (has title, ingredients, AND instructions) or partial?

2. WHY MIGHT EXTRACTION HAVE FAILED?
   - Is there text from a PREVIOUS recipe continuing at the top? (e.g., step "5." before any title)
   - Are there multiple recipes side-by-side that might have been missed?
   - Is the layout unusual in any way?
   - Are ingredients or instructions cut off?

3. WHAT SHOULD THE CORRECT EXTRACTION BE?
   - For each complete recipe visible, provide name, ingredient count, instruction count, and any special notes

4. RECOMMENDATIONS:
   - What specific changes to our prompts or logic might help?
   - Are there edge cases we're not handling?

Respond in JSON format:
{
    "recipes_visible": [
        {
            "name": "recipe name",
            "is_complete": true/false,
            "has_continuation_from_previous": true/false,
            "continues_to_next_page": true/false,
            "ingredient_count": number,
            "instruction_count": number,
            "notes": "any observations"
        }
    ],
    "failure_reasons": ["list of likely reasons extraction failed"],
    "continuation_text_at_top": "any text that appears to continue from previous page, or null",
    "layout_description": "description of the page layout",
    "recommendations": ["list of specific recommendations to fix extraction"],
    "correct_extraction_summary": "what the extraction SHOULD have returned"
}
`,
		classification.Type,
		strings.Join(classification.RecipeNamesVisible, ", "),
		classification.HasRecipeStart,
		classification.HasContinuation,
		len(extracted),
		strings.Join(extracted, ", "),
		len(extracted),
	)

	reply, err := gateway.Query(ctx, llm.QueryRequest{
		Prompt: prompt,
		Images: []llm.ImageAttachment{image},
	})
	if err != nil {
		logger.Warn("diagnostics.failure.query_error", "error", err)
		return FailureDiagnosis{Error: "Failed to get diagnostic response"}
	}

	var diagnosis FailureDiagnosis
	if err := llm.ExtractJSONObject(reply, &diagnosis); err != nil {
		logger.Warn("diagnostics.failure.parse_error", "error", err)
		return FailureDiagnosis{
			Error:       "Failed to parse diagnostic response",
			RawResponse: truncate(reply, 1000),
		}
	}
	return diagnosis
}
