package extract

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/llm"
)

// PartialExtractor handles pages that only continue an in-flight recipe.
type PartialExtractor struct {
	gateway llm.Gateway
	logger  *slog.Logger
}

func NewPartialExtractor(gateway llm.Gateway, logger *slog.Logger) *PartialExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PartialExtractor{gateway: gateway, logger: logger}
}

type rawContinuation struct {
	AdditionalIngredients  []string `json:"additional_ingredients"`
	AdditionalInstructions []string `json:"additional_instructions"`
	AdditionalTips         []string `json:"additional_tips"`
	NutritionPerServing    string   `json:"nutrition_per_serving"`
	IsComplete             *bool    `json:"is_complete"`
}

// Continue appends this page's continuation content onto the pending recipe
// and returns the updated recipe. A failed query or parse leaves the pending
// recipe untouched so it can still be finalized later.
func (e *PartialExtractor) Continue(ctx context.Context, image llm.ImageAttachment, file string, pending entity.Recipe) entity.Recipe {
	reply, err := e.gateway.Query(ctx, llm.QueryRequest{
		Prompt:    partialPrompt(pending.Name),
		Images:    []llm.ImageAttachment{image},
		ForceJSON: true,
	})
	if err != nil {
		e.logger.Warn("extract.partial.query_error", "file", file, "recipe", pending.Name, "error", err)
		return pending
	}

	var parsed rawContinuation
	if err := llm.ExtractJSONObject(reply, &parsed); err != nil {
		e.logger.Warn("extract.partial.parse_error", "file", file, "recipe", pending.Name, "error", err)
		return pending
	}

	pending.Ingredients = append(pending.Ingredients, parsed.AdditionalIngredients...)
	pending.Instructions = append(pending.Instructions, parsed.AdditionalInstructions...)
	pending.Tips = append(pending.Tips, parsed.AdditionalTips...)
	if parsed.NutritionPerServing != "" {
		pending.NutritionFull = parsed.NutritionPerServing
	}
	pending.IsComplete = true
	if parsed.IsComplete != nil {
		pending.IsComplete = *parsed.IsComplete
	}

	if len(pending.SourceImages) == 0 && pending.SourceImage != "" {
		pending.SourceImages = []string{pending.SourceImage}
	}
	if file != "" {
		pending.SourceImages = append(pending.SourceImages, file)
	}
	return pending
}
