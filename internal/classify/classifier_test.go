package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/joseph-ayodele/cookbook-cataloger/constants"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/llm"
)

type fakeGateway struct {
	reply string
	err   error
}

func (f *fakeGateway) Query(_ context.Context, _ llm.QueryRequest) (string, error) {
	return f.reply, f.err
}

func TestClassifyValidReply(t *testing.T) {
	gw := &fakeGateway{reply: `{
		"type": "recipe",
		"has_recipe_start": true,
		"has_recipe_continuation": false,
		"recipe_names_visible": ["Lemon Chicken", "Herb Rice"],
		"page_numbers": [42, 43],
		"total_pages": 208,
		"confidence": "high"
	}`}

	c := NewClassifier(gw, nil)
	got := c.Classify(context.Background(), llm.ImageAttachment{}, "page_042.jpg")

	if got.Type != constants.PageRecipe {
		t.Fatalf("expected recipe, got %s", got.Type)
	}
	if !got.HasRecipeStart {
		t.Fatal("expected has_recipe_start")
	}
	if len(got.RecipeNamesVisible) != 2 {
		t.Fatalf("expected 2 visible names, got %d", len(got.RecipeNamesVisible))
	}
	if got.Confidence != constants.ConfidenceHigh {
		t.Fatalf("expected high confidence, got %s", got.Confidence)
	}
	if got.TotalPages != 208 {
		t.Fatalf("expected total pages 208, got %d", got.TotalPages)
	}
}

func TestClassifyQueryErrorDefaultsToOtherLow(t *testing.T) {
	gw := &fakeGateway{err: errors.New("connection refused")}

	c := NewClassifier(gw, nil)
	got := c.Classify(context.Background(), llm.ImageAttachment{}, "page_001.jpg")

	if got.Type != constants.PageOther {
		t.Fatalf("expected other, got %s", got.Type)
	}
	if got.Confidence != constants.ConfidenceLow {
		t.Fatalf("expected low confidence, got %s", got.Confidence)
	}
	if got.RecipeNamesVisible == nil || got.PageNumbers == nil {
		t.Fatal("expected empty slices, not nil")
	}
}

func TestClassifyTextFallbackFindsChapter(t *testing.T) {
	gw := &fakeGateway{reply: "This looks like a chapter opener listing several recipes."}

	c := NewClassifier(gw, nil)
	got := c.Classify(context.Background(), llm.ImageAttachment{}, "page_010.jpg")

	if got.Type != constants.PageChapter {
		t.Fatalf("expected chapter from text fallback, got %s", got.Type)
	}
	if got.Confidence != constants.ConfidenceLow {
		t.Fatalf("fallback verdicts stay low confidence, got %s", got.Confidence)
	}
}

func TestClassifyTextFallbackPrefersChapterOverRecipe(t *testing.T) {
	gw := &fakeGateway{reply: "A chapter page, though it does mention recipe names."}

	c := NewClassifier(gw, nil)
	got := c.Classify(context.Background(), llm.ImageAttachment{}, "page_011.jpg")

	if got.Type != constants.PageChapter {
		t.Fatalf("expected chapter to win, got %s", got.Type)
	}
}

func TestClassifyUnknownTypeDefaultsToOther(t *testing.T) {
	gw := &fakeGateway{reply: `{"type": "advertisement", "confidence": "medium"}`}

	c := NewClassifier(gw, nil)
	got := c.Classify(context.Background(), llm.ImageAttachment{}, "page_012.jpg")

	if got.Type != constants.PageOther {
		t.Fatalf("expected other for unknown type label, got %s", got.Type)
	}
	if got.Confidence != constants.ConfidenceMedium {
		t.Fatalf("expected medium confidence, got %s", got.Confidence)
	}
}

func TestClassifyNullTotalPagesKeepsContinuation(t *testing.T) {
	gw := &fakeGateway{reply: `{
		"type": "recipe_partial",
		"has_recipe_start": false,
		"has_recipe_continuation": true,
		"recipe_names_visible": ["Beef Stew"],
		"page_numbers": [71],
		"total_pages": null,
		"confidence": "high"
	}`}

	c := NewClassifier(gw, nil)
	got := c.Classify(context.Background(), llm.ImageAttachment{}, "page_071.jpg")

	if got.Type != constants.PageRecipePartial {
		t.Fatalf("expected recipe_partial, got %s", got.Type)
	}
	if !got.HasContinuation {
		t.Fatal("continuation flag must survive a null total_pages")
	}
	if got.Confidence != constants.ConfidenceHigh {
		t.Fatalf("expected high confidence, got %s", got.Confidence)
	}
	if len(got.RecipeNamesVisible) != 1 || got.RecipeNamesVisible[0] != "Beef Stew" {
		t.Fatalf("visible names = %v", got.RecipeNamesVisible)
	}
	if got.TotalPages != 0 {
		t.Fatalf("null total pages should stay zero, got %d", got.TotalPages)
	}
}

func TestClassifyProseWrappedReplyKeepsFields(t *testing.T) {
	gw := &fakeGateway{reply: `Here is my analysis of the page:
{
	"type": "recipe_partial",
	"has_recipe_start": false,
	"has_recipe_continuation": true,
	"recipe_names_visible": ["Lasagna"],
	"page_numbers": [],
	"total_pages": 208,
	"confidence": "medium"
}
Let me know if you need anything else.`}

	c := NewClassifier(gw, nil)
	got := c.Classify(context.Background(), llm.ImageAttachment{}, "page_070.jpg")

	if got.Type != constants.PageRecipePartial {
		t.Fatalf("prose wrapping must not downgrade the verdict, got %s", got.Type)
	}
	if !got.HasContinuation {
		t.Fatal("continuation flag lost on a prose-wrapped reply")
	}
	if got.Confidence != constants.ConfidenceMedium {
		t.Fatalf("expected medium confidence, got %s", got.Confidence)
	}
}
