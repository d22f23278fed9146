package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/llm"
)

// scriptedGateway replays canned replies, one per Query call.
type scriptedGateway struct {
	replies []string
	calls   int
	prompts []string
}

func (s *scriptedGateway) Query(_ context.Context, req llm.QueryRequest) (string, error) {
	s.prompts = append(s.prompts, req.Prompt)
	reply := ""
	if s.calls < len(s.replies) {
		reply = s.replies[s.calls]
	}
	s.calls++
	return reply, nil
}

func TestExtractFirstAttemptSatisfiesExpectedCount(t *testing.T) {
	gw := &scriptedGateway{replies: []string{
		`{"recipes": [{"name": "Lemon Chicken", "ingredients": ["chicken"], "instructions": ["Roast."], "is_complete": true}]}`,
	}}
	e := NewRecipeExtractor(gw, nil)

	result := e.Extract(context.Background(), Request{
		File: "page_042.jpg",
		Classification: entity.Classification{
			RecipeNamesVisible: []string{"Lemon Chicken"},
		},
		MaxRetries: 2,
	})

	if gw.calls != 1 {
		t.Fatalf("expected early stop after 1 call, got %d", gw.calls)
	}
	if len(result.Recipes) != 1 || result.Recipes[0].Name != "Lemon Chicken" {
		t.Fatalf("got %+v", result.Recipes)
	}
	if result.Attempt != 1 {
		t.Fatalf("expected attempt 1, got %d", result.Attempt)
	}
}

func TestExtractLaterAttemptReplacesOnlyWithMore(t *testing.T) {
	one := `{"recipes": [{"name": "Herb Rice", "ingredients": ["rice"], "instructions": ["Boil."], "is_complete": true}]}`
	two := `{"recipes": [
		{"name": "Herb Rice", "ingredients": ["rice"], "instructions": ["Boil."], "is_complete": true},
		{"name": "Green Salad", "ingredients": ["lettuce"], "instructions": ["Toss."], "is_complete": true}
	]}`
	gw := &scriptedGateway{replies: []string{one, two}}
	e := NewRecipeExtractor(gw, nil)

	result := e.Extract(context.Background(), Request{
		File: "page_080.jpg",
		Classification: entity.Classification{
			RecipeNamesVisible: []string{"Herb Rice", "Green Salad"},
		},
		MaxRetries: 2,
	})

	if gw.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", gw.calls)
	}
	if len(result.Recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(result.Recipes))
	}
	if result.Attempt != 2 {
		t.Fatalf("expected attempt 2, got %d", result.Attempt)
	}
}

func TestExtractKeepsBestWhenLaterAttemptFindsFewer(t *testing.T) {
	two := `{"recipes": [
		{"name": "Herb Rice", "ingredients": ["rice"], "instructions": ["Boil."], "is_complete": true},
		{"name": "Green Salad", "ingredients": ["lettuce"], "instructions": ["Toss."], "is_complete": true}
	]}`
	one := `{"recipes": [{"name": "Herb Rice", "ingredients": ["rice"], "instructions": ["Boil."], "is_complete": true}]}`
	gw := &scriptedGateway{replies: []string{two, one, one}}
	e := NewRecipeExtractor(gw, nil)

	result := e.Extract(context.Background(), Request{
		File: "page_081.jpg",
		Classification: entity.Classification{
			RecipeNamesVisible: []string{"A", "B", "C"},
		},
		MaxRetries: 2,
	})

	if len(result.Recipes) != 2 {
		t.Fatalf("best attempt should be kept, got %d recipes", len(result.Recipes))
	}
}

func TestExtractContinuationMergesIntoPending(t *testing.T) {
	gw := &scriptedGateway{replies: []string{
		`{"recipes": [{"name": "Beef Stew", "is_continuation": true, "instructions": ["Simmer 2 hours."], "is_complete": true}]}`,
	}}
	e := NewRecipeExtractor(gw, nil)

	pending := entity.Recipe{
		Name:         "Beef Stew",
		Ingredients:  []string{"beef"},
		Instructions: []string{"Brown the beef."},
		SourceImage:  "page_050.jpg",
	}
	result := e.Extract(context.Background(), Request{
		File:    "page_051.jpg",
		Pending: &pending,
		Classification: entity.Classification{
			HasContinuation:    true,
			RecipeNamesVisible: []string{"Beef Stew"},
		},
		MaxRetries: 2,
	})

	if len(result.Recipes) != 1 {
		t.Fatalf("expected merged complete recipe, got %d", len(result.Recipes))
	}
	got := result.Recipes[0]
	if len(got.Instructions) != 2 {
		t.Fatalf("expected merged instructions, got %v", got.Instructions)
	}
	if got.IsContinuation {
		t.Fatal("merged recipe should not stay a continuation")
	}
}

func TestExtractOrphanContinuationKeptWithNote(t *testing.T) {
	gw := &scriptedGateway{replies: []string{
		`{"recipes": [{"name": "Mystery Bake", "is_continuation": true, "ingredients": ["flour"], "instructions": ["Bake."], "is_complete": true}]}`,
	}}
	e := NewRecipeExtractor(gw, nil)

	result := e.Extract(context.Background(), Request{
		File: "page_060.jpg",
		Classification: entity.Classification{
			RecipeNamesVisible: []string{"Mystery Bake"},
		},
		MaxRetries: 0,
	})

	if len(result.Recipes) != 1 {
		t.Fatalf("expected 1 recipe, got %d", len(result.Recipes))
	}
	got := result.Recipes[0]
	if got.Note != "Detected as continuation but no previous page context" {
		t.Fatalf("unexpected note %q", got.Note)
	}
	if got.IsContinuation {
		t.Fatal("orphan continuation flag should be cleared")
	}
}

func TestExtractIncompleteRecipeReturnedAsPartial(t *testing.T) {
	gw := &scriptedGateway{replies: []string{
		`{"recipes": [{"name": "Lasagna", "ingredients": ["pasta", "ragu"], "is_complete": false}]}`,
		``,
		``,
	}}
	e := NewRecipeExtractor(gw, nil)

	result := e.Extract(context.Background(), Request{
		File: "page_090.jpg",
		Classification: entity.Classification{
			RecipeNamesVisible: []string{"Lasagna"},
		},
		MaxRetries: 2,
	})

	if result.Partial == nil {
		t.Fatal("expected a partial recipe")
	}
	if result.Partial.Name != "Lasagna" {
		t.Fatalf("got %q", result.Partial.Name)
	}
	if len(result.Recipes) != 0 {
		t.Fatalf("expected no complete recipes, got %d", len(result.Recipes))
	}
	if gw.calls != 1 {
		t.Fatalf("a found partial satisfies the expected count, got %d calls", gw.calls)
	}
}

func TestExtractZeroYieldRunsEnhancedPass(t *testing.T) {
	gw := &scriptedGateway{replies: []string{
		`not json at all`,
		`still nothing`,
		`nope`,
		`{"recipes": [{"name": "Glazed Carrots", "ingredients": ["carrots"], "instructions": ["Glaze."], "is_complete": true}]}`,
	}}
	e := NewRecipeExtractor(gw, nil)
	e.enhancer = func(path string) (llm.ImageAttachment, func(), error) {
		return llm.ImageAttachment{MediaType: "image/png"}, func() {}, nil
	}

	result := e.Extract(context.Background(), Request{
		Path: "/book/page_100.jpg",
		File: "page_100.jpg",
		Classification: entity.Classification{
			RecipeNamesVisible: []string{"Glazed Carrots"},
		},
		MaxRetries: 2,
	})

	if len(result.Recipes) != 1 {
		t.Fatalf("expected enhanced pass to recover the recipe, got %d", len(result.Recipes))
	}
	if !result.Recipes[0].Preprocessed {
		t.Fatal("enhanced-pass recipes must be marked preprocessed")
	}
	if result.Attempt != 0 {
		t.Fatalf("enhanced pass reports attempt 0, got %d", result.Attempt)
	}
}

func TestExtractChapterContextStampsRecipes(t *testing.T) {
	gw := &scriptedGateway{replies: []string{
		`{"recipes": [{"name": "Porridge", "ingredients": ["oats"], "instructions": ["Simmer."], "is_complete": true}]}`,
	}}
	e := NewRecipeExtractor(gw, nil)

	result := e.Extract(context.Background(), Request{
		File:    "page_020.jpg",
		Chapter: &entity.Chapter{ChapterNumber: "2", ChapterTitle: "Breakfasts"},
		Classification: entity.Classification{
			RecipeNamesVisible: []string{"Porridge"},
		},
	})

	if len(result.Recipes) != 1 {
		t.Fatalf("expected 1 recipe, got %d", len(result.Recipes))
	}
	if result.Recipes[0].Chapter != "Breakfasts" || result.Recipes[0].ChapterNumber != "2" {
		t.Fatalf("chapter context missing: %+v", result.Recipes[0])
	}
	if len(gw.prompts) == 0 || !strings.Contains(gw.prompts[0], "Breakfasts") {
		t.Fatal("chapter context should appear in the prompt")
	}
}

func TestExtractEmbeddedSubRecipeStaysNested(t *testing.T) {
	gw := &scriptedGateway{replies: []string{
		`{"recipes": [{
			"name": "Cobb Salad",
			"dish_role": "main",
			"ingredients": ["lettuce", "chicken"],
			"instructions": ["Assemble."],
			"sub_recipes": [{"name": "Ranch Dressing", "ingredients": ["buttermilk"], "instructions": ["Whisk."]}],
			"is_complete": true
		}]}`,
	}}
	e := NewRecipeExtractor(gw, nil)

	result := e.Extract(context.Background(), Request{
		File: "page_030.jpg",
		Classification: entity.Classification{
			RecipeNamesVisible: []string{"Cobb Salad"},
		},
	})

	if len(result.Recipes) != 1 {
		t.Fatalf("the dressing must not become a top-level recipe, got %d", len(result.Recipes))
	}
	got := result.Recipes[0]
	if len(got.SubRecipes) != 1 || got.SubRecipes[0].Name != "Ranch Dressing" {
		t.Fatalf("sub-recipes = %+v", got.SubRecipes)
	}
}

func TestExtractSchemaFailureAdvancesLadder(t *testing.T) {
	gw := &scriptedGateway{replies: []string{
		`{"recipes": [{"title": "Lemon Chicken"}]}`,
		`{"recipes": [{"name": "Lemon Chicken", "ingredients": ["chicken"], "instructions": ["Roast."], "is_complete": true}]}`,
	}}
	e := NewRecipeExtractor(gw, nil)

	result := e.Extract(context.Background(), Request{
		File: "page_042.jpg",
		Classification: entity.Classification{
			RecipeNamesVisible: []string{"Lemon Chicken"},
		},
		MaxRetries: 2,
	})

	if gw.calls != 2 {
		t.Fatalf("a reply failing the contract must not end the ladder, got %d calls", gw.calls)
	}
	if len(result.Recipes) != 1 || result.Recipes[0].Name != "Lemon Chicken" {
		t.Fatalf("got %+v", result.Recipes)
	}
	if result.Attempt != 2 {
		t.Fatalf("expected attempt 2, got %d", result.Attempt)
	}
}
