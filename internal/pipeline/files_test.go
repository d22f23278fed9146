package pipeline

import (
	"context"
	"testing"

	"github.com/joseph-ayodele/cookbook-cataloger/constants"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/extract"
)

func TestProcessFilesContinuationPageUsesPartialExtractor(t *testing.T) {
	dir := t.TempDir()
	paths := writeTestImages(t, dir, "p1.jpg", "p2.jpg")

	partial := entity.Recipe{Name: "Beef Stew", Ingredients: []string{"beef"}}
	classifier := &fakeClassifier{verdicts: map[string]entity.Classification{
		"p1.jpg": recipePage("Beef Stew"),
		"p2.jpg": {
			Type:            constants.PageRecipePartial,
			HasContinuation: true,
			Confidence:      constants.ConfidenceHigh,
		},
	}}
	recipes := &fakeRecipes{results: map[string]extract.Result{
		"p1.jpg": {Partial: &partial},
	}}
	partials := &fakePartials{result: entity.Recipe{
		Name:         "Beef Stew",
		Ingredients:  []string{"beef"},
		Instructions: []string{"Simmer."},
		IsComplete:   true,
	}}

	r := NewRunner(RunnerParams{
		Classifier: classifier,
		Chapters:   &fakeChapters{},
		Recipes:    recipes,
		Partials:   partials,
		Loader:     fakeLoader,
	})

	out, err := r.ProcessFiles(context.Background(), paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(partials.seen) != 1 || partials.seen[0].Name != "Beef Stew" {
		t.Fatalf("partial extractor should get the pending recipe, saw %+v", partials.seen)
	}
	if len(out.Recipes) != 1 || !out.Recipes[0].IsComplete {
		t.Fatalf("recipes = %+v", out.Recipes)
	}
	if out.Recipes[0].SourceImage != "p2.jpg" {
		t.Fatalf("completed recipe keeps the finishing page as source, got %q", out.Recipes[0].SourceImage)
	}
}

func TestProcessFilesNewRecipeOnContinuationPageGoesToExtractor(t *testing.T) {
	dir := t.TempDir()
	paths := writeTestImages(t, dir, "p1.jpg", "p2.jpg")

	partial := entity.Recipe{Name: "Beef Stew", Ingredients: []string{"beef"}}
	classifier := &fakeClassifier{verdicts: map[string]entity.Classification{
		"p1.jpg": recipePage("Beef Stew"),
		// The page continues one recipe and starts another, so the full
		// extractor must handle it, not the continuation path.
		"p2.jpg": {
			Type:               constants.PageRecipe,
			HasContinuation:    true,
			HasRecipeStart:     true,
			RecipeNamesVisible: []string{"Herb Rice"},
			Confidence:         constants.ConfidenceHigh,
		},
	}}
	recipes := &fakeRecipes{results: map[string]extract.Result{
		"p1.jpg": {Partial: &partial},
		"p2.jpg": {Recipes: []entity.Recipe{
			{Name: "Beef Stew", Ingredients: []string{"beef"}, Instructions: []string{"Simmer."}, IsComplete: true},
			{Name: "Herb Rice", Ingredients: []string{"rice"}, Instructions: []string{"Boil."}, IsComplete: true},
		}},
	}}
	partials := &fakePartials{}

	r := NewRunner(RunnerParams{
		Classifier: classifier,
		Chapters:   &fakeChapters{},
		Recipes:    recipes,
		Partials:   partials,
		Loader:     fakeLoader,
	})

	out, err := r.ProcessFiles(context.Background(), paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(partials.seen) != 0 {
		t.Fatal("mixed pages must not take the continuation-only path")
	}
	if recipes.pendingSeen["p2.jpg"] == nil {
		t.Fatal("extractor should still see the pending recipe")
	}
	if len(out.Recipes) != 2 {
		t.Fatalf("recipes = %+v", out.Recipes)
	}
}

func TestProcessFilesFinalPartialWithBodySaved(t *testing.T) {
	dir := t.TempDir()
	paths := writeTestImages(t, dir, "p1.jpg")

	partial := entity.Recipe{
		Name:         "Lasagna",
		Ingredients:  []string{"pasta"},
		Instructions: []string{"Layer."},
		IsComplete:   false,
	}
	classifier := &fakeClassifier{verdicts: map[string]entity.Classification{
		"p1.jpg": recipePage("Lasagna"),
	}}
	recipes := &fakeRecipes{results: map[string]extract.Result{
		"p1.jpg": {Partial: &partial},
	}}

	r := NewRunner(RunnerParams{
		Classifier: classifier,
		Chapters:   &fakeChapters{},
		Recipes:    recipes,
		Partials:   &fakePartials{},
		Loader:     fakeLoader,
	})

	out, err := r.ProcessFiles(context.Background(), paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Recipes) != 1 {
		t.Fatalf("recipes = %+v", out.Recipes)
	}
	got := out.Recipes[0]
	if !got.IsComplete {
		t.Fatal("a partial with a full body is promoted to complete")
	}
}

func TestProcessFilesBodylessFinalPartialDropped(t *testing.T) {
	dir := t.TempDir()
	paths := writeTestImages(t, dir, "p1.jpg")

	partial := entity.Recipe{Name: "Lasagna", Ingredients: []string{"pasta"}}
	classifier := &fakeClassifier{verdicts: map[string]entity.Classification{
		"p1.jpg": recipePage("Lasagna"),
	}}
	recipes := &fakeRecipes{results: map[string]extract.Result{
		"p1.jpg": {Partial: &partial},
	}}

	r := NewRunner(RunnerParams{
		Classifier: classifier,
		Chapters:   &fakeChapters{},
		Recipes:    recipes,
		Partials:   &fakePartials{},
		Loader:     fakeLoader,
	})

	out, err := r.ProcessFiles(context.Background(), paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Recipes) != 0 {
		t.Fatalf("bodyless partial must be dropped, got %+v", out.Recipes)
	}
}

func TestProcessFilesMissingFileErrorsUpFront(t *testing.T) {
	dir := t.TempDir()
	paths := writeTestImages(t, dir, "p1.jpg")
	paths = append(paths, dir+"/does-not-exist.jpg")

	r := NewRunner(RunnerParams{
		Classifier: &fakeClassifier{},
		Chapters:   &fakeChapters{},
		Recipes:    &fakeRecipes{},
		Partials:   &fakePartials{},
		Loader:     fakeLoader,
	})

	if _, err := r.ProcessFiles(context.Background(), paths); err == nil {
		t.Fatal("expected missing-file error before any extraction")
	}
}
