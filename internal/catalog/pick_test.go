package catalog

import (
	"testing"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
)

func pickFixture() *entity.Catalog {
	cat := entity.NewCatalog("/book", "llava", 0)
	cat.Recipes = []entity.Recipe{
		{Name: "Lemon Chicken", Chapter: "Mains", DietaryInfo: []string{"gluten-free"}, Protein: "42g"},
		{Name: "Beef Stew", Chapter: "Mains", Protein: "45g"},
		{Name: "Apple Crumble", Chapter: "Desserts", DietaryInfo: []string{"gluten-free"}},
	}
	cat.Index = BuildIndex(cat)
	return cat
}

func TestRandomRecipeNoFiltersReturnsSomething(t *testing.T) {
	cat := pickFixture()
	got, err := RandomRecipe(cat, PickFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name == "" {
		t.Fatal("picked an empty recipe")
	}
}

func TestRandomRecipeChapterFilter(t *testing.T) {
	cat := pickFixture()
	for i := 0; i < 20; i++ {
		got, err := RandomRecipe(cat, PickFilters{Chapter: "Desserts"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "Apple Crumble" {
			t.Fatalf("expected the only dessert, got %q", got.Name)
		}
	}
}

func TestRandomRecipeIntersectsFilters(t *testing.T) {
	cat := pickFixture()
	got, err := RandomRecipe(cat, PickFilters{Chapter: "Mains", Dietary: "Gluten-Free", Macro: "high_protein"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Lemon Chicken" {
		t.Fatalf("expected the intersection's only member, got %q", got.Name)
	}
}

func TestRandomRecipeEmptyIntersectionErrors(t *testing.T) {
	cat := pickFixture()
	if _, err := RandomRecipe(cat, PickFilters{Chapter: "Desserts", Macro: "high_protein"}); err == nil {
		t.Fatal("expected no-match error")
	}
}

func TestRandomRecipeNoIndexErrors(t *testing.T) {
	cat := entity.NewCatalog("/book", "llava", 0)
	if _, err := RandomRecipe(cat, PickFilters{}); err == nil {
		t.Fatal("expected error for a catalog without an index")
	}
}
