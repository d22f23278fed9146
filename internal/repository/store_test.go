package repository

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/common"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
)

func TestCatalogStoreSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	store := NewCatalogStore(path, nil)

	cat := entity.NewCatalog("/book", "llava", 3)
	cat.Recipes = []entity.Recipe{
		{Name: "Lemon Chicken", Ingredients: []string{"chicken"}, Instructions: []string{"Roast."}, IsComplete: true},
	}
	cat.Chapters = []entity.Chapter{{ChapterTitle: "Mains", RecipeList: []string{"Lemon Chicken"}}}

	if err := store.Save(cat); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !store.Exists() {
		t.Fatal("catalog file should exist after save")
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Metadata.SourceFolder != "/book" || got.Metadata.ModelUsed != "llava" {
		t.Fatalf("metadata = %+v", got.Metadata)
	}
	if len(got.Recipes) != 1 || got.Recipes[0].Name != "Lemon Chicken" {
		t.Fatalf("recipes = %+v", got.Recipes)
	}
	if len(got.Chapters) != 1 {
		t.Fatalf("chapters = %+v", got.Chapters)
	}
}

func TestCatalogStoreLoadMissingFile(t *testing.T) {
	store := NewCatalogStore(filepath.Join(t.TempDir(), "missing.json"), nil)
	if store.Exists() {
		t.Fatal("file should not exist")
	}
	_, err := store.Load()
	if err == nil {
		t.Fatal("expected an error for a missing catalog")
	}
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestCatalogStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	store := NewCatalogStore(path, nil)

	first := entity.NewCatalog("/book", "llava", 1)
	if err := store.Save(first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := entity.NewCatalog("/book", "llava", 1)
	second.Recipes = []entity.Recipe{{Name: "Toast"}}
	if err := store.Save(second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Recipes) != 1 || got.Recipes[0].Name != "Toast" {
		t.Fatalf("expected the newer catalog, got %+v", got.Recipes)
	}
}
