package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
)

// RelationalMirror copies a catalog into a relational database for ad-hoc
// querying. The JSON catalog stays authoritative; the mirror is rebuilt
// from it, never edited directly.
type RelationalMirror struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenMirror connects to the database the DSN names. Postgres URLs go
// through pgx; anything else is treated as a SQLite file path.
func OpenMirror(dsn string, logger *slog.Logger) (*RelationalMirror, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &RelationalMirror{db: db, logger: logger}, nil
}

func (m *RelationalMirror) Close() error {
	return m.db.Close()
}

var mirrorSchema = []string{
	`CREATE TABLE IF NOT EXISTS catalogs (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		source_folder TEXT,
		model_used TEXT,
		recipe_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS chapters (
		id INTEGER PRIMARY KEY,
		catalog_id INTEGER NOT NULL,
		chapter_number TEXT,
		chapter_title TEXT,
		recipe_list TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS recipes (
		id INTEGER PRIMARY KEY,
		catalog_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		chapter TEXT,
		chapter_number TEXT,
		meal_type TEXT,
		dish_role TEXT,
		serves TEXT,
		prep_time TEXT,
		cook_time TEXT,
		total_time TEXT,
		calories TEXT,
		protein TEXT,
		carbs TEXT,
		fat TEXT,
		nutrition_full TEXT,
		description TEXT,
		instructions TEXT,
		tips TEXT,
		sub_recipes TEXT,
		dietary_info TEXT,
		is_complete INTEGER NOT NULL DEFAULT 1,
		source_images TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS ingredients (
		id INTEGER PRIMARY KEY,
		recipe_id INTEGER NOT NULL,
		ingredient_text TEXT NOT NULL,
		sort_order INTEGER NOT NULL
	)`,
}

// Import writes the catalog into the mirror under the given name. Recipes
// without instructions are skipped: they are extraction debris, not dishes.
// Returns how many recipes landed.
func (m *RelationalMirror) Import(ctx context.Context, cat *entity.Catalog, name string) (int, error) {
	for _, stmt := range mirrorSchema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("create schema: %w", err)
		}
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO catalogs (name, source_folder, model_used, recipe_count) VALUES (?, ?, ?, ?)`,
		name, cat.Metadata.SourceFolder, cat.Metadata.ModelUsed, len(cat.Recipes))
	if err != nil {
		return 0, fmt.Errorf("insert catalog: %w", err)
	}
	catalogID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("catalog id: %w", err)
	}

	for _, ch := range cat.Chapters {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chapters (catalog_id, chapter_number, chapter_title, recipe_list) VALUES (?, ?, ?, ?)`,
			catalogID, ch.ChapterNumber, ch.ChapterTitle, jsonColumn(ch.RecipeList)); err != nil {
			return 0, fmt.Errorf("insert chapter %q: %w", ch.ChapterTitle, err)
		}
	}

	imported := 0
	for _, r := range cat.Recipes {
		if len(r.Instructions) == 0 {
			m.logger.Debug("repository.mirror.skip_empty", "recipe", r.Name)
			continue
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO recipes (
				catalog_id, name, chapter, chapter_number, meal_type, dish_role,
				serves, prep_time, cook_time, total_time,
				calories, protein, carbs, fat, nutrition_full, description,
				instructions, tips, sub_recipes, dietary_info, is_complete, source_images
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			catalogID, titleCase(r.Name), r.Chapter, r.ChapterNumber, string(r.MealType), string(r.DishRole),
			r.Serves, r.PrepTime, r.CookTime, r.TotalTime,
			r.Calories, r.Protein, r.Carbs, r.Fat, r.NutritionFull, r.Description,
			jsonColumn(r.Instructions), jsonColumn(r.Tips), jsonColumn(r.SubRecipes),
			jsonColumn(r.DietaryInfo), boolColumn(r.IsComplete), jsonColumn(r.Sources()))
		if err != nil {
			return 0, fmt.Errorf("insert recipe %q: %w", r.Name, err)
		}
		recipeID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("recipe id: %w", err)
		}

		for i, ing := range r.Ingredients {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO ingredients (recipe_id, ingredient_text, sort_order) VALUES (?, ?, ?)`,
				recipeID, ing, i); err != nil {
				return 0, fmt.Errorf("insert ingredient for %q: %w", r.Name, err)
			}
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	m.logger.Info("repository.mirror.imported",
		"catalog", name,
		"chapters", len(cat.Chapters),
		"recipes", imported,
	)
	return imported, nil
}

func jsonColumn(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func boolColumn(b bool) int {
	if b {
		return 1
	}
	return 0
}

// titleCase uppercases the first letter of each word, matching how recipe
// names are displayed.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
