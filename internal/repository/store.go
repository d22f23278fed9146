package repository

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/common"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
)

// CatalogStore persists one catalog as a JSON document. The file is the
// source of truth; everything else is derived from or mirrors it.
type CatalogStore struct {
	path   string
	logger *slog.Logger
}

func NewCatalogStore(path string, logger *slog.Logger) *CatalogStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *CatalogStore) Path() string { return s.path }

// Exists reports whether a catalog file is already present.
func (s *CatalogStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and decodes the catalog file.
func (s *CatalogStore) Load() (*entity.Catalog, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.NewAppError(common.CodeNotFound, "catalog file not found: "+s.path, common.ErrNotFound)
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var cat entity.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", s.path, err)
	}
	s.logger.Info("repository.catalog.loaded",
		"path", s.path,
		"recipes", len(cat.Recipes),
		"chapters", len(cat.Chapters),
	)
	return &cat, nil
}

// Save writes the catalog atomically: encode to a temp file in the same
// directory, then rename over the target. A crash mid-write never leaves a
// half-written catalog behind.
func (s *CatalogStore) Save(cat *entity.Catalog) error {
	raw, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close catalog: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace catalog: %w", err)
	}

	s.logger.Info("repository.catalog.saved",
		"path", s.path,
		"bytes", len(raw),
		"recipes", len(cat.Recipes),
	)
	return nil
}
