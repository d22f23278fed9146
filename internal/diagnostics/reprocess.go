package diagnostics

import (
	"context"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/catalog"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/pipeline"
)

// ReprocessOptions tune a reprocessing run.
type ReprocessOptions struct {
	// IncludeLowConfidence also reprocesses pages the classifier was merely
	// unsure about. They may turn out to be non-recipe pages.
	IncludeLowConfidence bool

	// DryRun plans the work without touching the model or the catalog.
	DryRun bool
}

// ReprocessResult reports what a run did (or, dry, would do).
type ReprocessResult struct {
	Planned  []FileIssue `json:"planned"`
	Skipped  []string    `json:"skipped,omitempty"`
	Added    int         `json:"added"`
	Updated  int         `json:"updated"`
	Merged   int         `json:"merged"`
	DryRun   bool        `json:"dry_run"`
}

// Reprocess runs the extraction pipeline again over the pages an analysis
// flagged, upserting whatever they yield into the catalog. The whole run
// happens in-process; nothing shells out.
func Reprocess(ctx context.Context, a *Analysis, runner *pipeline.Runner, cat *entity.Catalog, opts ReprocessOptions, logger *slog.Logger) (*ReprocessResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	targets := append([]FileIssue{}, a.FailedFiles...)
	targets = append(targets, a.PartialOnly...)
	if opts.IncludeLowConfidence {
		seen := make(map[string]struct{}, len(targets))
		for _, t := range targets {
			seen[t.File] = struct{}{}
		}
		for _, t := range a.LowConfidence {
			if _, dup := seen[t.File]; !dup {
				targets = append(targets, t)
			}
		}
	}

	result := &ReprocessResult{DryRun: opts.DryRun}
	if len(targets) == 0 {
		logger.Info("diagnostics.reprocess.nothing_to_do")
		return result, nil
	}

	var paths []string
	for _, t := range targets {
		if _, err := os.Stat(t.Path); err != nil {
			logger.Warn("diagnostics.reprocess.missing_file", "file", t.File)
			result.Skipped = append(result.Skipped, t.File)
			continue
		}
		result.Planned = append(result.Planned, t)
		paths = append(paths, t.Path)
	}

	if opts.DryRun {
		logger.Info("diagnostics.reprocess.dry_run", "files", len(result.Planned), "skipped", len(result.Skipped))
		return result, nil
	}
	if len(paths) == 0 {
		return result, nil
	}

	logger.Info("diagnostics.reprocess.start", "files", len(paths))
	extracted, err := runner.ProcessFiles(ctx, paths)
	if err != nil {
		return result, err
	}

	stats := catalog.UpsertRecipes(cat, extracted.Recipes, extracted.Chapters, "", logger)
	result.Added = stats.Added
	result.Updated = stats.Updated
	result.Merged = stats.Merged

	cat.ProcessingLog = append(cat.ProcessingLog, extracted.Log...)

	logger.Info("diagnostics.reprocess.done",
		"added", stats.Added,
		"updated", stats.Updated,
		"merged", stats.Merged,
	)
	return result, nil
}
