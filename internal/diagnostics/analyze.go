package diagnostics

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
)

// FileIssue describes one page the pipeline did not fully harvest.
type FileIssue struct {
	File       string   `json:"file"`
	Path       string   `json:"path"`
	PageType   string   `json:"page_type"`
	Confidence string   `json:"confidence"`
	Recipes    []string `json:"recipes_extracted,omitempty"`
	Reason     string   `json:"reason"`
	Priority   string   `json:"priority,omitempty"`
	Expected   int      `json:"expected,omitempty"`
	Actual     int      `json:"actual,omitempty"`

	Entry entity.ProcessingLogEntry `json:"-"`
}

// AnalysisSummary aggregates counts for the report footer.
type AnalysisSummary struct {
	TotalFilesProcessed   int `json:"total_files_processed"`
	TotalRecipesExtracted int `json:"total_recipes_extracted"`
	FailedCount           int `json:"failed_count"`
	PartialOnlyCount      int `json:"partial_only_count"`
	LowConfidenceCount    int `json:"low_confidence_count"`
	SkippedCount          int `json:"skipped_count"`
	UnmatchedRecipeCount  int `json:"unmatched_recipe_count"`
}

// Analysis is the full failure report for one catalog.
type Analysis struct {
	SourceFolder  string                  `json:"source_folder"`
	FailedFiles   []FileIssue             `json:"failed_files"`
	PartialOnly   []FileIssue             `json:"partial_only"`
	LowConfidence []FileIssue             `json:"low_confidence"`
	SkippedFiles  []FileIssue             `json:"skipped_files"`
	Unmatched     []entity.UnmatchedEntry `json:"unmatched_recipes"`
	Summary       AnalysisSummary         `json:"summary"`
}

// AnalyzeCatalog walks the catalog's processing log and buckets every page
// by failure mode. A page lands in failed when it was probably a recipe page
// the pipeline got nothing (or too little) out of; partial-only when it
// yielded only a continuation; low-confidence when the classifier was
// unsure but nothing else is known to be wrong.
func AnalyzeCatalog(cat *entity.Catalog, sourceFolder string) *Analysis {
	if sourceFolder == "" {
		sourceFolder = cat.Metadata.SourceFolder
	}

	a := &Analysis{SourceFolder: sourceFolder}

	for _, entry := range cat.ProcessingLog {
		info := FileIssue{
			File:       entry.File,
			Path:       joinSource(sourceFolder, entry.File),
			PageType:   string(entry.PageType),
			Confidence: string(entry.Classification.Confidence),
			Recipes:    entry.RecipesExtracted,
			Entry:      entry,
		}

		failed := false
		switch {
		case entry.PageType == "other" || entry.PageType == "":
			if len(entry.Classification.RecipeNamesVisible) > 0 || entry.Classification.HasRecipeStart {
				info.Reason = "Classified as 'other' but had recipe indicators"
				info.Priority = "high"
				a.FailedFiles = append(a.FailedFiles, info)
				failed = true
			} else if entry.Classification.Confidence == "low" && entry.Classification.Type == "" {
				info.Reason = "Classification failed (possible transport error)"
				info.Priority = "medium"
				a.FailedFiles = append(a.FailedFiles, info)
				failed = true
			}

		case entry.PageType.IsRecipePage():
			actual := countReal(entry.RecipesExtracted)
			if actual == 0 {
				if entry.HasContinuation {
					info.Reason = "Recipe page with only continuation, no complete recipes"
					a.PartialOnly = append(a.PartialOnly, info)
				} else {
					info.Reason = "Recipe page but no recipes extracted"
					a.FailedFiles = append(a.FailedFiles, info)
					failed = true
				}
			}
			if expected := len(entry.Classification.RecipeNamesVisible); expected > 0 && actual < expected && !failed {
				info.Reason = fmt.Sprintf("Expected %d recipes, got %d", expected, actual)
				info.Expected = expected
				info.Actual = actual
				a.FailedFiles = append(a.FailedFiles, info)
				failed = true
			}

		case strings.Contains(strings.ToLower(entry.Status), "skipped"):
			info.Reason = entry.Status
			a.SkippedFiles = append(a.SkippedFiles, info)
		}

		if entry.Classification.Confidence == "low" && !failed {
			info.Reason = fmt.Sprintf("Low confidence %s classification", entry.PageType)
			a.LowConfidence = append(a.LowConfidence, info)
		}
	}

	if cat.Index != nil {
		a.Unmatched = cat.Index.Unmatched
	}

	a.Summary = AnalysisSummary{
		TotalFilesProcessed:   len(cat.ProcessingLog),
		TotalRecipesExtracted: len(cat.Recipes),
		FailedCount:           len(a.FailedFiles),
		PartialOnlyCount:      len(a.PartialOnly),
		LowConfidenceCount:    len(a.LowConfidence),
		SkippedCount:          len(a.SkippedFiles),
		UnmatchedRecipeCount:  len(a.Unmatched),
	}
	return a
}

func countReal(names []string) int {
	n := 0
	for _, name := range names {
		if name != "" && name != "none" {
			n++
		}
	}
	return n
}

func joinSource(folder, file string) string {
	if folder == "" {
		return file
	}
	return filepath.Join(folder, file)
}
