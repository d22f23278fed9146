package diagnostics

import (
	"testing"

	"github.com/joseph-ayodele/cookbook-cataloger/constants"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
)

func logEntry(file string, c entity.Classification, extracted []string, status string) entity.ProcessingLogEntry {
	return entity.ProcessingLogEntry{
		File:             file,
		PageType:         c.Type,
		Classification:   c,
		RecipesExtracted: extracted,
		Status:           status,
	}
}

func TestAnalyzeOtherPageWithRecipeIndicatorsFailsHigh(t *testing.T) {
	cat := entity.NewCatalog("/book", "llava", 0)
	cat.ProcessingLog = []entity.ProcessingLogEntry{
		logEntry("p1.jpg", entity.Classification{
			Type:               constants.PageOther,
			RecipeNamesVisible: []string{"Beef Stew"},
			Confidence:         constants.ConfidenceHigh,
		}, nil, ""),
	}

	a := AnalyzeCatalog(cat, "")
	if len(a.FailedFiles) != 1 {
		t.Fatalf("failed = %+v", a.FailedFiles)
	}
	if a.FailedFiles[0].Priority != "high" {
		t.Fatalf("priority = %q", a.FailedFiles[0].Priority)
	}
}

func TestAnalyzeClassificationFailureFailsMedium(t *testing.T) {
	cat := entity.NewCatalog("/book", "llava", 0)
	cat.ProcessingLog = []entity.ProcessingLogEntry{
		logEntry("p1.jpg", entity.Classification{
			Confidence: constants.ConfidenceLow,
		}, nil, ""),
	}

	a := AnalyzeCatalog(cat, "")
	if len(a.FailedFiles) != 1 || a.FailedFiles[0].Priority != "medium" {
		t.Fatalf("failed = %+v", a.FailedFiles)
	}
	if len(a.LowConfidence) != 0 {
		t.Fatal("a failed page must not double-count as low confidence")
	}
}

func TestAnalyzeRecipePageZeroYield(t *testing.T) {
	cat := entity.NewCatalog("/book", "llava", 0)
	cat.ProcessingLog = []entity.ProcessingLogEntry{
		logEntry("p1.jpg", entity.Classification{
			Type:       constants.PageRecipe,
			Confidence: constants.ConfidenceHigh,
		}, nil, ""),
	}

	a := AnalyzeCatalog(cat, "")
	if len(a.FailedFiles) != 1 {
		t.Fatalf("failed = %+v", a.FailedFiles)
	}
}

func TestAnalyzeRecipePageZeroYieldWithContinuationIsPartialOnly(t *testing.T) {
	cat := entity.NewCatalog("/book", "llava", 0)
	entry := logEntry("p1.jpg", entity.Classification{
		Type:       constants.PageRecipe,
		Confidence: constants.ConfidenceHigh,
	}, nil, "")
	entry.HasContinuation = true
	cat.ProcessingLog = []entity.ProcessingLogEntry{entry}

	a := AnalyzeCatalog(cat, "")
	if len(a.PartialOnly) != 1 {
		t.Fatalf("partial_only = %+v", a.PartialOnly)
	}
	if len(a.FailedFiles) != 0 {
		t.Fatalf("failed = %+v", a.FailedFiles)
	}
}

func TestAnalyzeExpectedVersusActual(t *testing.T) {
	cat := entity.NewCatalog("/book", "llava", 0)
	cat.ProcessingLog = []entity.ProcessingLogEntry{
		logEntry("p1.jpg", entity.Classification{
			Type:               constants.PageRecipe,
			RecipeNamesVisible: []string{"A", "B", "C"},
			Confidence:         constants.ConfidenceHigh,
		}, []string{"A"}, ""),
	}

	a := AnalyzeCatalog(cat, "")
	if len(a.FailedFiles) != 1 {
		t.Fatalf("failed = %+v", a.FailedFiles)
	}
	issue := a.FailedFiles[0]
	if issue.Expected != 3 || issue.Actual != 1 {
		t.Fatalf("issue = %+v", issue)
	}
}

func TestAnalyzePlaceholderNamesDoNotCount(t *testing.T) {
	cat := entity.NewCatalog("/book", "llava", 0)
	cat.ProcessingLog = []entity.ProcessingLogEntry{
		logEntry("p1.jpg", entity.Classification{
			Type:       constants.PageRecipe,
			Confidence: constants.ConfidenceHigh,
		}, []string{"", "none"}, ""),
	}

	a := AnalyzeCatalog(cat, "")
	if len(a.FailedFiles) != 1 {
		t.Fatalf("empty and 'none' names count as zero yield, got %+v", a.FailedFiles)
	}
}

func TestAnalyzeSkippedAndLowConfidenceBuckets(t *testing.T) {
	cat := entity.NewCatalog("/book", "llava", 0)
	cat.ProcessingLog = []entity.ProcessingLogEntry{
		logEntry("p1.jpg", entity.Classification{
			Type:       constants.PageArticle,
			Confidence: constants.ConfidenceHigh,
		}, nil, "skipped - article"),
		logEntry("p2.jpg", entity.Classification{
			Type:       constants.PageRecipe,
			Confidence: constants.ConfidenceLow,
		}, []string{"Toast"}, ""),
	}
	cat.Recipes = []entity.Recipe{{Name: "Toast"}}

	a := AnalyzeCatalog(cat, "")
	if len(a.SkippedFiles) != 1 {
		t.Fatalf("skipped = %+v", a.SkippedFiles)
	}
	if len(a.LowConfidence) != 1 {
		t.Fatalf("low confidence = %+v", a.LowConfidence)
	}
	if a.Summary.SkippedCount != 1 || a.Summary.LowConfidenceCount != 1 || a.Summary.TotalFilesProcessed != 2 {
		t.Fatalf("summary = %+v", a.Summary)
	}
}

func TestAnalyzeSourceFolderFallsBackToMetadata(t *testing.T) {
	cat := entity.NewCatalog("/book/pages", "llava", 0)
	cat.ProcessingLog = []entity.ProcessingLogEntry{
		logEntry("p1.jpg", entity.Classification{
			Type:               constants.PageOther,
			RecipeNamesVisible: []string{"X"},
			Confidence:         constants.ConfidenceHigh,
		}, nil, ""),
	}

	a := AnalyzeCatalog(cat, "")
	if a.SourceFolder != "/book/pages" {
		t.Fatalf("source folder = %q", a.SourceFolder)
	}
	if a.FailedFiles[0].Path != "/book/pages/p1.jpg" {
		t.Fatalf("path = %q", a.FailedFiles[0].Path)
	}
}
