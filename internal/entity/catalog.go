package entity

import (
	"time"

	"github.com/joseph-ayodele/cookbook-cataloger/constants"
)

// Metadata describes where and how a catalog was produced.
type Metadata struct {
	SourceFolder     string `json:"source_folder,omitempty"`
	ProcessedDate    string `json:"processed_date,omitempty"`
	CreatedDate      string `json:"created_date,omitempty"`
	ModelUsed        string `json:"model_used,omitempty"`
	TotalImages      int    `json:"total_images,omitempty"`
	ChaptersFound    int    `json:"chapters_found,omitempty"`
	RecipesExtracted int    `json:"recipes_extracted,omitempty"`
	IndexedRecipes   int    `json:"indexed_recipes,omitempty"`
	LastUpsert       string `json:"last_upsert,omitempty"`
}

// Classification is the Page Classifier's structured verdict for one image.
type Classification struct {
	Type               constants.PageType   `json:"type"`
	HasRecipeStart     bool                 `json:"has_recipe_start"`
	HasContinuation    bool                 `json:"has_recipe_continuation"`
	RecipeNamesVisible []string             `json:"recipe_names_visible"`
	PageNumbers        []int                `json:"page_numbers"`
	TotalPages         int                  `json:"total_pages,omitempty"`
	Confidence         constants.Confidence `json:"confidence"`
}

// ProcessingLogEntry records what happened to one image. Append-only.
type ProcessingLogEntry struct {
	File             string             `json:"file"`
	PageType         constants.PageType `json:"page_type"`
	PageNumbers      []int              `json:"page_numbers,omitempty"`
	Classification   Classification     `json:"classification"`
	ChapterTitle     string             `json:"chapter_title,omitempty"`
	RecipesListed    int                `json:"recipes_listed,omitempty"`
	RecipesExtracted []string           `json:"recipes_extracted,omitempty"`
	HasContinuation  bool               `json:"has_continuation,omitempty"`
	Status           string             `json:"status,omitempty"`
	Timestamp        string             `json:"timestamp,omitempty"`
}

// UpsertLogEntry is one audit record per upsert decision.
type UpsertLogEntry struct {
	Action         string `json:"action"` // added | updated | merged
	RecipeName     string `json:"recipe_name"`
	SourceImage    string `json:"source_image,omitempty"`
	Timestamp      string `json:"timestamp"`
	PreviousSource string `json:"previous_source,omitempty"`
	Note           string `json:"note,omitempty"`
}

// DeletionLogEntry records a batch of explicit recipe deletions.
type DeletionLogEntry struct {
	Deleted   []string `json:"deleted"`
	Timestamp string   `json:"timestamp"`
}

// Catalog is the top-level aggregate for one cookbook source. It owns all
// child entities; the Index is derived state, rebuilt after every mutation.
type Catalog struct {
	Metadata      Metadata             `json:"metadata"`
	Chapters      []Chapter            `json:"chapters"`
	Recipes       []Recipe             `json:"recipes"`
	ProcessingLog []ProcessingLogEntry `json:"processing_log"`
	Index         *Index               `json:"index,omitempty"`
	UpsertLog     []UpsertLogEntry     `json:"upsert_log,omitempty"`
	DeletionLog   []DeletionLogEntry   `json:"deletion_log,omitempty"`
}

// NewCatalog returns an empty catalog stamped with its source and model.
func NewCatalog(sourceFolder, model string, totalImages int) *Catalog {
	return &Catalog{
		Metadata: Metadata{
			SourceFolder:  sourceFolder,
			ProcessedDate: time.Now().UTC().Format(time.RFC3339),
			ModelUsed:     model,
			TotalImages:   totalImages,
		},
		Chapters:      []Chapter{},
		Recipes:       []Recipe{},
		ProcessingLog: []ProcessingLogEntry{},
	}
}
