package extract

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/llm"
)

// ChapterExtractor reads chapter/TOC pages into Chapter entities.
type ChapterExtractor struct {
	gateway llm.Gateway
	logger  *slog.Logger
}

func NewChapterExtractor(gateway llm.Gateway, logger *slog.Logger) *ChapterExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChapterExtractor{gateway: gateway, logger: logger}
}

type rawChapter struct {
	ChapterNumber json.RawMessage `json:"chapter_number"`
	ChapterTitle  string          `json:"chapter_title"`
	RecipeList    []string        `json:"recipe_list"`
	Notes         string          `json:"notes"`
}

// Extract pulls the chapter heading and advertised recipe list from a page.
// A parse failure still returns a chapter shell carrying the raw reply so a
// later pass can recover the text.
func (e *ChapterExtractor) Extract(ctx context.Context, image llm.ImageAttachment, file string) (entity.Chapter, error) {
	ch := entity.Chapter{SourceImage: file}

	reply, err := e.gateway.Query(ctx, llm.QueryRequest{
		Prompt:    chapterPrompt,
		Images:    []llm.ImageAttachment{image},
		ForceJSON: true,
	})
	if err != nil {
		return ch, err
	}

	var raw rawChapter
	if err := llm.ExtractJSONObject(reply, &raw); err != nil {
		e.logger.Warn("extract.chapter.parse_error", "file", file, "error", err)
		ch.Notes = "Failed to parse response: " + truncate(reply, 200)
		ch.RawResponse = reply
		return ch, nil
	}

	ch.ChapterNumber = decodeFlexibleString(raw.ChapterNumber)
	ch.ChapterTitle = raw.ChapterTitle
	ch.RecipeList = raw.RecipeList
	ch.Notes = raw.Notes
	return ch, nil
}

// decodeFlexibleString accepts a JSON string or number, since models report
// chapter numbers both ways ("2", 2, "Chapter Two").
func decodeFlexibleString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
