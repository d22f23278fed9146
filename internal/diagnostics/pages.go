package diagnostics

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/catalog"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/llm"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/vision"
)

// pagePrompts escalate from detailed to terse. Some models answer the short
// phrasing better.
var pagePrompts = []string{
	`Look carefully at the BOTTOM RIGHT and BOTTOM LEFT corners of this image for page numbers.

Page numbers in ebooks/digital cookbooks often appear as:
- "162-164 / 254" (current pages / total)
- "25-26 / 100"
- "Page 42 of 200"
- Just "42" or "42-43"

Look specifically at:
1. Bottom right corner - most common location
2. Bottom left corner
3. Top corners
4. Any navigation bar or footer area

Respond in this exact JSON format:
{
    "pages": [list each page number as an integer],
    "total_pages": total pages in book if shown (integer) or null,
    "raw_text": "copy the exact page number text you see"
}

Example: For "162-164 / 254" respond: {"pages": [162, 163, 164], "total_pages": 254, "raw_text": "162-164 / 254"}

Respond with ONLY the JSON.`,

	`What page numbers are shown in this image? Look in ALL corners, especially bottom-right.

Common formats: "162-164 / 254" or "Page 25" or "25-26"

Reply with JSON only:
{"pages": [numbers], "total_pages": number or null, "raw_text": "what you see"}`,

	`Find any numbers in the corners of this image that look like page numbers (e.g., "162-164 / 254").

JSON response: {"pages": [integers], "total_pages": integer or null, "raw_text": "text"}`,
}

var (
	reRangeTotal  = regexp.MustCompile(`(\d+)\s*[-–]\s*(\d+)\s*/\s*(\d+)`)
	reSingleTotal = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)
	reRange       = regexp.MustCompile(`(\d+)\s*[-–]\s*(\d+)`)
	reBareNumber  = regexp.MustCompile(`\b(\d{1,4})\b`)
)

// PageResult is what one image yielded.
type PageResult struct {
	Pages      []int  `json:"pages"`
	TotalPages int    `json:"total_pages,omitempty"`
	RawText    string `json:"raw_text"`
	ParseNote  string `json:"parse_note,omitempty"`
	Attempt    int    `json:"attempt,omitempty"`
}

// FileAnalysis pairs an image with its page numbers.
type FileAnalysis struct {
	File    string `json:"file"`
	Pages   []int  `json:"pages"`
	RawText string `json:"raw_text"`
}

// Coverage summarizes how much of the book the captured pages span.
type Coverage struct {
	FirstPageFound  int     `json:"first_page_found"`
	LastPageFound   int     `json:"last_page_found"`
	PagesCaptured   int     `json:"pages_captured"`
	PagesMissing    int     `json:"pages_missing"`
	CoveragePercent float64 `json:"coverage_percent"`
}

// FolderAnalysis is the page-number report for a whole capture folder.
type FolderAnalysis struct {
	SourceFolder   string                 `json:"source_folder"`
	AnalyzedDate   string                 `json:"analyzed_date"`
	ModelUsed      string                 `json:"model_used"`
	TotalImages    int                    `json:"total_images"`
	PagesFound     map[int]FileAnalysis   `json:"pages_found"`
	FilesAnalyzed  []FileAnalysis         `json:"files_analyzed"`
	TotalBookPages int                    `json:"total_book_pages,omitempty"`
	MissingPages   []int                  `json:"missing_pages"`
	PageRanges     []string               `json:"page_ranges,omitempty"`
	MissingRanges  []string               `json:"missing_ranges,omitempty"`
	Coverage       *Coverage              `json:"coverage,omitempty"`
}

// PageAnalyzer reads page numbers off captured images to find gaps in a
// capture session.
type PageAnalyzer struct {
	gateway llm.Gateway
	load    func(string) (llm.ImageAttachment, error)
	logger  *slog.Logger
}

func NewPageAnalyzer(gateway llm.Gateway, logger *slog.Logger) *PageAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageAnalyzer{gateway: gateway, load: vision.LoadAttachment, logger: logger}
}

// ExtractPageNumbers runs the prompt ladder against one image, returning on
// the first attempt that yields pages.
func (p *PageAnalyzer) ExtractPageNumbers(ctx context.Context, image llm.ImageAttachment, maxRetries int) PageResult {
	best := PageResult{Pages: []int{}, RawText: "extraction failed"}

	attempts := maxRetries + 1
	if attempts > len(pagePrompts) {
		attempts = len(pagePrompts)
	}
	for attempt := 0; attempt < attempts; attempt++ {
		reply, err := p.gateway.Query(ctx, llm.QueryRequest{
			Prompt: pagePrompts[attempt],
			Images: []llm.ImageAttachment{image},
		})
		if err != nil {
			p.logger.Warn("diagnostics.pages.query_error", "attempt", attempt+1, "error", err)
			continue
		}
		result := ParsePageReply(reply)
		if len(result.Pages) > 0 {
			result.Attempt = attempt + 1
			return result
		}
		if result.RawText != "" && result.RawText != "extraction failed" {
			best = result
			best.Attempt = attempt + 1
		}
	}
	return best
}

// ParsePageReply decodes a page-number reply, falling back through
// progressively looser regex patterns when the JSON is unusable.
func ParsePageReply(reply string) PageResult {
	result := PageResult{Pages: []int{}}
	if reply == "" {
		return result
	}

	var parsed struct {
		Pages      []int  `json:"pages"`
		TotalPages int    `json:"total_pages"`
		RawText    string `json:"raw_text"`
	}
	if err := llm.ExtractJSONObject(reply, &parsed); err == nil {
		result.Pages = parsed.Pages
		if result.Pages == nil {
			result.Pages = []int{}
		}
		result.TotalPages = parsed.TotalPages
		result.RawText = parsed.RawText
		return result
	}

	if m := reRangeTotal.FindStringSubmatch(reply); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		total, _ := strconv.Atoi(m[3])
		result.Pages = spanPages(start, end)
		result.TotalPages = total
		result.RawText = m[0]
		result.ParseNote = "Extracted via regex (range/total pattern)"
		return result
	}

	if m := reSingleTotal.FindStringSubmatch(reply); m != nil {
		page, _ := strconv.Atoi(m[1])
		total, _ := strconv.Atoi(m[2])
		result.Pages = []int{page}
		result.TotalPages = total
		result.RawText = m[0]
		result.ParseNote = "Extracted via regex (single/total pattern)"
		return result
	}

	if m := reRange.FindStringSubmatch(reply); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		// Page spreads are small; a wide "range" is probably not page numbers.
		if end-start <= 10 && end >= start {
			result.Pages = spanPages(start, end)
			result.RawText = m[0]
			result.ParseNote = "Extracted via regex (range pattern)"
			return result
		}
	}

	if ms := reBareNumber.FindAllString(reply, -1); len(ms) > 0 {
		var pageNums []int
		for _, m := range ms {
			if n, err := strconv.Atoi(m); err == nil && n >= 1 && n <= 9999 {
				pageNums = append(pageNums, n)
			}
		}
		if len(pageNums) > 0 {
			result.Pages = []int{pageNums[0]}
			if len(pageNums) > 1 {
				result.TotalPages = pageNums[len(pageNums)-1]
			}
			result.RawText = truncate(reply, 100)
			result.ParseNote = "Extracted via regex (number fallback)"
			return result
		}
	}

	result.RawText = truncate(reply, 100)
	return result
}

// AnalyzeFolder extracts page numbers from every image in the folder and
// computes gaps and coverage.
func (p *PageAnalyzer) AnalyzeFolder(ctx context.Context, folder, model string, maxRetries int) (*FolderAnalysis, error) {
	paths, err := vision.ListImages(folder)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no image files found in %s", folder)
	}
	sort.Strings(paths)

	analysis := &FolderAnalysis{
		SourceFolder: folder,
		AnalyzedDate: time.Now().UTC().Format(time.RFC3339),
		ModelUsed:    model,
		TotalImages:  len(paths),
		PagesFound:   make(map[int]FileAnalysis),
		MissingPages: []int{},
	}

	allPages := make(map[int]struct{})
	for i, path := range paths {
		file := filepath.Base(path)
		p.logger.Info("diagnostics.pages.file", "index", i+1, "total", len(paths), "file", file)

		image, err := p.load(path)
		if err != nil {
			p.logger.Warn("diagnostics.pages.load_error", "file", file, "error", err)
			continue
		}
		result := p.ExtractPageNumbers(ctx, image, maxRetries)

		fa := FileAnalysis{File: file, Pages: result.Pages, RawText: result.RawText}
		analysis.FilesAnalyzed = append(analysis.FilesAnalyzed, fa)

		for _, page := range result.Pages {
			allPages[page] = struct{}{}
			analysis.PagesFound[page] = fa
		}
		if result.TotalPages > 0 && analysis.TotalBookPages == 0 {
			analysis.TotalBookPages = result.TotalPages
		}
	}

	if len(allPages) > 0 {
		pages := make([]int, 0, len(allPages))
		for page := range allPages {
			pages = append(pages, page)
		}
		sort.Ints(pages)

		minPage, maxPage := pages[0], pages[len(pages)-1]
		endPage := maxPage
		if analysis.TotalBookPages > 0 {
			endPage = analysis.TotalBookPages
		}

		expected := endPage - minPage + 1
		var missing []int
		for page := minPage; page <= endPage; page++ {
			if _, ok := allPages[page]; !ok {
				missing = append(missing, page)
			}
		}
		analysis.MissingPages = missing
		analysis.PageRanges = FindRanges(pages)
		analysis.MissingRanges = FindRanges(missing)
		analysis.Coverage = &Coverage{
			FirstPageFound:  minPage,
			LastPageFound:   maxPage,
			PagesCaptured:   len(pages),
			PagesMissing:    len(missing),
			CoveragePercent: round1(float64(len(pages)) / float64(expected) * 100),
		}
	}
	return analysis, nil
}

// Correlation ties missing pages to recipes the chapters advertised but the
// pipeline never extracted.
type Correlation struct {
	Unmatched         []entity.UnmatchedEntry `json:"unmatched_recipes"`
	UnmatchedCount    int                     `json:"unmatched_count"`
	MissingPagesCount int                     `json:"missing_pages_count"`
	MissingPageGroups []PageGroup             `json:"missing_page_groups,omitempty"`
	Suggestions       []string                `json:"suggestions,omitempty"`
}

// PageGroup is a run of adjacent missing pages, likely one uncaptured spread.
type PageGroup struct {
	Pages []int  `json:"pages"`
	Range string `json:"range"`
}

// CorrelateWithCatalog estimates where a catalog's unextracted recipes might
// live among the folder's missing pages.
func CorrelateWithCatalog(analysis *FolderAnalysis, cat *entity.Catalog) *Correlation {
	c := &Correlation{}

	if cat.Index != nil {
		c.Unmatched = cat.Index.Unmatched
	}
	if len(c.Unmatched) == 0 {
		for _, chapter := range cat.Chapters {
			for _, listed := range chapter.RecipeList {
				matched := false
				for _, r := range cat.Recipes {
					if catalog.FuzzyMatch(listed, r.Name) {
						matched = true
						break
					}
				}
				if !matched {
					c.Unmatched = append(c.Unmatched, entity.UnmatchedEntry{
						Name:    listed,
						Chapter: chapter.ChapterTitle,
					})
				}
			}
		}
	}

	c.UnmatchedCount = len(c.Unmatched)
	c.MissingPagesCount = len(analysis.MissingPages)

	missing := analysis.MissingPages
	if len(missing) == 0 || len(c.Unmatched) == 0 {
		return c
	}

	var groups []PageGroup
	current := []int{missing[0]}
	for _, page := range missing[1:] {
		if page <= current[len(current)-1]+2 {
			current = append(current, page)
		} else {
			groups = append(groups, newPageGroup(current))
			current = []int{page}
		}
	}
	groups = append(groups, newPageGroup(current))
	c.MissingPageGroups = groups

	perGroup := len(c.Unmatched) / len(groups)
	if perGroup < 1 {
		perGroup = 1
	}
	c.Suggestions = append(c.Suggestions,
		fmt.Sprintf("You have %d unmatched recipes and %d missing pages.", len(c.Unmatched), len(missing)),
		fmt.Sprintf("Missing pages are grouped into %d section(s).", len(groups)),
		fmt.Sprintf("Estimate: ~%d recipe(s) per missing section.", perGroup),
		"Capture the following page ranges to recover missing recipes:",
	)
	for _, g := range groups {
		c.Suggestions = append(c.Suggestions, "  pages "+g.Range)
	}
	return c
}

// FindRanges renders sorted numbers as compact range strings, e.g.
// [1 2 3 5] becomes ["1-3", "5"].
func FindRanges(numbers []int) []string {
	if len(numbers) == 0 {
		return nil
	}
	var ranges []string
	start, end := numbers[0], numbers[0]
	flush := func() {
		if start == end {
			ranges = append(ranges, strconv.Itoa(start))
		} else {
			ranges = append(ranges, fmt.Sprintf("%d-%d", start, end))
		}
	}
	for _, n := range numbers[1:] {
		if n == end+1 {
			end = n
			continue
		}
		flush()
		start, end = n, n
	}
	flush()
	return ranges
}

func newPageGroup(pages []int) PageGroup {
	r := strconv.Itoa(pages[0])
	if len(pages) > 1 {
		r = fmt.Sprintf("%d-%d", pages[0], pages[len(pages)-1])
	}
	return PageGroup{Pages: pages, Range: r}
}

func spanPages(start, end int) []int {
	if end < start {
		return []int{start}
	}
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
