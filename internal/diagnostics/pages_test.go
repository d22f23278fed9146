package diagnostics

import (
	"strings"
	"testing"
)

func TestParsePageReplyJSON(t *testing.T) {
	got := ParsePageReply(`{"pages": [42, 43], "total_pages": 208, "raw_text": "42-43 / 208"}`)
	if len(got.Pages) != 2 || got.Pages[0] != 42 || got.Pages[1] != 43 {
		t.Fatalf("pages = %v", got.Pages)
	}
	if got.TotalPages != 208 {
		t.Fatalf("total = %d", got.TotalPages)
	}
	if got.ParseNote != "" {
		t.Fatalf("clean JSON needs no parse note, got %q", got.ParseNote)
	}
}

func TestParsePageReplyRangeTotalFallback(t *testing.T) {
	got := ParsePageReply("The footer reads 42-43 / 208 at the bottom of the spread")
	if len(got.Pages) != 2 || got.Pages[0] != 42 || got.Pages[1] != 43 {
		t.Fatalf("pages = %v", got.Pages)
	}
	if got.TotalPages != 208 {
		t.Fatalf("total = %d", got.TotalPages)
	}
	if !strings.Contains(got.ParseNote, "range/total") {
		t.Fatalf("note = %q", got.ParseNote)
	}
}

func TestParsePageReplySingleTotalFallback(t *testing.T) {
	got := ParsePageReply("I can see 87 / 208 printed in the corner")
	if len(got.Pages) != 1 || got.Pages[0] != 87 || got.TotalPages != 208 {
		t.Fatalf("got %+v", got)
	}
	if !strings.Contains(got.ParseNote, "single/total") {
		t.Fatalf("note = %q", got.ParseNote)
	}
}

func TestParsePageReplyRangeFallback(t *testing.T) {
	got := ParsePageReply("Pages 100-101 are shown")
	if len(got.Pages) != 2 || got.Pages[0] != 100 || got.Pages[1] != 101 {
		t.Fatalf("pages = %v", got.Pages)
	}
}

func TestParsePageReplyWideRangeRejected(t *testing.T) {
	got := ParsePageReply("This recipe serves 4-100 people")
	// 4-100 is too wide to be a page spread; the bare-number fallback
	// should pick up the first number instead.
	if len(got.Pages) != 1 || got.Pages[0] != 4 {
		t.Fatalf("pages = %v", got.Pages)
	}
	if !strings.Contains(got.ParseNote, "number fallback") {
		t.Fatalf("note = %q", got.ParseNote)
	}
}

func TestParsePageReplyBareNumber(t *testing.T) {
	got := ParsePageReply("The page number is 57.")
	if len(got.Pages) != 1 || got.Pages[0] != 57 {
		t.Fatalf("pages = %v", got.Pages)
	}
}

func TestParsePageReplyNothingUsable(t *testing.T) {
	got := ParsePageReply("No page number is visible on this image.")
	if len(got.Pages) != 0 {
		t.Fatalf("pages = %v", got.Pages)
	}
}

func TestParsePageReplyEmpty(t *testing.T) {
	got := ParsePageReply("")
	if len(got.Pages) != 0 || got.RawText != "" {
		t.Fatalf("got %+v", got)
	}
}

func TestFindRanges(t *testing.T) {
	cases := []struct {
		in   []int
		want string
	}{
		{[]int{1, 2, 3, 4, 5}, "1-5"},
		{[]int{1, 2, 3, 5, 10}, "1-3, 5, 10"},
		{[]int{7}, "7"},
		{[]int{1, 3, 5}, "1, 3, 5"},
	}
	for _, c := range cases {
		got := strings.Join(FindRanges(c.in), ", ")
		if got != c.want {
			t.Errorf("FindRanges(%v) = %q, want %q", c.in, got, c.want)
		}
	}
	if FindRanges(nil) != nil {
		t.Error("empty input yields no ranges")
	}
}
