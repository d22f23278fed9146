package catalog

import "testing"

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Lemon Chicken", "lemon chicken"},
		{"  Grandma's  Apple Pie!  ", "grandmas apple pie"},
		{"Mac & Cheese", "mac cheese"},
		{"CHILI   CON   CARNE", "chili con carne"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeName(c.in); got != c.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFuzzyMatchExact(t *testing.T) {
	if !FuzzyMatch("Lemon Chicken", "lemon chicken") {
		t.Fatal("case-insensitive exact match should pass")
	}
}

func TestFuzzyMatchContainment(t *testing.T) {
	if !FuzzyMatch("Cilantro Lime Vinaigrette", "Cilantro Lime") {
		t.Fatal("containment should match")
	}
	if !FuzzyMatch("Vinaigrette", "Cilantro Lime Vinaigrette") {
		t.Fatal("containment works in both directions")
	}
}

func TestFuzzyMatchNearMiss(t *testing.T) {
	if !FuzzyMatch("Chicken Parmesan", "Chicken Parmesean") {
		t.Fatal("a one-letter typo should still match")
	}
}

func TestFuzzyMatchDifferentRecipes(t *testing.T) {
	if FuzzyMatch("Beef Stew", "Apple Crumble") {
		t.Fatal("unrelated names must not match")
	}
}

func TestFuzzyMatchSharedWordsReordered(t *testing.T) {
	if FuzzyMatch("Cilantro Lime Vinaigrette", "Lime Cilantro Dressing") {
		t.Fatal("reordered shared words are different recipes, not a match")
	}
}

func TestFuzzyMatchEmptyNeverMatches(t *testing.T) {
	if FuzzyMatch("", "Beef Stew") || FuzzyMatch("Beef Stew", "") || FuzzyMatch("", "") {
		t.Fatal("empty names must not match anything")
	}
}
