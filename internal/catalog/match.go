package catalog

import (
	"regexp"
	"strings"

	"github.com/agext/levenshtein"
)

// fuzzyThreshold is the minimum similarity ratio for two normalized recipe
// names to count as the same recipe.
const fuzzyThreshold = 0.85

var (
	rePunct = regexp.MustCompile(`[^\w\s]`)
	reSpace = regexp.MustCompile(`\s+`)
)

// NormalizeName canonicalizes a recipe name for matching: lowercase, strip
// punctuation, collapse whitespace.
func NormalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = rePunct.ReplaceAllString(n, "")
	n = reSpace.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}

// FuzzyMatch reports whether two recipe names refer to the same recipe.
// Exact normalized match and substring containment short-circuit before the
// similarity ratio is computed.
func FuzzyMatch(name1, name2 string) bool {
	n1 := NormalizeName(name1)
	n2 := NormalizeName(name2)

	if n1 == "" || n2 == "" {
		return false
	}
	if n1 == n2 {
		return true
	}
	if strings.Contains(n1, n2) || strings.Contains(n2, n1) {
		return true
	}
	return levenshtein.Similarity(n1, n2, nil) >= fuzzyThreshold
}
