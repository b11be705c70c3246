// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

// Normalize prepares a title for comparison. Characters other than
// letters, digits, underscores, whitespace, and hyphens become spaces;
// whitespace runs collapse to one space; the result is lower-cased and
// trimmed.
func Normalize(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || r == '-' || unicode.IsSpace(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}
	return strings.ToLower(strings.Join(strings.Fields(b.String()), " "))
}

// Similarity returns the sequence-matching ratio of a and b in [0, 1]:
// twice the number of characters in matching blocks divided by the
// total length. The pair is put in a fixed order first so the result
// does not depend on argument order. Two empty strings score 1.
func Similarity(a, b string) float64 {
	if b < a {
		a, b = b, a
	}
	m := difflib.NewMatcher(runes(a), runes(b))
	return m.Ratio()
}

// TitleSimilarity normalizes both titles and compares them.
func TitleSimilarity(a, b string) float64 {
	return Similarity(Normalize(a), Normalize(b))
}

// runes splits s into one element per character for the matcher.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
