// Package textutil holds the Unicode normalisation shared by cache keys and
// entity ids.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize composes s to NFC, case-folds it, trims it and collapses every
// whitespace run to a single space.
func Normalize(s string) string {
	folded := cases.Fold().String(norm.NFC.String(s))
	return strings.Join(strings.Fields(folded), " ")
}

// Slug turns a display name into a lowercase ASCII-ish id:
// "Café Gratitude Venice" becomes "cafe-gratitude-venice".
func Slug(name string) string {
	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name,
	)
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(stripped) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case r == '\'' || r == '’':
			// apostrophes vanish: "Langer's" -> "langers"
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
