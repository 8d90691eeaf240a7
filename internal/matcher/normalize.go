package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// dashReplacer unifies en dash, em dash, and minus sign to an ASCII hyphen
// so dash drift between catalogs does not defeat substring checks.
var dashReplacer = strings.NewReplacer("–", "-", "—", "-", "−", "-")

// NormalizeUnicode folds diacritics by canonical decomposition followed by
// stripping combining marks, e.g. "Beyoncé" becomes "Beyonce".
func NormalizeUnicode(s string) string {
	decomposed := norm.NFD.String(s)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.IsMark(r) {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// Simplify produces one or two progressively loosened variants of s: the
// exact form (whitespace collapsed, dashes unified) and, when it differs,
// a simplified form with everything from the first "(" or "[" dropped.
// The result is never empty; empty input yields [""].
func Simplify(s string) []string {
	exact := collapseWhitespace(dashReplacer.Replace(s))

	simplified := exact
	if idx := strings.IndexAny(exact, "(["); idx >= 0 {
		simplified = collapseWhitespace(exact[:idx])
	}

	if simplified == exact || simplified == "" {
		return []string{exact}
	}

	return []string{exact, simplified}
}

// Simplest returns the loosest Simplify variant of s.
func Simplest(s string) string {
	variants := Simplify(s)
	return variants[len(variants)-1]
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
