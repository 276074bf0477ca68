// Package nlp folds free text so keyword tables match regardless of case,
// accents or punctuation.
package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s, strips diacritics and collapses whitespace, so
// "Référence" and "reference" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// ContainsKeyword reports whether keyword occurs in text after folding both.
func ContainsKeyword(text, keyword string) bool {
	return strings.Contains(Fold(text), Fold(keyword))
}
