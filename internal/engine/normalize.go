package engine

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Decompose, drop combining marks, recompose. "Fernét" → "Fernet".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize folds text for guess comparison: accents stripped, lowered,
// surrounding whitespace trimmed. Exact equality after Normalize is the
// only matching rule — no partial credit.
func Normalize(text string) string {
	s, _, err := transform.String(stripMarks, text)
	if err != nil {
		s = text
	}
	return strings.ToLower(strings.TrimSpace(s))
}
