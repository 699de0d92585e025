// Package textnorm canonicalizes question text so every downstream stage
// works on the same diacritic-free, upper-cased form.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize decomposes accented characters, discards combining marks,
// collapses surrounding whitespace and upper-cases the result. It is total
// and idempotent: empty input yields the empty string, and normalizing a
// normalized string is a no-op.
func Normalize(text string) string {
	out, _, err := transform.String(stripMarks, text)
	if err != nil {
		// Stripping marks cannot shrink valid UTF-8 into invalid text;
		// keep the original if the transformer ever balks.
		out = text
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

// NormalizeLower is Normalize with a lower-cased result, used by keyword
// scanners whose tables are lower-case.
func NormalizeLower(text string) string {
	return strings.ToLower(Normalize(text))
}
