package grid

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var apostrophes = strings.NewReplacer("'", "", "’", "")

// Tokenize splits text into lowercase words suitable for placement.
//
// Text is NFKC-normalized, apostrophes are dropped ("don't" becomes
// "dont"), hyphens split words, and every other character outside
// [A-Za-z0-9] and whitespace acts as a separator.
func Tokenize(text string) []string {
	s := apostrophes.Replace(norm.NFKC.String(text))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, s)
	return strings.Fields(s)
}
