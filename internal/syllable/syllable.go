// Package syllable counts Tibetan syllables and flags tokens that are
// transliterated Sanskrit.
package syllable

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Token is one word-level token of a fragment.
type Token struct {
	Text     string
	Sanskrit bool
}

// Oracle answers syllable and language questions about a text fragment.
// Implementations must be pure and total.
type Oracle interface {
	CountSyllables(text string) int
	ClassifyTokens(text string) []Token
}

// TshegOracle splits on the tsheg and shad marks of Tibetan script.
type TshegOracle struct{}

// Default is the oracle used when none is configured.
var Default Oracle = TshegOracle{}

// CountSyllables returns the number of syllables in text. A Tibetan syllable
// is a tsheg-delimited token holding at least one letter; any other word
// (Latin phonetics, digits) counts once.
func (TshegOracle) CountSyllables(text string) int {
	n := 0
	for _, tok := range tokens(text) {
		if hasLetter(tok) {
			n++
		}
	}
	return n
}

// ClassifyTokens returns the word tokens of text with their Sanskrit flag.
func (TshegOracle) ClassifyTokens(text string) []Token {
	var out []Token
	for _, tok := range tokens(text) {
		if !hasLetter(tok) {
			continue
		}
		out = append(out, Token{Text: tok, Sanskrit: IsSanskrit(tok)})
	}
	return out
}

// IsSanskrit reports whether a syllable carries marks that only occur in
// transliterated Sanskrit. The syllable is compared in NFC, where the
// aspirated stacks (gha, dha, bha...) are stored as a base plus subjoined ha.
func IsSanskrit(syl string) bool {
	var prev rune
	for _, r := range norm.NFC.String(syl) {
		if sanskritMarks[r] {
			return true
		}
		if r == '\u0FB7' && aspirable[prev] {
			return true
		}
		prev = r
	}
	return false
}

// IsDelimiter reports whether r separates syllables.
func IsDelimiter(r rune) bool {
	return r == '\u0F0B' || r == '\u0F0C' || IsShad(r) || unicode.IsSpace(r)
}

// IsShad reports whether r is shad-class punctuation.
func IsShad(r rune) bool {
	return r >= '\u0F0D' && r <= '\u0F14'
}

func tokens(text string) []string {
	return strings.FieldsFunc(norm.NFC.String(text), IsDelimiter)
}

func hasLetter(tok string) bool {
	for _, r := range tok {
		if r == '\u0F00' || (r >= '\u0F40' && r <= '\u0FBC') {
			return true
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

var sanskritMarks = map[rune]bool{
	'\u0F00': true, // om
	'\u0F71': true, // a-chung vowel lengthening
	'\u0F73': true,
	'\u0F75': true,
	'\u0F76': true, // vocalic r
	'\u0F77': true,
	'\u0F78': true, // vocalic l
	'\u0F79': true,
	'\u0F7E': true, // anusvara
	'\u0F7F': true, // visarga
	'\u0F80': true,
	'\u0F81': true,
	'\u0F82': true,
	'\u0F83': true,
	'\u0F84': true, // halanta
	'\u0F4A': true, // retroflex ta
	'\u0F4B': true,
	'\u0F4C': true,
	'\u0F4D': true,
	'\u0F4E': true,
	'\u0F43': true,
	'\u0F52': true,
	'\u0F57': true,
	'\u0F5C': true,
	'\u0F65': true, // ssa
	'\u0F69': true, // kssa
	'\u0F93': true,
	'\u0F9A': true,
	'\u0F9B': true,
	'\u0F9C': true,
	'\u0F9D': true,
	'\u0F9E': true,
	'\u0FA2': true,
	'\u0FA7': true,
	'\u0FAC': true,
	'\u0FB5': true,
	'\u0FB9': true,
}

var aspirable = map[rune]bool{
	'\u0F42': true, '\u0F4C': true, '\u0F51': true, '\u0F56': true, '\u0F5B': true,
	'\u0F92': true, '\u0F9C': true, '\u0FA1': true, '\u0FA6': true, '\u0FAB': true,
}
