package chunker

import "github.com/dgallion1/pechaform/internal/syllable"

// isSanskrit reports whether a chunk reads as Sanskrit: every word token is
// Sanskrit, or at least min of them are.
func isSanskrit(tokens []syllable.Token, min int) bool {
	if len(tokens) == 0 {
		return false
	}
	n := 0
	for _, t := range tokens {
		if t.Sanskrit {
			n++
		}
	}
	return n == len(tokens) || n >= min
}
