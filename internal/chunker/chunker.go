package chunker

import (
	"strings"
	"unicode"

	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/syllable"
)

// Mode selects the chunk granularity and the join convention.
type Mode int

const (
	// ModePlain splits paragraphs on whitespace and joins with a space.
	ModePlain Mode = iota
	// ModeTable splits after punctuation runs and joins by concatenation.
	ModeTable
)

// Join returns the separator used when chunks of this mode are glued back.
func (m Mode) Join() string {
	if m == ModeTable {
		return ""
	}
	return " "
}

func (m Mode) String() string {
	if m == ModeTable {
		return "table"
	}
	return "plain"
}

// Config controls chunking behavior.
type Config struct {
	Mode              Mode
	Oracle            syllable.Oracle
	SanskritMinTokens int // Sanskrit tokens that flag a chunk even when others are not.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Mode:              ModePlain,
		Oracle:            syllable.Default,
		SanskritMinTokens: 3,
	}
}

// Chunk splits a paragraph according to cfg.Mode and annotates every part.
func Chunk(text string, cfg Config) []doctree.Chunk {
	var parts []string
	if cfg.Mode == ModeTable {
		parts = Inline(text)
	} else {
		parts = Whitespace(text)
	}
	return Annotate(parts, cfg)
}

// Whitespace splits on runs of Unicode whitespace.
func Whitespace(text string) []string {
	return strings.Fields(text)
}

// Inline splits text after each run of punctuation and spaces, so that a chunk
// is a run of syllables followed by the marks that close it. Text before the
// first syllable belongs to the first chunk. The parts concatenate back to text.
func Inline(text string) []string {
	var parts []string
	var cur strings.Builder
	inTrail := false // cur already holds closing marks
	for _, r := range text {
		closing := isClosing(r)
		if !closing && inTrail {
			parts = append(parts, cur.String())
			cur.Reset()
			inTrail = false
		}
		if closing && hasText(cur.String()) {
			inTrail = true
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

// Annotate attaches the oracle's syllable count and Sanskrit judgement to parts.
func Annotate(parts []string, cfg Config) []doctree.Chunk {
	oracle := cfg.Oracle
	if oracle == nil {
		oracle = syllable.Default
	}
	min := cfg.SanskritMinTokens
	if min <= 0 {
		min = 3
	}
	chunks := make([]doctree.Chunk, 0, len(parts))
	for _, p := range parts {
		chunks = append(chunks, doctree.Chunk{
			Text:      p,
			Syllables: oracle.CountSyllables(p),
			Sanskrit:  isSanskrit(oracle.ClassifyTokens(p), min),
		})
	}
	return chunks
}

// Paragraphs splits on blank lines and drops empty paragraphs.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var result []string
	var current []string
	flush := func() {
		if p := strings.TrimSpace(strings.Join(current, "\n")); p != "" {
			result = append(result, p)
		}
		current = current[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return result
}

func isClosing(r rune) bool {
	return syllable.IsShad(r) || unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '\u0F0B' && r != '\u0F0C')
}

func hasText(s string) bool {
	for _, r := range s {
		if !isClosing(r) && !syllable.IsDelimiter(r) {
			return true
		}
	}
	return false
}
