package parser

import (
	"regexp"
	"strings"

	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/styled"
)

var (
	level1 = regexp.MustCompile(`\|([^|]+)\|`)
	level2 = regexp.MustCompile(`(/[^/]+)/`)
)

// HasInlineMarkup reports whether text contains |type| markers.
func HasInlineMarkup(text string) bool {
	return level1.MatchString(text)
}

// SplitSpans splits text on /type-text/ markup. A block without a dash stays
// in the plain text around it, slashes included. When runs carry the style of text, each span receives the
// runs covering its characters. Empty plain pieces are dropped, except that
// empty text yields a single empty span.
func SplitSpans(text string, runs []doctree.Run) []doctree.Span {
	styledText := runs != nil && styled.Plain(runs) == text
	slice := func(start, end int) []doctree.Run {
		if !styledText {
			return nil
		}
		return styled.Slice(runs, start, end)
	}

	var spans []doctree.Span
	plain := func(start, end int) {
		if start < end {
			spans = append(spans, doctree.Span{Text: text[start:end], Runs: slice(start, end)})
		}
	}
	pos := 0
	for _, m := range level2.FindAllStringSubmatchIndex(text, -1) {
		body := m[2] + 1 // past the opening slash
		tag, rest, ok := strings.Cut(text[body:m[3]], "-")
		if !ok || tag == "" {
			continue
		}
		plain(pos, m[0])
		start := body + len(tag) + 1
		spans = append(spans, doctree.Span{Type: tag, Text: rest, Runs: slice(start, m[3])})
		pos = m[1]
	}
	plain(pos, len(text))

	if len(spans) == 0 {
		return []doctree.Span{{Text: ""}}
	}
	return spans
}

// JoinSpans writes spans back with their /type-text/ markup.
func JoinSpans(spans []doctree.Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Type == "" {
			b.WriteString(s.Text)
			continue
		}
		b.WriteString("/" + s.Type + "-" + s.Text + "/")
	}
	return b.String()
}
