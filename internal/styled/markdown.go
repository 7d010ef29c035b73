package styled

import (
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/pechaform/internal/doctree"
)

// ToMarkdown renders runs as one string with markdown emphasis, for outputs
// that cannot carry run-level style. Runs are joined with a space unless the
// next run opens with closing punctuation, the previous run ends with an
// opening bracket or quote, or whitespace already separates them.
func ToMarkdown(runs []doctree.Run) string {
	var b strings.Builder
	prev := ""
	for _, r := range Merge(runs) {
		if strings.TrimSpace(r.Text) == "" {
			if strings.Contains(r.Text, "\n") {
				b.WriteString("\n")
				prev = "\n"
			}
			continue
		}
		part := wrap(r)
		if prev != "" && needsSpace(prev, part) {
			b.WriteByte(' ')
		}
		b.WriteString(part)
		prev = part
	}
	return b.String()
}

func wrap(r doctree.Run) string {
	lead := r.Text[:len(r.Text)-len(strings.TrimLeftFunc(r.Text, unicode.IsSpace))]
	trail := r.Text[len(strings.TrimRightFunc(r.Text, unicode.IsSpace)):]
	core := strings.TrimSpace(r.Text)
	var mark string
	switch {
	case r.Style.Bold && r.Style.Italic:
		mark = "***"
	case r.Style.Bold:
		mark = "**"
	case r.Style.Italic:
		mark = "*"
	}
	return lead + mark + core + mark + trail
}

func needsSpace(prev, next string) bool {
	last, _ := lastRune(prev)
	first, _ := firstRune(strings.TrimLeft(next, "*"))
	if unicode.IsSpace(last) || unicode.IsSpace(rune(next[0])) {
		return false
	}
	if strings.ContainsRune(".,;:!?)", first) {
		return false
	}
	if strings.ContainsRune("(\"'", lastPlain(prev)) {
		return false
	}
	return true
}

func lastPlain(s string) rune {
	r, _ := lastRune(strings.TrimRight(s, "*"))
	return r
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

func lastRune(s string) (rune, bool) {
	rs := []rune(s)
	if len(rs) == 0 {
		return 0, false
	}
	return rs[len(rs)-1], true
}

var md = goldmark.New()

// FromMarkdown reads markdown emphasis into runs. Only the emphasis delimiters
// are consumed: code spans, links, inline HTML and any other markdown keep
// their source text, so Plain of the result is the input minus the stars and
// underscores that open or close emphasis.
func FromMarkdown(s string) []doctree.Run {
	if !strings.ContainsAny(s, "*_") {
		return Merge([]doctree.Run{{Text: s}})
	}
	src := []byte(s)
	doc := md.Parser().Parse(text.NewReader(src))

	styles := make([]doctree.Style, len(src))
	drop := make([]bool, len(src))
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		em, ok := n.(*ast.Emphasis)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		start, stop, ok := childExtent(em, src)
		l := em.Level
		if !ok || start < l || stop+l > len(src) || !delimiters(src[start-l:start]) || !delimiters(src[stop:stop+l]) {
			return ast.WalkContinue, nil
		}
		for i := start - l; i < start; i++ {
			drop[i] = true
		}
		for i := stop; i < stop+l; i++ {
			drop[i] = true
		}
		for i := start; i < stop; i++ {
			if l >= 2 {
				styles[i].Bold = true
			} else {
				styles[i].Italic = true
			}
		}
		return ast.WalkContinue, nil
	})

	var runs []doctree.Run
	var b strings.Builder
	var st doctree.Style
	flush := func() {
		if b.Len() > 0 {
			runs = append(runs, doctree.Run{Text: b.String(), Style: st})
			b.Reset()
		}
	}
	for i, c := range src {
		if drop[i] {
			continue
		}
		if styles[i] != st {
			flush()
			st = styles[i]
		}
		b.WriteByte(c)
	}
	flush()
	return Merge(runs)
}

func delimiters(b []byte) bool {
	for _, c := range b {
		if c != '*' && c != '_' {
			return false
		}
	}
	return true
}

// extent returns the source byte range of an inline node, markup included.
func extent(n ast.Node, src []byte) (int, int, bool) {
	switch node := n.(type) {
	case *ast.Text:
		return node.Segment.Start, node.Segment.Stop, true
	case *ast.RawHTML:
		if node.Segments.Len() == 0 {
			return 0, 0, false
		}
		return node.Segments.At(0).Start, node.Segments.At(node.Segments.Len() - 1).Stop, true
	case *ast.Emphasis:
		start, stop, ok := childExtent(node, src)
		if !ok {
			return 0, 0, false
		}
		return max(start-node.Level, 0), min(stop+node.Level, len(src)), true
	case *ast.CodeSpan:
		start, stop, ok := childExtent(node, src)
		if !ok {
			return 0, 0, false
		}
		if start > 1 && src[start-1] == ' ' && src[start-2] == '`' {
			start--
		}
		for start > 0 && src[start-1] == '`' {
			start--
		}
		if stop < len(src)-1 && src[stop] == ' ' && src[stop+1] == '`' {
			stop++
		}
		for stop < len(src) && src[stop] == '`' {
			stop++
		}
		return start, stop, true
	case *ast.Link, *ast.Image:
		start, stop, ok := childExtent(node, src)
		if !ok {
			return 0, 0, false
		}
		if start > 0 && src[start-1] == '[' {
			start--
		}
		if _, img := node.(*ast.Image); img && start > 0 && src[start-1] == '!' {
			start--
		}
		if stop < len(src) && src[stop] == ']' {
			stop++
		}
		if stop < len(src) && src[stop] == '(' {
			stop = closingParen(src, stop)
		}
		return start, stop, true
	default:
		return childExtent(n, src)
	}
}

// childExtent is the union of the extents of n's children.
func childExtent(n ast.Node, src []byte) (int, int, bool) {
	start, stop, found := 0, 0, false
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		s, e, ok := extent(c, src)
		if !ok {
			continue
		}
		if !found || s < start {
			start = s
		}
		if !found || e > stop {
			stop = e
		}
		found = true
	}
	return start, stop, found
}

// closingParen returns the index just past the parenthesis that closes the
// one at open, or len(src) when it is never closed.
func closingParen(src []byte, open int) int {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(src)
}
