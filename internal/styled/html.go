package styled

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/pechaform/internal/doctree"
)

// HTMLOptions controls style resolution for HTML cells.
type HTMLOptions struct {
	ForceItalicClass string  // Cells with this class are italic throughout.
	SmallMaxPt       float64 // Inline font sizes at or below this are small letters.
}

// DefaultHTMLOptions matches the Google Sheets export of the pecha sheets.
func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{
		ForceItalicClass: "s4",
		SmallMaxPt:       10,
	}
}

// SizeError is an inline font size that could not be read.
type SizeError struct {
	Value string
	Text  string
}

func (e SizeError) Error() string {
	return fmt.Sprintf("unreadable font size %q on %q", e.Value, e.Text)
}

// SizeErrors lists every unreadable size of a cell or a document.
type SizeErrors []SizeError

func (e SizeErrors) Error() string {
	parts := make([]string, len(e))
	for i, se := range e {
		parts[i] = se.Error()
	}
	return fmt.Sprintf("%d unreadable font sizes: %s", len(e), strings.Join(parts, "; "))
}

// FromHTML extracts the styled runs of a cell. Bold, italic and small are
// inherited by child nodes and can only be added, never removed. A non-nil
// error is always a SizeErrors; the runs are still returned.
func FromHTML(cell *html.Node, opts HTMLOptions) ([]doctree.Run, error) {
	var st doctree.Style
	if opts.ForceItalicClass != "" && HasClass(cell, opts.ForceItalicClass) {
		st.Italic = true
	}
	w := &htmlWalker{opts: opts}
	for c := cell.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, st)
	}
	runs := NormalizeBreaks(w.runs)
	if len(w.errs) > 0 {
		return runs, w.errs
	}
	return runs, nil
}

type htmlWalker struct {
	opts HTMLOptions
	runs []doctree.Run
	errs SizeErrors
}

func (w *htmlWalker) walk(n *html.Node, st doctree.Style) {
	switch n.Type {
	case html.TextNode:
		w.runs = append(w.runs, doctree.Run{Text: n.Data, Style: st})
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.Br:
		w.runs = append(w.runs, doctree.Run{Text: "\n", Style: st})
		return
	case atom.Script, atom.Style:
		return
	case atom.B, atom.Strong:
		st.Bold = true
	case atom.I, atom.Em:
		st.Italic = true
	}
	st = w.applyCSS(n, st)

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, st)
	}
	switch n.DataAtom {
	case atom.P, atom.Div:
		w.runs = append(w.runs, doctree.Run{Text: "\n", Style: st})
	}
}

func (w *htmlWalker) applyCSS(n *html.Node, st doctree.Style) doctree.Style {
	css := attr(n, "style")
	if css == "" {
		return st
	}
	for _, decl := range strings.Split(css, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.ToLower(strings.TrimSpace(val))
		switch prop {
		case "font-weight":
			if val == "bold" || val == "bolder" {
				st.Bold = true
			} else if weight, err := strconv.Atoi(val); err == nil && weight >= 600 {
				st.Bold = true
			}
		case "font-style":
			if val == "italic" || val == "oblique" {
				st.Italic = true
			}
		case "font-size":
			pt, err := ParsePt(val)
			if err != nil {
				w.errs = append(w.errs, SizeError{Value: val, Text: strings.TrimSpace(TextContent(n))})
				continue
			}
			if pt <= w.opts.SmallMaxPt {
				st.Small = true
			}
		}
	}
	return st
}

// ParsePt reads a CSS length in pt or px and returns points.
func ParsePt(val string) (float64, error) {
	val = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "!important"))
	scale := 1.0
	switch {
	case strings.HasSuffix(val, "pt"):
		val = strings.TrimSuffix(val, "pt")
	case strings.HasSuffix(val, "px"):
		val = strings.TrimSuffix(val, "px")
		scale = 0.75
	default:
		return 0, fmt.Errorf("unsupported font size unit in %q", val)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return 0, fmt.Errorf("parse font size %q: %w", val, err)
	}
	return f * scale, nil
}

// HasClass reports whether n carries class in its class attribute.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of n, with <br> as a line break.
func TextContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			buf.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
