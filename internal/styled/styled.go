// Package styled extracts runs of uniformly styled text from rich cells and
// converts them to and from markdown emphasis.
package styled

import (
	"strings"

	"github.com/dgallion1/pechaform/internal/doctree"
)

// Merge drops empty runs and joins adjacent runs that share a style.
func Merge(runs []doctree.Run) []doctree.Run {
	var out []doctree.Run
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Style == r.Style {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

// NormalizeBreaks collapses consecutive line breaks, including breaks that
// span run boundaries, into one.
func NormalizeBreaks(runs []doctree.Run) []doctree.Run {
	out := make([]doctree.Run, 0, len(runs))
	lastBreak := false
	for _, r := range runs {
		var b strings.Builder
		for _, c := range r.Text {
			switch c {
			case '\r':
				continue
			case '\n':
				if lastBreak {
					continue
				}
				lastBreak = true
			default:
				lastBreak = false
			}
			b.WriteRune(c)
		}
		out = append(out, doctree.Run{Text: b.String(), Style: r.Style})
	}
	return Merge(out)
}

// JoinCells concatenates the runs of several cells. Every cell but the last
// ends with exactly one line break; empty cells are skipped.
func JoinCells(cells [][]doctree.Run) []doctree.Run {
	var kept [][]doctree.Run
	for _, c := range cells {
		c = trimTrailingBreaks(NormalizeBreaks(c))
		if strings.TrimSpace(Plain(c)) != "" {
			kept = append(kept, c)
		}
	}
	var out []doctree.Run
	for i, c := range kept {
		out = append(out, c...)
		if i < len(kept)-1 {
			out = append(out, doctree.Run{Text: "\n", Style: c[len(c)-1].Style})
		}
	}
	return Merge(out)
}

// Plain returns the text of runs without style.
func Plain(runs []doctree.Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Slice returns the runs covering the byte range [start, end) of Plain(runs).
func Slice(runs []doctree.Run, start, end int) []doctree.Run {
	var out []doctree.Run
	pos := 0
	for _, r := range runs {
		rs, re := pos, pos+len(r.Text)
		pos = re
		if re <= start || rs >= end {
			continue
		}
		lo, hi := max(start, rs)-rs, min(end, re)-rs
		out = append(out, doctree.Run{Text: r.Text[lo:hi], Style: r.Style})
	}
	return Merge(out)
}

// Trim removes leading and trailing whitespace across runs.
func Trim(runs []doctree.Run) []doctree.Run {
	text := Plain(runs)
	start := len(text) - len(strings.TrimLeft(text, " \t\r\n"))
	end := len(strings.TrimRight(text, " \t\r\n"))
	if start >= end {
		return nil
	}
	return Slice(runs, start, end)
}

func trimTrailingBreaks(runs []doctree.Run) []doctree.Run {
	text := Plain(runs)
	return Slice(runs, 0, len(strings.TrimRight(text, "\n")))
}
