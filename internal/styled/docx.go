package styled

import (
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/pechaform/internal/doctree"
)

// DocxRun is a run of a Word paragraph with its font size.
type DocxRun struct {
	doctree.Run
	Size    float64
	HasSize bool
}

// FromDocx returns the runs of a Word paragraph in order, with their direct
// formatting and font size.
func FromDocx(para *docx.Paragraph) []DocxRun {
	var runs []DocxRun
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		size, hasSize := RunSize(run)
		runs = append(runs, DocxRun{
			Run:     doctree.Run{Text: RunText(run), Style: RunStyle(run)},
			Size:    size,
			HasSize: hasSize,
		})
	}
	return runs
}

// RunText returns the text of a run, with breaks as "\n" and tabs as "\t".
func RunText(run *docx.Run) string {
	var buf strings.Builder
	for _, rc := range run.Children {
		switch c := rc.(type) {
		case *docx.Text:
			buf.WriteString(c.Text)
		case *docx.BarterRabbet:
			buf.WriteString("\n")
		case *docx.Tab:
			buf.WriteString("\t")
		}
	}
	return buf.String()
}

// RunStyle reads the direct bold and italic formatting of a run.
func RunStyle(run *docx.Run) doctree.Style {
	var st doctree.Style
	if p := run.RunProperties; p != nil {
		st.Bold = p.Bold != nil
		st.Italic = p.Italic != nil
	}
	return st
}

// RunSize returns the font size of a run in points. Word stores sizes in
// half-points; the complex-script size is used when the plain one is absent.
func RunSize(run *docx.Run) (float64, bool) {
	p := run.RunProperties
	if p == nil {
		return 0, false
	}
	var val string
	switch {
	case p.Size != nil:
		val = p.Size.Val
	case p.SizeCs != nil:
		val = p.SizeCs.Val
	default:
		return 0, false
	}
	half, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return 0, false
	}
	return half / 2, true
}
