// Package emit lays out parsed documents as Word files.
package emit

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/styled"
)

// Options controls the layout.
type Options struct {
	NoPhonetics     bool
	JustifyMinWords int // Paragraphs with at least this many words are justified.
}

// DefaultOptions returns the layout options of the original booklets.
func DefaultOptions() Options {
	return Options{JustifyMinWords: 15}
}

// Writer accumulates paragraphs in a document loaded from a template.
type Writer struct {
	doc    *docx.Docx
	sect   []interface{}
	styles StyleTable
	opts   Options
}

// New loads the template and clears its body. The template's styles and
// section properties are kept. A nil template starts a blank A4 document.
func New(template io.ReaderAt, size int64, styles StyleTable, opts Options) (*Writer, error) {
	var doc *docx.Docx
	if template == nil {
		doc = docx.New().WithDefaultTheme().WithA4Page()
	} else {
		var err error
		doc, err = docx.Parse(template, size)
		if err != nil {
			return nil, fmt.Errorf("load template: %w", err)
		}
	}
	w := &Writer{doc: doc, styles: styles, opts: opts}
	for _, item := range doc.Document.Body.Items {
		if s, ok := item.(*docx.SectPr); ok {
			w.sect = append(w.sect, s)
		}
	}
	doc.Document.Body.Items = nil
	return w, nil
}

// NewFromBytes is New for a template held in memory. Empty data starts a
// blank document.
func NewFromBytes(template []byte, styles StyleTable, opts Options) (*Writer, error) {
	if len(template) == 0 {
		return New(nil, 0, styles, opts)
	}
	return New(bytes.NewReader(template), int64(len(template)), styles, opts)
}

// WriteTo writes the document with the section properties last.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	items := w.doc.Document.Body.Items
	w.doc.Document.Body.Items = append(append([]interface{}{}, items...), w.sect...)
	defer func() { w.doc.Document.Body.Items = items }()

	cw := &countWriter{w: out}
	if _, err := w.doc.WriteTo(cw); err != nil {
		return cw.n, fmt.Errorf("write docx: %w", err)
	}
	return cw.n, nil
}

// Booklet lays out a bilingual booklet: per row, the mantra, phonetics and
// translation paragraphs.
func (w *Writer) Booklet(doc *doctree.Document) {
	for i, seg := range doc.Segments {
		if i > 0 && seg.Type != doc.Segments[i-1].Type {
			w.doc.AddParagraph()
		}
		var last *docx.Paragraph
		for _, row := range seg.Rows {
			if skt := mantra(row); skt != "" {
				p := w.paragraph(w.styles.MantraParagraph)
				addRun(p, skt, SpanStyle{Character: w.styles.MantraCharacter, Bold: true}, doctree.Style{})
				w.justify(p, skt)
				last = p
			}
			if phon := row.Get(doctree.FieldPhonetics); phon != "" && !w.opts.NoPhonetics {
				p := w.paragraph(w.styles.PhoneticsParagraph)
				addRun(p, phon, SpanStyle{Character: w.styles.PhoneticsCharacter}, doctree.Style{})
				w.justify(p, phon)
				last = p
			}
			if !hasText(row.Spans) {
				continue
			}
			if seg.Type == doctree.TypeMantra && row.Spans[0].Type == "" && strings.TrimSpace(row.Spans[0].Text) == "" {
				continue
			}
			p := w.paragraph(w.styles.Paragraph[seg.Type])
			var text strings.Builder
			for _, sp := range row.Spans {
				st := w.styles.spanStyle(seg.Type, sp.Type)
				for _, r := range spanRuns(sp) {
					addRun(p, r.Text, st, r.Style)
				}
				text.WriteString(sp.Text)
			}
			w.justify(p, text.String())
			last = p
		}
		if seg.Type == doctree.TypeTitle && last != nil {
			last.AddPageBreaks()
		}
	}
}

// Tibetan lays out one paragraph per segment from the Tibetan cells of its
// rows, one line per row. Rows are expected to be parsed with the Tibetan
// span field.
func (w *Writer) Tibetan(doc *doctree.Document) {
	for _, seg := range doc.Segments {
		p := w.paragraph(w.styles.Paragraph[seg.Type])
		if typedSpans(seg) {
			w.tibetanSpans(p, seg)
		} else {
			cells := make([][]doctree.Run, len(seg.Rows))
			for i, row := range seg.Rows {
				for _, sp := range tibetanSpans(row) {
					cells[i] = append(cells[i], spanRuns(sp)...)
				}
			}
			for _, r := range styled.JoinCells(cells) {
				w.tibetanRun(p, r, seg.Type, "")
			}
		}
		if seg.Type == doctree.TypeTitle {
			p.AddPageBreaks()
		}
	}
}

// tibetanSpans writes rows whose spans carry their own letter kind.
func (w *Writer) tibetanSpans(p *docx.Paragraph, seg doctree.Segment) {
	first := true
	for _, row := range seg.Rows {
		spans := tibetanSpans(row)
		if !hasText(spans) {
			continue
		}
		if !first {
			p.AddText("\n")
		}
		first = false
		for _, sp := range spans {
			for _, r := range spanRuns(sp) {
				w.tibetanRun(p, r, seg.Type, sp.Type)
			}
		}
	}
}

// tibetanRun writes r in the character style of its letter kind: the span
// type when there is one, small letters, or the segment type.
func (w *Writer) tibetanRun(p *docx.Paragraph, r doctree.Run, segType doctree.SegmentType, spanType string) {
	kind := segType
	switch {
	case spanType != "":
		kind = doctree.SegmentType(spanType)
	case r.Style.Small:
		kind = doctree.TypeSmall
	}
	st := SpanStyle{Character: w.styles.Character[kind]}
	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			p.AddText("\n")
		}
		addRun(p, line, st, doctree.Style{})
	}
}

func tibetanSpans(row doctree.Row) []doctree.Span {
	if len(row.Spans) > 0 {
		return row.Spans
	}
	return []doctree.Span{{Text: row.Fields[doctree.FieldTibetan], Runs: row.Styled[doctree.FieldTibetan]}}
}

func typedSpans(seg doctree.Segment) bool {
	for _, row := range seg.Rows {
		for _, sp := range row.Spans {
			if sp.Type != "" {
				return true
			}
		}
	}
	return false
}

func (w *Writer) paragraph(style string) *docx.Paragraph {
	p := w.doc.AddParagraph()
	if style != "" {
		p.Style(style)
	}
	return p
}

func (w *Writer) justify(p *docx.Paragraph, text string) {
	if w.opts.JustifyMinWords > 0 && len(strings.Fields(text)) >= w.opts.JustifyMinWords {
		p.Justification("both")
	}
}

// spanRuns returns the styled runs of a span, or its text as a single plain
// run.
func spanRuns(sp doctree.Span) []doctree.Run {
	if len(sp.Runs) > 0 {
		return styled.NormalizeBreaks(sp.Runs)
	}
	if sp.Text == "" {
		return nil
	}
	return []doctree.Run{{Text: sp.Text}}
}

func addRun(p *docx.Paragraph, text string, st SpanStyle, own doctree.Style) {
	if text == "" {
		return
	}
	run := p.AddText(text)
	if st.Character != "" {
		run.RunProperties.RunStyle = &docx.RunStyle{Val: st.Character}
	}
	if st.Bold || own.Bold {
		run.Bold()
	}
	if st.Italic || own.Italic {
		run.Italic()
	}
	for _, c := range run.Children {
		if t, ok := c.(*docx.Text); ok {
			t.XMLSpace = "preserve"
		}
	}
}

// mantra returns the phonetic Sanskrit of a row, or its Sanskrit when the
// sheet has no phonetic rendering.
func mantra(row doctree.Row) string {
	if v := row.Get(doctree.FieldSanskritPhon); v != "" {
		return v
	}
	return row.Get(doctree.FieldSanskrit)
}

func hasText(spans []doctree.Span) bool {
	for _, sp := range spans {
		if strings.TrimSpace(sp.Text) != "" {
			return true
		}
	}
	return false
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
