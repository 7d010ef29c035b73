package parser

import (
	"github.com/dgallion1/pechaform/internal/chunker"
	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/verse"
)

// ParagraphSource reads free-form text. Each blank-line separated paragraph
// opens a prose segment whose rows are its logical lines.
type ParagraphSource struct {
	text string
	opts Options
}

func NewParagraphSource(text string, opts Options) *ParagraphSource {
	return &ParagraphSource{text: text, opts: opts}
}

func (s *ParagraphSource) SpanField() doctree.Field {
	return doctree.FieldTibetan
}

func (s *ParagraphSource) Rows() ([]doctree.Row, error) {
	cfg := verseConfig(s.opts, chunker.ModePlain)
	var rows []doctree.Row
	for _, para := range chunker.Paragraphs(s.text) {
		_, lines := verse.Split(para, cfg)
		rows = append(rows, linesToRows(lines, doctree.TypeNormal)...)
	}
	return rows, nil
}
