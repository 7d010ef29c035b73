// Package export writes parsed documents back out as tab-separated sheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/parser"
	"github.com/dgallion1/pechaform/internal/styled"
)

// BilingualHeader is the column order of the bilingual sheet.
var BilingualHeader = []doctree.Field{
	doctree.FieldHub,
	doctree.FieldTibetanNoPhon,
	doctree.FieldTranslation,
	doctree.FieldTibetan,
	doctree.FieldPhonetics,
	doctree.FieldSanskrit,
	doctree.FieldSanskritPhon,
}

// Transliteration writes a two-column [hub, Tibetan] sheet. The first row of
// every segment carries the segment tag and the content keeps its
// /type-text/ markup.
func Transliteration(w io.Writer, doc *doctree.Document) error {
	cw := newWriter(w)
	if err := cw.Write([]string{string(doctree.FieldHub), string(doctree.FieldTibetan)}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, seg := range doc.Segments {
		for i, row := range seg.Rows {
			content := row.Get(doctree.FieldTibetan)
			if len(row.Spans) > 0 {
				content = parser.JoinSpans(row.Spans)
			}
			hub := ""
			if i == 0 {
				hub = parser.Hub(seg.Type)
				// A blank first row would be read back as a bare marker.
				if strings.TrimSpace(content) == "" {
					if err := cw.Write([]string{hub, ""}); err != nil {
						return err
					}
					hub = ""
				}
			}
			if err := cw.Write([]string{hub, content}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Bilingual writes the six-column sheet used to edit booklets. Translations
// keep their /type-text/ markup and render styled runs as markdown emphasis.
func Bilingual(w io.Writer, doc *doctree.Document) error {
	cw := newWriter(w)
	header := make([]string, len(BilingualHeader))
	for i, f := range BilingualHeader {
		header[i] = string(f)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, seg := range doc.Segments {
		for i, row := range seg.Rows {
			rec := make([]string, len(BilingualHeader))
			for j, f := range BilingualHeader {
				rec[j] = row.Get(f)
			}
			rec[2] = Translation(row)
			if i == 0 {
				rec[0] = parser.Hub(seg.Type)
				if row.Blank() {
					if err := cw.Write(rec); err != nil {
						return err
					}
					rec = make([]string, len(BilingualHeader))
				}
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Translation serializes the translation spans of row.
func Translation(row doctree.Row) string {
	if len(row.Spans) == 0 {
		return row.Get(doctree.FieldTranslation)
	}
	var b strings.Builder
	for _, sp := range row.Spans {
		text := sp.Text
		if len(sp.Runs) > 0 {
			text = styled.ToMarkdown(sp.Runs)
		}
		if sp.Type == "" {
			b.WriteString(text)
			continue
		}
		b.WriteString("/" + sp.Type + "-" + text + "/")
	}
	return b.String()
}

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return cw
}
