package parser

import (
	"strings"

	"github.com/dgallion1/pechaform/internal/doctree"
)

// InlineSource reads raw text where |type| markers introduce the content
// that runs up to the next marker.
type InlineSource struct {
	text string
}

func NewInlineSource(text string) *InlineSource {
	return &InlineSource{text: text}
}

// SpanField returns the Tibetan field: inline text carries no translation.
func (s *InlineSource) SpanField() doctree.Field {
	return doctree.FieldTibetan
}

func (s *InlineSource) Rows() ([]doctree.Row, error) {
	matches := level1.FindAllStringSubmatchIndex(s.text, -1)
	var rows []doctree.Row
	add := func(hub, content string) {
		rows = append(rows, doctree.Row{Fields: map[doctree.Field]string{
			doctree.FieldHub:     hub,
			doctree.FieldTibetan: strings.TrimSpace(content),
		}})
	}

	end := len(s.text)
	if len(matches) > 0 {
		end = matches[0][0]
	}
	if lead := strings.TrimSpace(s.text[:end]); lead != "" {
		add("", lead)
	}
	for i, m := range matches {
		next := len(s.text)
		if i+1 < len(matches) {
			next = matches[i+1][0]
		}
		add(s.text[m[0]:m[1]], s.text[m[1]:next])
	}
	return rows, nil
}
