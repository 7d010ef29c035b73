package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/styled"
)

// TSVSource reads a tab-delimited sheet export. Translation cells that use
// markdown emphasis also get styled runs; the field keeps the cell as written.
type TSVSource struct {
	data []byte
	opts Options
}

func NewTSVSource(data []byte, opts Options) *TSVSource {
	return &TSVSource{data: data, opts: opts}
}

func (s *TSVSource) Rows() ([]doctree.Row, error) {
	reader := csv.NewReader(bytes.NewReader(decodeText(s.data)))
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse tsv: %w", err)
	}
	rows, _, _, err := tableRows(records, s.opts.Required)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		trans := rows[i].Fields[doctree.FieldTranslation]
		if !strings.ContainsAny(trans, "*_") {
			continue
		}
		rows[i].Styled = map[doctree.Field][]doctree.Run{
			doctree.FieldTranslation: styled.FromMarkdown(trans),
		}
	}
	return rows, nil
}

// decodeText strips a byte order mark and converts UTF-16 input to UTF-8.
func decodeText(data []byte) []byte {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), dec))
	if err != nil {
		return data
	}
	return out
}
