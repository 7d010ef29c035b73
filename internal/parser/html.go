package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/styled"
)

// styledFields are the columns whose inline formatting is kept.
var styledFields = []doctree.Field{doctree.FieldTranslation, doctree.FieldTibetan}

// HTMLSource reads the first table of an HTML sheet export, such as a
// published Google Sheet.
type HTMLSource struct {
	data []byte
	opts Options
}

func NewHTMLSource(data []byte, opts Options) *HTMLSource {
	return &HTMLSource{data: data, opts: opts}
}

func (s *HTMLSource) Rows() ([]doctree.Row, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(s.data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	var records [][]string
	var cells [][]*html.Node
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var rec []string
		var nodes []*html.Node
		tr.ChildrenFiltered("td, th").Each(func(_ int, c *goquery.Selection) {
			if c.HasClass("row-headers-background") || c.HasClass("row-header") {
				return
			}
			n := c.Get(0)
			rec = append(rec, strings.TrimSpace(styled.TextContent(n)))
			nodes = append(nodes, n)
		})
		records = append(records, rec)
		cells = append(cells, nodes)
	})

	rows, index, cols, err := tableRows(records, s.opts.Required)
	if err != nil {
		return nil, err
	}

	var sizeErrs styled.SizeErrors
	for i := range rows {
		rec := cells[index[i]]
		for _, f := range styledFields {
			ci, ok := cols[f]
			if !ok || ci >= len(rec) {
				continue
			}
			runs, err := styled.FromHTML(rec[ci], s.opts.HTML)
			var se styled.SizeErrors
			if errors.As(err, &se) {
				sizeErrs = append(sizeErrs, se...)
			}
			runs = styled.Trim(runs)
			if rows[i].Styled == nil {
				rows[i].Styled = make(map[doctree.Field][]doctree.Run)
			}
			rows[i].Styled[f] = runs
			rows[i].Fields[f] = styled.Plain(runs)
		}
	}
	if len(sizeErrs) > 0 {
		return nil, sizeErrs
	}
	return rows, nil
}
