package parser

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/pechaform/internal/chunker"
	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/styled"
	"github.com/dgallion1/pechaform/internal/verse"
)

// DocxSource reads a Word document whose letter kinds are encoded in run
// font sizes. Every block of same-kind text is split into verse lines.
type DocxSource struct {
	doc  *docx.Docx
	opts Options
}

// NewDocxSource parses data as a .docx file.
func NewDocxSource(data []byte, opts Options) (*DocxSource, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}
	return &DocxSource{doc: doc, opts: opts}, nil
}

func (s *DocxSource) SpanField() doctree.Field {
	return doctree.FieldTibetan
}

// Block is a run of text sharing one letter kind.
type Block struct {
	Kind doctree.SegmentType
	Text string
	Runs []doctree.Run // Bold and italic of Text
}

// Blocks groups the runs of every paragraph by letter kind. Runs whose size
// is missing or unknown are collected and reported together.
func (s *DocxSource) Blocks() ([]Block, error) {
	sizes := s.opts.LetterSizes
	if sizes == nil {
		sizes = DefaultLetterSizes()
	}
	var blocks []Block
	var unknown []UnknownSize
	for _, item := range s.doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		var cur []Block
		for _, run := range styled.FromDocx(para) {
			if strings.TrimSpace(run.Text) == "" {
				if n := len(cur); n > 0 {
					cur[n-1].Text += run.Text
					cur[n-1].Runs = append(cur[n-1].Runs, run.Run)
				}
				continue
			}
			kind, known := sizes[run.Size]
			if !run.HasSize || !known {
				unknown = append(unknown, UnknownSize{Size: run.Size, HasSize: run.HasSize, Text: run.Text})
				continue
			}
			if n := len(cur); n > 0 && cur[n-1].Kind == kind {
				cur[n-1].Text += run.Text
				cur[n-1].Runs = append(cur[n-1].Runs, run.Run)
				continue
			}
			cur = append(cur, Block{Kind: kind, Text: run.Text, Runs: []doctree.Run{run.Run}})
		}
		for i := range cur {
			cur[i].Runs = styled.Merge(cur[i].Runs)
		}
		blocks = append(blocks, cur...)
	}
	if len(unknown) > 0 {
		return nil, &UnknownSizesError{Items: unknown}
	}
	return blocks, nil
}

func (s *DocxSource) Rows() ([]doctree.Row, error) {
	blocks, err := s.Blocks()
	if err != nil {
		return nil, err
	}
	cfg := verseConfig(s.opts, chunker.ModeTable)
	var rows []doctree.Row
	for _, b := range blocks {
		_, lines := verse.Split(b.Text, cfg)
		lineRows := linesToRows(lines, b.Kind)
		if emphasized(b.Runs) {
			for i, runs := range lineRuns(lines, b.Runs) {
				if runs != nil {
					lineRows[i].Styled = map[doctree.Field][]doctree.Run{doctree.FieldTibetan: runs}
				}
			}
		}
		rows = append(rows, lineRows...)
	}
	return rows, nil
}

func emphasized(runs []doctree.Run) bool {
	for _, r := range runs {
		if r.Style.Bold || r.Style.Italic {
			return true
		}
	}
	return false
}

// lineRuns carries the run styles of a block over to its verse lines. Lines
// differ from the block text only in whitespace, so their other characters
// are matched in order. Lines from the first mismatch on are left unstyled.
func lineRuns(lines []doctree.Line, runs []doctree.Run) [][]doctree.Run {
	type styledRune struct {
		r  rune
		st doctree.Style
	}
	var src []styledRune
	for _, run := range runs {
		for _, r := range run.Text {
			if !unicode.IsSpace(r) {
				src = append(src, styledRune{r, run.Style})
			}
		}
	}

	out := make([][]doctree.Run, len(lines))
	pos := 0
	for i, l := range lines {
		var line []doctree.Run
		var st doctree.Style
		for _, r := range l.Text {
			if !unicode.IsSpace(r) {
				if pos >= len(src) || src[pos].r != r {
					return out
				}
				st = src[pos].st
				pos++
			}
			line = append(line, doctree.Run{Text: string(r), Style: st})
		}
		out[i] = styled.Merge(line)
	}
	return out
}
