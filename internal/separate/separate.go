// Package separate turns interleaved phonetics and translation lines into a
// bilingual sheet.
package separate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/dgallion1/pechaform/internal/chunker"
	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/export"
	"github.com/dgallion1/pechaform/internal/parser"
)

// Mode is the number of lines that make up one verse.
type Mode int

const (
	// PhoneticsTranslation alternates phonetics and translation lines.
	PhoneticsTranslation Mode = 2
	// TibetanPhoneticsTranslation repeats Tibetan, phonetics, translation.
	TibetanPhoneticsTranslation Mode = 3
)

var seeds = regexp.MustCompile(`\b(Hri|Houng|Hung|Ho)\b`)

// WrapSeeds marks the standalone seed syllables as bold spans.
func WrapSeeds(text string) string {
	return seeds.ReplaceAllString(text, "/b-$1/")
}

// Blocks splits text on blank lines.
func Blocks(text string) []string {
	return chunker.Paragraphs(text)
}

// Verse is one line group of a block.
type Verse struct {
	Tibetan     string
	Phonetics   string
	Translation string
}

// ColumnsError reports a block whose line count is not a multiple of the
// mode.
type ColumnsError struct {
	Block int
	Mode  Mode
	Lines int
}

func (e *ColumnsError) Error() string {
	return fmt.Sprintf("block %d: %d lines do not split into groups of %d", e.Block, e.Lines, e.Mode)
}

// Columns distributes the lines of block into verses.
func Columns(block string, mode Mode) ([]Verse, error) {
	if mode != PhoneticsTranslation && mode != TibetanPhoneticsTranslation {
		return nil, fmt.Errorf("unsupported mode %d", mode)
	}
	lines := strings.Split(block, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	if len(lines)%int(mode) != 0 {
		return nil, &ColumnsError{Mode: mode, Lines: len(lines)}
	}
	var verses []Verse
	for i := 0; i < len(lines); i += int(mode) {
		if mode == PhoneticsTranslation {
			verses = append(verses, Verse{Phonetics: lines[i], Translation: lines[i+1]})
			continue
		}
		verses = append(verses, Verse{Tibetan: lines[i], Phonetics: lines[i+1], Translation: lines[i+2]})
	}
	return verses, nil
}

// Separate reads interleaved text from r and writes a bilingual sheet to w.
// Every block becomes a prose segment, followed by a blank row.
func Separate(r io.Reader, w io.Writer, mode Mode) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	header := make([]string, len(export.BilingualHeader))
	for i, f := range export.BilingualHeader {
		header[i] = string(f)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for bi, block := range Blocks(WrapSeeds(string(data))) {
		verses, err := Columns(block, mode)
		if err != nil {
			var ce *ColumnsError
			if errors.As(err, &ce) {
				ce.Block = bi + 1
			}
			return err
		}
		for vi, v := range verses {
			rec := make([]string, len(export.BilingualHeader))
			for i, f := range export.BilingualHeader {
				switch f {
				case doctree.FieldTibetan:
					rec[i] = v.Tibetan
				case doctree.FieldPhonetics:
					rec[i] = v.Phonetics
				case doctree.FieldTranslation:
					rec[i] = v.Translation
				}
			}
			if vi == 0 {
				rec[0] = parser.Hub(doctree.TypeNormal)
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		if err := cw.Write(make([]string, len(export.BilingualHeader))); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
