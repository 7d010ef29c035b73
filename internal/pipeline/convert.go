package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/emit"
	"github.com/dgallion1/pechaform/internal/export"
	"github.com/dgallion1/pechaform/internal/parser"
)

// Mode selects the output of a conversion.
type Mode string

const (
	ModeBooklet       Mode = "booklet"
	ModeBookletNoPhon Mode = "booklet-nophon"
	ModeTibetan       Mode = "tibetan"
	ModeSpread        Mode = "spread"
	ModeBilingual     Mode = "bilingual"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeBooklet, ModeBookletNoPhon, ModeTibetan, ModeSpread, ModeBilingual}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

const (
	ContentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeTSV  = "text/tab-separated-values; charset=utf-8"
)

// Output is a converted document.
type Output struct {
	Data        []byte
	Name        string
	ContentType string
	Title       string
	Segments    int
}

// Converter turns one source document into one output. It holds no mutable
// state and is safe for concurrent use.
type Converter struct {
	Parse         parser.Options
	BookletStyles emit.StyleTable
	TibetanStyles emit.StyleTable
	Layout        emit.Options
	Template      []byte
	Log           *slog.Logger
}

// NewConverter returns a converter with the default options and a blank
// template.
func NewConverter(log *slog.Logger) *Converter {
	if log == nil {
		log = slog.Default()
	}
	opts := parser.DefaultOptions()
	opts.Log = log
	return &Converter{
		Parse:         opts,
		BookletStyles: emit.DefaultBookletStyles(),
		TibetanStyles: emit.DefaultTibetanStyles(),
		Layout:        emit.DefaultOptions(),
		Log:           log,
	}
}

// Convert parses in as filename and renders it in mode.
func (c *Converter) Convert(ctx context.Context, in io.Reader, filename string, mode Mode) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	opts := c.Parse
	switch mode {
	case ModeBooklet, ModeBookletNoPhon, ModeBilingual:
		opts.Required = parser.BookletColumns
	case ModeTibetan, ModeSpread:
		opts.Required = parser.TibetanColumns
		opts.SpanField = doctree.FieldTibetan
	default:
		return Output{}, fmt.Errorf("unknown mode %q", mode)
	}

	doc, err := parser.ParseFile(in, filename, opts)
	if err != nil {
		return Output{}, err
	}
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	out := Output{Title: doc.Title, Segments: len(doc.Segments)}
	var buf bytes.Buffer
	switch mode {
	case ModeBooklet, ModeBookletNoPhon, ModeTibetan:
		layout := c.Layout
		styles := c.BookletStyles
		if mode == ModeTibetan {
			styles = c.TibetanStyles
		}
		layout.NoPhonetics = mode == ModeBookletNoPhon
		w, err := emit.NewFromBytes(c.Template, styles, layout)
		if err != nil {
			return Output{}, err
		}
		if mode == ModeTibetan {
			w.Tibetan(doc)
		} else {
			w.Booklet(doc)
		}
		if _, err := w.WriteTo(&buf); err != nil {
			return Output{}, err
		}
		out.ContentType = ContentTypeDocx
	case ModeSpread:
		if err := export.Transliteration(&buf, doc); err != nil {
			return Output{}, fmt.Errorf("export transliteration: %w", err)
		}
		out.ContentType = ContentTypeTSV
	case ModeBilingual:
		if err := export.Bilingual(&buf, doc); err != nil {
			return Output{}, fmt.Errorf("export bilingual: %w", err)
		}
		out.ContentType = ContentTypeTSV
	}
	out.Data = buf.Bytes()
	out.Name = OutputName(filename, mode)

	c.Log.Debug("converted", "file", filename, "mode", mode, "segments", out.Segments, "bytes", len(out.Data))
	return out, nil
}

// OutputName derives the output file name from the input name.
func OutputName(filename string, mode Mode) string {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	switch mode {
	case ModeBooklet:
		return stem + ".docx"
	case ModeBookletNoPhon:
		return stem + "_nophon.docx"
	case ModeTibetan:
		return stem + "_tib.docx"
	default:
		return stem + "_" + string(mode) + ".tsv"
	}
}
