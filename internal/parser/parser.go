package parser

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pechaform/internal/chunker"
	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/styled"
	"github.com/dgallion1/pechaform/internal/verse"
)

// RowSource produces the ordered rows of a source document.
type RowSource interface {
	Rows() ([]doctree.Row, error)
}

// spanFielder is implemented by sources whose markup lives in a field other
// than the translation.
type spanFielder interface {
	SpanField() doctree.Field
}

// Options configures the sources and the parser.
type Options struct {
	SpanField   doctree.Field // Field split on /type-text/ markup; empty picks the source default.
	Required    []doctree.Field
	LetterSizes map[float64]doctree.SegmentType
	HTML        styled.HTMLOptions
	Verse       verse.Config
	Log         *slog.Logger

	FallbackPdftotext bool
}

// DefaultOptions returns the options used by the booklet pipeline.
func DefaultOptions() Options {
	return Options{
		Required:    BookletColumns,
		LetterSizes: DefaultLetterSizes(),
		HTML:        styled.DefaultHTMLOptions(),
		Verse:       verse.DefaultConfig(),
		Log:         slog.Default(),
	}
}

// DefaultLetterSizes maps Word font sizes in points to segment types.
func DefaultLetterSizes() map[float64]doctree.SegmentType {
	return map[float64]doctree.SegmentType{
		20: doctree.TypeNormal,
		21: doctree.TypeNormal,
		22: doctree.TypeNormal,
		14: doctree.TypeSmall,
	}
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".tsv":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Open reads r and returns the source matching the file extension.
func Open(r io.Reader, filename string, opts Options) (RowSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".tsv":
		return NewTSVSource(data, opts), nil
	case ".html", ".htm":
		return NewHTMLSource(data, opts), nil
	case ".docx":
		return NewDocxSource(data, opts)
	case ".pdf":
		text, err := pdfText(data, opts.FallbackPdftotext)
		if err != nil {
			return nil, fmt.Errorf("extract pdf text: %w", err)
		}
		return NewParagraphSource(text, opts), nil
	case ".txt":
		text := string(decodeText(data))
		if HasInlineMarkup(text) {
			return NewInlineSource(text), nil
		}
		return NewParagraphSource(text, opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
}

// ParseFile opens r as a source and parses it.
func ParseFile(r io.Reader, filename string, opts Options) (*doctree.Document, error) {
	src, err := Open(r, filename, opts)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(src, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return doc, nil
}

// Parse groups the rows of src into typed segments and splits the span field
// of every row into spans.
func Parse(src RowSource, opts Options) (*doctree.Document, error) {
	rows, err := src.Rows()
	if err != nil {
		return nil, err
	}
	field := opts.SpanField
	if field == "" {
		field = doctree.FieldTranslation
		if sf, ok := src.(spanFielder); ok {
			field = sf.SpanField()
		}
	}

	segments := Group(rows)
	for i := range segments {
		seg := &segments[i]
		if seg.Type == doctree.TypeDefault {
			t, ok := InferType(seg.Rows[0])
			if !ok {
				return nil, &UntypedSegmentError{Index: i, Row: seg.Rows[0]}
			}
			seg.Type = t
		}
		for j := range seg.Rows {
			row := &seg.Rows[j]
			text := row.Fields[field]
			runs, ok := row.Styled[field]
			if ok {
				text = styled.Plain(runs)
			}
			row.Spans = SplitSpans(text, runs)
		}
		// A lone row without translation carries no span at all.
		if len(seg.Rows) == 1 {
			spans := seg.Rows[0].Spans
			if len(spans) > 0 && spans[0].Type == "" && spans[0].Text == "" {
				seg.Rows[0].Spans = spans[1:]
			}
		}
	}

	doc := &doctree.Document{Segments: segments}
	for _, seg := range segments {
		if seg.Type == doctree.TypeTitle {
			doc.Title = titleText(seg)
			break
		}
	}
	if opts.Log != nil {
		opts.Log.Debug("parsed document", "rows", len(rows), "segments", len(segments), "span_field", field)
	}
	return doc, nil
}

// Group splits rows into segments at every non-empty hub. A hub row with no
// other content only opens the segment. Blank rows are dropped wherever they
// are, and so are segments left without rows.
func Group(rows []doctree.Row) []doctree.Segment {
	var segs []doctree.Segment
	for _, row := range rows {
		hub := strings.TrimSpace(row.Fields[doctree.FieldHub])
		if hub != "" {
			segs = append(segs, doctree.Segment{Type: HubType(hub)})
		}
		if row.Blank() {
			continue
		}
		if len(segs) == 0 {
			segs = append(segs, doctree.Segment{})
		}
		last := &segs[len(segs)-1]
		last.Rows = append(last.Rows, row)
	}

	out := segs[:0]
	for _, seg := range segs {
		if len(seg.Rows) > 0 {
			out = append(out, seg)
		}
	}
	return out
}

// HubType strips the pipe delimiters of a hub value.
func HubType(hub string) doctree.SegmentType {
	return doctree.SegmentType(strings.Trim(hub, "| \t"))
}

// Hub wraps a segment type in pipe delimiters.
func Hub(t doctree.SegmentType) string {
	return "|" + string(t) + "|"
}

// InferType derives the type of an untagged segment from its first row.
func InferType(row doctree.Row) (doctree.SegmentType, bool) {
	switch {
	case row.Get(doctree.FieldTibetanNoPhon) != "":
		return doctree.TypeSmall, true
	case row.Get(doctree.FieldTibetan) != "":
		return doctree.TypeNormal, true
	case row.Get(doctree.FieldSanskrit) != "" || row.Get(doctree.FieldSanskritPhon) != "":
		return doctree.TypeMantra, true
	}
	return doctree.TypeDefault, false
}

func titleText(seg doctree.Segment) string {
	for _, f := range []doctree.Field{doctree.FieldTranslation, doctree.FieldTibetan, doctree.FieldPhonetics} {
		if v := seg.Rows[0].Text(f); v != "" {
			return v
		}
	}
	return ""
}

// linesToRows turns logical lines of one block into rows. The first row and
// every change between default and Sanskrit lines carry a hub tag.
func linesToRows(lines []doctree.Line, kind doctree.SegmentType) []doctree.Row {
	var rows []doctree.Row
	var prev doctree.SegmentType = "-"
	for _, l := range lines {
		t := kind
		if l.Kind == doctree.KindSanskrit {
			t = doctree.TypeMantra
		}
		hub := ""
		if t != prev {
			hub = Hub(t)
		}
		prev = t
		rows = append(rows, doctree.Row{Fields: map[doctree.Field]string{
			doctree.FieldHub:     hub,
			doctree.FieldTibetan: l.Text,
		}})
	}
	return rows
}

func verseConfig(opts Options, mode chunker.Mode) verse.Config {
	cfg := opts.Verse
	if cfg.Chunking.Oracle == nil {
		cfg = verse.DefaultConfig()
	}
	cfg.Chunking.Mode = mode
	return cfg
}
