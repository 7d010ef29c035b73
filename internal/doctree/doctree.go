package doctree

import "strings"

// SegmentType names the semantic role of a segment.
type SegmentType string

const (
	TypeDefault  SegmentType = ""
	TypeTitle    SegmentType = "T"
	TypeSection  SegmentType = "t"
	TypeSection1 SegmentType = "t1"
	TypeSection2 SegmentType = "t2"
	TypeSubtitle SegmentType = "sub"
	TypeNormal   SegmentType = "n"
	TypeSmall    SegmentType = "s"
	TypeMantra   SegmentType = "k"
	TypeBig      SegmentType = "b"
)

// Field names a column of a table row.
type Field string

const (
	FieldHub            Field = "hub"
	FieldTibetan        Field = "Tibetan"
	FieldTibetanNoPhon  Field = "Tibetan- no phonetics"
	FieldPhonetics      Field = "Phonetics"
	FieldSanskrit       Field = "Sanskrit"
	FieldSanskritPhon   Field = "Sanskrit phon"
	FieldTranslation    Field = "Translation"
	FieldTranslationRef Field = "Translation reference"
)

// KindSanskrit tags a logical line holding a Sanskrit fragment.
const KindSanskrit = "skrt"

// Document is the root of a parsed source.
type Document struct {
	Title    string    // Text of the first title segment
	Segments []Segment // Reading order
}

// Segment is a maximal run of rows sharing one type.
type Segment struct {
	Type SegmentType
	Rows []Row
}

// Row maps named fields to their values.
type Row struct {
	Fields map[Field]string
	Styled map[Field][]Run // Only for fields whose source carries style
	Spans  []Span          // Span sequence of the designated span field
}

// Get returns the trimmed value of f.
func (r Row) Get(f Field) string {
	return strings.TrimSpace(r.Fields[f])
}

// Text returns the trimmed text of f, read from its styled runs when the
// source carried markup.
func (r Row) Text(f Field) string {
	runs, ok := r.Styled[f]
	if !ok {
		return r.Get(f)
	}
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(run.Text)
	}
	return strings.TrimSpace(b.String())
}

// Blank reports whether every field other than the hub is empty.
func (r Row) Blank() bool {
	for f, v := range r.Fields {
		if f == FieldHub {
			continue
		}
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Span is a plain or typed piece of a field.
type Span struct {
	Type string // Empty for plain text
	Text string
	Runs []Run // Per-character style, nil when the field is unstyled
}

// Style is the emphasis of a run.
type Style struct {
	Bold   bool
	Italic bool
	Small  bool
}

// Run is a contiguous piece of text sharing one style.
type Run struct {
	Text  string
	Style Style
}

// Chunk is a provisional unit of a paragraph with its syllable count.
type Chunk struct {
	Text      string
	Syllables int
	Sanskrit  bool
	Verse     bool
}

// Empty reports whether the chunk was emptied by a merge or never had text.
func (c Chunk) Empty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// Line is one logical line produced by the verse detector.
type Line struct {
	Text  string
	Verse bool   // Ends a verse line
	Kind  string // Empty, or KindSanskrit
}
