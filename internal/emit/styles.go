package emit

import "github.com/dgallion1/pechaform/internal/doctree"

// SpanStyle is the formatting of a typed sub-span.
type SpanStyle struct {
	Character string `mapstructure:"character"`
	Bold      bool   `mapstructure:"bold"`
	Italic    bool   `mapstructure:"italic"`
}

// StyleTable maps segment and span types to the style names defined in the
// template document.
type StyleTable struct {
	Paragraph map[doctree.SegmentType]string
	Character map[doctree.SegmentType]string

	PhoneticsParagraph string
	PhoneticsCharacter string
	MantraParagraph    string
	MantraCharacter    string

	// Spans overrides the style of typed spans. Types missing here fall back
	// to the character style of the segment type with the same name.
	Spans map[string]SpanStyle
}

// DefaultBookletStyles returns the styles of the bilingual booklet template.
func DefaultBookletStyles() StyleTable {
	return StyleTable{
		Paragraph: map[doctree.SegmentType]string{
			doctree.TypeTitle:    "Text Title",
			doctree.TypeSubtitle: "Translation",
			doctree.TypeSection1: "Sections",
			doctree.TypeSection2: "Sections",
			doctree.TypeNormal:   "Translation",
			doctree.TypeSmall:    "Small Letters",
			doctree.TypeMantra:   "Mantras",
		},
		Character: map[doctree.SegmentType]string{
			doctree.TypeNormal: "Translation Words",
			doctree.TypeSmall:  "Small Words",
			doctree.TypeMantra: "Mantras Words",
		},
		PhoneticsParagraph: "Phonetics",
		PhoneticsCharacter: "Phonetics Words",
		MantraParagraph:    "Mantras",
		MantraCharacter:    "Mantras Words",
		Spans: map[string]SpanStyle{
			"b": {Character: "Phonetics Words", Bold: true},
			"i": {Italic: true},
		},
	}
}

// DefaultTibetanStyles returns the styles of the Tibetan pecha template.
func DefaultTibetanStyles() StyleTable {
	return StyleTable{
		Paragraph: map[doctree.SegmentType]string{
			doctree.TypeTitle:   "ཁ་བྱང་།",
			doctree.TypeSection: "ས་བཅད།",
			doctree.TypeSmall:   "བོད་ཡིག",
			doctree.TypeNormal:  "བོད་ཡིག",
			doctree.TypeBig:     "བོད་ཡིག",
		},
		Character: map[doctree.SegmentType]string{
			doctree.TypeTitle:   "ཁ་བྱང་ཡི་གེ",
			doctree.TypeSection: "ཡིག་ཆུང་།",
			doctree.TypeSmall:   "ཡིག་ཆུང་།",
			doctree.TypeNormal:  "ཡིག་ཆེན།",
			doctree.TypeBig:     "ཡིག་ཆེན།",
		},
	}
}

// spanStyle resolves the formatting of a span inside a segment of type seg.
func (t StyleTable) spanStyle(seg doctree.SegmentType, span string) SpanStyle {
	if span == "" {
		return SpanStyle{Character: t.Character[seg]}
	}
	if st, ok := t.Spans[span]; ok {
		return st
	}
	return SpanStyle{Character: t.Character[doctree.SegmentType(span)]}
}

// Merge overlays the non-empty entries of o onto a copy of t.
func (t StyleTable) Merge(o StyleTable) StyleTable {
	out := StyleTable{
		Paragraph:          copyMap(t.Paragraph),
		Character:          copyMap(t.Character),
		PhoneticsParagraph: pick(o.PhoneticsParagraph, t.PhoneticsParagraph),
		PhoneticsCharacter: pick(o.PhoneticsCharacter, t.PhoneticsCharacter),
		MantraParagraph:    pick(o.MantraParagraph, t.MantraParagraph),
		MantraCharacter:    pick(o.MantraCharacter, t.MantraCharacter),
		Spans:              make(map[string]SpanStyle, len(t.Spans)+len(o.Spans)),
	}
	for k, v := range o.Paragraph {
		out.Paragraph[k] = v
	}
	for k, v := range o.Character {
		out.Character[k] = v
	}
	for k, v := range t.Spans {
		out.Spans[k] = v
	}
	for k, v := range o.Spans {
		out.Spans[k] = v
	}
	return out
}

func copyMap(m map[doctree.SegmentType]string) map[doctree.SegmentType]string {
	out := make(map[doctree.SegmentType]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func pick(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
