package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/pechaform/internal/doctree"
)

var (
	ErrUnsupported = errors.New("unsupported file extension")
	ErrNoTable     = errors.New("no table found")
)

// MissingColumnsError is returned when required columns are absent from a
// table header after exact, partial and fuzzy matching.
type MissingColumnsError struct {
	Missing []doctree.Field
	Headers []string
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("missing required columns %s (header: %s)",
		strings.Join(names, ", "), strings.Join(e.Headers, " | "))
}

// UntypedSegmentError is returned when a segment has no hub tag and no field
// to infer its type from.
type UntypedSegmentError struct {
	Index int
	Row   doctree.Row
}

func (e *UntypedSegmentError) Error() string {
	return fmt.Sprintf("segment %d has no hub tag and no Tibetan, Tibetan- no phonetics or Sanskrit text", e.Index)
}

// UnknownSize is one run whose font size has no letter kind.
type UnknownSize struct {
	Size    float64
	HasSize bool
	Text    string
}

// UnknownSizesError lists every run of a document whose size is unknown.
type UnknownSizesError struct {
	Items []UnknownSize
}

func (e *UnknownSizesError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d runs with unknown sizes, attribute a letter kind to them and rerun:", len(e.Items))
	for _, it := range e.Items {
		if it.HasSize {
			fmt.Fprintf(&b, "\n\t%g, %q", it.Size, it.Text)
		} else {
			fmt.Fprintf(&b, "\n\tno size, %q", it.Text)
		}
	}
	return b.String()
}
