package separate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/parser"
)

func TestWrapSeeds(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hri Hung Ho", "/b-Hri/ /b-Hung/ /b-Ho/"},
		{"Houng!", "/b-Houng/!"},
		{"Hope and Hold", "Hope and Hold"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WrapSeeds(tt.in))
	}
}

func TestColumns(t *testing.T) {
	t.Run("phonetics and translation", func(t *testing.T) {
		verses, err := Columns("ka kha\nfirst line\n ga nga \nsecond line", PhoneticsTranslation)
		require.NoError(t, err)
		assert.Equal(t, []Verse{
			{Phonetics: "ka kha", Translation: "first line"},
			{Phonetics: "ga nga", Translation: "second line"},
		}, verses)
	})

	t.Run("with tibetan", func(t *testing.T) {
		verses, err := Columns("ཀ་ཁ།\nka kha\nfirst", TibetanPhoneticsTranslation)
		require.NoError(t, err)
		assert.Equal(t, []Verse{{Tibetan: "ཀ་ཁ།", Phonetics: "ka kha", Translation: "first"}}, verses)
	})

	t.Run("uneven block", func(t *testing.T) {
		_, err := Columns("a\nb\nc", PhoneticsTranslation)
		var ce *ColumnsError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, 3, ce.Lines)
	})
}

func TestSeparate_ProducesBilingualSheet(t *testing.T) {
	in := "Hri ka kha\nHri, first line\n\n\nga nga\nsecond line\nca cha\nthird line\n"
	var out bytes.Buffer
	require.NoError(t, Separate(strings.NewReader(in), &out, PhoneticsTranslation))

	doc, err := parser.Parse(parser.NewTSVSource(out.Bytes(), parser.DefaultOptions()), parser.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, doc.Segments, 2)

	first := doc.Segments[0]
	assert.Equal(t, doctree.TypeNormal, first.Type)
	require.Len(t, first.Rows, 1)
	assert.Equal(t, "/b-Hri/ ka kha", first.Rows[0].Get(doctree.FieldPhonetics))
	assert.Equal(t, []doctree.Span{{Type: "b", Text: "Hri"}, {Text: ", first line"}}, first.Rows[0].Spans)

	assert.Len(t, doc.Segments[1].Rows, 2)
}

func TestSeparate_ReportsBlock(t *testing.T) {
	err := Separate(strings.NewReader("a\nb\n\nc\n"), &bytes.Buffer{}, PhoneticsTranslation)
	var ce *ColumnsError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 2, ce.Block)
}
