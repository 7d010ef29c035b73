package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/pechaform/internal/syllable"
)

func TestWhitespace(t *testing.T) {
	parts := Whitespace("ཀ་ཁ།  ག་ང།\nཅ།")
	assert.Equal(t, []string{"ཀ་ཁ།", "ག་ང།", "ཅ།"}, parts)
}

func TestInline_ConcatenatesBack(t *testing.T) {
	inputs := []string{
		"ཀ་ཁ་ག་ང། །ཅ་ཆ་ཇ་ཉ། །",
		"  ། ཀ་ཁ། ག",
		"Om mani, padme hung.",
		"",
	}
	for _, in := range inputs {
		parts := Inline(in)
		assert.Equal(t, in, strings.Join(parts, ""), "input %q", in)
	}
}

func TestInline_AttachesTrailingMarks(t *testing.T) {
	parts := Inline("ཀ་ཁ་ག་ང། །ཅ་ཆ་ཇ་ཉ། །")
	require.Len(t, parts, 2)
	assert.Equal(t, "ཀ་ཁ་ག་ང། །", parts[0])
	assert.Equal(t, "ཅ་ཆ་ཇ་ཉ། །", parts[1])
}

func TestInline_LeadingMarksJoinFirstChunk(t *testing.T) {
	parts := Inline("། ཀ་ཁ། ག")
	require.Len(t, parts, 2)
	assert.Equal(t, "། ཀ་ཁ། ", parts[0])
	assert.Equal(t, "ག", parts[1])
}

func TestAnnotate(t *testing.T) {
	chunks := Annotate([]string{"ཀ་ཁ་ག།", "ཨོཾ་ཨཱཿ་ཧཱུྃ།", "།"}, DefaultConfig())
	require.Len(t, chunks, 3)

	assert.Equal(t, 3, chunks[0].Syllables)
	assert.False(t, chunks[0].Sanskrit)

	assert.Equal(t, 3, chunks[1].Syllables)
	assert.True(t, chunks[1].Sanskrit)

	assert.Equal(t, 0, chunks[2].Syllables)
	assert.False(t, chunks[2].Sanskrit)
}

type stubOracle struct{ sanskrit []bool }

func (stubOracle) CountSyllables(string) int { return 1 }

func (s stubOracle) ClassifyTokens(string) []syllable.Token {
	out := make([]syllable.Token, len(s.sanskrit))
	for i, b := range s.sanskrit {
		out[i].Sanskrit = b
	}
	return out
}

func TestAnnotate_SanskritRule(t *testing.T) {
	tests := []struct {
		name   string
		tokens []bool
		want   bool
	}{
		{"no tokens", nil, false},
		{"all sanskrit", []bool{true, true}, true},
		{"three of five", []bool{true, false, true, false, true}, true},
		{"two of five", []bool{true, false, true, false, false}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Oracle = stubOracle{sanskrit: tt.tokens}
			chunks := Annotate([]string{"x"}, cfg)
			assert.Equal(t, tt.want, chunks[0].Sanskrit)
		})
	}
}

func TestChunk_Modes(t *testing.T) {
	cfg := DefaultConfig()
	assert.Len(t, Chunk("ཀ་ཁ། ག་ང། ཅ།", cfg), 3)

	cfg.Mode = ModeTable
	assert.Len(t, Chunk("ཀ་ཁ། ག་ང། ཅ།", cfg), 3)
	assert.Equal(t, "", cfg.Mode.Join())
	assert.Equal(t, " ", ModePlain.Join())
}

func TestParagraphs(t *testing.T) {
	text := "first line\nsecond line\n\n\n  \nnext para\r\n\r\nlast"
	assert.Equal(t, []string{"first line\nsecond line", "next para", "last"}, Paragraphs(text))
}
