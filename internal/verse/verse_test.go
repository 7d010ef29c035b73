package verse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/pechaform/internal/chunker"
	"github.com/dgallion1/pechaform/internal/doctree"
)

func TestMajoritySize(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
		kind  MajorityKind
		size  int
	}{
		{"empty", nil, NoMajority, 0},
		{"clear majority", []int{4, 4, 5}, Found, 4},
		{"two equal", []int{7, 7}, Found, 7},
		{"two distinct is degenerate", []int{4, 9}, Degenerate, 0},
		{"tie prefers smaller size", []int{6, 4, 6, 4}, Found, 4},
		{"no majority", []int{1, 2, 3, 4, 5}, NoMajority, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MajoritySize(tt.sizes)
			assert.Equal(t, tt.kind, m.Kind)
			assert.Equal(t, tt.size, m.Size)
		})
	}
}

func TestMajoritySize_Confidence(t *testing.T) {
	m := MajoritySize([]int{4, 4, 5})
	assert.InDelta(t, 2.0/3.0, m.Confidence, 1e-9)
}

func TestClassify(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name    string
		sizes   []int
		isVerse bool
		size    int
	}{
		{"seed trimmed then majority", []int{1, 4, 4, 5}, true, 4},
		{"two distinct sizes are prose", []int{4, 9}, false, 0},
		{"single chunk", []int{7}, false, 0},
		{"seed only", []int{3}, false, 0},
		{"seed and one chunk", []int{2, 9}, false, 0},
		{"first two equal", []int{7, 7, 3, 9, 5}, true, 7},
		{"last two equal", []int{9, 5, 8, 6, 6}, true, 6},
		{"nothing matches", []int{9, 5, 8, 6, 7}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(tt.sizes, cfg)
			assert.Equal(t, tt.isVerse, res.IsVerse)
			assert.Equal(t, tt.size, res.VerseSize)
		})
	}
}

func TestDetect_TagsWithTolerance(t *testing.T) {
	chunks := []doctree.Chunk{
		{Text: "a", Syllables: 1},
		{Text: "b", Syllables: 4},
		{Text: "c", Syllables: 4},
		{Text: "d", Syllables: 5},
		{Text: "e", Syllables: 3},
	}
	res := Detect(chunks, DefaultConfig())
	require.True(t, res.IsVerse)
	assert.Equal(t, 4, res.VerseSize)

	var tagged []bool
	for _, c := range chunks {
		tagged = append(tagged, c.Verse)
	}
	assert.Equal(t, []bool{false, true, true, false, true}, tagged)
}

func TestDetect_ZeroTolerance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tolerance = 0
	chunks := []doctree.Chunk{
		{Text: "b", Syllables: 4},
		{Text: "c", Syllables: 4},
		{Text: "e", Syllables: 3},
	}
	Detect(chunks, cfg)
	assert.False(t, chunks[2].Verse)
}

func TestDetect_Empty(t *testing.T) {
	res := Detect(nil, DefaultConfig())
	assert.False(t, res.IsVerse)
}

func TestMergeSeeds(t *testing.T) {
	chunks := []doctree.Chunk{
		{Text: "seed", Syllables: 2},
		{Text: "line one", Syllables: 7, Verse: true},
		{Text: "line two", Syllables: 7, Verse: true},
	}
	MergeSeeds(chunks, " ", 3)

	assert.Equal(t, "", chunks[0].Text, "donor should be emptied")
	assert.Equal(t, "seed line one", chunks[1].Text)
	assert.Equal(t, 9, chunks[1].Syllables)
	assert.Len(t, chunks, 3, "donor must not be removed")
}

func TestMergeSeeds_LongPredecessorKept(t *testing.T) {
	chunks := []doctree.Chunk{
		{Text: "prose prose", Syllables: 5},
		{Text: "line", Syllables: 7, Verse: true},
	}
	MergeSeeds(chunks, " ", 3)
	assert.Equal(t, "prose prose", chunks[0].Text)
	assert.Equal(t, "line", chunks[1].Text)
}

func TestLines_JoinsProseRuns(t *testing.T) {
	chunks := []doctree.Chunk{
		{Text: "a"},
		{Text: "b"},
		{Text: "verse", Verse: true},
		{Text: ""},
		{Text: "c"},
	}
	lines := Lines(chunks, " ", false)
	assert.Equal(t, []doctree.Line{
		{Text: "a b"},
		{Text: "verse", Verse: true},
		{Text: "c"},
	}, lines)
}

func TestSplit_Verses(t *testing.T) {
	text := "ཀ་ཁ་ག་ང། ཅ་ཆ་ཇ་ཉ། ཏ་ཐ་ད་ན། པ་ཕ་བ་མ།"
	res, lines := Split(text, DefaultConfig())

	require.True(t, res.IsVerse)
	assert.Equal(t, 4, res.VerseSize)
	require.Len(t, lines, 4)
	for _, l := range lines {
		assert.True(t, l.Verse)
	}
	assert.Equal(t, "ཅ་ཆ་ཇ་ཉ།", lines[1].Text)
}

func TestSplit_FoldsClosingShad(t *testing.T) {
	text := "ཀ་ཁ་ག་ང། །ཅ་ཆ་ཇ་ཉ། །ཏ་ཐ་ད་ན། །"
	_, lines := Split(text, DefaultConfig())

	require.Len(t, lines, 3)
	assert.Equal(t, "ཀ་ཁ་ག་ང། །", lines[0].Text)
	assert.Equal(t, "ཅ་ཆ་ཇ་ཉ། །", lines[1].Text)
	assert.Equal(t, "ཏ་ཐ་ད་ན། །", lines[2].Text)
}

func TestSplit_SeedJoinsFirstVerse(t *testing.T) {
	text := "ཧཱུྃ། ཀ་ཁ་ག་ང་ཅ་ཆ་ཇ། ཏ་ཐ་ད་ན་པ་ཕ་བ། མ་ཙ་ཚ་ཛ་ཝ་ཞ་ཟ།"
	res, lines := Split(text, DefaultConfig())

	require.True(t, res.IsVerse)
	assert.Equal(t, 7, res.VerseSize)
	require.Len(t, lines, 3)
	assert.Equal(t, "ཧཱུྃ། ཀ་ཁ་ག་ང་ཅ་ཆ་ཇ།", lines[0].Text)
}

func TestSplit_Prose(t *testing.T) {
	text := "ཀ་ཁ། ཅ་ཆ་ཇ་ཉ་ཏ།"
	res, lines := Split(text, DefaultConfig())

	assert.False(t, res.IsVerse)
	require.Len(t, lines, 1)
	assert.Equal(t, text, lines[0].Text)
	assert.False(t, lines[0].Verse)
}

func TestSplit_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n"} {
		res, lines := Split(text, DefaultConfig())
		assert.False(t, res.IsVerse)
		assert.Empty(t, lines)
	}
}

func TestSplit_IsFixedPoint(t *testing.T) {
	inputs := []string{
		"ཀ་ཁ་ག་ང། །ཅ་ཆ་ཇ་ཉ། །ཏ་ཐ་ད་ན། །",
		"ཧཱུྃ། ཀ་ཁ་ག་ང་ཅ་ཆ་ཇ། ཏ་ཐ་ད་ན་པ་ཕ་བ། མ་ཙ་ཚ་ཛ་ཝ་ཞ་ཟ།",
		"ཀ་ཁ། ཅ་ཆ་ཇ་ཉ་ཏ།",
	}
	for _, in := range inputs {
		_, first := Split(in, DefaultConfig())
		_, second := Split(Render(first), DefaultConfig())
		assert.Equal(t, first, second, "input %q", in)
	}
}

func TestSplit_TableModeTagsSanskrit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chunking.Mode = chunker.ModeTable

	text := "ཨོཾ་མ་ཎི་པདྨེ་ཧཱུྃ། ཀ་ཁ་ག་ང་ཅ་ཆ་ཇ།"
	res, lines := Split(text, cfg)

	assert.False(t, res.IsVerse)
	require.Len(t, lines, 2)
	assert.Equal(t, doctree.KindSanskrit, lines[0].Kind)
	assert.Equal(t, "ཨོཾ་མ་ཎི་པདྨེ་ཧཱུྃ།", lines[0].Text)
	assert.Equal(t, "", lines[1].Kind)
}

func TestSplit_TableModeVerses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chunking.Mode = chunker.ModeTable

	_, lines := Split("ཀ་ཁ་ག་ང། །ཅ་ཆ་ཇ་ཉ། །", cfg)
	require.Len(t, lines, 2)
	assert.Equal(t, "ཀ་ཁ་ག་ང། །", lines[0].Text)
	assert.True(t, lines[1].Verse)
}
