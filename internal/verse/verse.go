// Package verse infers metrical verse lines in a paragraph from the syllable
// counts of its chunks.
package verse

import (
	"strings"

	"github.com/dgallion1/pechaform/internal/chunker"
	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/syllable"
)

// Config controls verse detection.
type Config struct {
	Tolerance        int // Chunks this many syllables short of the verse size are still verse.
	SeedMaxSyllables int // Longest opening chunk treated as a seed rather than meter.
	Chunking         chunker.Config
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Tolerance:        1,
		SeedMaxSyllables: 3,
		Chunking:         chunker.DefaultConfig(),
	}
}

// MajorityKind tells the outcome of a majority vote.
type MajorityKind int

const (
	NoMajority MajorityKind = iota
	Found
	// Degenerate is a two-element list with two distinct sizes; a 50/50
	// split there is not evidence of meter.
	Degenerate
)

func (k MajorityKind) String() string {
	switch k {
	case Found:
		return "found"
	case Degenerate:
		return "degenerate"
	default:
		return "none"
	}
}

// Majority is the result of MajoritySize.
type Majority struct {
	Kind       MajorityKind
	Size       int
	Confidence float64 // Share of the list holding Size
}

// MajoritySize returns the size held by at least half of sizes. When several
// sizes reach the threshold the smaller one wins.
func MajoritySize(sizes []int) Majority {
	if len(sizes) == 0 {
		return Majority{Kind: NoMajority}
	}
	freq := make(map[int]int)
	for _, s := range sizes {
		freq[s]++
	}
	if len(sizes) == 2 && len(freq) == 2 {
		return Majority{Kind: Degenerate}
	}
	best, found := 0, false
	for size, n := range freq {
		if 2*n < len(sizes) {
			continue
		}
		if !found || size < best {
			best, found = size, true
		}
	}
	if !found {
		return Majority{Kind: NoMajority}
	}
	return Majority{
		Kind:       Found,
		Size:       best,
		Confidence: float64(freq[best]) / float64(len(sizes)),
	}
}

// Result describes the classification of one paragraph.
type Result struct {
	IsVerse   bool
	VerseSize int
	Majority  Majority
	Sizes     []int // Counts that took part in the vote
}

// Classify decides whether a list of syllable counts is metrical.
func Classify(sizes []int, cfg Config) Result {
	if len(sizes) > 0 && sizes[0] >= 1 && sizes[0] <= cfg.SeedMaxSyllables {
		sizes = sizes[1:]
	}
	res := Result{Sizes: sizes}
	if len(sizes) < 2 {
		return res
	}
	res.Majority = MajoritySize(sizes)
	switch {
	case res.Majority.Kind == Found:
		res.IsVerse, res.VerseSize = true, res.Majority.Size
	case sizes[0] == sizes[1]:
		res.IsVerse, res.VerseSize = true, sizes[0]
	case sizes[len(sizes)-2] == sizes[len(sizes)-1]:
		res.IsVerse, res.VerseSize = true, sizes[len(sizes)-1]
	}
	return res
}

// Detect classifies chunks and tags the verse chunks in place.
func Detect(chunks []doctree.Chunk, cfg Config) Result {
	var sizes []int
	for _, c := range chunks {
		if !c.Empty() && c.Syllables > 0 {
			sizes = append(sizes, c.Syllables)
		}
	}
	res := Classify(sizes, cfg)
	if !res.IsVerse {
		return res
	}
	low := res.VerseSize - cfg.Tolerance
	for i := range chunks {
		n := chunks[i].Syllables
		if n > 0 && n >= low && n <= res.VerseSize {
			chunks[i].Verse = true
		}
	}
	return res
}

// MergeSeeds prepends a short untagged chunk to the verse chunk that follows
// it. The donor is emptied, never removed, so indexes stay aligned.
func MergeSeeds(chunks []doctree.Chunk, join string, seedMax int) {
	for i := 1; i < len(chunks); i++ {
		prev := &chunks[i-1]
		if !chunks[i].Verse || prev.Verse || prev.Empty() {
			continue
		}
		if prev.Syllables < 1 || prev.Syllables > seedMax {
			continue
		}
		chunks[i].Text = prev.Text + join + chunks[i].Text
		chunks[i].Syllables += prev.Syllables
		prev.Text, prev.Syllables = "", 0
	}
}

// Lines reassembles tagged chunks into logical lines. Runs of prose chunks
// become one line and each verse chunk becomes its own line. Closing marks
// that open the chunk after a verse line are moved onto that line. With
// tagSanskrit, Sanskrit prose chunks stand alone with KindSanskrit.
func Lines(chunks []doctree.Chunk, join string, tagSanskrit bool) []doctree.Line {
	var lines []doctree.Line
	var prose []string
	flush := func() {
		if len(prose) == 0 {
			return
		}
		if text := strings.TrimSpace(strings.Join(prose, join)); text != "" {
			lines = append(lines, doctree.Line{Text: text})
		}
		prose = nil
	}
	for _, c := range chunks {
		if c.Empty() {
			continue
		}
		text := c.Text
		if len(prose) == 0 && len(lines) > 0 && lines[len(lines)-1].Verse {
			lead, rest := leadingShads(text)
			if lead != "" {
				lines[len(lines)-1].Text += join + lead
				text = rest
			}
			if strings.TrimSpace(text) == "" {
				continue
			}
		}
		switch {
		case c.Verse:
			flush()
			lines = append(lines, doctree.Line{Text: strings.TrimSpace(text), Verse: true})
		case tagSanskrit && c.Sanskrit:
			flush()
			lines = append(lines, doctree.Line{Text: strings.TrimSpace(text), Kind: doctree.KindSanskrit})
		default:
			prose = append(prose, text)
		}
	}
	flush()
	for i := range lines {
		lines[i].Text = strings.TrimSpace(lines[i].Text)
	}
	return lines
}

// Split runs the whole detector over one paragraph.
func Split(text string, cfg Config) (Result, []doctree.Line) {
	chunks := chunker.Chunk(text, cfg.Chunking)
	if len(chunks) == 0 {
		return Result{}, nil
	}
	res := Detect(chunks, cfg)
	join := cfg.Chunking.Mode.Join()
	if res.IsVerse {
		MergeSeeds(chunks, join, cfg.SeedMaxSyllables)
	}
	return res, Lines(chunks, join, cfg.Chunking.Mode == chunker.ModeTable)
}

// Render writes lines back as text, one logical line per text line.
func Render(lines []doctree.Line) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}

func leadingShads(s string) (string, string) {
	trimmed := strings.TrimLeft(s, " \t")
	end := 0
	for i, r := range trimmed {
		if !syllable.IsShad(r) {
			break
		}
		end = i + len(string(r))
	}
	if end == 0 {
		return "", s
	}
	return trimmed[:end], trimmed[end:]
}
