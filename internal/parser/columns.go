package parser

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/dgallion1/pechaform/internal/doctree"
)

var (
	// BookletColumns are required to lay out a bilingual booklet.
	BookletColumns = []doctree.Field{
		doctree.FieldHub,
		doctree.FieldTibetanNoPhon,
		doctree.FieldTranslation,
		doctree.FieldTibetan,
		doctree.FieldPhonetics,
		doctree.FieldSanskrit,
	}
	// TibetanColumns are required to lay out a Tibetan-only pecha.
	TibetanColumns = []doctree.Field{doctree.FieldHub, doctree.FieldTibetan}
)

// columnAliases lists header names per field. Fields whose names contain the
// name of another field come first so partial matching picks the longer one.
var columnAliases = []struct {
	field doctree.Field
	names []string
}{
	{doctree.FieldHub, []string{"hub"}},
	{doctree.FieldTibetanNoPhon, []string{"Tibetan- no phonetics", "Tibetan-no phon", "Tibetan no phonetics"}},
	{doctree.FieldTibetan, []string{"Tibetan"}},
	{doctree.FieldPhonetics, []string{"Phonetics"}},
	{doctree.FieldSanskritPhon, []string{"Sanskrit phonetics", "Sanskrit phon"}},
	{doctree.FieldSanskrit, []string{"Sanskrit"}},
	{doctree.FieldTranslationRef, []string{"Translation reference", "Translation ref"}},
	{doctree.FieldTranslation, []string{"Translation"}},
}

// ResolveColumns maps fields to header indexes. Exact names are tried first,
// then case-insensitive containment, then fuzzy matching of abbreviated
// headers. Any required field still unmatched is reported at once.
func ResolveColumns(headers []string, required []doctree.Field) (map[doctree.Field]int, error) {
	cols := make(map[doctree.Field]int)
	used := make(map[int]bool)
	clean := make([]string, len(headers))
	for i, h := range headers {
		clean[i] = strings.TrimSpace(h)
	}

	assign := func(match func(header, name string) bool) {
		for _, a := range columnAliases {
			if _, ok := cols[a.field]; ok {
				continue
			}
		search:
			for _, name := range a.names {
				for i, h := range clean {
					if !used[i] && h != "" && match(h, name) {
						cols[a.field] = i
						used[i] = true
						break search
					}
				}
			}
		}
	}
	assign(func(h, name string) bool { return h == name })
	assign(func(h, name string) bool {
		return strings.Contains(strings.ToLower(h), strings.ToLower(name))
	})
	assignFuzzy(clean, used, cols)

	var missing []doctree.Field
	for _, f := range required {
		if _, ok := cols[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing, Headers: clean}
	}
	return cols, nil
}

// assignFuzzy matches the remaining fields against unused headers that
// abbreviate one of their names, closest edit distance first.
func assignFuzzy(headers []string, used map[int]bool, cols map[doctree.Field]int) {
	type candidate struct {
		field  doctree.Field
		header int
		dist   int
	}
	var cands []candidate
	for _, a := range columnAliases {
		if _, ok := cols[a.field]; ok {
			continue
		}
		for i, h := range headers {
			if used[i] || len(h) < 3 {
				continue
			}
			for _, name := range a.names {
				if fuzzy.MatchNormalizedFold(h, name) {
					d := fuzzy.LevenshteinDistance(strings.ToLower(h), strings.ToLower(name))
					cands = append(cands, candidate{field: a.field, header: i, dist: d})
				}
			}
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	for _, c := range cands {
		if _, ok := cols[c.field]; ok || used[c.header] {
			continue
		}
		cols[c.field] = c.header
		used[c.header] = true
	}
}

// headerIndex returns the index of the first record that has a hub column.
func headerIndex(records [][]string) int {
	for i, rec := range records {
		for _, c := range rec {
			if strings.EqualFold(strings.TrimSpace(c), "hub") {
				return i
			}
		}
	}
	return 0
}

// tableRows converts records into rows using the resolved columns. The
// returned indexes map each row back to its record.
func tableRows(records [][]string, required []doctree.Field) ([]doctree.Row, []int, map[doctree.Field]int, error) {
	if len(records) == 0 {
		return nil, nil, nil, ErrNoTable
	}
	hi := headerIndex(records)
	cols, err := ResolveColumns(records[hi], required)
	if err != nil {
		return nil, nil, nil, err
	}
	var rows []doctree.Row
	var index []int
	for ri := hi + 1; ri < len(records); ri++ {
		rec := records[ri]
		fields := make(map[doctree.Field]string, len(cols))
		for f, ci := range cols {
			if ci < len(rec) {
				fields[f] = rec[ci]
			} else {
				fields[f] = ""
			}
		}
		rows = append(rows, doctree.Row{Fields: fields})
		index = append(index, ri)
	}
	return rows, index, cols, nil
}
