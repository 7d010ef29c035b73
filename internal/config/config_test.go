package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/fetch"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "pechaform.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "booklet", cfg.Mode)
	assert.Equal(t, 1, cfg.Verse.Tolerance)
	assert.Equal(t, time.Hour, cfg.Server.JobTTL)
	assert.Len(t, cfg.LetterSizes, 4)

	opts := cfg.ParserOptions()
	assert.Equal(t, doctree.TypeSmall, opts.LetterSizes[14])
	assert.Equal(t, "s4", opts.HTML.ForceItalicClass)
	assert.Equal(t, 15, cfg.LayoutOptions().JustifyMinWords)
}

func TestLoad_File(t *testing.T) {
	p := writeConfig(t, `
in_folder: sheets
template: template_tablet.docx
files:
  - name: rpn_daily_en
    url: https://docs.google.com/spreadsheets/d/x/pub?gid=1&output=tsv
letter_sizes:
  - {size: 24, kind: b}
  - {size: 12, kind: s}
verse:
  tolerance: 0
styles:
  booklet:
    - {type: n, paragraph: Body, character: Body Words}
    - {type: phonetics, paragraph: Phon, character: Phon Words}
    - {type: skt, span: true, italic: true}
server:
  job_ttl: 30m
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "sheets", cfg.InFolder)
	assert.Equal(t, []fetch.Entry{{Name: "rpn_daily_en", URL: "https://docs.google.com/spreadsheets/d/x/pub?gid=1&output=tsv"}}, cfg.Files)
	assert.Equal(t, 30*time.Minute, cfg.Server.JobTTL)

	opts := cfg.ParserOptions()
	assert.Equal(t, map[float64]doctree.SegmentType{24: doctree.TypeBig, 12: doctree.TypeSmall}, opts.LetterSizes)
	assert.Equal(t, 0, opts.Verse.Tolerance)

	styles := cfg.BookletStyles()
	assert.Equal(t, "Body", styles.Paragraph[doctree.TypeNormal])
	assert.Equal(t, "Text Title", styles.Paragraph[doctree.TypeTitle])
	assert.Equal(t, "Phon", styles.PhoneticsParagraph)
	assert.Equal(t, "Mantras", styles.MantraParagraph)
	assert.True(t, styles.Spans["skt"].Italic)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PECHAFORM_SERVER_API_KEY", "secret")
	t.Setenv("PECHAFORM_SERVER_WORKERS", "8")
	cfg, err := Load(writeConfig(t, "mode: tibetan\n"))
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Server.APIKey)
	assert.Equal(t, 8, cfg.Server.Workers)
	assert.NoError(t, cfg.ValidateServer())
}

func TestLoad_MalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "letter_sizes: [unclosed\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown letter kind", func(c *Config) { c.LetterSizes = []LetterSize{{Size: 20, Kind: "big"}} }},
		{"negative tolerance", func(c *Config) { c.Verse.Tolerance = -1 }},
		{"file without url", func(c *Config) { c.Files = []fetch.Entry{{Name: "x"}} }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"style without type", func(c *Config) { c.Styles.Tibetan = []StyleEntry{{Paragraph: "x"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.Error(t, base.ValidateServer(), "api key is required to serve")
}
