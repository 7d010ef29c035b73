package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/emit"
	"github.com/dgallion1/pechaform/internal/fetch"
	"github.com/dgallion1/pechaform/internal/parser"
	"github.com/dgallion1/pechaform/internal/styled"
	"github.com/dgallion1/pechaform/internal/verse"
)

type Config struct {
	// Batch conversion
	InFolder  string        `mapstructure:"in_folder"`
	OutFolder string        `mapstructure:"out_folder"`
	Template  string        `mapstructure:"template"`
	Mode      string        `mapstructure:"mode"`
	Workers   int           `mapstructure:"workers"`
	Files     []fetch.Entry `mapstructure:"files"`

	// Sources
	LetterSizes          []LetterSize `mapstructure:"letter_sizes"`
	SmallLetterMaxPt     float64      `mapstructure:"small_letter_max_pt"`
	ForceItalicClass     string       `mapstructure:"force_italic_class"`
	PDFFallbackPdftotext bool         `mapstructure:"pdf_fallback_pdftotext"`

	Verse VerseConfig `mapstructure:"verse"`

	// Layout
	JustifyMinWords int          `mapstructure:"justify_min_words"`
	Styles          StylesConfig `mapstructure:"styles"`

	Server ServerConfig `mapstructure:"server"`
}

// LetterSize maps a Word font size in points to a segment type.
type LetterSize struct {
	Size float64 `mapstructure:"size"`
	Kind string  `mapstructure:"kind"`
}

type VerseConfig struct {
	Tolerance         int `mapstructure:"tolerance"`
	SeedMaxSyllables  int `mapstructure:"seed_max_syllables"`
	SanskritMinTokens int `mapstructure:"sanskrit_min_tokens"`
}

// StyleEntry overrides the styles of one type. The types "phonetics" and
// "sanskrit" name the phonetics and mantra paragraphs of the booklet; with
// Span set, the entry styles /type-text/ spans instead.
type StyleEntry struct {
	Type      string `mapstructure:"type"`
	Paragraph string `mapstructure:"paragraph"`
	Character string `mapstructure:"character"`
	Span      bool   `mapstructure:"span"`
	Bold      bool   `mapstructure:"bold"`
	Italic    bool   `mapstructure:"italic"`
}

type StylesConfig struct {
	Booklet []StyleEntry `mapstructure:"booklet"`
	Tibetan []StyleEntry `mapstructure:"tibetan"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	APIKey         string        `mapstructure:"api_key"`
	Workers        int           `mapstructure:"workers"`
	QueueSize      int           `mapstructure:"queue_size"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	JobTTL         time.Duration `mapstructure:"job_ttl"`
	StatsWindow    time.Duration `mapstructure:"stats_window"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("in_folder", "input")
	v.SetDefault("out_folder", "output")
	v.SetDefault("template", "")
	v.SetDefault("mode", "booklet")
	v.SetDefault("workers", 4)
	v.SetDefault("letter_sizes", []map[string]any{
		{"size": 20, "kind": "n"},
		{"size": 21, "kind": "n"},
		{"size": 22, "kind": "n"},
		{"size": 14, "kind": "s"},
	})
	v.SetDefault("small_letter_max_pt", 10.0)
	v.SetDefault("force_italic_class", "s4")
	v.SetDefault("pdf_fallback_pdftotext", true)
	v.SetDefault("verse.tolerance", 1)
	v.SetDefault("verse.seed_max_syllables", 3)
	v.SetDefault("verse.sanskrit_min_tokens", 3)
	v.SetDefault("justify_min_words", 15)
	v.SetDefault("server.port", "8090")
	v.SetDefault("server.api_key", "")
	v.SetDefault("server.workers", 4)
	v.SetDefault("server.queue_size", 100)
	v.SetDefault("server.max_upload_bytes", 52428800) // 50MB
	v.SetDefault("server.job_ttl", time.Hour)
	v.SetDefault("server.stats_window", time.Hour)
}

// Load reads the YAML file at path, or pechaform.yaml in the working
// directory when path is empty. A missing default file is not an error.
// Environment variables prefixed with PECHAFORM_ override file values.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("pechaform")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PECHAFORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings shared by every command.
func (c Config) Validate() error {
	for _, ls := range c.LetterSizes {
		if ls.Size <= 0 {
			return fmt.Errorf("letter_sizes: size must be positive, got %v", ls.Size)
		}
		if !knownType(doctree.SegmentType(ls.Kind)) {
			return fmt.Errorf("letter_sizes: unknown kind %q for size %v", ls.Kind, ls.Size)
		}
	}
	if c.SmallLetterMaxPt <= 0 {
		return fmt.Errorf("small_letter_max_pt must be positive")
	}
	if c.Verse.Tolerance < 0 {
		return fmt.Errorf("verse.tolerance must not be negative")
	}
	if c.Verse.SeedMaxSyllables < 0 {
		return fmt.Errorf("verse.seed_max_syllables must not be negative")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	for i, f := range c.Files {
		if f.Name == "" || f.URL == "" {
			return fmt.Errorf("files[%d]: name and url are required", i)
		}
	}
	for _, e := range append(append([]StyleEntry{}, c.Styles.Booklet...), c.Styles.Tibetan...) {
		if e.Type == "" {
			return fmt.Errorf("styles: entry without type")
		}
	}
	return nil
}

// ValidateServer adds the checks needed to run the HTTP API.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Server.APIKey == "" {
		return fmt.Errorf("PECHAFORM_SERVER_API_KEY is required")
	}
	if c.Server.Workers <= 0 {
		return fmt.Errorf("server.workers must be positive")
	}
	if c.Server.QueueSize <= 0 {
		return fmt.Errorf("server.queue_size must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	if c.Server.JobTTL <= 0 {
		return fmt.Errorf("server.job_ttl must be positive")
	}
	return nil
}

// ParserOptions returns the source and parser settings.
func (c Config) ParserOptions() parser.Options {
	opts := parser.DefaultOptions()
	if len(c.LetterSizes) > 0 {
		opts.LetterSizes = make(map[float64]doctree.SegmentType, len(c.LetterSizes))
		for _, ls := range c.LetterSizes {
			opts.LetterSizes[ls.Size] = doctree.SegmentType(ls.Kind)
		}
	}
	opts.HTML = styled.HTMLOptions{
		ForceItalicClass: c.ForceItalicClass,
		SmallMaxPt:       c.SmallLetterMaxPt,
	}
	opts.Verse = verse.DefaultConfig()
	opts.Verse.Tolerance = c.Verse.Tolerance
	opts.Verse.SeedMaxSyllables = c.Verse.SeedMaxSyllables
	if c.Verse.SanskritMinTokens > 0 {
		opts.Verse.Chunking.SanskritMinTokens = c.Verse.SanskritMinTokens
	}
	opts.FallbackPdftotext = c.PDFFallbackPdftotext
	return opts
}

// LayoutOptions returns the emitter settings.
func (c Config) LayoutOptions() emit.Options {
	opts := emit.DefaultOptions()
	opts.JustifyMinWords = c.JustifyMinWords
	return opts
}

// BookletStyles returns the booklet style table with the configured
// overrides applied.
func (c Config) BookletStyles() emit.StyleTable {
	return emit.DefaultBookletStyles().Merge(styleTable(c.Styles.Booklet))
}

// TibetanStyles returns the Tibetan style table with the configured
// overrides applied.
func (c Config) TibetanStyles() emit.StyleTable {
	return emit.DefaultTibetanStyles().Merge(styleTable(c.Styles.Tibetan))
}

// LoadTemplate reads the configured template document. It returns nil when
// no template is set.
func (c Config) LoadTemplate() ([]byte, error) {
	if c.Template == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.Template)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return data, nil
}

func styleTable(entries []StyleEntry) emit.StyleTable {
	t := emit.StyleTable{
		Paragraph: make(map[doctree.SegmentType]string),
		Character: make(map[doctree.SegmentType]string),
		Spans:     make(map[string]emit.SpanStyle),
	}
	for _, e := range entries {
		switch {
		case e.Span:
			t.Spans[e.Type] = emit.SpanStyle{Character: e.Character, Bold: e.Bold, Italic: e.Italic}
		case e.Type == "phonetics":
			t.PhoneticsParagraph = e.Paragraph
			t.PhoneticsCharacter = e.Character
		case e.Type == "sanskrit":
			t.MantraParagraph = e.Paragraph
			t.MantraCharacter = e.Character
		default:
			if e.Paragraph != "" {
				t.Paragraph[doctree.SegmentType(e.Type)] = e.Paragraph
			}
			if e.Character != "" {
				t.Character[doctree.SegmentType(e.Type)] = e.Character
			}
		}
	}
	return t
}

func knownType(t doctree.SegmentType) bool {
	switch t {
	case doctree.TypeTitle, doctree.TypeSection, doctree.TypeSection1, doctree.TypeSection2,
		doctree.TypeSubtitle, doctree.TypeNormal, doctree.TypeSmall, doctree.TypeMantra, doctree.TypeBig:
		return true
	}
	return false
}
