// Package cli wires the pechaform commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/dgallion1/pechaform/internal/config"
	"github.com/dgallion1/pechaform/internal/pipeline"
)

// globals holds the persistent flags and what they resolve to.
type globals struct {
	cfgFile   string
	debug     bool
	logFormat string

	cfg config.Config
	log *slog.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "pechaform",
		Short: "Lay out Tibetan liturgical texts as booklets, pechas and sheets",
		Long: `pechaform reads Tibetan texts from spreadsheets (TSV, Google Sheets HTML),
Word documents, PDF or plain text, recovers their verse lines and segment
structure, and writes bilingual booklets, Tibetan-only pechas and tabular
exports.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(cmd.ErrOrStderr(), g.logFormat, g.debug)
			if err != nil {
				return err
			}
			g.log = log
			cfg, err := config.Load(g.cfgFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			g.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default ./pechaform.yaml)")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(
		newConvertCommand(g, pipeline.ModeBooklet, "booklet", "Lay out a bilingual booklet (.docx)"),
		newConvertCommand(g, pipeline.ModeTibetan, "tibetan", "Lay out a Tibetan-only pecha (.docx)"),
		newConvertCommand(g, pipeline.ModeSpread, "spread", "Write the transliteration sheet (hub, Tibetan)"),
		newConvertCommand(g, pipeline.ModeBilingual, "export", "Write the six-column bilingual sheet"),
		newVersesCommand(g),
		newInspectCommand(g),
		newBatchCommand(g),
		newSeparateCommand(g),
		newServeCommand(g),
	)
	return root
}

func newLogger(w io.Writer, format string, debug bool) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// converter builds a pipeline converter from the loaded configuration.
func (g *globals) converter() (*pipeline.Converter, error) {
	template, err := g.cfg.LoadTemplate()
	if err != nil {
		return nil, err
	}
	conv := pipeline.NewConverter(g.log)
	conv.Parse = g.cfg.ParserOptions()
	conv.Parse.Log = g.log
	conv.BookletStyles = g.cfg.BookletStyles()
	conv.TibetanStyles = g.cfg.TibetanStyles()
	conv.Layout = g.cfg.LayoutOptions()
	conv.Template = template
	return conv, nil
}

// outputPath resolves where a converted file goes: the explicit path when
// given, the configured output folder otherwise.
func (g *globals) outputPath(explicit, name string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(g.cfg.OutFolder, name)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// newTable returns a light table writing to w. Headers and footers are
// printed as given instead of upper-cased.
func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	return tw
}
