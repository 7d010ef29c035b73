package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dgallion1/pechaform/internal/chunker"
	"github.com/dgallion1/pechaform/internal/verse"
)

func newVersesCommand(g *globals) *cobra.Command {
	var (
		tableMode bool
		explain   bool
	)
	cmd := &cobra.Command{
		Use:   "verses [file]",
		Short: "Split plain Tibetan paragraphs into verse lines",
		Long: `verses reads paragraphs separated by blank lines from the file, or from
standard input when no file is given, and prints each paragraph with one
verse line per text line.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			cfg := g.cfg.ParserOptions().Verse
			if tableMode {
				cfg.Chunking.Mode = chunker.ModeTable
			}

			out := cmd.OutOrStdout()
			for i, para := range chunker.Paragraphs(text) {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if explain {
					explainParagraph(out, para, cfg)
					continue
				}
				_, lines := verse.Split(para, cfg)
				fmt.Fprintln(out, verse.Render(lines))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&tableMode, "table", false, "chunk after punctuation runs instead of whitespace")
	cmd.Flags().BoolVar(&explain, "explain", false, "show the chunks and the verse vote")
	return cmd
}

func explainParagraph(w io.Writer, para string, cfg verse.Config) {
	chunks := chunker.Chunk(para, cfg.Chunking)
	res := verse.Detect(chunks, cfg)

	tw := newTable(w)
	tw.AppendHeader(table.Row{"#", "Chunk", "Syllables", "Sanskrit", "Verse"})
	for i, c := range chunks {
		tw.AppendRow(table.Row{i + 1, c.Text, c.Syllables, yes(c.Sanskrit), yes(c.Verse)})
	}
	tw.AppendFooter(table.Row{"", "verse size", res.VerseSize, "majority", res.Majority.Kind.String()})
	tw.Render()
}

func yes(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}
