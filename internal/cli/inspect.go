package cli

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dgallion1/pechaform/internal/doctree"
	"github.com/dgallion1/pechaform/internal/parser"
	"github.com/dgallion1/pechaform/internal/pipeline"
)

const previewRunes = 40

func newInspectCommand(g *globals) *cobra.Command {
	var modeName string
	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "Print the segment tree of a source document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := pipeline.ParseMode(modeName)
			if err != nil {
				return err
			}
			opts := g.cfg.ParserOptions()
			opts.Log = g.log
			field := doctree.FieldTranslation
			if mode == pipeline.ModeTibetan || mode == pipeline.ModeSpread {
				opts.Required = parser.TibetanColumns
				opts.SpanField = doctree.FieldTibetan
				field = doctree.FieldTibetan
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			doc, err := parser.ParseFile(f, args[0], opts)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title: %s\n", doc.Title)
			tw := newTable(out)
			tw.AppendHeader(table.Row{"#", "Type", "Rows", "Spans", "First row"})
			rows := 0
			for i, seg := range doc.Segments {
				spans, first := 0, ""
				for _, r := range seg.Rows {
					spans += len(r.Spans)
				}
				if len(seg.Rows) > 0 {
					first = preview(seg.Rows[0].Text(field))
				}
				rows += len(seg.Rows)
				tw.AppendRow(table.Row{i + 1, seg.Type, len(seg.Rows), spans, first})
			}
			tw.AppendFooter(table.Row{"", "total", rows, "", ""})
					tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&modeName, "mode", string(pipeline.ModeBooklet), "column set to read: booklet or tibetan")
	return cmd
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= previewRunes {
		return s
	}
	return string([]rune(s)[:previewRunes]) + "..."
}
