package cli

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pechaform/internal/separate"
)

func newSeparateCommand(g *globals) *cobra.Command {
	var (
		output string
		lines  int
	)
	cmd := &cobra.Command{
		Use:   "separate [file]",
		Short: "Split interleaved phonetics and translation into a bilingual sheet",
		Long: `separate reads blocks of interleaved lines (phonetics then translation,
or Tibetan, phonetics then translation with --lines 3) separated by blank
lines, and writes them as a bilingual sheet. Standalone seed syllables are
marked bold.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := separate.Mode(lines)
			if mode != separate.PhoneticsTranslation && mode != separate.TibetanPhoneticsTranslation {
				return fmt.Errorf("--lines must be 2 or 3, got %d", lines)
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := separate.Separate(strings.NewReader(text), &buf, mode); err != nil {
				return err
			}
			if output == "" && (len(args) == 0 || args[0] == "-") {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			name := "separated_bilingual.tsv"
			if len(args) == 1 && args[0] != "-" {
				base := filepath.Base(args[0])
				name = strings.TrimSuffix(base, filepath.Ext(base)) + "_bilingual.tsv"
			}
			path := g.outputPath(output, name)
			if err := writeFile(path, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout for stdin input, out_folder otherwise)")
	cmd.Flags().IntVar(&lines, "lines", int(separate.PhoneticsTranslation), "lines per verse: 2 (phonetics, translation) or 3 (Tibetan, phonetics, translation)")
	return cmd
}
