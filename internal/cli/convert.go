package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pechaform/internal/pipeline"
)

func newConvertCommand(g *globals, mode pipeline.Mode, use, short string) *cobra.Command {
	var (
		output      string
		noPhonetics bool
	)
	cmd := &cobra.Command{
		Use:   use + " <input>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := mode
			if mode == pipeline.ModeBooklet && noPhonetics {
				m = pipeline.ModeBookletNoPhon
			}
			conv, err := g.converter()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			out, err := conv.Convert(cmd.Context(), f, args[0], m)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			path := g.outputPath(output, out.Name)
			if err := writeFile(path, out.Data); err != nil {
				return err
			}
			g.log.Info("converted", "input", args[0], "output", path, "title", out.Title, "segments", out.Segments)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: derived from the input name in out_folder)")
	if mode == pipeline.ModeBooklet {
		cmd.Flags().BoolVar(&noPhonetics, "no-phonetics", false, "leave out the phonetics paragraphs")
	}
	return cmd
}
