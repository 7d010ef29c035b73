package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dgallion1/pechaform/internal/fetch"
	"github.com/dgallion1/pechaform/internal/parser"
	"github.com/dgallion1/pechaform/internal/pipeline"
)

func newBatchCommand(g *globals) *cobra.Command {
	var (
		modeName   string
		noDownload bool
	)
	cmd := &cobra.Command{
		Use:   "batch [files...]",
		Short: "Download the configured sheets and convert a folder of sources",
		Long: `batch first downloads every entry of the "files" setting into in_folder,
then converts the given files, or every supported file of in_folder, into
out_folder. A document that fails does not stop the others.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if modeName == "" {
				modeName = g.cfg.Mode
			}
			mode, err := pipeline.ParseMode(modeName)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if !noDownload && len(g.cfg.Files) > 0 {
				client := fetch.NewClient(g.log)
				defer client.Close()
				for _, e := range g.cfg.Files {
					path, err := client.DownloadTo(ctx, e, g.cfg.InFolder)
					if err != nil {
						g.log.Error("download failed", "name", e.Name, "error", err)
						continue
					}
					g.log.Info("downloaded", "name", e.Name, "path", path)
				}
			}

			paths := args
			if len(paths) == 0 {
				if paths, err = sourceFiles(g.cfg.InFolder); err != nil {
					return err
				}
			}
			if len(paths) == 0 {
				return fmt.Errorf("no source files in %s", g.cfg.InFolder)
			}

			items := make([]pipeline.BatchItem, 0, len(paths))
			for _, p := range paths {
				data, err := os.ReadFile(p)
				if err != nil {
					return err
				}
				items = append(items, pipeline.BatchItem{Filename: p, Data: data, Mode: mode})
			}

			conv, err := g.converter()
			if err != nil {
				return err
			}
			results := pipeline.RunBatch(ctx, conv, items, g.cfg.Workers)

			failed := 0
			for i, res := range results {
				if res.Err != nil {
					failed++
					g.log.Error("conversion failed", "file", res.Filename, "error", res.Err)
					continue
				}
				path := filepath.Join(g.cfg.OutFolder, res.Output.Name)
				if err := writeFile(path, res.Output.Data); err != nil {
					results[i].Err = err
					failed++
				}
			}
			printBatch(cmd.OutOrStdout(), results)
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&modeName, "mode", "", "output mode (default: the mode setting)")
	cmd.Flags().BoolVar(&noDownload, "no-download", false, "skip downloading the configured files")
	return cmd
}

// sourceFiles lists the supported files of dir in name order.
func sourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !parser.IsSupportedExtension(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

func printBatch(w io.Writer, results []pipeline.BatchResult) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Input", "Output", "Segments", "Time", "Error"})
	for _, res := range results {
		errText := ""
		if res.Err != nil {
			errText = res.Err.Error()
		}
		tw.AppendRow(table.Row{filepath.Base(res.Filename), res.Output.Name, res.Output.Segments, res.Duration.Round(time.Millisecond), errText})
	}
	tw.Render()
}
