package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"squeeze/internal/media"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List eligible files without processing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			files, err := media.Scan(cfg.Paths.SourceRoot, cfg.Processing.Extensions, cfg.Processing.MinSourceBytes)
			if err != nil {
				return fmt.Errorf("enumerate source files: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No eligible files found.")
				return nil
			}

			rows := make([][]string, 0, len(files))
			pending := 0
			for _, file := range files {
				outputPath := media.OutputPath(cfg.Paths.OutputRoot, file, cfg.Encoder.OutputSuffix, cfg.Encoder.OutputExtension)
				state := "pending"
				if _, err := os.Stat(outputPath); err == nil {
					state = "done"
				} else {
					pending++
				}
				rows = append(rows, []string{file.RelPath, media.DisplayTitle(file.Name()), formatSize(file.Size), state})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Title", "Size", "State"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d eligible file(s), %d pending\n", len(files), pending)
			return nil
		},
	}
}
