package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"squeeze/internal/batch"
	"squeeze/internal/history"
	"squeeze/internal/logging"
	"squeeze/internal/staging"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Optimize eligible files from the source library",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, closeLogs, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}
			defer closeLogs()

			opts := []batch.Option{}
			if assumeYes {
				opts = append(opts, batch.WithConfirmer(staging.ConfirmerFunc(func(string) bool { return true })))
			}
			if cfg.Paths.HistoryDB != "" {
				store, err := history.Open(cfg.Paths.HistoryDB)
				if err != nil {
					return fmt.Errorf("open history database: %w", err)
				}
				defer store.Close()
				opts = append(opts, batch.WithHistory(store))
			}

			summary, err := batch.New(cfg, logger, opts...).Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(summary.Results) == 0 {
				fmt.Fprintln(out, "No eligible files found.")
				return nil
			}

			rows := make([][]string, 0, len(summary.Results))
			for _, result := range summary.Results {
				rows = append(rows, []string{
					result.FileName,
					formatSize(result.OriginalSize),
					formatSize(result.OptimizedSize),
					fmt.Sprintf("%.2f%%", result.CompressionRatio),
					result.Duration.Round(time.Second).String(),
					string(result.Status),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Original", "Optimized", "Saved", "Time", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
			))

			fmt.Fprintf(out, "Processed %d file(s): %d succeeded, %d failed, %d skipped\n",
				len(summary.Results), summary.Succeeded(), summary.Failed(), summary.Skipped())
			fmt.Fprintf(out, "Space saved: %s (average %.2f%%) in %s\n",
				formatSize(summary.TotalBytesSaved()),
				summary.AverageCompressionRatio(),
				summary.Duration().Round(time.Second))

			if summary.Failed() > 0 {
				return fmt.Errorf("%d file(s) failed; see the log for details", summary.Failed())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to scratch cleanup prompts")
	return cmd
}
