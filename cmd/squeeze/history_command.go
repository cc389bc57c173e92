package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"squeeze/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past optimization runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Paths.HistoryDB == "" {
				return errors.New("history_db is not configured")
			}

			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return fmt.Errorf("open history database: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				return printRunDetail(cmd, store, args[0])
			}
			return printRecentRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to list")
	return cmd
}

func printRecentRuns(cmd *cobra.Command, store *history.Store, limit int) error {
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String(),
			fmt.Sprintf("%d", run.TotalFiles),
			fmt.Sprintf("%d", run.Succeeded),
			fmt.Sprintf("%d", run.Failed),
			fmt.Sprintf("%d", run.Skipped),
			formatSize(run.BytesSaved),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Started", "Duration", "Files", "OK", "Failed", "Skipped", "Saved"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
	return nil
}

func printRunDetail(cmd *cobra.Command, store *history.Store, runID string) error {
	records, err := store.RunResults(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("load run %s: %w", runID, err)
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintf(out, "No files recorded for run %s.\n", runID)
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.FileName,
			formatSize(record.OriginalSize),
			formatSize(record.OptimizedSize),
			fmt.Sprintf("%.2f%%", record.CompressionRatio),
			record.Duration.Round(time.Second).String(),
			string(record.Status),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"File", "Original", "Optimized", "Saved", "Time", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	))
	return nil
}
