// Package report renders a batch's per-file results as a CSV artifact so
// operators can inspect a run without reading logs.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"squeeze/internal/pipeline"
)

var columns = []string{
	"FileName",
	"OriginalSize",
	"OptimizedSize",
	"CompressionRatio",
	"ProcessingTime",
	"Status",
}

// WriteCSV writes one row per result, preserving processing order. The file
// is replaced wholesale; partial reports from interrupted runs never survive
// a successful rewrite.
func WriteCSV(path string, results []pipeline.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report folder: %w", err)
	}

	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(columns); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("write report header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write(row(result)); err != nil {
			file.Close()
			os.Remove(tmp)
			return fmt.Errorf("write report row for %s: %w", result.FileName, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("flush report: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publish report: %w", err)
	}
	return nil
}

func row(r pipeline.Result) []string {
	return []string{
		r.FileName,
		fmt.Sprintf("%d", r.OriginalSize),
		fmt.Sprintf("%d", r.OptimizedSize),
		fmt.Sprintf("%.2f", r.CompressionRatio),
		r.Duration.Round(time.Second).String(),
		string(r.Status),
	}
}
