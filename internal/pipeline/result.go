package pipeline

import (
	"math"
	"time"
)

// Status is the terminal outcome for one processed file.
type Status string

const (
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
	StatusSkipped Status = "Skipped"
)

// Result records the outcome of processing a single file. Created once per
// file by the pipeline and immutable afterward.
type Result struct {
	FileName         string
	OriginalSize     int64
	OptimizedSize    int64
	CompressionRatio float64
	Duration         time.Duration
	Status           Status
}

// CompressionRatio computes the percentage saved by optimization, rounded to
// two decimal places. A 5,000,000,000-byte input encoded to 2,500,000,000
// bytes yields 50.00.
func CompressionRatio(originalSize, optimizedSize int64) float64 {
	if originalSize <= 0 {
		return 0
	}
	ratio := float64(originalSize-optimizedSize) / float64(originalSize) * 100
	return math.Round(ratio*100) / 100
}
