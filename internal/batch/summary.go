package batch

import (
	"time"

	"squeeze/internal/pipeline"
)

// Summary aggregates the outcome of one run over all enumerated files.
type Summary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []pipeline.Result
}

// Duration is the wall-clock span of the run.
func (s Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Succeeded counts files that produced a promoted output this run.
func (s Summary) Succeeded() int { return s.count(pipeline.StatusSuccess) }

// Failed counts files whose pipeline ended in a terminal failure.
func (s Summary) Failed() int { return s.count(pipeline.StatusFailed) }

// Skipped counts files whose output already existed.
func (s Summary) Skipped() int { return s.count(pipeline.StatusSkipped) }

func (s Summary) count(status pipeline.Status) int {
	n := 0
	for _, result := range s.Results {
		if result.Status == status {
			n++
		}
	}
	return n
}

// TotalBytesSaved sums the size reduction across successful files.
func (s Summary) TotalBytesSaved() int64 {
	var saved int64
	for _, result := range s.Results {
		if result.Status == pipeline.StatusSuccess {
			saved += result.OriginalSize - result.OptimizedSize
		}
	}
	return saved
}

// AverageCompressionRatio averages the per-file ratio over successful files
// only. Zero when nothing succeeded.
func (s Summary) AverageCompressionRatio() float64 {
	var total float64
	n := 0
	for _, result := range s.Results {
		if result.Status == pipeline.StatusSuccess {
			total += result.CompressionRatio
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}
