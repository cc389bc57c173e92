package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"squeeze/internal/config"
	"squeeze/internal/encoder"
	"squeeze/internal/history"
	"squeeze/internal/logging"
	"squeeze/internal/media"
	"squeeze/internal/notifications"
	"squeeze/internal/pipeline"
	"squeeze/internal/preflight"
	"squeeze/internal/report"
	"squeeze/internal/retry"
	"squeeze/internal/staging"
)

// Orchestrator owns one optimization run end to end: workspace preparation,
// preflight, enumeration, the per-file pipeline, and the run artifacts.
type Orchestrator struct {
	cfg      *config.Config
	logger   *slog.Logger
	notifier notifications.Service
	store    *history.Store

	confirmer staging.Confirmer
	runner    encoder.Runner
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithConfirmer overrides the interactive confirmation provider.
func WithConfirmer(confirmer staging.Confirmer) Option {
	return func(o *Orchestrator) { o.confirmer = confirmer }
}

// WithRunner overrides the encoder subprocess runner.
func WithRunner(runner encoder.Runner) Option {
	return func(o *Orchestrator) { o.runner = runner }
}

// WithNotifier overrides the notification service.
func WithNotifier(notifier notifications.Service) Option {
	return func(o *Orchestrator) { o.notifier = notifier }
}

// WithHistory records completed runs in the given store.
func WithHistory(store *history.Store) Option {
	return func(o *Orchestrator) { o.store = store }
}

// New builds an orchestrator for the given configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Orchestrator{
		cfg:       cfg,
		logger:    logging.WithComponent(logger, "batch"),
		confirmer: staging.NewTerminalConfirmer(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.notifier == nil {
		o.notifier = notifications.NewService(cfg)
	}
	return o
}

// Run executes one full batch and returns its summary. An error is returned
// only for run-level failures such as an unreachable source share; per-file
// failures are folded into the summary.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	summary := Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	logger := o.logger.With(logging.String("run_id", summary.RunID))
	logger.Info("starting optimization run")

	workspace := staging.NewWorkspace(o.cfg.Paths.ScratchRoot, o.confirmer)
	if err := workspace.Prepare(logger); err != nil {
		return summary, err
	}

	if err := preflight.CheckShare(o.cfg.Paths.SourceRoot, logger); err != nil {
		return summary, err
	}

	for _, dir := range []string{o.cfg.Paths.OutputRoot, o.cfg.Paths.ScratchRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return summary, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	runLock := flock.New(filepath.Join(o.cfg.Paths.ScratchRoot, ".squeeze.lock"))
	locked, err := runLock.TryLock()
	if err != nil {
		return summary, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return summary, fmt.Errorf("another run is already using %s", o.cfg.Paths.ScratchRoot)
	}
	defer runLock.Unlock()

	files, err := media.Scan(o.cfg.Paths.SourceRoot, o.cfg.Processing.Extensions, o.cfg.Processing.MinSourceBytes)
	if err != nil {
		return summary, fmt.Errorf("enumerate source files: %w", err)
	}
	logger.Info("source enumeration complete", logging.Int("files", len(files)))

	if err := o.notifier.NotifyRunStarted(ctx, len(files)); err != nil {
		logger.Warn("run start notification failed", logging.Error(err))
	}

	policy := retry.New(o.cfg.Processing.MaxRetries, o.cfg.RetryDelay())
	invokerOpts := []encoder.Option{}
	if o.runner != nil {
		invokerOpts = append(invokerOpts, encoder.WithRunner(o.runner))
	}
	proc := pipeline.New(o.cfg,
		staging.NewCopier(policy),
		encoder.NewInvoker(o.cfg.Encoder.Binary, o.cfg.Encoder.MinOutputBytes, policy, invokerOpts...),
		logger)

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			logger.Warn("run cancelled", logging.Int("remaining", len(files)-i))
			break
		}
		logger.Info("processing file",
			logging.String("file", file.RelPath),
			logging.Int("position", i+1),
			logging.Int("total", len(files)))
		summary.Results = append(summary.Results, proc.Process(ctx, file))
	}
	summary.FinishedAt = time.Now()

	o.finish(ctx, logger, summary)
	return summary, nil
}

// finish emits the run artifacts. None of them can fail the run; each
// failure is logged and the rest still run.
func (o *Orchestrator) finish(ctx context.Context, logger *slog.Logger, summary Summary) {
	if path := o.cfg.Paths.ReportFile; path != "" {
		if err := report.WriteCSV(path, summary.Results); err != nil {
			logger.Error("report generation failed", logging.Error(err))
		} else {
			logger.Info("report written", logging.String("path", path))
		}
	}

	if o.store != nil {
		if err := o.store.RecordRun(ctx, summary.RunID, summary.StartedAt, summary.FinishedAt, summary.Results); err != nil {
			logger.Error("history persistence failed", logging.Error(err))
		}
	}

	logger.Info("optimization run complete",
		logging.Int("processed", len(summary.Results)),
		logging.Int("succeeded", summary.Succeeded()),
		logging.Int("failed", summary.Failed()),
		logging.Int("skipped", summary.Skipped()),
		logging.Int64("bytes_saved", summary.TotalBytesSaved()),
		logging.Float64("average_compression_ratio", summary.AverageCompressionRatio()),
		logging.Duration("duration", summary.Duration()))

	outcome := notifications.RunOutcome{
		Processed:  len(summary.Results),
		Succeeded:  summary.Succeeded(),
		Failed:     summary.Failed(),
		Skipped:    summary.Skipped(),
		BytesSaved: summary.TotalBytesSaved(),
		Duration:   summary.Duration(),
	}
	if err := o.notifier.NotifyRunCompleted(ctx, outcome); err != nil {
		logger.Warn("run completion notification failed", logging.Error(err))
	}
}
