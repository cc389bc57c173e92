package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"squeeze/internal/config"
	"squeeze/internal/encoder"
	"squeeze/internal/fileutil"
	"squeeze/internal/logging"
	"squeeze/internal/media"
	"squeeze/internal/services"
	"squeeze/internal/staging"
)

// Pipeline drives one file through stage, encode, verify, promote, and
// cleanup. Every failure is caught at this boundary and converted into a
// Failed result; the orchestrator never sees an error for a single file.
type Pipeline struct {
	outputRoot   string
	scratchRoot  string
	suffix       string
	extension    string
	skipExisting bool
	profile      encoder.Profile

	copier  *staging.Copier
	invoker *encoder.Invoker
	logger  *slog.Logger
}

// New constructs a pipeline from configuration and its collaborators.
func New(cfg *config.Config, copier *staging.Copier, invoker *encoder.Invoker, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		outputRoot:   cfg.Paths.OutputRoot,
		scratchRoot:  cfg.Paths.ScratchRoot,
		suffix:       cfg.Encoder.OutputSuffix,
		extension:    cfg.Encoder.OutputExtension,
		skipExisting: cfg.Processing.SkipExisting,
		profile:      encoder.Profile(cfg.Encoder.Profile),
		copier:       copier,
		invoker:      invoker,
		logger:       logging.WithComponent(logger, "pipeline"),
	}
}

// Process runs the per-file state machine and always returns a Result.
func (p *Pipeline) Process(ctx context.Context, file media.File) Result {
	logger := p.logger.With(logging.String("file", file.RelPath))
	finalPath := media.OutputPath(p.outputRoot, file, p.suffix, p.extension)

	if p.skipExisting {
		if _, err := os.Stat(finalPath); err == nil {
			logger.Info("output already exists; skipping", logging.String("output", finalPath))
			return Result{
				FileName:     file.Name(),
				OriginalSize: file.Size,
				Status:       StatusSkipped,
			}
		}
	}

	start := time.Now()
	scratchIn := media.ScratchInputPath(p.scratchRoot, file)
	scratchOut := media.ScratchOutputPath(p.scratchRoot, file, p.suffix, p.extension)

	if err := p.prepareScratch(scratchOut, finalPath); err != nil {
		return p.fail(file, start, logger, err, scratchOut)
	}

	logger.Info("staging input to scratch", logging.String("scratch", scratchIn))
	if err := p.copier.Copy(ctx, file.Path, scratchIn, logger); err != nil {
		return p.fail(file, start, logger, err, scratchOut)
	}

	args := encoder.BuildArgs(scratchIn, scratchOut, p.profile, logger)
	logger.Info("invoking encoder", logging.String("output", scratchOut))
	if err := p.invoker.Encode(ctx, args, scratchOut, logger); err != nil {
		return p.fail(file, start, logger, err, scratchOut)
	}

	if err := p.promote(scratchOut, finalPath); err != nil {
		return p.fail(file, start, logger, err, scratchOut, finalPath)
	}

	// The staged copy is only redundant once the output is promoted, so a
	// crash before this point never loses work, and a crash after leaves a
	// harmless orphan at worst.
	if err := os.Remove(scratchIn); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove staged input copy",
			logging.String("path", scratchIn),
			logging.Error(err))
	}

	optimizedSize := int64(0)
	if info, err := os.Stat(finalPath); err == nil {
		optimizedSize = info.Size()
	} else {
		logger.Warn("could not stat promoted output", logging.Error(err))
	}

	duration := time.Since(start)
	ratio := CompressionRatio(file.Size, optimizedSize)
	logger.Info("file optimized",
		logging.String("output", finalPath),
		logging.Int64("original_bytes", file.Size),
		logging.Int64("optimized_bytes", optimizedSize),
		logging.Float64("compression_ratio", ratio),
		logging.Duration("duration", duration))

	return Result{
		FileName:         file.Name(),
		OriginalSize:     file.Size,
		OptimizedSize:    optimizedSize,
		CompressionRatio: ratio,
		Duration:         duration,
		Status:           StatusSuccess,
	}
}

// prepareScratch removes any stale scratch output left by a previous failed
// attempt under the same name and makes sure the final output folder exists.
func (p *Pipeline) prepareScratch(scratchOut, finalPath string) error {
	if err := os.Remove(scratchOut); err != nil && !os.IsNotExist(err) {
		return services.Wrap(services.ErrStaging, "prepare", "remove stale scratch output", scratchOut, err)
	}
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return services.Wrap(services.ErrStaging, "prepare", "ensure output folder", filepath.Dir(finalPath), err)
	}
	return nil
}

func (p *Pipeline) promote(scratchOut, finalPath string) error {
	if err := fileutil.MoveFile(scratchOut, finalPath); err != nil {
		return services.Wrap(services.ErrPromotion, "promote", "move to final output", finalPath, err)
	}
	return nil
}

// fail converts any stage error into a terminal Failed result, removing the
// named partial artifacts best-effort. The final path belongs in partials
// only once promotion has started; before that, any file already there is a
// previously promoted output and must survive.
// The staged input copy is left for the next run's workspace cleanup.
func (p *Pipeline) fail(file media.File, start time.Time, logger *slog.Logger, cause error, partials ...string) Result {
	logger.Error("file processing failed", logging.Error(cause))

	for _, path := range partials {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to clean up partial artifact",
				logging.String("path", path),
				logging.Error(err))
		}
	}

	return Result{
		FileName:     file.Name(),
		OriginalSize: file.Size,
		Duration:     time.Since(start),
		Status:       StatusFailed,
	}
}
