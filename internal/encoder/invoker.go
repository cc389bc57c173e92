package encoder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"squeeze/internal/logging"
	"squeeze/internal/retry"
	"squeeze/internal/services"
)

// Invoker runs the external encoder as a subprocess, forwarding every output
// line to the log and verifying the produced artifact, with bounded retry.
type Invoker struct {
	binary         string
	minOutputBytes int64
	policy         retry.Policy
	runner         Runner
}

// Option customizes the invoker.
type Option func(*Invoker)

// WithRunner overrides how the subprocess is executed (useful for tests).
func WithRunner(runner Runner) Option {
	return func(iv *Invoker) {
		if runner != nil {
			iv.runner = runner
		}
	}
}

// NewInvoker constructs an invoker for the given encoder binary.
func NewInvoker(binary string, minOutputBytes int64, policy retry.Policy, opts ...Option) *Invoker {
	iv := &Invoker{
		binary:         strings.TrimSpace(binary),
		minOutputBytes: minOutputBytes,
		policy:         policy,
		runner:         ExecRunner{},
	}
	for _, opt := range opts {
		opt(iv)
	}
	return iv
}

// Encode invokes the encoder with args and verifies that outputPath exists
// and exceeds the minimum plausible size afterward. A missing executable
// fails immediately without retries; every other failure consumes the retry
// budget before being reported.
func (iv *Invoker) Encode(ctx context.Context, args []string, outputPath string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := iv.checkBinary(); err != nil {
		logger.Error("encoder executable not found",
			logging.String("binary", iv.binary),
			logging.Error(err))
		return services.Wrap(services.ErrEncode, "encode", "locate executable", iv.binary, err)
	}

	outputLogger := logging.WithComponent(logger, "encoder")
	attemptErr := iv.policy.Do(ctx, func() error {
		return iv.runOnce(ctx, args, outputPath, outputLogger)
	}, func(attempt int, err error) {
		logger.Warn("encode attempt failed",
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", iv.policy.MaxAttempts),
			logging.Error(err))
	})
	if attemptErr != nil {
		logger.Error("encoding failed after retries",
			logging.Int("max_attempts", iv.policy.MaxAttempts),
			logging.Error(attemptErr))
		return services.Wrap(services.ErrEncode, "encode", "run encoder", "retry budget exhausted", attemptErr)
	}
	return nil
}

func (iv *Invoker) checkBinary() error {
	if iv.binary == "" {
		return fmt.Errorf("encoder binary not configured")
	}
	if strings.ContainsRune(iv.binary, os.PathSeparator) {
		info, err := os.Stat(iv.binary)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", iv.binary)
		}
		return nil
	}
	_, err := exec.LookPath(iv.binary)
	return err
}

func (iv *Invoker) runOnce(ctx context.Context, args []string, outputPath string, outputLogger *slog.Logger) error {
	exitCode, err := iv.runner.Run(ctx, iv.binary, args, func(line string) {
		if line = strings.TrimRight(line, "\r"); line != "" {
			outputLogger.Info(line)
		}
	})
	if err != nil {
		return err
	}
	if exitCode != 0 {
		return fmt.Errorf("encoder exited with code %d", exitCode)
	}
	return iv.verifyOutput(outputPath)
}

// verifyOutput guards against a truncated or empty artifact that a zero exit
// code might otherwise mask.
func (iv *Invoker) verifyOutput(outputPath string) error {
	info, err := os.Stat(outputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("encoder produced no output at %s", outputPath)
		}
		return fmt.Errorf("stat encoder output: %w", err)
	}
	if info.Size() <= iv.minOutputBytes {
		return fmt.Errorf("encoder output %s is implausibly small: %d bytes (minimum %d)",
			outputPath, info.Size(), iv.minOutputBytes)
	}
	return nil
}
