package staging

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"squeeze/internal/fileutil"
	"squeeze/internal/logging"
	"squeeze/internal/retry"
	"squeeze/internal/services"
)

// Copier copies a source file into scratch storage and verifies byte-exact
// completeness, retrying on failure. Copies over unreliable network mounts
// can silently truncate, so the destination length is always compared
// against the source's.
type Copier struct {
	policy retry.Policy
}

// NewCopier constructs a copier with the given retry policy.
func NewCopier(policy retry.Policy) *Copier {
	return &Copier{policy: policy}
}

// Copy stages src at dst. On verification mismatch or copy error it retries
// up to the policy budget with the fixed delay, logging a warning per failed
// attempt and an error once the budget is exhausted.
func (c *Copier) Copy(ctx context.Context, src, dst string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}

	err := c.policy.Do(ctx, func() error {
		return copyVerified(src, dst)
	}, func(attempt int, err error) {
		logger.Warn("copy attempt failed",
			logging.String("source", src),
			logging.String("destination", dst),
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", c.policy.MaxAttempts),
			logging.Error(err))
	})
	if err != nil {
		logger.Error("copy failed after retries",
			logging.String("source", src),
			logging.String("destination", dst),
			logging.Int("max_attempts", c.policy.MaxAttempts),
			logging.Error(err))
		return services.Wrap(services.ErrStaging, "stage", "copy to scratch", "retry budget exhausted", err)
	}
	return nil
}

func copyVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	if _, err := fileutil.CopyFile(src, dst); err != nil {
		_ = os.Remove(dst)
		return err
	}

	dstInfo, err := os.Stat(dst)
	if err != nil {
		return fmt.Errorf("stat destination: %w", err)
	}
	if dstInfo.Size() != srcInfo.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy incomplete: source %d bytes, destination %d bytes", srcInfo.Size(), dstInfo.Size())
	}
	return nil
}
