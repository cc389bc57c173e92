package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAccess marks a failure reaching the source share. It is fatal to
	// the whole run.
	ErrAccess = errors.New("access error")
	// ErrStaging marks a staging copy that failed after its retry budget.
	ErrStaging = errors.New("staging error")
	// ErrEncode marks an encoder invocation failure: nonzero exit, missing
	// executable, or a missing/undersized output artifact.
	ErrEncode = errors.New("encode error")
	// ErrPromotion marks a failure moving a verified output into place.
	ErrPromotion = errors.New("promotion error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = errors.New("failure")
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err must abort the entire batch rather than a
// single file. Only source-share access failures qualify.
func IsFatal(err error) bool {
	return errors.Is(err, ErrAccess)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
