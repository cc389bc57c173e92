package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"squeeze/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The source root exists on disk; output and scratch roots are left for the
// code under test to create. The encoder binary points at an executable stub
// so binary checks pass.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourceRoot = filepath.Join(base, "source")
	cfgVal.Paths.OutputRoot = filepath.Join(base, "output")
	cfgVal.Paths.ScratchRoot = filepath.Join(base, "scratch")
	cfgVal.Paths.LogFile = ""
	cfgVal.Paths.ReportFile = filepath.Join(base, "report.csv")
	cfgVal.Paths.HistoryDB = ""
	cfgVal.Encoder.Binary = stubEncoder(t, base)
	cfgVal.Encoder.MinOutputBytes = 16
	cfgVal.Processing.MinSourceBytes = 100
	cfgVal.Processing.RetryDelaySeconds = 1

	if err := os.MkdirAll(cfgVal.Paths.SourceRoot, 0o755); err != nil {
		t.Fatalf("mkdir source root: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithProfile replaces the encoding profile on the test config.
func WithProfile(profile map[string]any) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encoder.Profile = profile
	}
}

// WithSkipExisting toggles idempotent skip behavior on the test config.
func WithSkipExisting(skip bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Processing.SkipExisting = skip
	}
}

// WithHistoryDB points the test config at a history database under the
// test's temp directory.
func WithHistoryDB() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.HistoryDB = filepath.Join(b.baseDir, "history.db")
	}
}

func stubEncoder(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "encoder")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write encoder stub: %v", err)
	}
	return path
}
