package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"squeeze/internal/config"
	"squeeze/internal/encoder"
	"squeeze/internal/logging"
	"squeeze/internal/media"
	"squeeze/internal/pipeline"
	"squeeze/internal/retry"
	"squeeze/internal/staging"
	"squeeze/internal/testsupport"
)

// encodeFake stands in for the external encoder. It writes outputSize bytes
// to whatever path follows -o in the argument list.
type encodeFake struct {
	calls      int
	exitCode   int
	outputSize int
}

func (f *encodeFake) Run(_ context.Context, _ string, args []string, onLine func(string)) (int, error) {
	f.calls++
	if f.exitCode == 0 {
		onLine("Encoding: task 1 of 1")
		if err := os.WriteFile(outputArg(args), make([]byte, f.outputSize), 0o644); err != nil {
			return 0, err
		}
	}
	return f.exitCode, nil
}

func outputArg(args []string) string {
	for i, arg := range args {
		if arg == "-o" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func zeroDelayPolicy(attempts int) retry.Policy {
	p := retry.New(attempts, time.Second)
	p.Sleep = func(context.Context, time.Duration) error { return nil }
	return p
}

type harness struct {
	cfg    *config.Config
	runner *encodeFake
	file   media.File
}

func newHarness(t *testing.T, sourceSize int64) *harness {
	t.Helper()

	cfg := testsupport.NewConfig(t,
		testsupport.WithProfile(map[string]any{"encoder": "svt_av1", "quality": 27}))

	for _, dir := range []string{cfg.Paths.OutputRoot, cfg.Paths.ScratchRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	sourcePath := testsupport.SeedSource(t, cfg.Paths.SourceRoot, "movie.mkv", sourceSize)

	return &harness{
		cfg:    cfg,
		runner: &encodeFake{outputSize: 256},
		file:   media.File{Path: sourcePath, Size: sourceSize, RelPath: "movie.mkv"},
	}
}

func (h *harness) pipeline() *pipeline.Pipeline {
	copier := staging.NewCopier(zeroDelayPolicy(1))
	invoker := encoder.NewInvoker(h.cfg.Encoder.Binary, h.cfg.Encoder.MinOutputBytes,
		zeroDelayPolicy(2), encoder.WithRunner(h.runner))
	return pipeline.New(h.cfg, copier, invoker, logging.NewNop())
}

func (h *harness) finalPath() string {
	return filepath.Join(h.cfg.Paths.OutputRoot, "movie_optimized.mkv")
}

func TestProcessSuccess(t *testing.T) {
	h := newHarness(t, 1024)

	result := h.pipeline().Process(context.Background(), h.file)

	if result.Status != pipeline.StatusSuccess {
		t.Fatalf("status = %q, want %q", result.Status, pipeline.StatusSuccess)
	}
	if result.FileName != "movie.mkv" {
		t.Errorf("file name = %q, want movie.mkv", result.FileName)
	}
	if result.OriginalSize != 1024 || result.OptimizedSize != 256 {
		t.Errorf("sizes = %d/%d, want 1024/256", result.OriginalSize, result.OptimizedSize)
	}
	if result.CompressionRatio != 75.0 {
		t.Errorf("compression ratio = %v, want 75", result.CompressionRatio)
	}
	if result.Duration <= 0 {
		t.Errorf("duration = %v, want > 0", result.Duration)
	}

	info, err := os.Stat(h.finalPath())
	if err != nil {
		t.Fatalf("stat final output: %v", err)
	}
	if info.Size() != 256 {
		t.Errorf("final output size = %d, want 256", info.Size())
	}

	entries, err := os.ReadDir(h.cfg.Paths.ScratchRoot)
	if err != nil {
		t.Fatalf("read scratch: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("scratch not empty after success: %d entries", len(entries))
	}
}

func TestProcessSkipsExistingOutput(t *testing.T) {
	h := newHarness(t, 1024)
	p := h.pipeline()

	first := p.Process(context.Background(), h.file)
	if first.Status != pipeline.StatusSuccess {
		t.Fatalf("first run status = %q, want Success", first.Status)
	}

	second := p.Process(context.Background(), h.file)
	if second.Status != pipeline.StatusSkipped {
		t.Fatalf("second run status = %q, want Skipped", second.Status)
	}
	if second.OptimizedSize != 0 || second.CompressionRatio != 0 || second.Duration != 0 {
		t.Errorf("skipped result carries work metrics: %+v", second)
	}
	if h.runner.calls != 1 {
		t.Errorf("encoder invoked %d times, want 1", h.runner.calls)
	}
}

func TestProcessReprocessesWhenSkipDisabled(t *testing.T) {
	h := newHarness(t, 1024)
	h.cfg.Processing.SkipExisting = false
	p := h.pipeline()

	p.Process(context.Background(), h.file)
	second := p.Process(context.Background(), h.file)

	if second.Status != pipeline.StatusSuccess {
		t.Fatalf("second run status = %q, want Success", second.Status)
	}
	if h.runner.calls != 2 {
		t.Errorf("encoder invoked %d times, want 2", h.runner.calls)
	}
}

func TestProcessEncodeFailureLeavesNoArtifacts(t *testing.T) {
	h := newHarness(t, 1024)
	h.runner.exitCode = 1

	result := h.pipeline().Process(context.Background(), h.file)

	if result.Status != pipeline.StatusFailed {
		t.Fatalf("status = %q, want %q", result.Status, pipeline.StatusFailed)
	}
	if result.OptimizedSize != 0 || result.CompressionRatio != 0 {
		t.Errorf("failed result carries output metrics: %+v", result)
	}
	if result.Duration <= 0 {
		t.Errorf("duration = %v, want > 0 on failure", result.Duration)
	}
	if _, err := os.Stat(h.finalPath()); !os.IsNotExist(err) {
		t.Errorf("final output exists after failure")
	}
	if h.runner.calls != 2 {
		t.Errorf("encoder invoked %d times, want 2 (retry budget)", h.runner.calls)
	}
}

func TestProcessMissingSourceFails(t *testing.T) {
	h := newHarness(t, 1024)
	h.file.Path = filepath.Join(h.cfg.Paths.SourceRoot, "gone.mkv")
	h.file.RelPath = "gone.mkv"

	result := h.pipeline().Process(context.Background(), h.file)

	if result.Status != pipeline.StatusFailed {
		t.Fatalf("status = %q, want %q", result.Status, pipeline.StatusFailed)
	}
	if h.runner.calls != 0 {
		t.Errorf("encoder invoked %d times for unstageable file, want 0", h.runner.calls)
	}
}

func TestProcessStagingFailureKeepsPromotedOutput(t *testing.T) {
	h := newHarness(t, 1024)
	h.cfg.Processing.SkipExisting = false

	existing := []byte("previously promoted output")
	if err := os.WriteFile(h.finalPath(), existing, 0o644); err != nil {
		t.Fatalf("seed final output: %v", err)
	}
	if err := os.Remove(h.file.Path); err != nil {
		t.Fatalf("remove source: %v", err)
	}

	result := h.pipeline().Process(context.Background(), h.file)

	if result.Status != pipeline.StatusFailed {
		t.Fatalf("status = %q, want %q", result.Status, pipeline.StatusFailed)
	}
	data, err := os.ReadFile(h.finalPath())
	if err != nil {
		t.Fatalf("read final output after failure: %v", err)
	}
	if string(data) != string(existing) {
		t.Errorf("final output was modified by a failed re-run")
	}
}

func TestProcessPreservesRelativeLayout(t *testing.T) {
	h := newHarness(t, 1024)

	rel := filepath.Join("shows", "s01", "ep01.mkv")
	path := testsupport.SeedSource(t, h.cfg.Paths.SourceRoot, rel, 512)
	file := media.File{Path: path, Size: 512, RelPath: rel}

	result := h.pipeline().Process(context.Background(), file)
	if result.Status != pipeline.StatusSuccess {
		t.Fatalf("status = %q, want Success", result.Status)
	}

	want := filepath.Join(h.cfg.Paths.OutputRoot, "shows", "s01", "ep01_optimized.mkv")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("nested output missing at %s: %v", want, err)
	}
}

func TestCompressionRatio(t *testing.T) {
	cases := []struct {
		name     string
		original int64
		final    int64
		want     float64
	}{
		{"typical", 1000, 400, 60},
		{"rounds to two decimals", 3, 1, 66.67},
		{"larger output goes negative", 1000, 1500, -50},
		{"zero original", 0, 100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pipeline.CompressionRatio(tc.original, tc.final); got != tc.want {
				t.Errorf("CompressionRatio(%d, %d) = %v, want %v", tc.original, tc.final, got, tc.want)
			}
		})
	}
}
