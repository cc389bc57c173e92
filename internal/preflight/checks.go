package preflight

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"squeeze/internal/config"
	"squeeze/internal/logging"
	"squeeze/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckShare verifies the source root is reachable before any work begins.
// Failure is fatal to the whole run: the orchestrator aborts without
// creating directories or touching any file.
func CheckShare(root string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}

	info, err := os.Stat(root)
	if err != nil {
		logger.Error("source share unreachable",
			logging.String("source_root", root),
			logging.Error(err))
		return services.Wrap(services.ErrAccess, "preflight", "share check", root, err)
	}
	if !info.IsDir() {
		err := fmt.Errorf("%s is not a directory", root)
		logger.Error("source share unreachable",
			logging.String("source_root", root),
			logging.Error(err))
		return services.Wrap(services.ErrAccess, "preflight", "share check", root, err)
	}
	if err := unix.Access(root, unix.R_OK|unix.X_OK); err != nil {
		logger.Error("source share unreadable",
			logging.String("source_root", root),
			logging.Error(err))
		return services.Wrap(services.ErrAccess, "preflight", "share check", root, err)
	}

	logger.Info("source share reachable", logging.String("source_root", root))
	return nil
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckEncoder verifies the external encoder executable can be found.
func CheckEncoder(binary string) Result {
	const name = "Encoder"

	binary = strings.TrimSpace(binary)
	if binary == "" {
		return Result{Name: name, Detail: "binary not configured"}
	}
	if strings.ContainsRune(binary, os.PathSeparator) {
		info, err := os.Stat(binary)
		if err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", binary, err)}
		}
		if info.IsDir() {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", binary)}
		}
		return Result{Name: name, Passed: true, Detail: binary}
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found in PATH", binary)}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}

// RunAll evaluates every preflight check for the given config.
func RunAll(cfg *config.Config) []Result {
	results := []Result{
		CheckEncoder(cfg.Encoder.Binary),
		CheckDirectoryAccess("Source root", cfg.Paths.SourceRoot),
	}
	results = append(results, checkOptionalDir("Output root", cfg.Paths.OutputRoot))
	results = append(results, checkOptionalDir("Scratch root", cfg.Paths.ScratchRoot))
	return results
}

// checkOptionalDir treats a missing directory as passing: the orchestrator
// creates output and scratch roots itself at the start of a run.
func checkOptionalDir(name, path string) Result {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
	}
	return CheckDirectoryAccess(name, path)
}
