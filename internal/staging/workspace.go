package staging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"squeeze/internal/logging"
)

// Confirmer obtains an affirmative decision from the operator. Deleting
// scratch files is destructive, so the workspace manager asks twice through
// this interface before touching anything.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a plain function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// Workspace inspects and, with double operator confirmation, clears stale
// files directly under the scratch root before a run starts.
type Workspace struct {
	root    string
	confirm Confirmer
}

// NewWorkspace constructs a workspace manager over root.
func NewWorkspace(root string, confirm Confirmer) *Workspace {
	return &Workspace{root: root, confirm: confirm}
}

// Prepare lists files directly under the scratch root (non-recursive). When
// any exist, two independent confirmations are required before deletion;
// declining either leaves every file untouched. Per-file deletion failures
// are warnings only. An empty or absent scratch root prompts nothing.
func (w *Workspace) Prepare(logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}

	entries, err := os.ReadDir(w.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var stale []string
	for _, entry := range entries {
		// Dotfiles cover bookkeeping such as the cross-run lock file.
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		stale = append(stale, entry.Name())
	}
	if len(stale) == 0 {
		return nil
	}

	logger.Info("stale files found in scratch area",
		logging.Int("count", len(stale)),
		logging.String("scratch_root", w.root))

	if w.confirm == nil || !w.confirm.Confirm("Delete stale scratch files before this run?") {
		logger.Info("operator declined scratch cleanup; leaving files in place")
		return nil
	}
	if !w.confirm.Confirm("Really delete them? This cannot be undone.") {
		logger.Info("operator declined scratch cleanup on second confirmation; leaving files in place")
		return nil
	}

	for _, name := range stale {
		path := filepath.Join(w.root, name)
		if err := os.Remove(path); err != nil {
			logger.Warn("failed to remove stale scratch file",
				logging.String("path", path),
				logging.Error(err))
			continue
		}
		logger.Info("removed stale scratch file", logging.String("path", path))
	}
	return nil
}
