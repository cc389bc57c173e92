package staging_test

import (
	"os"
	"path/filepath"
	"testing"

	"squeeze/internal/staging"
)

type scriptedConfirmer struct {
	answers []bool
	calls   int
}

func (s *scriptedConfirmer) Confirm(string) bool {
	if s.calls >= len(s.answers) {
		return false
	}
	answer := s.answers[s.calls]
	s.calls++
	return answer
}

func seedScratch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(root, name), []byte("stale"), 0o644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}
}

func TestPrepareDeletesAfterDoubleConfirmation(t *testing.T) {
	root := t.TempDir()
	seedScratch(t, root, "a.mkv", "b.mkv")

	confirm := &scriptedConfirmer{answers: []bool{true, true}}
	ws := staging.NewWorkspace(root, confirm)
	if err := ws.Prepare(nil); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if confirm.calls != 2 {
		t.Fatalf("expected 2 confirmations, got %d", confirm.calls)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read scratch: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty scratch, found %d entries", len(entries))
	}
}

func TestPrepareDecliningSecondConfirmationLeavesFiles(t *testing.T) {
	root := t.TempDir()
	seedScratch(t, root, "a.mkv")

	confirm := &scriptedConfirmer{answers: []bool{true, false}}
	ws := staging.NewWorkspace(root, confirm)
	if err := ws.Prepare(nil); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "a.mkv")); err != nil {
		t.Fatalf("file should be untouched: %v", err)
	}
}

func TestPrepareDecliningFirstConfirmationStops(t *testing.T) {
	root := t.TempDir()
	seedScratch(t, root, "a.mkv")

	confirm := &scriptedConfirmer{answers: []bool{false}}
	ws := staging.NewWorkspace(root, confirm)
	if err := ws.Prepare(nil); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if confirm.calls != 1 {
		t.Fatalf("second confirmation should not be asked, got %d calls", confirm.calls)
	}
	if _, err := os.Stat(filepath.Join(root, "a.mkv")); err != nil {
		t.Fatalf("file should be untouched: %v", err)
	}
}

func TestPrepareEmptyRootAsksNothing(t *testing.T) {
	confirm := &scriptedConfirmer{answers: []bool{true, true}}
	ws := staging.NewWorkspace(t.TempDir(), confirm)
	if err := ws.Prepare(nil); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if confirm.calls != 0 {
		t.Fatalf("no prompt expected for empty root, got %d calls", confirm.calls)
	}
}

func TestPrepareAbsentRootIsNoop(t *testing.T) {
	confirm := &scriptedConfirmer{}
	ws := staging.NewWorkspace(filepath.Join(t.TempDir(), "missing"), confirm)
	if err := ws.Prepare(nil); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if confirm.calls != 0 {
		t.Fatalf("no prompt expected for absent root, got %d calls", confirm.calls)
	}
}

func TestPrepareIgnoresSubdirectories(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	confirm := &scriptedConfirmer{answers: []bool{true, true}}
	ws := staging.NewWorkspace(root, confirm)
	if err := ws.Prepare(nil); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if confirm.calls != 0 {
		t.Fatalf("directories alone should not prompt, got %d calls", confirm.calls)
	}
	if _, err := os.Stat(filepath.Join(root, "nested")); err != nil {
		t.Fatalf("subdirectory should remain: %v", err)
	}
}

func TestPrepareIgnoresDotfiles(t *testing.T) {
	root := t.TempDir()
	seedScratch(t, root, ".squeeze.lock")

	confirm := &scriptedConfirmer{answers: []bool{true, true}}
	ws := staging.NewWorkspace(root, confirm)
	if err := ws.Prepare(nil); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if confirm.calls != 0 {
		t.Fatalf("dotfiles alone should not prompt, got %d calls", confirm.calls)
	}
	if _, err := os.Stat(filepath.Join(root, ".squeeze.lock")); err != nil {
		t.Fatalf("dotfile should remain: %v", err)
	}
}
