package preflight_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"squeeze/internal/preflight"
	"squeeze/internal/services"
)

func TestCheckShareReachable(t *testing.T) {
	if err := preflight.CheckShare(t.TempDir(), nil); err != nil {
		t.Fatalf("CheckShare returned error: %v", err)
	}
}

func TestCheckShareMissingIsAccessError(t *testing.T) {
	err := preflight.CheckShare(filepath.Join(t.TempDir(), "gone"), nil)
	if err == nil {
		t.Fatal("expected error for missing share")
	}
	if !errors.Is(err, services.ErrAccess) {
		t.Fatalf("expected ErrAccess, got %v", err)
	}
	if !services.IsFatal(err) {
		t.Fatal("share failure must be fatal")
	}
}

func TestCheckShareFileIsAccessError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	err := preflight.CheckShare(path, nil)
	if !errors.Is(err, services.ErrAccess) {
		t.Fatalf("expected ErrAccess for non-directory, got %v", err)
	}
}

func TestCheckDirectoryAccess(t *testing.T) {
	res := preflight.CheckDirectoryAccess("Scratch", t.TempDir())
	if !res.Passed {
		t.Fatalf("expected pass, got %+v", res)
	}

	res = preflight.CheckDirectoryAccess("Scratch", filepath.Join(t.TempDir(), "missing"))
	if res.Passed {
		t.Fatalf("expected failure, got %+v", res)
	}
	if !strings.Contains(res.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %q", res.Detail)
	}
}

func TestCheckEncoder(t *testing.T) {
	res := preflight.CheckEncoder("")
	if res.Passed {
		t.Fatalf("unconfigured binary should fail: %+v", res)
	}

	res = preflight.CheckEncoder(filepath.Join(t.TempDir(), "no-encoder"))
	if res.Passed {
		t.Fatalf("missing binary should fail: %+v", res)
	}

	path := filepath.Join(t.TempDir(), "encoder")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	res = preflight.CheckEncoder(path)
	if !res.Passed {
		t.Fatalf("expected pass for existing binary: %+v", res)
	}
}
