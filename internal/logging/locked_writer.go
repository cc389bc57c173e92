package logging

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// LockedFileWriter appends to a log file under a named cross-process lock
// keyed to the file path. Multiple squeeze processes pointed at the same log
// file serialize their writes through the shared lock, so manually launched
// parallel runs never corrupt each other's lines.
type LockedFileWriter struct {
	file *os.File
	lock *flock.Flock
}

// NewLockedFileWriter opens path for appending and prepares its lock file.
func NewLockedFileWriter(path string) (*LockedFileWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return &LockedFileWriter{
		file: file,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Write acquires the lock, appends p, and releases the lock on every exit path.
func (w *LockedFileWriter) Write(p []byte) (int, error) {
	if err := w.lock.Lock(); err != nil {
		return 0, fmt.Errorf("acquire log lock: %w", err)
	}
	defer func() {
		_ = w.lock.Unlock()
	}()
	return w.file.Write(p)
}

// Close closes the underlying log file.
func (w *LockedFileWriter) Close() error {
	return w.file.Close()
}
