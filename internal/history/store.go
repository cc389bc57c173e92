package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"squeeze/internal/pipeline"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; operators then need to remove the old history database.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible
// version of the tool.
var ErrSchemaMismatch = errors.New("history schema version mismatch")

// Store persists run summaries and per-file results in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history database path not configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history folder: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create history schema: %w", err)
		}
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx,
		"SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (remove %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Run is a persisted batch summary.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	TotalFiles int
	Succeeded  int
	Failed     int
	Skipped    int
	BytesSaved int64
}

// FileRecord is one persisted per-file outcome within a run.
type FileRecord struct {
	FileName         string
	OriginalSize     int64
	OptimizedSize    int64
	CompressionRatio float64
	Duration         time.Duration
	Status           pipeline.Status
}

// RecordRun stores a completed run and its per-file results in one
// transaction.
func (s *Store) RecordRun(ctx context.Context, runID string, started, finished time.Time, results []pipeline.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer tx.Rollback()

	var succeeded, failed, skipped int
	var bytesSaved int64
	for _, result := range results {
		switch result.Status {
		case pipeline.StatusSuccess:
			succeeded++
			bytesSaved += result.OriginalSize - result.OptimizedSize
		case pipeline.StatusFailed:
			failed++
		case pipeline.StatusSkipped:
			skipped++
		}
	}

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO runs (id, started_at, finished_at, total_files, succeeded, failed, skipped, bytes_saved)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, started.UTC().Format(time.RFC3339Nano), finished.UTC().Format(time.RFC3339Nano),
		len(results), succeeded, failed, skipped, bytesSaved); err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}

	for i, result := range results {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO run_files (run_id, position, file_name, original_size, optimized_size, compression_ratio, duration_ms, status)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i, result.FileName, result.OriginalSize, result.OptimizedSize,
			result.CompressionRatio, result.Duration.Milliseconds(), string(result.Status)); err != nil {
			return fmt.Errorf("insert run file %s: %w", result.FileName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history transaction: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, started_at, finished_at, total_files, succeeded, failed, skipped, bytes_saved
        FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedRaw, finishedRaw string
		if err := rows.Scan(&run.ID, &startedRaw, &finishedRaw,
			&run.TotalFiles, &run.Succeeded, &run.Failed, &run.Skipped, &run.BytesSaved); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if started, err := time.Parse(time.RFC3339Nano, startedRaw); err == nil {
			run.StartedAt = started
		}
		if finished, err := time.Parse(time.RFC3339Nano, finishedRaw); err == nil {
			run.FinishedAt = finished
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunResults returns the per-file records of one run in processing order.
func (s *Store) RunResults(ctx context.Context, runID string) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT file_name, original_size, optimized_size, compression_ratio, duration_ms, status
        FROM run_files WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run files: %w", err)
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		var record FileRecord
		var durationMS int64
		var status string
		if err := rows.Scan(&record.FileName, &record.OriginalSize, &record.OptimizedSize,
			&record.CompressionRatio, &durationMS, &status); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		record.Duration = time.Duration(durationMS) * time.Millisecond
		record.Status = pipeline.Status(status)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run files: %w", err)
	}
	return records, nil
}
