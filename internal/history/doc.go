// Package history keeps a SQLite record of completed runs so operators can
// review past batches after logs and reports rotate away.
package history
