// Package logging provides the slog handlers used across squeeze: a console
// handler emitting "<timestamp> [LEVEL] message" lines and a file sink
// guarded by a cross-process lock so concurrently launched squeeze processes
// sharing one log file never interleave writes.
package logging
