// Package batch orchestrates a whole optimization run: scratch workspace
// preparation, source share preflight, file enumeration, sequential per-file
// processing, and the run artifacts (CSV report, history record, completion
// notification). A second concurrent run against the same scratch root is
// rejected via a file lock.
package batch
