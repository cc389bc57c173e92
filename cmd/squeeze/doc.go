// Package main hosts the squeeze CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces batch optimization runs, dry-run
// scans, preflight checks, run history, notification testing, and
// configuration scaffolding. It centralizes configuration resolution and
// logging setup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
