// Package logging assembles structured slog loggers and formatting helpers used
// across the archive tooling.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so ingest code can automatically
// tag log lines with the scan session id and stage. The package also provides
// a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every command emits
// the same field names.
package logging
