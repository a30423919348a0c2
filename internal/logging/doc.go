// Package logging assembles the structured slog loggers used across
// capstan.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so session code can
// automatically tag log lines with session, job, and correlation
// identifiers. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new
// components emit data with the same shape as the rest of the tool.
package logging
