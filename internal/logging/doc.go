// Package logging assembles structured slog loggers and formatting helpers used
// across tubepost.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log lines
// with item IDs, stages, and correlation IDs. Every record written during a run
// carries the run identifier once WithRunID has been applied. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
