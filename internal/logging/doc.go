// Package logging assembles structured slog loggers and formatting helpers used
// across slimsamples.
//
// It owns the bracket-tagged text handler (one line per event, prefixed with
// the level in brackets, suitable for an append-only log file) and the JSON
// handler, maps the -v verbosity count onto slog levels, and exposes
// context-aware helpers so per-file code automatically tags log lines with the
// run identifier, sample path and worker number. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
