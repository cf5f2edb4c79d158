// Package main hosts the slimsamples CLI entrypoint.
//
// A single Cobra command parses flags up to the first path argument, layers
// them over the optional TOML configuration, runs preflight checks and hands
// the paths to the batch runner. Summary lines go to stdout; logs and the
// outcome totals go to stderr.
//
// Keep this package lean: behaviour belongs in the internal packages, this
// layer only wires them together.
package main
