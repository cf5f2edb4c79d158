// Package config loads, normalizes, and validates slimsamples configuration.
//
// A run is described by a Target (the bit-depth, sample-rate and channel
// constraints the planner compares samples against) plus run, logging, tool
// and journal settings. Values come from an optional TOML file, are then
// overridden by command line flags, and are finally normalized and validated
// through Finalize so every consumer sees an immutable, checked Config.
//
// Validation failures wrap services.ErrConfiguration; they are fatal and abort
// the run before any file is touched.
package config
