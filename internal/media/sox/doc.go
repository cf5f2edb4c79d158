// Package sox provides a typed wrapper around the SoX command line tool.
//
// This package has no slimsamples-specific dependencies beyond the shared
// error markers.
//
// Key types:
//   - Info: nominal properties reported by `sox --i`
//   - Stats: measurements parsed from the `stats` effect
//   - Client: runs sox through an Executor with per-call timeouts
//
// Every invocation is a bounded subprocess: read-only queries use the
// inspect timeout, conversions use the convert timeout. Failures wrap
// services.ErrExternalTool, expirations wrap services.ErrTimeout.
package sox
