// Package journal records batch runs in a small SQLite database.
//
// Each run stores one row per processed file with its outcome, error text and
// backup location. Files left in an inconsistent state (converted but not
// backed up, or the reverse) can be listed later for operator review.
//
// The journal is optional; the batch runner writes to it only when enabled.
package journal
