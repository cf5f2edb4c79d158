// Package services defines the error markers and context helpers shared by
// the inspection, planning and apply stages.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so every per-file failure
//     can be classified (inspection, unsupported encoding, conversion,
//     filesystem) without string matching.
//   - Context helpers that stamp run identifiers, file paths and worker
//     numbers for logging.
//
// Use these helpers when wiring new stage logic so failure reporting stays
// uniform across the batch.
package services
