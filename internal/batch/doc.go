// Package batch drives the per-file pipeline for one run:
//
//	select -> inspect -> classify -> plan -> summarize | apply
//
// Files are processed by a bounded worker pool. Summary lines are written in
// input order regardless of which worker finished first, and every file ends
// in exactly one Outcome that is tallied into Totals. Per-file failures are
// logged and the batch moves on; only setup errors and cancellation end a
// run early.
package batch
