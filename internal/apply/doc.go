// Package apply executes conversion plans against the filesystem.
//
// Orchestrator.Apply walks one file through the apply state machine:
//
//	Planned -> Skipped | Listed | DryRun | Applying -> Succeeded | Failed | Inconsistent
//
// Originals are never modified in place. When the destination shares the
// source name (compared with Unicode case folding) the original is first
// copied into the backup tree, sox writes to a temporary sibling and the
// temporary file is renamed over the destination. Otherwise sox writes the
// destination directly and the original is moved into the backup tree.
// Nothing is moved or renamed unless the conversion succeeded.
package apply
