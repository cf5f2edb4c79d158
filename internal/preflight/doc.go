// Package preflight verifies that a run can start: sox must be installed and
// the directories the run writes to must be accessible.
//
// RunAll returns one Result per check so the CLI can print them; Run folds
// failures into a single configuration error that aborts before any file is
// touched. AcquireRunLock guards a backup tree against concurrent runs.
package preflight
