package preflight

import (
	"context"
	"path/filepath"
	"strings"

	"slimsamples/internal/config"
	"slimsamples/internal/deps"
	"slimsamples/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Directory checks only run when the run will write there.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range deps.CheckBinaries(deps.SoxRequirements(cfg.Tools.Sox)) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Command
		}
		results = append(results, result)
	}

	if cfg.Run.Mode == config.ModeConvert {
		results = append(results, CheckWritableAncestor("Backup directory", cfg.Run.BackupDir))
	}
	if file := strings.TrimSpace(cfg.Logging.File); file != "" {
		results = append(results, CheckWritableAncestor("Log directory", filepath.Dir(file)))
	}
	if cfg.Journal.Enabled {
		results = append(results, CheckWritableAncestor("Journal directory", filepath.Dir(cfg.JournalPath())))
	}
	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}

// Run executes RunAll and converts failures into a configuration error.
func Run(ctx context.Context, cfg *config.Config) error {
	failed := Failed(RunAll(ctx, cfg))
	if len(failed) == 0 {
		return nil
	}
	parts := make([]string, 0, len(failed))
	for _, result := range failed {
		parts = append(parts, result.Name+": "+result.Detail)
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "", strings.Join(parts, "; "), nil)
}
