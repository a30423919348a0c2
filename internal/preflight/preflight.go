package preflight

import (
	"context"

	"capstan/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every readiness check: workspace directory access,
// disk headroom, backend reachability, and one row per server-side
// dependency reported by the health payload.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckWorkspace("Workspace directory", cfg.Paths.WorkspaceDir),
		CheckDiskSpace("Disk space", cfg.Paths.WorkspaceDir),
	}

	row, report := backendHealth(ctx, cfg)
	results = append(results, row)
	if report != nil {
		results = append(results, dependencyResults(report)...)
	}
	return results
}

// Passed reports whether every result in the slice passed.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
