package preflight

import (
	"context"
	"fmt"
	"strings"

	"jumpcut/internal/config"
	"jumpcut/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := CheckTools(ctx, cfg)
	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	if strings.TrimSpace(cfg.Paths.LogDir) != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if cfg.Cache.Enabled {
		results = append(results, CheckFileParent("Analysis cache", cfg.Paths.CachePath))
	}
	return results
}

// Err folds failed results into one error carrying the external-tool marker,
// or returns nil when everything passed.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%w: preflight failed: %s", services.ErrExternalTool, strings.Join(failed, "; "))
}
