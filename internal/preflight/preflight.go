package preflight

import (
	"context"

	"golang.org/x/sync/errgroup"

	"tubepost/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable check for the given config. Checks run
// concurrently; the returned slice keeps a fixed order.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	checks := []func(context.Context) Result{
		func(context.Context) Result { return CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir) },
		func(ctx context.Context) Result { return CheckSource(ctx, cfg) },
		func(ctx context.Context) Result { return CheckState(ctx, cfg) },
		func(ctx context.Context) Result { return CheckLLM(ctx, "Summarization LLM", cfg.LLM) },
		func(context.Context) Result { return CheckPublishFromConfig(cfg) },
		func(context.Context) Result { return CheckNotificationsFromConfig(cfg) },
	}

	results := make([]Result, len(checks))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, check := range checks {
		group.Go(func() error {
			results[i] = check(groupCtx)
			return nil
		})
	}
	_ = group.Wait()
	return results
}
