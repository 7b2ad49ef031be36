package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"tubepost/internal/logging"
	"tubepost/internal/staging"
)

// acquireLock takes the host run lock. locked is false when another process
// holds it.
func (o *Orchestrator) acquireLock(logger *slog.Logger) (unlock func(), locked bool, err error) {
	path := strings.TrimSpace(o.lockPath)
	if path == "" {
		return func() {}, true, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false, fmt.Errorf("ensure lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("run lock release failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "lock_release_failed"),
				logging.String(logging.FieldImpact, "next run may report LOCKED until this process exits"),
			)
		}
	}, true, nil
}

// sweepStaleWorkspaces removes workspaces left by crashed runs.
func (o *Orchestrator) sweepStaleWorkspaces(ctx context.Context, logger *slog.Logger) {
	if o.stagingDir == "" || o.staleAge <= 0 {
		return
	}
	result := staging.CleanStale(ctx, o.stagingDir, o.staleAge, logger)
	if len(result.Removed) > 0 {
		logger.Info("removed stale workspaces",
			logging.String(logging.FieldEventType, "stale_workspaces_removed"),
			logging.Int("count", len(result.Removed)),
		)
	}
	for _, failure := range result.Errors {
		logging.WarnWithContext(logger, "stale workspace cleanup failed", "stale_workspace_cleanup_failed",
			logging.String("path", failure.Path),
			logging.Error(failure.Error),
			logging.String(logging.FieldImpact, "disk space is not reclaimed"),
			logging.String(logging.FieldErrorHint, "check staging directory permissions"),
		)
	}
}
