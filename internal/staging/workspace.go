package staging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"tubepost/internal/fileutil"
	"tubepost/internal/logging"
	"tubepost/internal/textutil"
)

// WorkspacePrefix marks directories created by NewWorkspace.
const WorkspacePrefix = "run-"

// Workspace is a directory holding the artifacts of a single run.
type Workspace struct {
	dir    string
	logger *slog.Logger

	mu        sync.Mutex
	artifacts []string
	released  map[string]bool
	closed    bool
}

// NewWorkspace creates a uniquely named workspace directory for itemID.
func NewWorkspace(stagingDir, itemID string, logger *slog.Logger) (*Workspace, error) {
	if stagingDir == "" {
		return nil, errors.New("staging directory not configured")
	}
	name := fmt.Sprintf("%s%s-%s", WorkspacePrefix, textutil.SanitizeToken(itemID), uuid.NewString()[:8])
	dir := filepath.Join(stagingDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %q: %w", dir, err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Workspace{dir: dir, logger: logger, released: make(map[string]bool)}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Register records path as an artifact owned by the workspace.
func (w *Workspace) Register(path string) {
	if path == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, existing := range w.artifacts {
		if existing == path {
			return
		}
	}
	w.artifacts = append(w.artifacts, path)
}

// Artifacts returns registered artifacts that have not been released yet.
func (w *Workspace) Artifacts() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.artifacts))
	for _, path := range w.artifacts {
		if !w.released[path] {
			out = append(out, path)
		}
	}
	return out
}

// Release deletes one registered artifact. Releasing the same artifact twice
// is a no-op.
func (w *Workspace) Release(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.releaseLocked(path)
}

// ReleaseAll deletes every registered artifact that is still present.
func (w *Workspace) ReleaseAll() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for _, path := range w.artifacts {
		if err := w.releaseLocked(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *Workspace) releaseLocked(path string) error {
	if w.released[path] {
		return nil
	}
	w.released[path] = true
	removed, err := fileutil.RemoveIfExists(path)
	if err != nil {
		return fmt.Errorf("remove artifact %q: %w", path, err)
	}
	if removed {
		w.logger.Debug("artifact removed", logging.String("path", path))
	}
	return nil
}

// Cleanup releases remaining artifacts and removes the workspace directory.
// Calling it more than once is safe.
func (w *Workspace) Cleanup() error {
	if w == nil {
		return nil
	}
	releaseErr := w.ReleaseAll()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return releaseErr
	}
	w.closed = true
	if err := os.RemoveAll(w.dir); err != nil {
		logging.WarnWithContext(w.logger, "failed to remove workspace", "staging_cleanup_failed",
			logging.String("path", w.dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check staging_dir permissions"),
			logging.String(logging.FieldImpact, "disk space not reclaimed until the stale sweep"),
		)
		return errors.Join(releaseErr, fmt.Errorf("remove workspace %q: %w", w.dir, err))
	}
	return releaseErr
}
