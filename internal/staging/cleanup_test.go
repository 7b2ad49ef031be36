package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tubepost/internal/logging"
)

func makeDir(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}
	if age > 0 {
		ts := time.Now().Add(-age)
		if err := os.Chtimes(path, ts, ts); err != nil {
			t.Fatalf("set time: %v", err)
		}
	}
}

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOldWorkspaces(t *testing.T) {
	tmpDir := t.TempDir()
	oldDir := filepath.Join(tmpDir, WorkspacePrefix+"old")
	recentDir := filepath.Join(tmpDir, WorkspacePrefix+"recent")
	foreignDir := filepath.Join(tmpDir, "keep-me")
	makeDir(t, oldDir, 2*time.Hour)
	makeDir(t, recentDir, 0)
	makeDir(t, foreignDir, 2*time.Hour)

	result := CleanStale(context.Background(), tmpDir, time.Hour, logging.NewNop())

	if len(result.Removed) != 1 || result.Removed[0] != oldDir {
		t.Fatalf("expected only %s removed, got %v", oldDir, result.Removed)
	}
	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Error("old workspace should have been removed")
	}
	for _, dir := range []string{recentDir, foreignDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("%s should still exist", dir)
		}
	}
}

func TestCleanStaleDisabledWithZeroAge(t *testing.T) {
	tmpDir := t.TempDir()
	makeDir(t, filepath.Join(tmpDir, WorkspacePrefix+"old"), 48*time.Hour)

	result := CleanStale(context.Background(), tmpDir, 0, logging.NewNop())
	if len(result.Removed) != 0 {
		t.Fatalf("expected no removals, got %v", result.Removed)
	}
}

func TestListWorkspaces(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, WorkspacePrefix+"one")
	makeDir(t, dir, 0)
	makeDir(t, filepath.Join(tmpDir, "other"), 0)
	if err := os.WriteFile(filepath.Join(dir, "data.bin"), []byte("12345"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	dirs, err := ListWorkspaces(tmpDir)
	if err != nil {
		t.Fatalf("ListWorkspaces: %v", err)
	}
	if len(dirs) != 1 {
		t.Fatalf("expected 1 workspace, got %d", len(dirs))
	}
	if dirs[0].Path != dir || dirs[0].Size != 5 || dirs[0].ModTime.IsZero() {
		t.Fatalf("unexpected workspace info %+v", dirs[0])
	}

	missing, err := ListWorkspaces("/nonexistent/path/12345")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing dir, got %v, %v", missing, err)
	}
}
