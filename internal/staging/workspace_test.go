package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tubepost/internal/logging"
)

func TestWorkspaceLifecycle(t *testing.T) {
	stagingDir := t.TempDir()
	ws, err := NewWorkspace(stagingDir, "dQw4w9WgXcQ", logging.NewNop())
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(ws.Dir()), WorkspacePrefix+"dqw4w9wgxcq-") {
		t.Fatalf("unexpected workspace name %q", ws.Dir())
	}

	raw := filepath.Join(ws.Dir(), "source.webm")
	audio := filepath.Join(ws.Dir(), "audio.wav")
	for _, path := range []string{raw, audio} {
		if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		ws.Register(path)
	}
	ws.Register(raw)
	if got := ws.Artifacts(); len(got) != 2 {
		t.Fatalf("expected 2 artifacts, got %v", got)
	}

	if err := ws.Release(raw); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := ws.Release(raw); err != nil {
		t.Fatalf("second Release: %v", err)
	}
	if _, err := os.Stat(raw); !os.IsNotExist(err) {
		t.Fatal("raw artifact should be gone")
	}
	if got := ws.Artifacts(); len(got) != 1 || got[0] != audio {
		t.Fatalf("expected only audio left, got %v", got)
	}

	if err := ws.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if err := ws.Cleanup(); err != nil {
		t.Fatalf("second Cleanup: %v", err)
	}
	if _, err := os.Stat(ws.Dir()); !os.IsNotExist(err) {
		t.Fatal("workspace directory should be gone")
	}
	if got := ws.Artifacts(); len(got) != 0 {
		t.Fatalf("expected no artifacts after cleanup, got %v", got)
	}
}

func TestNewWorkspaceRequiresStagingDir(t *testing.T) {
	if _, err := NewWorkspace("", "id", nil); err == nil {
		t.Fatal("expected error without staging dir")
	}
}
