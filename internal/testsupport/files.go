package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"tubepost/internal/config"
)

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path, data string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteState seeds the file state backend with id, as a previous run would.
func WriteState(t testing.TB, cfg *config.Config, id string) {
	t.Helper()

	if cfg.State.Backend != config.StateBackendFile {
		t.Fatalf("WriteState requires the file backend, got %q", cfg.State.Backend)
	}
	WriteFile(t, cfg.State.FilePath, id+"\n")
}
