package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tubepost/internal/services"
)

func TestAcquireBuildsArgsAndReturnsDownloadedFile(t *testing.T) {
	dir := t.TempDir()
	d := New(Config{Binary: "/opt/yt-dlp", Format: "bestaudio"})
	var gotName string
	var gotArgs []string
	d.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return os.WriteFile(filepath.Join(dir, "source.webm"), []byte("media"), 0o644)
	})

	path, err := d.Acquire(context.Background(), "abc123", dir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if path != filepath.Join(dir, "source.webm") {
		t.Fatalf("unexpected path %q", path)
	}
	if gotName != "/opt/yt-dlp" {
		t.Fatalf("unexpected binary %q", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"--no-playlist", "-f bestaudio", filepath.Join(dir, "source.%(ext)s"), "https://www.youtube.com/watch?v=abc123"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected args to contain %q, got %q", want, joined)
		}
	}
}

func TestAcquireFailureRemovesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	d := New(Config{})
	d.WithCommandRunner(func(_ context.Context, _ string, _ ...string) error {
		_ = os.WriteFile(filepath.Join(dir, "source.webm.part"), []byte("partial"), 0o644)
		return errors.New("exit status 1")
	})

	_, err := d.Acquire(context.Background(), "abc", dir)
	if !errors.Is(err, services.ErrAcquisition) {
		t.Fatalf("expected acquisition error, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected partial output removed, found %d entries", len(entries))
	}
}

func TestAcquireWithoutOutputFails(t *testing.T) {
	d := New(Config{})
	d.WithCommandRunner(func(context.Context, string, ...string) error { return nil })

	_, err := d.Acquire(context.Background(), "abc", t.TempDir())
	if !errors.Is(err, services.ErrAcquisition) {
		t.Fatalf("expected acquisition error, got %v", err)
	}
}

func TestAcquireRequiresItemID(t *testing.T) {
	_, err := New(Config{}).Acquire(context.Background(), " ", t.TempDir())
	if !errors.Is(err, services.ErrAcquisition) {
		t.Fatalf("expected acquisition error, got %v", err)
	}
}
