// Package ffmpeg converts downloaded media into mono speech audio.
package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tubepost/internal/services"
)

// DefaultBinary is the executable looked up on PATH.
const DefaultBinary = "ffmpeg"

const (
	CodecWAV = "wav"
	CodecMP3 = "mp3"
)

// DefaultSampleRate matches what speech models expect.
const DefaultSampleRate = 16000

// CommandRunner executes an external command. Tests replace it to avoid
// spawning real processes.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Config controls the transcode.
type Config struct {
	Binary     string
	SampleRate int
	Codec      string
	Timeout    time.Duration
}

// Transcoder wraps the ffmpeg CLI.
type Transcoder struct {
	cfg           Config
	commandRunner CommandRunner
}

// New creates a Transcoder.
func New(cfg Config) *Transcoder {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Codec)) {
	case CodecMP3:
		cfg.Codec = CodecMP3
	default:
		cfg.Codec = CodecWAV
	}
	return &Transcoder{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (t *Transcoder) WithCommandRunner(runner CommandRunner) {
	t.commandRunner = runner
}

// Binary returns the configured executable.
func (t *Transcoder) Binary() string {
	return t.cfg.Binary
}

// Format returns the audio format name of produced files ("wav" or "mp3").
// Transcode writes a mono audio file derived from source into dir and returns
// its path. A partially written output is removed on failure.
func (t *Transcoder) Transcode(ctx context.Context, source, dir string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", services.Wrap(services.ErrTranscode, "transcode", "ffmpeg", "source path required", nil)
	}
	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	dest := filepath.Join(dir, "audio."+t.cfg.Codec)
	args := buildArgs(source, dest, t.cfg.SampleRate, t.cfg.Codec)
	if err := t.run(ctx, t.cfg.Binary, args...); err != nil {
		_ = os.Remove(dest)
		return "", services.Wrap(services.ErrTranscode, "transcode", "ffmpeg", "conversion failed", err)
	}
	info, err := os.Stat(dest)
	if err != nil {
		return "", services.Wrap(services.ErrTranscode, "transcode", "ffmpeg", "output missing", err)
	}
	if info.Size() == 0 {
		_ = os.Remove(dest)
		return "", services.Wrap(services.ErrTranscode, "transcode", "ffmpeg", "output is empty", nil)
	}
	return dest, nil
}

func buildArgs(source, dest string, sampleRate int, codec string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
	}
	if codec == CodecMP3 {
		args = append(args, "-c:a", "libmp3lame", "-q:a", "4")
	} else {
		args = append(args, "-c:a", "pcm_s16le")
	}
	return append(args, dest)
}

func (t *Transcoder) run(ctx context.Context, name string, args ...string) error {
	if t.commandRunner != nil {
		return t.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
