// Package ytdlp downloads the media of a single item with the yt-dlp CLI.
package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tubepost/internal/content"
	"tubepost/internal/services"
)

// DefaultBinary is the executable looked up on PATH.
const DefaultBinary = "yt-dlp"

// outputStem is the file name (without extension) every download is written to.
const outputStem = "source"

// CommandRunner executes an external command. Tests replace it to avoid
// spawning real processes.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Config controls the download.
type Config struct {
	Binary  string
	Format  string
	Timeout time.Duration
}

// Downloader fetches the best audio stream for an item into a directory.
type Downloader struct {
	cfg           Config
	commandRunner CommandRunner
}

// New creates a Downloader.
func New(cfg Config) *Downloader {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	if strings.TrimSpace(cfg.Format) == "" {
		cfg.Format = "bestaudio/best"
	}
	return &Downloader{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (d *Downloader) WithCommandRunner(runner CommandRunner) {
	d.commandRunner = runner
}

// Binary returns the configured executable.
func (d *Downloader) Binary() string {
	return d.cfg.Binary
}

// Acquire downloads itemID into dir and returns the path of the downloaded
// file. On failure any partial output is removed before returning.
func (d *Downloader) Acquire(ctx context.Context, itemID, dir string) (string, error) {
	if strings.TrimSpace(itemID) == "" {
		return "", services.Wrap(services.ErrAcquisition, "acquire", "download", "item id required", nil)
	}
	if strings.TrimSpace(dir) == "" {
		return "", services.Wrap(services.ErrAcquisition, "acquire", "download", "output directory required", nil)
	}
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	args := buildArgs(d.cfg.Format, dir, content.WatchURL(itemID))
	if err := d.run(ctx, d.cfg.Binary, args...); err != nil {
		removeOutputs(dir)
		return "", services.Wrap(services.ErrAcquisition, "acquire", "download", "yt-dlp failed", err)
	}

	path, err := findOutput(dir)
	if err != nil {
		removeOutputs(dir)
		return "", services.Wrap(services.ErrAcquisition, "acquire", "locate download", "", err)
	}
	return path, nil
}

func buildArgs(format, dir, url string) []string {
	return []string{
		"--no-playlist",
		"--no-progress",
		"--no-part",
		"-f", format,
		"-o", filepath.Join(dir, outputStem+".%(ext)s"),
		url,
	}
}

func (d *Downloader) run(ctx context.Context, name string, args ...string) error {
	if d.commandRunner != nil {
		return d.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func outputCandidates(dir string) []string {
	matches, _ := filepath.Glob(filepath.Join(dir, outputStem+".*"))
	sort.Strings(matches)
	return matches
}

func findOutput(dir string) (string, error) {
	for _, match := range outputCandidates(dir) {
		switch filepath.Ext(match) {
		case ".part", ".ytdl", ".tmp":
			continue
		}
		info, err := os.Stat(match)
		if err != nil || info.IsDir() || info.Size() == 0 {
			continue
		}
		return match, nil
	}
	return "", fmt.Errorf("no downloaded file found in %s", dir)
}

func removeOutputs(dir string) {
	for _, match := range outputCandidates(dir) {
		_ = os.Remove(match)
	}
}
