package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"tubepost/internal/config"
	"tubepost/internal/deps"
	"tubepost/internal/services/llm"
	"tubepost/internal/services/youtube"
	"tubepost/internal/state"
)

// CheckLLM verifies that the LLM API is reachable and the key is valid.
// It uses a 30-second timeout and a single attempt (no retries).
func CheckLLM(ctx context.Context, name string, cfg config.LLM) Result {
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Referer: cfg.Referer,
		Title:   cfg.Title,
	}, llm.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("API reachable (%s)", client.Model())}
}

// CheckSource lists the configured playlist once.
func CheckSource(ctx context.Context, cfg *config.Config) Result {
	name := fmt.Sprintf("Source (%s)", cfg.Source.Kind)
	if cfg.Source.Kind == config.SourceKindAPI && cfg.Source.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}
	source, err := youtube.NewSource(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	items, err := source.Candidates(ctx)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}
	public := 0
	for _, item := range items {
		if item.Eligible() {
			public++
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d items (%d public)", len(items), public)}
}

// CheckState reads the stored identifier without modifying it.
func CheckState(ctx context.Context, cfg *config.Config) Result {
	name := fmt.Sprintf("State (%s)", cfg.State.Backend)
	store, err := state.New(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()

	value, found, err := store.Get(ctx)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}
	if !found {
		return Result{Name: name, Passed: true, Detail: "no item processed yet"}
	}
	return Result{Name: name, Passed: true, Detail: "last processed " + value}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries for the given config. In
// title mode neither tool is used, so both are reported as optional.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	optional := cfg.Summary.Input == config.SummaryInputTitle
	return deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.Acquire.YtDlpBinary,
			Description: "Downloads item audio",
			Optional:    optional,
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Transcode.FFmpegBinary,
			Description: "Converts audio to mono speech format",
			Optional:    optional,
		},
	})
}

// summarizeNetError produces a human-readable summary for remote check failures.
func summarizeNetError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (service unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (service unreachable)"
	}
	return err.Error()
}
