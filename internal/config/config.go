package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains filesystem locations used by a run.
type Paths struct {
	StagingDir          string `toml:"staging_dir" yaml:"staging_dir"`
	LogDir              string `toml:"log_dir" yaml:"log_dir"`
	LockPath            string `toml:"lock_path" yaml:"lock_path"`
	StaleWorkspaceHours int    `toml:"stale_workspace_hours" yaml:"stale_workspace_hours"`
}

// Source identifies the monitored collection and how it is queried.
type Source struct {
	Kind           string `toml:"kind" yaml:"kind"`
	PlaylistID     string `toml:"playlist_id" yaml:"playlist_id"`
	ChannelID      string `toml:"channel_id" yaml:"channel_id"`
	APIKey         string `toml:"api_key" yaml:"api_key"`
	BaseURL        string `toml:"base_url" yaml:"base_url"`
	FeedURL        string `toml:"feed_url" yaml:"feed_url"`
	WatchURL       string `toml:"watch_url" yaml:"watch_url"`
	PageSize       int    `toml:"page_size" yaml:"page_size"`
	RequestTimeout int    `toml:"request_timeout" yaml:"request_timeout"`
}

// State selects where the last processed item identifier is persisted.
type State struct {
	Backend        string `toml:"backend" yaml:"backend"`
	Variable       string `toml:"variable" yaml:"variable"`
	GitHubRepo     string `toml:"github_repo" yaml:"github_repo"`
	GitHubToken    string `toml:"github_token" yaml:"github_token"`
	GitHubAPIURL   string `toml:"api_url" yaml:"api_url"`
	FilePath       string `toml:"file_path" yaml:"file_path"`
	SQLitePath     string `toml:"sqlite_path" yaml:"sqlite_path"`
	RedisURL       string `toml:"redis_url" yaml:"redis_url"`
	RedisKey       string `toml:"redis_key" yaml:"redis_key"`
	RequestTimeout int    `toml:"request_timeout" yaml:"request_timeout"`
}

// Acquire configures the media download step.
type Acquire struct {
	YtDlpBinary    string `toml:"ytdlp_binary" yaml:"ytdlp_binary"`
	Format         string `toml:"format" yaml:"format"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// Transcode configures conversion of acquired media into model-ready audio.
type Transcode struct {
	FFmpegBinary   string `toml:"ffmpeg_binary" yaml:"ffmpeg_binary"`
	SampleRate     int    `toml:"sample_rate" yaml:"sample_rate"`
	Codec          string `toml:"codec" yaml:"codec"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// Summary configures what the model receives and how it should write.
type Summary struct {
	Input    string `toml:"input" yaml:"input"`
	Language string `toml:"language" yaml:"language"`
	Style    string `toml:"style" yaml:"style"`
}

// LLM contains the chat completion endpoint settings.
type LLM struct {
	APIKey         string `toml:"api_key" yaml:"api_key"`
	BaseURL        string `toml:"base_url" yaml:"base_url"`
	Model          string `toml:"model" yaml:"model"`
	Referer        string `toml:"referer" yaml:"referer"`
	Title          string `toml:"title" yaml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// Publish selects the posting target.
type Publish struct {
	Target         string `toml:"target" yaml:"target"`
	CommitOnError  bool   `toml:"commit_on_error" yaml:"commit_on_error"`
	RequestTimeout int    `toml:"request_timeout" yaml:"request_timeout"`
}

// Facebook contains Graph API page credentials.
type Facebook struct {
	PageID      string `toml:"page_id" yaml:"page_id"`
	AccessToken string `toml:"access_token" yaml:"access_token"`
	GraphURL    string `toml:"graph_url" yaml:"graph_url"`
	APIVersion  string `toml:"api_version" yaml:"api_version"`
}

// Telegram contains Bot API credentials.
type Telegram struct {
	BotToken string `toml:"bot_token" yaml:"bot_token"`
	ChatID   string `toml:"chat_id" yaml:"chat_id"`
	APIURL   string `toml:"api_url" yaml:"api_url"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic" yaml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout" yaml:"request_timeout"`
	RunFailed      bool   `toml:"run_failed" yaml:"run_failed"`
	Published      bool   `toml:"published" yaml:"published"`
}

// Metrics configures the Prometheus textfile export.
type Metrics struct {
	TextfilePath string `toml:"textfile_path" yaml:"textfile_path"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format" yaml:"format"`
	Level  string `toml:"level" yaml:"level"`
}

// Config encapsulates all configuration values for tubepost.
type Config struct {
	Paths         Paths         `toml:"paths" yaml:"paths"`
	Source        Source        `toml:"source" yaml:"source"`
	State         State         `toml:"state" yaml:"state"`
	Acquire       Acquire       `toml:"acquire" yaml:"acquire"`
	Transcode     Transcode     `toml:"transcode" yaml:"transcode"`
	Summary       Summary       `toml:"summary" yaml:"summary"`
	LLM           LLM           `toml:"llm" yaml:"llm"`
	Publish       Publish       `toml:"publish" yaml:"publish"`
	Facebook      Facebook      `toml:"facebook" yaml:"facebook"`
	Telegram      Telegram      `toml:"telegram" yaml:"telegram"`
	Notifications Notifications `toml:"notifications" yaml:"notifications"`
	Metrics       Metrics       `toml:"metrics" yaml:"metrics"`
	Logging       Logging       `toml:"logging" yaml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tubepost/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. Files ending in .yaml or .yml are decoded as YAML;
// everything else is treated as TOML.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := toml.NewDecoder(file).Decode(cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/tubepost/config.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	for _, name := range []string{"tubepost.toml", "tubepost.yaml", "tubepost.yml"} {
		projectPath, err := filepath.Abs(name)
		if err != nil {
			return "", false, err
		}
		if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
			return projectPath, true, nil
		}
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the staging and log directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StagingDir, c.Paths.LogDir}
	if c.Paths.LockPath != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.LockPath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// PublishConfigured reports whether the selected publish target has its credentials.
// A run without them still completes and commits, with the publish step skipped.
func (c *Config) PublishConfigured() bool {
	switch c.Publish.Target {
	case PublishTargetTelegram:
		return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
	default:
		return c.Facebook.PageID != "" && c.Facebook.AccessToken != ""
	}
}

// SourceTimeout returns the per-request timeout for the source listing.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.Source.RequestTimeout) * time.Second
}

// StateTimeout returns the per-request timeout for remote state backends.
func (c *Config) StateTimeout() time.Duration {
	return time.Duration(c.State.RequestTimeout) * time.Second
}

// PublishTimeout returns the per-request timeout for the posting target.
func (c *Config) PublishTimeout() time.Duration {
	return time.Duration(c.Publish.RequestTimeout) * time.Second
}
