package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSource()
	if err := c.normalizeState(); err != nil {
		return err
	}
	c.normalizeAcquire()
	c.normalizeTranscode()
	c.normalizeSummary()
	c.normalizeLLM()
	c.normalizePublish()
	c.normalizeNotifications()
	if err := c.normalizeMetrics(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(strings.TrimSpace(c.Paths.StagingDir)); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.LockPath = strings.TrimSpace(c.Paths.LockPath)
	if c.Paths.LockPath == "" {
		c.Paths.LockPath = filepath.Join(c.Paths.StagingDir, "tubepost.lock")
	}
	if c.Paths.LockPath, err = expandPath(c.Paths.LockPath); err != nil {
		return fmt.Errorf("paths.lock_path: %w", err)
	}
	if c.Paths.StaleWorkspaceHours < 0 {
		c.Paths.StaleWorkspaceHours = 0
	}
	return nil
}

func (c *Config) normalizeSource() {
	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	if c.Source.Kind == "" {
		c.Source.Kind = defaultSourceKind
	}
	c.Source.PlaylistID = strings.TrimSpace(c.Source.PlaylistID)
	c.Source.ChannelID = strings.TrimSpace(c.Source.ChannelID)
	c.Source.APIKey = strings.TrimSpace(c.Source.APIKey)
	if c.Source.APIKey == "" {
		c.Source.APIKey = lookupEnv("YOUTUBE_API_KEY")
	}
	c.Source.BaseURL = strings.TrimRight(strings.TrimSpace(c.Source.BaseURL), "/")
	if c.Source.BaseURL == "" {
		c.Source.BaseURL = defaultYouTubeBaseURL
	}
	c.Source.FeedURL = strings.TrimSpace(c.Source.FeedURL)
	if c.Source.FeedURL == "" {
		c.Source.FeedURL = defaultFeedURL
	}
	c.Source.WatchURL = strings.TrimSpace(c.Source.WatchURL)
	if c.Source.WatchURL == "" {
		c.Source.WatchURL = defaultWatchURL
	}
	if c.Source.PageSize == 0 {
		c.Source.PageSize = defaultPageSize
	}
	if c.Source.RequestTimeout == 0 {
		c.Source.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeState() error {
	c.State.Backend = strings.ToLower(strings.TrimSpace(c.State.Backend))
	if c.State.Backend == "" {
		c.State.Backend = defaultStateBackend
	}
	c.State.Variable = strings.TrimSpace(c.State.Variable)
	if c.State.Variable == "" {
		c.State.Variable = defaultStateVariable
	}
	c.State.GitHubRepo = strings.TrimSpace(c.State.GitHubRepo)
	if c.State.GitHubRepo == "" {
		c.State.GitHubRepo = lookupEnv("GITHUB_REPOSITORY")
	}
	c.State.GitHubToken = strings.TrimSpace(c.State.GitHubToken)
	if c.State.GitHubToken == "" {
		c.State.GitHubToken = lookupEnv("GITHUB_TOKEN", "GH_TOKEN")
	}
	c.State.GitHubAPIURL = strings.TrimRight(strings.TrimSpace(c.State.GitHubAPIURL), "/")
	if c.State.GitHubAPIURL == "" {
		c.State.GitHubAPIURL = defaultGitHubAPIURL
	}
	var err error
	if strings.TrimSpace(c.State.FilePath) == "" {
		c.State.FilePath = defaultStateFile
	}
	if c.State.FilePath, err = expandPath(strings.TrimSpace(c.State.FilePath)); err != nil {
		return fmt.Errorf("state.file_path: %w", err)
	}
	if strings.TrimSpace(c.State.SQLitePath) == "" {
		c.State.SQLitePath = defaultStateSQLite
	}
	if c.State.SQLitePath, err = expandPath(strings.TrimSpace(c.State.SQLitePath)); err != nil {
		return fmt.Errorf("state.sqlite_path: %w", err)
	}
	c.State.RedisURL = strings.TrimSpace(c.State.RedisURL)
	if c.State.RedisURL == "" {
		c.State.RedisURL = lookupEnv("REDIS_URL")
	}
	c.State.RedisKey = strings.TrimSpace(c.State.RedisKey)
	if c.State.RedisKey == "" {
		c.State.RedisKey = defaultRedisKey
	}
	if c.State.RequestTimeout == 0 {
		c.State.RequestTimeout = defaultRequestTimeout
	}
	return nil
}

func (c *Config) normalizeAcquire() {
	c.Acquire.YtDlpBinary = strings.TrimSpace(c.Acquire.YtDlpBinary)
	if c.Acquire.YtDlpBinary == "" {
		c.Acquire.YtDlpBinary = defaultYtDlpBinary
	}
	c.Acquire.Format = strings.TrimSpace(c.Acquire.Format)
	if c.Acquire.Format == "" {
		c.Acquire.Format = defaultAcquireFormat
	}
	if c.Acquire.TimeoutSeconds == 0 {
		c.Acquire.TimeoutSeconds = defaultAcquireTimeout
	}
}

func (c *Config) normalizeTranscode() {
	c.Transcode.FFmpegBinary = strings.TrimSpace(c.Transcode.FFmpegBinary)
	if c.Transcode.FFmpegBinary == "" {
		c.Transcode.FFmpegBinary = defaultFFmpegBinary
	}
	c.Transcode.Codec = strings.ToLower(strings.TrimSpace(c.Transcode.Codec))
	if c.Transcode.Codec == "" {
		c.Transcode.Codec = defaultTranscodeCodec
	}
	if c.Transcode.SampleRate == 0 {
		c.Transcode.SampleRate = defaultSampleRate
	}
	if c.Transcode.TimeoutSeconds == 0 {
		c.Transcode.TimeoutSeconds = defaultTranscodeTimeout
	}
}

func (c *Config) normalizeSummary() {
	c.Summary.Input = strings.ToLower(strings.TrimSpace(c.Summary.Input))
	if c.Summary.Input == "" {
		c.Summary.Input = defaultSummaryInput
	}
	c.Summary.Language = strings.TrimSpace(c.Summary.Language)
	if c.Summary.Language == "" {
		c.Summary.Language = defaultLanguage
	}
	c.Summary.Style = strings.TrimSpace(c.Summary.Style)
	if c.Summary.Style == "" {
		c.Summary.Style = defaultStyle
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = lookupEnv("OPENROUTER_API_KEY", "LLM_API_KEY")
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.Title == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizePublish() {
	c.Publish.Target = strings.ToLower(strings.TrimSpace(c.Publish.Target))
	if c.Publish.Target == "" {
		c.Publish.Target = defaultPublishTarget
	}
	if c.Publish.RequestTimeout == 0 {
		c.Publish.RequestTimeout = defaultRequestTimeout
	}

	c.Facebook.PageID = strings.TrimSpace(c.Facebook.PageID)
	if c.Facebook.PageID == "" {
		c.Facebook.PageID = lookupEnv("FACEBOOK_PAGE_ID")
	}
	c.Facebook.AccessToken = strings.TrimSpace(c.Facebook.AccessToken)
	if c.Facebook.AccessToken == "" {
		c.Facebook.AccessToken = lookupEnv("FACEBOOK_ACCESS_TOKEN")
	}
	c.Facebook.GraphURL = strings.TrimRight(strings.TrimSpace(c.Facebook.GraphURL), "/")
	if c.Facebook.GraphURL == "" {
		c.Facebook.GraphURL = defaultGraphURL
	}
	c.Facebook.APIVersion = strings.Trim(strings.TrimSpace(c.Facebook.APIVersion), "/")
	if c.Facebook.APIVersion == "" {
		c.Facebook.APIVersion = defaultGraphAPIVersion
	}

	c.Telegram.BotToken = strings.TrimSpace(c.Telegram.BotToken)
	if c.Telegram.BotToken == "" {
		c.Telegram.BotToken = lookupEnv("TELEGRAM_BOT_TOKEN")
	}
	c.Telegram.ChatID = strings.TrimSpace(c.Telegram.ChatID)
	if c.Telegram.ChatID == "" {
		c.Telegram.ChatID = lookupEnv("TELEGRAM_CHAT_ID")
	}
	c.Telegram.APIURL = strings.TrimRight(strings.TrimSpace(c.Telegram.APIURL), "/")
	if c.Telegram.APIURL == "" {
		c.Telegram.APIURL = defaultTelegramAPIURL
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		c.Notifications.NtfyTopic = lookupEnv("NTFY_TOPIC")
	}
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeMetrics() error {
	path := strings.TrimSpace(c.Metrics.TextfilePath)
	if path == "" {
		c.Metrics.TextfilePath = ""
		return nil
	}
	expanded, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("metrics.textfile_path: %w", err)
	}
	c.Metrics.TextfilePath = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// lookupEnv returns the first non-empty value among the named environment variables.
func lookupEnv(names ...string) string {
	for _, name := range names {
		if value, ok := os.LookupEnv(name); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
