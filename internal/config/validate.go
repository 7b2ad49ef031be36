package config

import (
	"errors"
	"fmt"

	"tubepost/internal/services"
)

// Validate ensures the configuration is structurally usable. Credentials are
// checked separately by ValidateCredentials.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateState(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateSummary(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return ensurePositiveMap(map[string]int{
		"source.request_timeout":    c.Source.RequestTimeout,
		"state.request_timeout":     c.State.RequestTimeout,
		"acquire.timeout_seconds":   c.Acquire.TimeoutSeconds,
		"transcode.timeout_seconds": c.Transcode.TimeoutSeconds,
		"transcode.sample_rate":     c.Transcode.SampleRate,
		"llm.timeout_seconds":       c.LLM.TimeoutSeconds,
		"publish.request_timeout":   c.Publish.RequestTimeout,
	})
}

func (c *Config) validateSource() error {
	switch c.Source.Kind {
	case SourceKindAPI, SourceKindFeed:
	default:
		return fmt.Errorf("source.kind must be %q or %q (got %q)", SourceKindAPI, SourceKindFeed, c.Source.Kind)
	}
	if c.Source.PlaylistID == "" {
		return errors.New("source.playlist_id must be set")
	}
	if c.Source.PageSize < 1 || c.Source.PageSize > maxPageSize {
		return fmt.Errorf("source.page_size must be between 1 and %d", maxPageSize)
	}
	return nil
}

func (c *Config) validateState() error {
	switch c.State.Backend {
	case StateBackendGitHub, StateBackendFile, StateBackendSQLite, StateBackendRedis:
	default:
		return fmt.Errorf("state.backend must be one of github, file, sqlite, redis (got %q)", c.State.Backend)
	}
	if c.State.Variable == "" {
		return errors.New("state.variable must be set")
	}
	if c.State.Backend == StateBackendRedis && c.State.RedisKey == "" {
		return errors.New("state.redis_key must be set")
	}
	return nil
}

func (c *Config) validateMedia() error {
	switch c.Transcode.Codec {
	case CodecWAV, CodecMP3:
	default:
		return fmt.Errorf("transcode.codec must be %q or %q (got %q)", CodecWAV, CodecMP3, c.Transcode.Codec)
	}
	return nil
}

func (c *Config) validateSummary() error {
	switch c.Summary.Input {
	case SummaryInputAudio, SummaryInputTitle:
	default:
		return fmt.Errorf("summary.input must be %q or %q (got %q)", SummaryInputAudio, SummaryInputTitle, c.Summary.Input)
	}
	return nil
}

func (c *Config) validatePublish() error {
	switch c.Publish.Target {
	case PublishTargetFacebook, PublishTargetTelegram:
	default:
		return fmt.Errorf("publish.target must be %q or %q (got %q)", PublishTargetFacebook, PublishTargetTelegram, c.Publish.Target)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout < 0 {
		return errors.New("notifications.request_timeout must be >= 0")
	}
	return nil
}

// ValidateCredentials reports missing mandatory credentials as configuration
// errors. It performs no network access and must pass before a run starts.
func (c *Config) ValidateCredentials() error {
	if c.Source.Kind == SourceKindAPI && c.Source.APIKey == "" {
		return credentialError("source.api_key must be set (or set YOUTUBE_API_KEY)")
	}
	if c.LLM.APIKey == "" {
		return credentialError("llm.api_key must be set (or set OPENROUTER_API_KEY)")
	}
	switch c.State.Backend {
	case StateBackendGitHub:
		if c.State.GitHubToken == "" {
			return credentialError("state.github_token must be set (or set GITHUB_TOKEN)")
		}
		if c.State.GitHubRepo == "" {
			return credentialError("state.github_repo must be set (or set GITHUB_REPOSITORY)")
		}
	case StateBackendRedis:
		if c.State.RedisURL == "" {
			return credentialError("state.redis_url must be set (or set REDIS_URL)")
		}
	}
	return nil
}

func credentialError(message string) error {
	return services.Wrap(services.ErrConfiguration, "config", "validate credentials", message, nil)
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
