// Package state persists the identifier of the last processed item.
//
// Exactly one scalar is stored. Get reports an absent value as found=false
// with a nil error; every backend failure wraps services.ErrStateStore. Set is
// idempotent: writing the same identifier twice leaves the same state.
//
// Backends:
//   - github: a GitHub Actions repository variable (REST API)
//   - file: a plain text file written atomically
//   - sqlite: a single-row table in a local SQLite database
//   - redis: a single string key
package state

import (
	"context"
	"fmt"
	"net/http"

	"tubepost/internal/config"
	"tubepost/internal/services"
)

// Store reads and writes the last processed identifier.
type Store interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	// Describe names the backend and its location for logs and status output.
	Describe() string
	Close() error
}

// New opens the backend selected by cfg.State.Backend.
func New(cfg *config.Config) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	s := cfg.State
	switch s.Backend {
	case config.StateBackendGitHub:
		return NewGitHubStore(GitHubConfig{
			APIURL:   s.GitHubAPIURL,
			Repo:     s.GitHubRepo,
			Token:    s.GitHubToken,
			Variable: s.Variable,
		}, &http.Client{Timeout: cfg.StateTimeout()}), nil
	case config.StateBackendFile:
		return NewFileStore(s.FilePath), nil
	case config.StateBackendSQLite:
		return OpenSQLite(s.SQLitePath, s.Variable)
	case config.StateBackendRedis:
		return OpenRedis(s.RedisURL, s.RedisKey)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "state", "open", fmt.Sprintf("unsupported backend %q", s.Backend), nil)
	}
}

func wrapStateErr(operation, message string, err error) error {
	return services.Wrap(services.ErrStateStore, "state", operation, message, err)
}
