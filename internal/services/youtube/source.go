package youtube

import (
	"context"
	"fmt"
	"net/http"

	"tubepost/internal/config"
	"tubepost/internal/content"
)

// Source lists candidate items for change detection.
type Source interface {
	Candidates(ctx context.Context) ([]content.Item, error)
}

// NewSource builds the configured content source.
func NewSource(cfg *config.Config) (Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	httpClient := &http.Client{Timeout: cfg.SourceTimeout()}
	switch cfg.Source.Kind {
	case config.SourceKindAPI:
		return NewClient(
			cfg.Source.APIKey,
			cfg.Source.PlaylistID,
			WithBaseURL(cfg.Source.BaseURL),
			WithPageSize(cfg.Source.PageSize),
			WithHTTPClient(httpClient),
		), nil
	case config.SourceKindFeed:
		return NewFeedClient(
			cfg.Source.PlaylistID,
			WithFeedURL(cfg.Source.FeedURL),
			WithFeedHTTPClient(httpClient),
		), nil
	default:
		return nil, fmt.Errorf("unsupported source kind %q", cfg.Source.Kind)
	}
}
