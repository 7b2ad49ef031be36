// Package youtube lists candidate items from a YouTube playlist.
//
// Two sources are available: the Data API v3 (playlistItems followed by
// videos, which carries the privacy status) and the public Atom feed. A small
// watch-page scraper supplies descriptions for title-mode summaries.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tubepost/internal/content"
	"tubepost/internal/services"
)

const defaultBaseURL = "https://www.googleapis.com"

// maxResultsPerPage is the Data API ceiling for playlistItems.list.
const maxResultsPerPage = 50

// HTTPClient allows injection of a custom transport for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithBaseURL overrides the API host.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithPageSize sets maxResults for the playlist query.
func WithPageSize(size int) ClientOption {
	return func(c *Client) {
		if size > 0 && size <= maxResultsPerPage {
			c.pageSize = size
		}
	}
}

// Client queries the YouTube Data API for the items of one playlist.
type Client struct {
	apiKey     string
	playlistID string
	baseURL    string
	pageSize   int
	httpClient HTTPClient
}

// NewClient creates a Data API client for the given playlist.
func NewClient(apiKey, playlistID string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		playlistID: strings.TrimSpace(playlistID),
		baseURL:    defaultBaseURL,
		pageSize:   maxResultsPerPage,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Candidates returns the first page of playlist items enriched with their
// snippet and status. Items the videos endpoint does not return (deleted or
// private to the caller) are reported with Unknown visibility.
func (c *Client) Candidates(ctx context.Context) ([]content.Item, error) {
	if c.apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "source", "list playlist", "api key required", nil)
	}
	ids, err := c.playlistVideoIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []content.Item{}, nil
	}
	details, err := c.videoDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]content.Item, 0, len(ids))
	for _, id := range ids {
		item, ok := details[id]
		if !ok {
			items = append(items, content.Item{ID: id, Visibility: content.Unknown})
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) playlistVideoIDs(ctx context.Context) ([]string, error) {
	query := url.Values{}
	query.Set("part", "contentDetails")
	query.Set("playlistId", c.playlistID)
	query.Set("maxResults", strconv.Itoa(c.pageSize))
	query.Set("key", c.apiKey)

	body, err := c.doRequest(ctx, c.baseURL+"/youtube/v3/playlistItems?"+query.Encode())
	if err != nil {
		return nil, services.Wrap(services.ErrSourceQuery, "source", "list playlist", "playlistItems request failed", err)
	}

	var response playlistItemsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, services.Wrap(services.ErrSourceQuery, "source", "list playlist", "parse playlistItems response", err)
	}

	ids := make([]string, 0, len(response.Items))
	seen := make(map[string]struct{}, len(response.Items))
	for _, item := range response.Items {
		id := strings.TrimSpace(item.ContentDetails.VideoID)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *Client) videoDetails(ctx context.Context, ids []string) (map[string]content.Item, error) {
	query := url.Values{}
	query.Set("part", "snippet,status")
	query.Set("id", strings.Join(ids, ","))
	query.Set("key", c.apiKey)

	body, err := c.doRequest(ctx, c.baseURL+"/youtube/v3/videos?"+query.Encode())
	if err != nil {
		return nil, services.Wrap(services.ErrSourceQuery, "source", "list videos", "videos request failed", err)
	}

	var response videosResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, services.Wrap(services.ErrSourceQuery, "source", "list videos", "parse videos response", err)
	}

	out := make(map[string]content.Item, len(response.Items))
	for _, video := range response.Items {
		publishedAt, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt)
		if err != nil {
			return nil, services.Wrap(services.ErrSourceQuery, "source", "list videos", "parse publishedAt for "+video.ID, err)
		}
		out[video.ID] = content.Item{
			ID:          video.ID,
			PublishedAt: publishedAt.UTC(),
			Visibility:  content.ParseVisibility(video.Status.PrivacyStatus),
			Title:       strings.TrimSpace(video.Snippet.Title),
			Description: strings.TrimSpace(video.Snippet.Description),
		}
	}
	return out, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, handleAPIError(resp.StatusCode)
	}
	return body, nil
}

func handleAPIError(statusCode int) error {
	switch statusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("YouTube API rejected the request (status %d) - check the playlist id", statusCode)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("YouTube API access denied (status %d) - check the api key and quota", statusCode)
	case http.StatusNotFound:
		return fmt.Errorf("YouTube API playlist not found (status %d)", statusCode)
	case http.StatusTooManyRequests:
		return fmt.Errorf("YouTube API rate limit exceeded (status %d)", statusCode)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("YouTube API server error (status %d)", statusCode)
	default:
		return fmt.Errorf("YouTube API error (status %d)", statusCode)
	}
}

type playlistItemsResponse struct {
	Items []struct {
		ContentDetails struct {
			VideoID          string `json:"videoId"`
			VideoPublishedAt string `json:"videoPublishedAt"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
		Status struct {
			PrivacyStatus string `json:"privacyStatus"`
		} `json:"status"`
	} `json:"items"`
}
