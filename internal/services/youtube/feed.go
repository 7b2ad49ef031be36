package youtube

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"tubepost/internal/content"
	"tubepost/internal/services"
)

const defaultFeedURL = "https://www.youtube.com/feeds/videos.xml"

// FeedOption configures the FeedClient.
type FeedOption func(*FeedClient)

// WithFeedURL overrides the Atom feed endpoint.
func WithFeedURL(feedURL string) FeedOption {
	return func(f *FeedClient) {
		if trimmed := strings.TrimSpace(feedURL); trimmed != "" {
			f.feedURL = trimmed
		}
	}
}

// WithFeedHTTPClient sets the client used to download the feed.
func WithFeedHTTPClient(client *http.Client) FeedOption {
	return func(f *FeedClient) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// FeedClient reads the public Atom feed of a playlist. The feed only lists
// public uploads, so every entry is reported as Public.
type FeedClient struct {
	playlistID string
	feedURL    string
	httpClient *http.Client
}

// NewFeedClient creates a feed reader for the given playlist.
func NewFeedClient(playlistID string, opts ...FeedOption) *FeedClient {
	f := &FeedClient{
		playlistID: strings.TrimSpace(playlistID),
		feedURL:    defaultFeedURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Candidates downloads and parses the playlist feed.
func (f *FeedClient) Candidates(ctx context.Context) ([]content.Item, error) {
	endpoint, err := f.endpoint()
	if err != nil {
		return nil, services.Wrap(services.ErrSourceQuery, "source", "read feed", "invalid feed url", err)
	}

	parser := gofeed.NewParser()
	parser.Client = f.httpClient
	feed, err := parser.ParseURLWithContext(endpoint, ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrSourceQuery, "source", "read feed", "fetch or parse playlist feed", err)
	}

	items := make([]content.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}
		id := entryVideoID(entry)
		if id == "" {
			continue
		}
		var published time.Time
		if entry.PublishedParsed != nil {
			published = entry.PublishedParsed.UTC()
		}
		items = append(items, content.Item{
			ID:          id,
			PublishedAt: published,
			Visibility:  content.Public,
			Title:       strings.TrimSpace(entry.Title),
			Description: entryDescription(entry),
		})
	}
	return items, nil
}

func (f *FeedClient) endpoint() (string, error) {
	parsed, err := url.Parse(f.feedURL)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	query.Set("playlist_id", f.playlistID)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// entryVideoID prefers the yt:videoId extension and falls back to the
// "yt:video:<id>" entry id.
func entryVideoID(entry *gofeed.Item) string {
	if yt, ok := entry.Extensions["yt"]; ok {
		if values := yt["videoId"]; len(values) > 0 {
			if id := strings.TrimSpace(values[0].Value); id != "" {
				return id
			}
		}
	}
	guid := strings.TrimSpace(entry.GUID)
	if rest, ok := strings.CutPrefix(guid, "yt:video:"); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

func entryDescription(entry *gofeed.Item) string {
	if media, ok := entry.Extensions["media"]; ok {
		for _, group := range media["group"] {
			if values := group.Children["description"]; len(values) > 0 {
				return strings.TrimSpace(values[0].Value)
			}
		}
	}
	return strings.TrimSpace(entry.Description)
}
