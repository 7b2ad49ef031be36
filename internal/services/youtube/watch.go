package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"tubepost/internal/services"
)

const defaultWatchURL = "https://www.youtube.com/watch"

// PageMetadata is the subset of watch-page metadata used for title summaries.
type PageMetadata struct {
	Title       string
	Description string
}

// Scraper reads Open Graph metadata from a watch page.
type Scraper struct {
	watchURL   string
	httpClient *http.Client
}

// NewScraper creates a watch-page scraper. An empty watchURL uses the public
// YouTube host.
func NewScraper(watchURL string, httpClient *http.Client) *Scraper {
	if strings.TrimSpace(watchURL) == "" {
		watchURL = defaultWatchURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Scraper{watchURL: strings.TrimSpace(watchURL), httpClient: httpClient}
}

// Metadata fetches the watch page for id and extracts og:title and
// og:description, falling back to <title> and the description meta tag.
func (s *Scraper) Metadata(ctx context.Context, id string) (PageMetadata, error) {
	endpoint := s.watchURL + "?v=" + url.QueryEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return PageMetadata{}, services.Wrap(services.ErrSourceQuery, "source", "scrape watch page", "build request", err)
	}
	req.Header.Set("Accept-Language", "en")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return PageMetadata{}, services.Wrap(services.ErrSourceQuery, "source", "scrape watch page", "request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return PageMetadata{}, services.Wrap(services.ErrSourceQuery, "source", "scrape watch page", fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return PageMetadata{}, services.Wrap(services.ErrSourceQuery, "source", "scrape watch page", "parse html", err)
	}
	return extractMetadata(doc), nil
}

func extractMetadata(doc *goquery.Document) PageMetadata {
	var meta PageMetadata
	if title, ok := doc.Find("meta[property='og:title']").First().Attr("content"); ok {
		meta.Title = strings.TrimSpace(title)
	}
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if desc, ok := doc.Find("meta[property='og:description']").First().Attr("content"); ok {
		meta.Description = strings.TrimSpace(desc)
	}
	if meta.Description == "" {
		if desc, ok := doc.Find("meta[name='description']").First().Attr("content"); ok {
			meta.Description = strings.TrimSpace(desc)
		}
	}
	return meta
}
