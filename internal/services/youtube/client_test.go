package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tubepost/internal/content"
	"tubepost/internal/services"
)

func TestClientCandidatesJoinsPlaylistAndVideoDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("expected api key, got %q", got)
		}
		switch r.URL.Path {
		case "/youtube/v3/playlistItems":
			if got := r.URL.Query().Get("part"); got != "contentDetails" {
				t.Errorf("unexpected part %q", got)
			}
			if got := r.URL.Query().Get("playlistId"); got != "PL123" {
				t.Errorf("unexpected playlistId %q", got)
			}
			if got := r.URL.Query().Get("maxResults"); got != "25" {
				t.Errorf("unexpected maxResults %q", got)
			}
			_, _ = w.Write([]byte(`{"items":[
				{"contentDetails":{"videoId":"vidA"}},
				{"contentDetails":{"videoId":"vidB"}},
				{"contentDetails":{"videoId":"vidA"}},
				{"contentDetails":{"videoId":"gone"}}
			]}`))
		case "/youtube/v3/videos":
			if got := r.URL.Query().Get("part"); got != "snippet,status" {
				t.Errorf("unexpected part %q", got)
			}
			if got := r.URL.Query().Get("id"); got != "vidA,vidB,gone" {
				t.Errorf("unexpected ids %q", got)
			}
			_, _ = w.Write([]byte(`{"items":[
				{"id":"vidA","snippet":{"title":" First ","description":"desc A","publishedAt":"2024-03-01T10:00:00Z"},"status":{"privacyStatus":"public"}},
				{"id":"vidB","snippet":{"title":"Second","publishedAt":"2024-03-02T10:00:00Z"},"status":{"privacyStatus":"private"}}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient("test-key", "PL123", WithBaseURL(server.URL), WithPageSize(25))
	items, err := client.Candidates(context.Background())
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	first := items[0]
	if first.ID != "vidA" || first.Visibility != content.Public || first.Title != "First" || first.Description != "desc A" {
		t.Fatalf("unexpected first item %+v", first)
	}
	if !first.PublishedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected published at %v", first.PublishedAt)
	}
	if items[1].Visibility != content.Private {
		t.Fatalf("expected private visibility, got %q", items[1].Visibility)
	}
	if items[2].ID != "gone" || items[2].Visibility != content.Unknown {
		t.Fatalf("expected missing video to be unknown, got %+v", items[2])
	}
}

func TestClientCandidatesEmptyPlaylistSkipsVideosCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	items, err := NewClient("k", "PL", WithBaseURL(server.URL)).Candidates(context.Background())
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
	if calls != 1 {
		t.Fatalf("expected a single request, got %d", calls)
	}
}

func TestClientCandidatesWrapsAPIErrors(t *testing.T) {
	statuses := []int{http.StatusForbidden, http.StatusNotFound, http.StatusTooManyRequests, http.StatusServiceUnavailable}
	for _, status := range statuses {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		_, err := NewClient("k", "PL", WithBaseURL(server.URL)).Candidates(context.Background())
		server.Close()
		if !errors.Is(err, services.ErrSourceQuery) {
			t.Fatalf("status %d: expected source query error, got %v", status, err)
		}
		if services.Kind(err) != "source_query_error" {
			t.Fatalf("status %d: unexpected kind %q", status, services.Kind(err))
		}
	}
}

func TestClientCandidatesRejectsMalformedPublishedAt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/youtube/v3/playlistItems":
			_, _ = w.Write([]byte(`{"items":[{"contentDetails":{"videoId":"old"}},{"contentDetails":{"videoId":"new"}}]}`))
		case "/youtube/v3/videos":
			_, _ = w.Write([]byte(`{"items":[
				{"id":"old","snippet":{"title":"Old","publishedAt":"2025-05-01T00:00:00Z"},"status":{"privacyStatus":"public"}},
				{"id":"new","snippet":{"title":"New","publishedAt":"2025-06-01 00:00:00"},"status":{"privacyStatus":"public"}}
			]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	items, err := NewClient("k", "PL", WithBaseURL(server.URL)).Candidates(context.Background())
	if !errors.Is(err, services.ErrSourceQuery) {
		t.Fatalf("expected source query error, got items=%v err=%v", items, err)
	}
	if !strings.Contains(err.Error(), "parse publishedAt for new") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestClientCandidatesRejectsMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":`))
	}))
	defer server.Close()

	_, err := NewClient("k", "PL", WithBaseURL(server.URL)).Candidates(context.Background())
	if !errors.Is(err, services.ErrSourceQuery) {
		t.Fatalf("expected source query error, got %v", err)
	}
	if !strings.Contains(err.Error(), "parse playlistItems response") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestClientCandidatesRequiresAPIKey(t *testing.T) {
	_, err := NewClient("", "PL").Candidates(context.Background())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestWithPageSizeIgnoresOutOfRange(t *testing.T) {
	client := NewClient("k", "PL", WithPageSize(500))
	if client.pageSize != maxResultsPerPage {
		t.Fatalf("expected page size %d, got %d", maxResultsPerPage, client.pageSize)
	}
}
