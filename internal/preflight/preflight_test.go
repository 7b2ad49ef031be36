package preflight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tubepost/internal/config"
	"tubepost/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	testsupport.WriteFile(t, f, "x")
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckLLM_MissingKey(t *testing.T) {
	result := CheckLLM(context.Background(), "LLM", config.LLM{})
	if result.Passed || result.Detail != "API key missing" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckSource_CountsPublicItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/youtube/v3/playlistItems":
			_, _ = w.Write([]byte(`{"items":[{"contentDetails":{"videoId":"a"}},{"contentDetails":{"videoId":"b"}}]}`))
		default:
			_, _ = w.Write([]byte(`{"items":[
				{"id":"a","snippet":{"publishedAt":"2024-01-01T00:00:00Z"},"status":{"privacyStatus":"public"}},
				{"id":"b","snippet":{"publishedAt":"2024-01-02T00:00:00Z"},"status":{"privacyStatus":"private"}}
			]}`))
		}
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Source.BaseURL = srv.URL
	result := CheckSource(context.Background(), cfg)
	if !result.Passed || result.Detail != "2 items (1 public)" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckState_FileBackend(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result := CheckState(context.Background(), cfg)
	if !result.Passed || !strings.Contains(result.Detail, "no item") {
		t.Fatalf("unexpected result %+v", result)
	}
	testsupport.WriteState(t, cfg, "vid9")
	result = CheckState(context.Background(), cfg)
	if !result.Passed || result.Detail != "last processed vid9" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckPublishFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result := CheckPublishFromConfig(cfg)
	if !result.Passed || !strings.Contains(result.Detail, "skipped") {
		t.Fatalf("unexpected result %+v", result)
	}
	cfg = testsupport.NewConfig(t, testsupport.WithFacebook(""))
	result = CheckPublishFromConfig(cfg)
	if !result.Passed || !strings.Contains(result.Detail, "page-123") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckSystemDeps_StubbedBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	for _, status := range CheckSystemDeps(cfg) {
		if !status.Available || status.Optional {
			t.Fatalf("expected %s to be available and required, got %#v", status.Name, status)
		}
	}
}

func TestCheckSystemDeps_TitleModeIsOptional(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Acquire.YtDlpBinary = "clearly-missing-ytdlp"
	cfg.Summary.Input = config.SummaryInputTitle
	statuses := CheckSystemDeps(cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Available || !statuses[0].Optional {
		t.Fatalf("unexpected yt-dlp status %#v", statuses[0])
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_KeepsOrder(t *testing.T) {
	llmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": `{"ok":true}`}}},
		})
	}))
	defer llmSrv.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Source.Kind = config.SourceKindFeed
	cfg.Source.FeedURL = "http://127.0.0.1:1/feed"
	cfg.LLM.BaseURL = llmSrv.URL
	if err := os.MkdirAll(cfg.Paths.StagingDir, 0o755); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	wantPrefixes := []string{"Staging directory", "Source (feed)", "State (file)", "Summarization LLM", "Publish", "Notifications"}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(results[i].Name, prefix) {
			t.Fatalf("result %d: expected %q, got %q", i, prefix, results[i].Name)
		}
	}
	if !results[0].Passed {
		t.Fatalf("staging check failed: %s", results[0].Detail)
	}
	if results[1].Passed {
		t.Fatalf("feed check against a closed port should fail")
	}
}
