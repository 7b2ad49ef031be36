package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
 <entry>
  <id>yt:video:new1</id>
  <yt:videoId>new1</yt:videoId>
  <title>Episode 12</title>
  <published>2024-05-02T08:00:00+00:00</published>
 </entry>
 <entry>
  <id>yt:video:old1</id>
  <yt:videoId>old1</yt:videoId>
  <title>Episode 11</title>
  <published>2024-04-01T08:00:00+00:00</published>
 </entry>
</feed>`

const testWatchPage = `<html><head>
<meta property="og:title" content="Episode 12">
<meta property="og:description" content="We talk about Go.">
</head><body></body></html>`

// fakeServices serves the feed, watch page, LLM, and Graph API endpoints.
type fakeServices struct {
	server *httptest.Server

	mu    sync.Mutex
	posts []string
}

func newFakeServices(t *testing.T) *fakeServices {
	t.Helper()
	f := &fakeServices{}
	mux := http.NewServeMux()
	mux.HandleFunc("/feeds/videos.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(testFeed))
	})
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testWatchPage))
	})
	mux.HandleFunc("/llm", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message": map[string]any{"content": "```json\n{\"title\":\"Episode 12\",\"summary\":\"A talk about Go.\"}\n```"},
			}},
		})
	})
	mux.HandleFunc("/v21.0/page-123/feed", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.posts = append(f.posts, r.PostForm.Get("message"))
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"id":"page-123_987"}`))
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeServices) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

type cliTestEnv struct {
	baseDir    string
	configPath string
	statePath  string
	envFile    string
}

// setupCLITestEnv writes a config that uses the feed source, title input, the
// file state backend, and the fake services. Credential variables from the
// surrounding environment are cleared.
func setupCLITestEnv(t *testing.T, services *fakeServices, extra string) *cliTestEnv {
	t.Helper()
	for _, name := range []string{
		"YOUTUBE_API_KEY", "OPENROUTER_API_KEY", "LLM_API_KEY", "GITHUB_TOKEN", "GH_TOKEN",
		"GITHUB_REPOSITORY", "FACEBOOK_PAGE_ID", "FACEBOOK_ACCESS_TOKEN", "TELEGRAM_BOT_TOKEN",
		"TELEGRAM_CHAT_ID", "REDIS_URL", "NTFY_TOPIC",
	} {
		t.Setenv(name, "")
	}

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		statePath:  filepath.Join(base, "state", "previous_video_id.txt"),
		envFile:    filepath.Join(base, "missing.env"),
	}

	serviceURL := "http://127.0.0.1:1"
	if services != nil {
		serviceURL = services.server.URL
	}
	content := fmt.Sprintf(`[paths]
staging_dir = %q
log_dir = %q

[source]
kind = "feed"
playlist_id = "PL123"
feed_url = "%s/feeds/videos.xml"
watch_url = "%s/watch"

[state]
backend = "file"
file_path = %q

[summary]
input = "title"

[llm]
api_key = "test-llm-key"
base_url = "%s/llm"

[facebook]
graph_url = %q
api_version = "v21.0"
%s
`, filepath.Join(base, "staging"), filepath.Join(base, "logs"), serviceURL, serviceURL, env.statePath, serviceURL, serviceURL, extra)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--config", env.configPath, "--env-file", env.envFile}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\noutput:\n%s", needle, haystack)
	}
}
