package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tubepost/internal/services"
)

func TestRunPublishesAndCommitsOnce(t *testing.T) {
	fake := newFakeServices(t)
	env := setupCLITestEnv(t, fake, "page_id = \"page-123\"\naccess_token = \"page-token\"\n")

	out, _, err := runCLI(t, env, "run")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "COMMITTED")
	requireContains(t, out, "Item: new1 (Episode 12)")
	requireContains(t, out, "Publish: facebook post page-123_987")

	data, err := os.ReadFile(env.statePath)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	if strings.TrimSpace(string(data)) != "new1" {
		t.Fatalf("unexpected state %q", data)
	}
	if fake.postCount() != 1 {
		t.Fatalf("expected one post, got %d", fake.postCount())
	}
	want := "Episode 12\n\nA talk about Go.\n\nhttps://www.youtube.com/watch?v=new1"
	if fake.posts[0] != want {
		t.Fatalf("unexpected post text %q", fake.posts[0])
	}

	out, _, err = runCLI(t, env, "run")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	requireContains(t, out, "NO_CHANGE")
	if fake.postCount() != 1 {
		t.Fatalf("second run must not publish again, got %d posts", fake.postCount())
	}
}

func TestRunWithoutPublisherCredentialsSkipsPublish(t *testing.T) {
	fake := newFakeServices(t)
	env := setupCLITestEnv(t, fake, "")

	out, _, err := runCLI(t, env, "run")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Publish: skipped")
	requireContains(t, out, "Committed: yes")
	if fake.postCount() != 0 {
		t.Fatalf("expected no posts, got %d", fake.postCount())
	}
}

func TestRunDryRunDoesNotCommit(t *testing.T) {
	fake := newFakeServices(t)
	env := setupCLITestEnv(t, fake, "")

	out, _, err := runCLI(t, env, "run", "--dry-run")
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	requireContains(t, out, "PENDING")
	requireContains(t, out, "Item: new1")
	if _, err := os.Stat(env.statePath); !os.IsNotExist(err) {
		t.Fatalf("dry run must not write state, stat err=%v", err)
	}
}

func TestRunFailureExitCode(t *testing.T) {
	env := setupCLITestEnv(t, nil, "")

	out, _, err := runCLI(t, env, "run")
	if err != nil {
		t.Fatalf("failed run should exit zero without --fail-on-error: %v", err)
	}
	requireContains(t, out, "FAILED")

	_, _, err = runCLI(t, env, "run", "--fail-on-error")
	if !errors.Is(err, services.ErrSourceQuery) {
		t.Fatalf("expected source query error with --fail-on-error, got %v", err)
	}
}

func TestRunDryRunFailureExitCode(t *testing.T) {
	env := setupCLITestEnv(t, nil, "")

	out, _, err := runCLI(t, env, "run", "--dry-run")
	if err != nil {
		t.Fatalf("failed dry run should exit zero without --fail-on-error: %v", err)
	}
	requireContains(t, out, "FAILED")

	_, _, err = runCLI(t, env, "run", "--dry-run", "--fail-on-error")
	if !errors.Is(err, services.ErrSourceQuery) {
		t.Fatalf("expected source query error with --fail-on-error, got %v", err)
	}
}

func TestRunMissingCredentialIsConfigurationError(t *testing.T) {
	env := setupCLITestEnv(t, nil, "")
	config, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatal(err)
	}
	stripped := strings.Replace(string(config), `api_key = "test-llm-key"`, "", 1)
	if err := os.WriteFile(env.configPath, []byte(stripped), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err = runCLI(t, env, "run")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestEnvFileIsLoaded(t *testing.T) {
	env := setupCLITestEnv(t, nil, "")
	env.envFile = filepath.Join(env.baseDir, "test.env")
	if err := os.WriteFile(env.envFile, []byte("TUBEPOST_ENV_FILE_MARKER=loaded\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("TUBEPOST_ENV_FILE_MARKER") })

	if _, _, err := runCLI(t, env, "state", "show"); err != nil {
		t.Fatalf("state show: %v", err)
	}
	if got := os.Getenv("TUBEPOST_ENV_FILE_MARKER"); got != "loaded" {
		t.Fatalf("expected env file to be loaded, got %q", got)
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, context.Canceled)
	if buf.Len() != 0 {
		t.Fatalf("expected cancellation to print nothing, got %q", buf.String())
	}

	reportError(&buf, services.Wrap(services.ErrConfiguration, "config", "validate", "llm.api_key is required", nil))
	requireContains(t, buf.String(), "tubepost: ")
	requireContains(t, buf.String(), "llm.api_key is required")
	requireContains(t, buf.String(), "tubepost config validate")
}
