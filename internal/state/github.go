package state

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	githubAcceptHeader   = "application/vnd.github+json"
	githubAPIVersion     = "2022-11-28"
	githubErrorBodyLimit = 512
)

// GitHubConfig identifies a repository variable.
type GitHubConfig struct {
	APIURL   string
	Repo     string
	Token    string
	Variable string
}

// GitHubStore keeps the identifier in a GitHub Actions repository variable.
type GitHubStore struct {
	cfg        GitHubConfig
	httpClient *http.Client
}

// NewGitHubStore creates a store backed by the Actions variables API.
func NewGitHubStore(cfg GitHubConfig, httpClient *http.Client) *GitHubStore {
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.github.com"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &GitHubStore{cfg: cfg, httpClient: httpClient}
}

type githubVariable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Get reads the variable. A 404 or an empty value is the absent state.
func (s *GitHubStore) Get(ctx context.Context) (string, bool, error) {
	resp, body, err := s.do(ctx, http.MethodGet, s.variableURL(), nil)
	if err != nil {
		return "", false, wrapStateErr("get", "github request failed", err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", false, nil
	default:
		return "", false, wrapStateErr("get", statusMessage(resp.StatusCode, body), nil)
	}

	var variable githubVariable
	if err := json.Unmarshal(body, &variable); err != nil {
		return "", false, wrapStateErr("get", "decode variable", err)
	}
	value := strings.TrimSpace(variable.Value)
	if value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// Set updates the variable, creating it when it does not exist yet.
func (s *GitHubStore) Set(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return wrapStateErr("set", "identifier required", nil)
	}
	payload := githubVariable{Name: s.cfg.Variable, Value: id}

	resp, body, err := s.do(ctx, http.MethodPatch, s.variableURL(), payload)
	if err != nil {
		return wrapStateErr("set", "github request failed", err)
	}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
	default:
		return wrapStateErr("set", statusMessage(resp.StatusCode, body), nil)
	}

	resp, body, err = s.do(ctx, http.MethodPost, s.collectionURL(), payload)
	if err != nil {
		return wrapStateErr("set", "github request failed", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return wrapStateErr("set", "create variable: "+statusMessage(resp.StatusCode, body), nil)
	}
	return nil
}

// Clear deletes the variable. Deleting a missing variable succeeds.
func (s *GitHubStore) Clear(ctx context.Context) error {
	resp, body, err := s.do(ctx, http.MethodDelete, s.variableURL(), nil)
	if err != nil {
		return wrapStateErr("clear", "github request failed", err)
	}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return wrapStateErr("clear", statusMessage(resp.StatusCode, body), nil)
	}
}

// Describe implements Store.
func (s *GitHubStore) Describe() string {
	return fmt.Sprintf("github %s variable %s", s.cfg.Repo, s.cfg.Variable)
}

// Close implements Store.
func (s *GitHubStore) Close() error { return nil }

func (s *GitHubStore) collectionURL() string {
	return fmt.Sprintf("%s/repos/%s/actions/variables", s.cfg.APIURL, strings.Trim(s.cfg.Repo, "/"))
}

func (s *GitHubStore) variableURL() string {
	return s.collectionURL() + "/" + url.PathEscape(s.cfg.Variable)
}

func (s *GitHubStore) do(ctx context.Context, method, endpoint string, payload any) (*http.Response, []byte, error) {
	if strings.TrimSpace(s.cfg.Token) == "" || strings.TrimSpace(s.cfg.Repo) == "" {
		return nil, nil, fmt.Errorf("github token and repository are required")
	}
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("encode payload: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	req.Header.Set("Accept", githubAcceptHeader)
	req.Header.Set("X-GitHub-Api-Version", githubAPIVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	return resp, body, nil
}

func statusMessage(status int, body []byte) string {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > githubErrorBodyLimit {
		snippet = snippet[:githubErrorBodyLimit] + "..."
	}
	if snippet == "" {
		return fmt.Sprintf("unexpected status %d", status)
	}
	return fmt.Sprintf("unexpected status %d: %s", status, snippet)
}
