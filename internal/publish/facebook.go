package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tubepost/internal/config"
	"tubepost/internal/message"
)

// FacebookConfig identifies the page to post to.
type FacebookConfig struct {
	GraphURL    string
	APIVersion  string
	PageID      string
	AccessToken string
}

// Facebook posts to a Page feed through the Graph API.
type Facebook struct {
	cfg        FacebookConfig
	httpClient *http.Client
}

// NewFacebook creates a Page feed publisher.
func NewFacebook(cfg FacebookConfig, httpClient *http.Client) *Facebook {
	cfg.GraphURL = strings.TrimRight(strings.TrimSpace(cfg.GraphURL), "/")
	if cfg.GraphURL == "" {
		cfg.GraphURL = "https://graph.facebook.com"
	}
	cfg.APIVersion = strings.Trim(strings.TrimSpace(cfg.APIVersion), "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Facebook{cfg: cfg, httpClient: httpClient}
}

// Target implements Publisher.
func (f *Facebook) Target() string { return config.PublishTargetFacebook }

type graphResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Publish creates one feed post carrying the message text and link.
func (f *Facebook) Publish(ctx context.Context, msg message.Message) (Receipt, error) {
	target := f.Target()
	if strings.TrimSpace(msg.Text) == "" {
		return Receipt{}, wrapPublishErr(target, "post", "message text required", nil)
	}
	form := url.Values{}
	form.Set("message", msg.Text)
	if msg.URL != "" {
		form.Set("link", msg.URL)
	}
	form.Set("access_token", f.cfg.AccessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return Receipt{}, wrapPublishErr(target, "post", "build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return Receipt{}, wrapPublishErr(target, "post", "request failed", err)
	}
	defer resp.Body.Close()
	body := readBody(resp)

	var parsed graphResponse
	_ = json.Unmarshal(body, &parsed)
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return Receipt{}, wrapPublishErr(target, "post", fmt.Sprintf("status %d: %s (code %d)", resp.StatusCode, parsed.Error.Message, parsed.Error.Code), nil)
		}
		return Receipt{}, wrapPublishErr(target, "post", statusDetail(resp.StatusCode, body), nil)
	}
	if strings.TrimSpace(parsed.ID) == "" {
		return Receipt{}, wrapPublishErr(target, "post", "response missing post id", nil)
	}
	return Receipt{PostID: parsed.ID, Target: target}, nil
}

func (f *Facebook) endpoint() string {
	parts := []string{f.cfg.GraphURL}
	if f.cfg.APIVersion != "" {
		parts = append(parts, f.cfg.APIVersion)
	}
	parts = append(parts, url.PathEscape(f.cfg.PageID), "feed")
	return strings.Join(parts, "/")
}
