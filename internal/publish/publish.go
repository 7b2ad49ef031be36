// Package publish delivers a formatted message to a social network.
//
// Each successful Publish call creates exactly one externally visible post.
// There are no retries: a failed call may or may not have created a post, so
// repeating it is left to the next run.
package publish

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"tubepost/internal/config"
	"tubepost/internal/message"
	"tubepost/internal/services"
)

// Receipt identifies the created post.
type Receipt struct {
	PostID string
	Target string
}

// Publisher delivers a message.
type Publisher interface {
	Publish(ctx context.Context, msg message.Message) (Receipt, error)
	Target() string
}

// New builds the configured publisher. It returns false when the selected
// target has no credentials, in which case publishing is skipped.
func New(cfg *config.Config) (Publisher, bool) {
	if cfg == nil || !cfg.PublishConfigured() {
		return nil, false
	}
	httpClient := &http.Client{Timeout: cfg.PublishTimeout()}
	switch cfg.Publish.Target {
	case config.PublishTargetFacebook:
		return NewFacebook(FacebookConfig{
			GraphURL:    cfg.Facebook.GraphURL,
			APIVersion:  cfg.Facebook.APIVersion,
			PageID:      cfg.Facebook.PageID,
			AccessToken: cfg.Facebook.AccessToken,
		}, httpClient), true
	case config.PublishTargetTelegram:
		return NewTelegram(TelegramConfig{
			APIURL:   cfg.Telegram.APIURL,
			BotToken: cfg.Telegram.BotToken,
			ChatID:   cfg.Telegram.ChatID,
		}, httpClient), true
	default:
		return nil, false
	}
}

func wrapPublishErr(target, operation, message string, err error) error {
	return services.Wrap(services.ErrPublish, "publish", target+" "+operation, message, err)
}

func readBody(resp *http.Response) []byte {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return data
}

func statusDetail(status int, body []byte) string {
	snippet := strings.Join(strings.Fields(string(body)), " ")
	if len(snippet) > 300 {
		snippet = snippet[:300] + "..."
	}
	if snippet == "" {
		return fmt.Sprintf("status %d", status)
	}
	return fmt.Sprintf("status %d: %s", status, snippet)
}
