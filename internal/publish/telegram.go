package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tubepost/internal/config"
	"tubepost/internal/message"
	"tubepost/internal/textutil"
)

// telegramMessageLimit is the Bot API limit for sendMessage text.
const telegramMessageLimit = 4096

// TelegramConfig identifies the bot and chat.
type TelegramConfig struct {
	APIURL   string
	BotToken string
	ChatID   string
}

// Telegram posts through the Bot API sendMessage method.
type Telegram struct {
	cfg        TelegramConfig
	httpClient *http.Client
}

// NewTelegram creates a Bot API publisher.
func NewTelegram(cfg TelegramConfig, httpClient *http.Client) *Telegram {
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.telegram.org"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Telegram{cfg: cfg, httpClient: httpClient}
}

// Target implements Publisher.
func (t *Telegram) Target() string { return config.PublishTargetTelegram }

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// Publish sends one chat message. Text over the API limit is shortened while
// keeping the trailing link.
func (t *Telegram) Publish(ctx context.Context, msg message.Message) (Receipt, error) {
	target := t.Target()
	if strings.TrimSpace(msg.Text) == "" {
		return Receipt{}, wrapPublishErr(target, "send", "message text required", nil)
	}

	form := url.Values{}
	form.Set("chat_id", t.cfg.ChatID)
	form.Set("text", fitTelegramText(msg))

	endpoint := t.cfg.APIURL + "/bot" + t.cfg.BotToken + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Receipt{}, wrapPublishErr(target, "send", "build request", redactToken(err, t.cfg.BotToken))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return Receipt{}, wrapPublishErr(target, "send", "request failed", redactToken(err, t.cfg.BotToken))
	}
	defer resp.Body.Close()
	body := readBody(resp)

	var parsed telegramResponse
	_ = json.Unmarshal(body, &parsed)
	if resp.StatusCode != http.StatusOK || !parsed.OK {
		detail := parsed.Description
		if detail == "" {
			detail = statusDetail(resp.StatusCode, body)
		}
		return Receipt{}, wrapPublishErr(target, "send", fmt.Sprintf("status %d: %s", resp.StatusCode, detail), nil)
	}
	if parsed.Result.MessageID == 0 {
		return Receipt{}, wrapPublishErr(target, "send", "response missing message id", nil)
	}
	return Receipt{PostID: strconv.FormatInt(parsed.Result.MessageID, 10), Target: target}, nil
}

func fitTelegramText(msg message.Message) string {
	if len([]rune(msg.Text)) <= telegramMessageLimit {
		return msg.Text
	}
	if msg.URL == "" {
		return textutil.Truncate(msg.Text, telegramMessageLimit)
	}
	suffix := "\n\n" + msg.URL
	head := strings.TrimSuffix(msg.Text, suffix)
	return textutil.Truncate(head, telegramMessageLimit-len([]rune(suffix))) + suffix
}

// redactToken keeps the bot token, which is part of the URL, out of error text.
func redactToken(err error, token string) error {
	if err == nil || token == "" {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), token, "<redacted>"))
}
