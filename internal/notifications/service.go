package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tubepost/internal/config"
)

const userAgent = "tubepost/0.1.0"

// Event names a notification type.
type Event string

const (
	EventRunFailed Event = "run_failed"
	EventPublished Event = "published"
	EventTest      Event = "test"
)

// Payload carries event fields. Values are rendered with fmt's %v.
type Payload map[string]any

// Service publishes notifications.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		enabled: map[Event]bool{
			EventRunFailed: cfg.Notifications.RunFailed,
			EventPublished: cfg.Notifications.Published,
			EventTest:      true,
		},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	enabled  map[Event]bool
}

func (n *ntfyService) Publish(ctx context.Context, event Event, data Payload) error {
	if n == nil || !n.enabled[event] {
		return nil
	}
	var msg payload
	switch event {
	case EventRunFailed:
		msg = runFailedPayload(data)
	case EventPublished:
		msg = publishedPayload(data)
	case EventTest:
		msg = payload{
			title:    "tubepost - Test",
			message:  "🧪 Notification system test",
			tags:     []string{"tubepost", "test"},
			priority: "low",
		}
	default:
		return nil
	}
	return n.send(ctx, msg)
}

func runFailedPayload(data Payload) payload {
	var builder strings.Builder
	builder.WriteString("❌ Run failed")
	if stage := stringValue(data, "stage"); stage != "" {
		builder.WriteString(" at ")
		builder.WriteString(stage)
	}
	if item := stringValue(data, "item_id"); item != "" {
		builder.WriteString(" (")
		builder.WriteString(item)
		builder.WriteString(")")
	}
	builder.WriteString(": ")
	if errText := stringValue(data, "error"); errText != "" {
		builder.WriteString(errText)
	} else {
		builder.WriteString("unknown")
	}
	tags := []string{"tubepost", "error"}
	if kind := stringValue(data, "error_kind"); kind != "" {
		tags = append(tags, kind)
	}
	return payload{
		title:    "tubepost - Run Failed",
		message:  builder.String(),
		tags:     tags,
		priority: "high",
	}
}

func publishedPayload(data Payload) payload {
	title := stringValue(data, "title")
	if title == "" {
		title = stringValue(data, "item_id")
	}
	message := fmt.Sprintf("📣 Published: %s", title)
	if target := stringValue(data, "target"); target != "" {
		message = fmt.Sprintf("%s\nTarget: %s", message, target)
	}
	if post := stringValue(data, "post_id"); post != "" {
		message = fmt.Sprintf("%s\nPost: %s", message, post)
	}
	if url := stringValue(data, "url"); url != "" {
		message = fmt.Sprintf("%s\n%s", message, url)
	}
	return payload{
		title:   "tubepost - Published",
		message: message,
		tags:    []string{"tubepost", "publish", "completed"},
	}
}

func stringValue(data Payload, key string) string {
	value, ok := data[key]
	if !ok || value == nil {
		return ""
	}
	if err, ok := value.(error); ok {
		return strings.TrimSpace(err.Error())
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
