package preflight

import (
	"fmt"
	"strings"

	"tubepost/internal/config"
)

// CheckPublishFromConfig reports whether the publish target has credentials.
// Missing credentials are not a failure: runs commit with publishing skipped.
func CheckPublishFromConfig(cfg *config.Config) Result {
	name := "Publish"
	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	name = fmt.Sprintf("Publish (%s)", cfg.Publish.Target)
	if !cfg.PublishConfigured() {
		return Result{Name: name, Passed: true, Detail: "Credentials missing; publish step is skipped"}
	}
	switch cfg.Publish.Target {
	case config.PublishTargetTelegram:
		return Result{Name: name, Passed: true, Detail: "chat " + cfg.Telegram.ChatID}
	default:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("page %s via %s", cfg.Facebook.PageID, cfg.Facebook.APIVersion)}
	}
}

// CheckNotificationsFromConfig summarises the ntfy settings.
func CheckNotificationsFromConfig(cfg *config.Config) Result {
	const name = "Notifications"
	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	var events []string
	if cfg.Notifications.RunFailed {
		events = append(events, "run_failed")
	}
	if cfg.Notifications.Published {
		events = append(events, "published")
	}
	if len(events) == 0 {
		return Result{Name: name, Passed: true, Detail: "Topic set, all events muted"}
	}
	return Result{Name: name, Passed: true, Detail: "ntfy: " + strings.Join(events, ", ")}
}
