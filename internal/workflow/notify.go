package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"tubepost/internal/content"
	"tubepost/internal/logging"
	"tubepost/internal/notifications"
	"tubepost/internal/services"
)

func (o *Orchestrator) notifyFailure(ctx context.Context, logger *slog.Logger, outcome Outcome) {
	if outcome.Err == nil || errors.Is(outcome.Err, context.Canceled) {
		return
	}
	payload := notifications.Payload{
		"stage":      outcome.Stage,
		"error":      outcome.Err.Error(),
		"error_kind": services.Kind(outcome.Err),
	}
	if outcome.Item != nil {
		payload["item_id"] = outcome.Item.ID
	}
	o.sendNotification(ctx, logger, notifications.EventRunFailed, payload)
}

func (o *Orchestrator) notifyPublished(ctx context.Context, logger *slog.Logger, outcome Outcome) {
	payload := notifications.Payload{
		"target":  outcome.Receipt.Target,
		"post_id": outcome.Receipt.PostID,
	}
	if outcome.Item != nil {
		payload["item_id"] = outcome.Item.ID
		payload["url"] = content.WatchURL(outcome.Item.ID)
		payload["title"] = messageTitle(outcome)
	}
	o.sendNotification(ctx, logger, notifications.EventPublished, payload)
}

func (o *Orchestrator) sendNotification(ctx context.Context, logger *slog.Logger, event notifications.Event, payload notifications.Payload) {
	if err := o.notifier.Publish(ctx, event, payload); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("run canceled, notification not sent", logging.String("event", string(event)))
			return
		}
		logging.WarnWithContext(logger, "notification failed", "notification_failed",
			logging.String("event", string(event)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "operator was not notified"),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
		)
	}
}

// messageTitle prefers the source title and falls back to the message's
// first line.
func messageTitle(outcome Outcome) string {
	if outcome.Item != nil && strings.TrimSpace(outcome.Item.Title) != "" {
		return outcome.Item.Title
	}
	first, _, _ := strings.Cut(outcome.Message.Text, "\n")
	return strings.TrimSpace(first)
}
