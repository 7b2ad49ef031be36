package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tubepost/internal/logging"
	"tubepost/internal/services"
)

// process runs the pipeline, publishes, and commits. It leaves outcome in
// COMMITTED or FAILED.
func (o *Orchestrator) process(ctx context.Context, logger *slog.Logger, outcome *Outcome) {
	item := *outcome.Item
	ctx = services.WithItemID(ctx, item.ID)
	ctx = services.WithRequestID(ctx, outcome.RunID)
	logger = logging.WithContext(ctx, logger)

	msg, err := o.processor.Run(ctx, item)
	if err != nil {
		o.fail(ctx, logger, outcome, "pipeline", err)
		return
	}
	outcome.Message = msg

	if publishErr := o.publish(ctx, logger, outcome); publishErr != nil {
		if !o.commitOnError {
			o.fail(ctx, logger, outcome, "publish", publishErr)
			return
		}
		logging.WarnWithContext(logger, "publish failed; committing anyway", "publish_failed_committed",
			logging.Error(publishErr),
			logging.String(logging.FieldErrorKind, services.Kind(publishErr)),
			logging.String(logging.FieldImpact, "item will not be retried and was not posted"),
			logging.String(logging.FieldErrorHint, "disable publish.commit_on_error to retry failed posts"),
		)
	}

	if err := o.commit(ctx, item.ID); err != nil {
		o.fail(ctx, logger, outcome, "commit", err)
		return
	}
	outcome.Committed = true
	o.transition(logger, outcome, StateCommitted, logging.String(logging.FieldItemID, item.ID))
	if !outcome.PublishSkipped && outcome.Receipt.PostID != "" {
		o.notifyPublished(ctx, logger, *outcome)
	}
}

// publish sends the message when a publisher is configured. A missing
// publisher marks the outcome as skipped and is not an error.
func (o *Orchestrator) publish(ctx context.Context, logger *slog.Logger, outcome *Outcome) error {
	if o.publisher == nil {
		outcome.PublishSkipped = true
		logger.Info("publish skipped",
			logging.String(logging.FieldEventType, "publish_skipped"),
			logging.String("reason", "publisher credentials not configured"),
		)
		return nil
	}
	ctx = services.WithStage(ctx, "publish")
	start := time.Now()
	receipt, err := o.publisher.Publish(ctx, outcome.Message)
	o.metrics.ObserveStage("publish", time.Since(start), err)
	if err != nil {
		return err
	}
	outcome.Receipt = receipt
	logger.Info("message published",
		logging.String(logging.FieldEventType, "publish_complete"),
		logging.String("target", receipt.Target),
		logging.String("post_id", receipt.PostID),
		logging.Duration("duration", time.Since(start)),
	)
	return nil
}

// commit writes the processed identifier exactly once.
func (o *Orchestrator) commit(ctx context.Context, id string) error {
	start := time.Now()
	err := o.store.Set(ctx, id)
	o.metrics.ObserveStage("commit", time.Since(start), err)
	if err == nil {
		return nil
	}
	if errors.Is(err, services.ErrStateStore) {
		return err
	}
	return services.Wrap(services.ErrStateStore, "commit", "set", o.store.Describe(), err)
}

// failureHint suggests the operator's next step for a failed run.
func failureHint(err error) string {
	switch {
	case errors.Is(err, services.ErrConfiguration):
		return "check tubepost config validate output"
	case errors.Is(err, services.ErrSourceQuery):
		return "check source.api_key and source.playlist_id"
	case errors.Is(err, services.ErrStateStore):
		return "check state backend credentials; the item will be reprocessed next run"
	case errors.Is(err, services.ErrAcquisition):
		return "check yt-dlp is installed and up to date"
	case errors.Is(err, services.ErrTranscode):
		return "check ffmpeg is installed"
	case errors.Is(err, services.ErrSummaryParse):
		return "model returned malformed JSON; rerun or choose another llm.model"
	case errors.Is(err, services.ErrSummarization):
		return "check llm.api_key and model availability"
	case errors.Is(err, services.ErrPublish):
		return "check publish credentials; the item will be retried next run"
	default:
		return ""
	}
}
