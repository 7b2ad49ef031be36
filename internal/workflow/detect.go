package workflow

import (
	"context"
	"log/slog"
	"time"

	"tubepost/internal/content"
	"tubepost/internal/detector"
	"tubepost/internal/logging"
)

// detect queries the source and the state store. It has no side effects; any
// error aborts the run before processing starts.
func (o *Orchestrator) detect(ctx context.Context, logger *slog.Logger) (content.Item, bool, error) {
	candidates, err := o.source.Candidates(ctx)
	if err != nil {
		return content.Item{}, false, err
	}
	newest, ok := detector.SelectNewest(candidates)
	if !ok {
		logger.Info("no eligible item in source",
			logging.String(logging.FieldEventType, "detect_none_eligible"),
			logging.Int("candidates", len(candidates)),
		)
		return content.Item{}, false, nil
	}

	last, found, err := o.store.Get(ctx)
	if err != nil {
		return content.Item{}, false, err
	}
	if !detector.IsNew(newest, last, found) {
		logger.Info("newest item already processed",
			logging.String(logging.FieldEventType, "detect_unchanged"),
			logging.String(logging.FieldItemID, newest.ID),
		)
		return content.Item{}, false, nil
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "detect_new_item"),
		logging.String(logging.FieldItemID, newest.ID),
		logging.Int("candidates", len(candidates)),
		logging.String("published_at", newest.PublishedAt.UTC().Format(time.RFC3339)),
	}
	if found {
		attrs = append(attrs, logging.String("previous_item_id", last))
	}
	logger.Info("new item detected", logging.Args(attrs...)...)
	return newest, true, nil
}
