package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tubepost/internal/logging"
	"tubepost/internal/metrics"
	"tubepost/internal/notifications"
	"tubepost/internal/pipeline"
	"tubepost/internal/publish"
	"tubepost/internal/services"
	"tubepost/internal/state"
)

// Options wires an Orchestrator.
type Options struct {
	Source    Source
	Store     state.Store
	Processor Processor
	// Publisher is nil when publishing is skipped by configuration.
	Publisher     publish.Publisher
	Notifier      notifications.Service
	Metrics       *metrics.Recorder
	Logger        *slog.Logger
	CommitOnError bool
	// LockPath enables the host run lock when set.
	LockPath string
	// StagingDir and StaleWorkspaceAge drive the pre-run sweep of crashed
	// workspaces. A zero age disables it.
	StagingDir        string
	StaleWorkspaceAge time.Duration
	// NewRunID overrides run ID generation in tests.
	NewRunID func() string
}

// Orchestrator runs poll cycles.
type Orchestrator struct {
	source        Source
	store         state.Store
	processor     Processor
	publisher     publish.Publisher
	notifier      notifications.Service
	metrics       *metrics.Recorder
	logger        *slog.Logger
	commitOnError bool
	lockPath      string
	stagingDir    string
	staleAge      time.Duration
	newRunID      func() string
}

// New validates opts and builds an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Source == nil {
		return nil, errors.New("workflow: source is required")
	}
	if opts.Store == nil {
		return nil, errors.New("workflow: state store is required")
	}
	if opts.Processor == nil {
		return nil, errors.New("workflow: processor is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(nil)
	}
	newRunID := opts.NewRunID
	if newRunID == nil {
		newRunID = func() string { return uuid.NewString() }
	}
	return &Orchestrator{
		source:        opts.Source,
		store:         opts.Store,
		processor:     opts.Processor,
		publisher:     opts.Publisher,
		notifier:      notifier,
		metrics:       opts.Metrics,
		logger:        logging.NewComponentLogger(logger, "workflow"),
		commitOnError: opts.CommitOnError,
		lockPath:      opts.LockPath,
		stagingDir:    opts.StagingDir,
		staleAge:      opts.StaleWorkspaceAge,
		newRunID:      newRunID,
	}, nil
}

// Run executes one poll cycle. The returned error is the outcome's Err and is
// non-nil only for FAILED runs.
func (o *Orchestrator) Run(ctx context.Context) (Outcome, error) {
	outcome := Outcome{RunID: o.newRunID(), State: StateStart}
	logger := logging.WithRunID(o.logger, outcome.RunID)
	logger.Info("run started", logging.String(logging.FieldEventType, "run_start"))

	unlock, locked, err := o.acquireLock(logger)
	if err != nil {
		o.fail(ctx, logger, &outcome, "lock", err)
		return o.finish(logger, outcome)
	}
	if !locked {
		o.transition(logger, &outcome, StateLocked,
			logging.String("lock_path", o.lockPath),
			logging.String(logging.FieldImpact, "another run holds the lock; this run did nothing"),
		)
		return o.finish(logger, outcome)
	}
	defer unlock()

	o.sweepStaleWorkspaces(ctx, logger)

	o.transition(logger, &outcome, StateDetecting)
	candidate, found, err := o.detect(ctx, logger)
	if err != nil {
		o.fail(ctx, logger, &outcome, "detect", err)
		return o.finish(logger, outcome)
	}
	if !found {
		o.transition(logger, &outcome, StateNoChange)
		return o.finish(logger, outcome)
	}
	item := candidate
	outcome.Item = &item

	o.transition(logger, &outcome, StateProcessing, logging.String(logging.FieldItemID, item.ID))
	o.process(ctx, logger, &outcome)
	return o.finish(logger, outcome)
}

// DryRun performs detection only and reports what a run would process. It
// neither takes the run lock nor writes anything.
func (o *Orchestrator) DryRun(ctx context.Context) (Outcome, error) {
	outcome := Outcome{RunID: o.newRunID(), State: StateStart}
	logger := logging.WithRunID(o.logger, outcome.RunID).With(logging.Bool("dry_run", true))

	o.transition(logger, &outcome, StateDetecting)
	candidate, found, err := o.detect(ctx, logger)
	if err != nil {
		o.logFailure(logger, "detect", err)
		outcome.State = StateFailed
		outcome.Stage = "detect"
		outcome.Err = err
		return outcome, err
	}
	if !found {
		o.transition(logger, &outcome, StateNoChange)
		return outcome, nil
	}
	item := candidate
	outcome.Item = &item
	o.transition(logger, &outcome, StatePending, logging.String(logging.FieldItemID, item.ID))
	return outcome, nil
}

func (o *Orchestrator) transition(logger *slog.Logger, outcome *Outcome, next State, attrs ...logging.Attr) {
	from := outcome.State
	outcome.State = next
	fields := append([]logging.Attr{
		logging.String(logging.FieldEventType, "run_"+strings.ToLower(string(next))),
		logging.String("from", string(from)),
		logging.String("to", string(next)),
	}, attrs...)
	logger.Info("run state "+string(next), logging.Args(fields...)...)
}

// fail moves the run to FAILED, logs the cause, and notifies.
func (o *Orchestrator) fail(ctx context.Context, logger *slog.Logger, outcome *Outcome, stage string, err error) {
	var stageErr *pipeline.Failure
	if errors.As(err, &stageErr) {
		stage = string(stageErr.Stage)
	}
	outcome.Stage = stage
	outcome.Err = err
	o.logFailure(logger, stage, err)
	o.transition(logger, outcome, StateFailed, logging.String(logging.FieldStage, stage))
	o.notifyFailure(ctx, logger, *outcome)
}

func (o *Orchestrator) logFailure(logger *slog.Logger, stage string, err error) {
	attrs := []logging.Attr{
		logging.String(logging.FieldStage, stage),
		logging.String(logging.FieldErrorKind, services.Kind(err)),
		logging.Error(err),
	}
	if hint := failureHint(err); hint != "" {
		attrs = append(attrs, logging.String(logging.FieldErrorHint, hint))
	}
	logging.ErrorWithContext(logger, "run failed", "run_failure", attrs...)
}

func (o *Orchestrator) finish(logger *slog.Logger, outcome Outcome) (Outcome, error) {
	if o.metrics != nil {
		o.metrics.RecordRun(string(outcome.State), outcome.Failed())
		if err := o.metrics.Flush(); err != nil {
			logging.WarnWithContext(logger, "metrics textfile write failed", "metrics_flush_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run metrics are stale"),
				logging.String(logging.FieldErrorHint, "check metrics.textfile_path permissions"),
			)
		}
	}
	// END is logged but not stored: callers read the terminal state from outcome.State.
	final := outcome.State
	logger.Info("run state "+string(StateEnd),
		logging.String(logging.FieldEventType, "run_"+strings.ToLower(string(StateEnd))),
		logging.String("from", string(final)),
		logging.String("to", string(StateEnd)),
		logging.String("state", string(final)),
		logging.Bool("committed", outcome.Committed),
		logging.Bool("publish_skipped", outcome.PublishSkipped),
	)
	return outcome, outcome.Err
}
