package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tubepost/internal/config"
	"tubepost/internal/content"
	"tubepost/internal/logging"
	"tubepost/internal/message"
	"tubepost/internal/services"
	"tubepost/internal/staging"
	"tubepost/internal/summary"
)

// Stage names a pipeline step.
type Stage string

const (
	StageAcquire   Stage = "acquire"
	StageTranscode Stage = "transcode"
	StageSummarize Stage = "summarize"
	StageFormat    Stage = "format"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageAcquire, StageTranscode, StageSummarize, StageFormat}

// Failure reports the stage that stopped a run.
type Failure struct {
	Stage Stage
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s stage failed: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Acquirer downloads an item's media into dir.
type Acquirer interface {
	Acquire(ctx context.Context, itemID, dir string) (string, error)
}

// Transcoder converts media into speech audio inside dir.
type Transcoder interface {
	Transcode(ctx context.Context, source, dir string) (string, error)
}

// Summarizer turns an item into a summary record.
type Summarizer interface {
	Summarize(ctx context.Context, in summary.Input) (summary.Record, error)
}

// Workspace owns the artifacts of one run.
type Workspace interface {
	Dir() string
	Register(path string)
	Release(path string) error
	Cleanup() error
}

// WorkspaceFactory creates the workspace for an item.
type WorkspaceFactory func(itemID string) (Workspace, error)

// StageObserver is told how long each executed stage took and how it ended.
type StageObserver func(stage Stage, elapsed time.Duration, err error)

// Options wires the pipeline collaborators.
type Options struct {
	Acquirer   Acquirer
	Transcoder Transcoder
	Summarizer Summarizer
	// Input is config.SummaryInputAudio or config.SummaryInputTitle.
	Input        string
	StagingDir   string
	NewWorkspace WorkspaceFactory
	Observer     StageObserver
	Logger       *slog.Logger
}

// Pipeline runs the stages for one item at a time.
type Pipeline struct {
	acquirer     Acquirer
	transcoder   Transcoder
	summarizer   Summarizer
	titleOnly    bool
	newWorkspace WorkspaceFactory
	observer     StageObserver
	logger       *slog.Logger
}

// New validates opts and builds a Pipeline.
func New(opts Options) (*Pipeline, error) {
	titleOnly := opts.Input == config.SummaryInputTitle
	if opts.Summarizer == nil {
		return nil, errors.New("pipeline: summarizer is required")
	}
	if !titleOnly && (opts.Acquirer == nil || opts.Transcoder == nil) {
		return nil, errors.New("pipeline: acquirer and transcoder are required for audio input")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	factory := opts.NewWorkspace
	if factory == nil {
		stagingDir := opts.StagingDir
		factory = func(itemID string) (Workspace, error) {
			return staging.NewWorkspace(stagingDir, itemID, logger)
		}
	}
	return &Pipeline{
		acquirer:     opts.Acquirer,
		transcoder:   opts.Transcoder,
		summarizer:   opts.Summarizer,
		titleOnly:    titleOnly,
		newWorkspace: factory,
		observer:     opts.Observer,
		logger:       logger,
	}, nil
}

// Run processes item and returns the formatted message. Any error is a
// *Failure. No stage is retried.
func (p *Pipeline) Run(ctx context.Context, item content.Item) (message.Message, error) {
	ctx = services.WithItemID(ctx, item.ID)
	logger := logging.WithContext(ctx, p.logger)

	var (
		record summary.Record
		err    error
	)
	if p.titleOnly {
		for _, skipped := range []Stage{StageAcquire, StageTranscode} {
			logger.Info("stage skipped",
				logging.String(logging.FieldEventType, "stage_skipped"),
				logging.String(logging.FieldStage, string(skipped)),
				logging.String("reason", "summary input is title"),
			)
		}
		record, err = runStage(ctx, p, StageSummarize, func(ctx context.Context) (summary.Record, error) {
			return p.summarizer.Summarize(ctx, summary.Input{Item: item})
		})
	} else {
		record, err = p.summarizeAudio(ctx, logger, item)
	}
	if err != nil {
		return message.Message{}, err
	}

	msg, err := runStage(ctx, p, StageFormat, func(context.Context) (message.Message, error) {
		return message.Format(record, content.WatchURL(item.ID))
	})
	if err != nil {
		return message.Message{}, err
	}
	msg.ItemID = item.ID
	return msg, nil
}

func (p *Pipeline) summarizeAudio(ctx context.Context, logger *slog.Logger, item content.Item) (summary.Record, error) {
	ws, err := p.newWorkspace(item.ID)
	if err != nil {
		return summary.Record{}, &Failure{
			Stage: StageAcquire,
			Err:   services.Wrap(services.ErrAcquisition, string(StageAcquire), "create workspace", "", err),
		}
	}
	defer func() {
		if cleanupErr := ws.Cleanup(); cleanupErr != nil {
			logging.WarnWithContext(logger, "workspace cleanup incomplete", "workspace_cleanup_failed",
				logging.String("workspace", ws.Dir()),
				logging.Error(cleanupErr),
				logging.String(logging.FieldErrorHint, "remove the directory manually or wait for the stale sweep"),
			)
		}
	}()

	rawPath, err := runStage(ctx, p, StageAcquire, func(ctx context.Context) (string, error) {
		return p.acquirer.Acquire(ctx, item.ID, ws.Dir())
	})
	if err != nil {
		return summary.Record{}, err
	}
	ws.Register(rawPath)

	audioPath, err := runStage(ctx, p, StageTranscode, func(ctx context.Context) (string, error) {
		return p.transcoder.Transcode(ctx, rawPath, ws.Dir())
	})
	if err != nil {
		p.release(logger, ws, rawPath)
		return summary.Record{}, err
	}
	ws.Register(audioPath)

	record, err := runStage(ctx, p, StageSummarize, func(ctx context.Context) (summary.Record, error) {
		return p.summarizer.Summarize(ctx, summary.Input{Item: item, AudioPath: audioPath})
	})
	p.release(logger, ws, rawPath)
	p.release(logger, ws, audioPath)
	return record, err
}

func (p *Pipeline) release(logger *slog.Logger, ws Workspace, path string) {
	if err := ws.Release(path); err != nil {
		logging.WarnWithContext(logger, "artifact release failed", "artifact_release_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "workspace removal will retry the delete"),
		)
	}
}

// runStage executes fn with stage-scoped logging, timing and failure wrapping.
func runStage[T any](ctx context.Context, p *Pipeline, stage Stage, fn func(context.Context) (T, error)) (T, error) {
	stageCtx := services.WithStage(ctx, string(stage))
	logger := logging.WithContext(stageCtx, p.logger)
	logger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))

	start := time.Now()
	result, err := fn(stageCtx)
	elapsed := time.Since(start)
	if p.observer != nil {
		p.observer(stage, elapsed, err)
	}
	if err != nil {
		logger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.Duration("duration", elapsed),
			logging.Error(err),
		)
		var zero T
		return zero, &Failure{Stage: stage, Err: err}
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("duration", elapsed),
	)
	return result, nil
}
