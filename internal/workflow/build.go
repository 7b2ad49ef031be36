package workflow

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"tubepost/internal/config"
	"tubepost/internal/logging"
	"tubepost/internal/metrics"
	"tubepost/internal/notifications"
	"tubepost/internal/pipeline"
	"tubepost/internal/publish"
	"tubepost/internal/services/ffmpeg"
	"tubepost/internal/services/llm"
	"tubepost/internal/services/youtube"
	"tubepost/internal/services/ytdlp"
	"tubepost/internal/state"
	"tubepost/internal/summary"
)

// Build wires the production collaborators described by cfg. Call Close on
// the result to release the state store.
func Build(cfg *config.Config, logger *slog.Logger) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("workflow: config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	source, err := youtube.NewSource(cfg)
	if err != nil {
		return nil, err
	}
	recorder := metrics.New(cfg.Metrics.TextfilePath)
	processor, err := NewProcessor(cfg, logger, recorder)
	if err != nil {
		return nil, err
	}
	store, err := state.New(cfg)
	if err != nil {
		return nil, err
	}
	publisher, _ := publish.New(cfg)

	orch, err := New(Options{
		Source:            source,
		Store:             store,
		Processor:         processor,
		Publisher:         publisher,
		Notifier:          notifications.NewService(cfg),
		Metrics:           recorder,
		Logger:            logger,
		CommitOnError:     cfg.Publish.CommitOnError,
		LockPath:          cfg.Paths.LockPath,
		StagingDir:        cfg.Paths.StagingDir,
		StaleWorkspaceAge: time.Duration(cfg.Paths.StaleWorkspaceHours) * time.Hour,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return orch, nil
}

// NewProcessor builds the artifact pipeline for cfg.Summary.Input. Stage
// timings are reported to recorder, which may be nil.
func NewProcessor(cfg *config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*pipeline.Pipeline, error) {
	client := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})
	summaryOpts := []summary.Option{summary.WithLogger(logger)}
	opts := pipeline.Options{
		Input:      cfg.Summary.Input,
		StagingDir: cfg.Paths.StagingDir,
		Logger:     logger,
		Observer: func(stage pipeline.Stage, elapsed time.Duration, err error) {
			recorder.ObserveStage(string(stage), elapsed, err)
		},
	}
	if cfg.Summary.Input == config.SummaryInputTitle {
		scraper := youtube.NewScraper(cfg.Source.WatchURL, &http.Client{Timeout: cfg.SourceTimeout()})
		summaryOpts = append(summaryOpts, summary.WithPageReader(scraper))
	} else {
		opts.Acquirer = ytdlp.New(ytdlp.Config{
			Binary:  cfg.Acquire.YtDlpBinary,
			Format:  cfg.Acquire.Format,
			Timeout: time.Duration(cfg.Acquire.TimeoutSeconds) * time.Second,
		})
		opts.Transcoder = ffmpeg.New(ffmpeg.Config{
			Binary:     cfg.Transcode.FFmpegBinary,
			SampleRate: cfg.Transcode.SampleRate,
			Codec:      cfg.Transcode.Codec,
			Timeout:    time.Duration(cfg.Transcode.TimeoutSeconds) * time.Second,
		})
	}
	opts.Summarizer = summary.New(client, cfg.Summary.Language, cfg.Summary.Style, summaryOpts...)
	return pipeline.New(opts)
}

// Close releases the state store.
func (o *Orchestrator) Close() error {
	if o == nil || o.store == nil {
		return nil
	}
	return o.store.Close()
}
