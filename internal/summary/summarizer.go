package summary

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tubepost/internal/content"
	"tubepost/internal/logging"
	"tubepost/internal/services"
	"tubepost/internal/services/llm"
	"tubepost/internal/services/youtube"
)

// Completer issues a JSON-mode chat completion.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, audio ...llm.Audio) (string, error)
}

// PageReader fetches watch-page metadata for title-mode summaries.
type PageReader interface {
	Metadata(ctx context.Context, id string) (youtube.PageMetadata, error)
}

// Input is what a single summarization sees. AudioPath is empty in title mode.
type Input struct {
	Item      content.Item
	AudioPath string
}

// Summarizer produces a Record for an item.
type Summarizer struct {
	client    Completer
	pages     PageReader
	directive string
	logger    *slog.Logger
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithPageReader enables description scraping in title mode.
func WithPageReader(pages PageReader) Option {
	return func(s *Summarizer) {
		s.pages = pages
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Summarizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Summarizer that writes in lang with the given style.
func New(client Completer, lang, style string, opts ...Option) *Summarizer {
	s := &Summarizer{
		client:    client,
		directive: Directive(lang, style),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize sends the audio (when present) or the title and description to the
// model and parses the reply.
func (s *Summarizer) Summarize(ctx context.Context, in Input) (Record, error) {
	if s.client == nil {
		return Record{}, services.Wrap(services.ErrSummarization, "summarize", "complete", "summarization client unavailable", nil)
	}

	var (
		raw string
		err error
	)
	if strings.TrimSpace(in.AudioPath) != "" {
		raw, err = s.summarizeAudio(ctx, in)
	} else {
		raw, err = s.client.CompleteJSON(ctx, s.directive, titlePrompt(in.Item.Title, s.description(ctx, in.Item)))
	}
	if err != nil {
		if errors.Is(err, services.ErrSummarization) {
			return Record{}, err
		}
		return Record{}, services.Wrap(services.ErrSummarization, "summarize", "complete", "", err)
	}
	return ParseRecord(raw)
}

func (s *Summarizer) summarizeAudio(ctx context.Context, in Input) (string, error) {
	data, err := os.ReadFile(in.AudioPath)
	if err != nil {
		return "", services.Wrap(services.ErrSummarization, "summarize", "read audio", in.AudioPath, err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(in.AudioPath)), ".")
	return s.client.CompleteJSON(ctx, s.directive, audioPrompt(in.Item.Title), llm.Audio{Data: data, Format: format})
}

// description prefers the scraped watch-page description and falls back to the
// one reported by the source.
func (s *Summarizer) description(ctx context.Context, item content.Item) string {
	if s.pages == nil {
		return item.Description
	}
	meta, err := s.pages.Metadata(ctx, item.ID)
	if err != nil {
		logging.WarnWithContext(s.logger, "watch page scrape failed; using source description", "summary_scrape_failed",
			logging.String(logging.FieldItemID, item.ID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "summary is based on the title and source description"),
		)
		return item.Description
	}
	if desc := strings.TrimSpace(meta.Description); desc != "" {
		return desc
	}
	return item.Description
}
