package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSourceQuery   = errors.New("source query error")
	ErrStateStore    = errors.New("state store error")
	ErrAcquisition   = errors.New("acquisition error")
	ErrTranscode     = errors.New("transcode error")
	ErrSummarization = errors.New("summarization error")
	ErrSummaryParse  = errors.New("summary parse error")
	ErrPublish       = errors.New("publish error")
	ErrConfiguration = errors.New("configuration error")
)

var kindLabels = []struct {
	marker error
	label  string
}{
	{ErrConfiguration, "configuration_error"},
	{ErrSourceQuery, "source_query_error"},
	{ErrStateStore, "state_store_error"},
	{ErrAcquisition, "acquisition_error"},
	{ErrTranscode, "transcode_error"},
	{ErrSummaryParse, "summary_parse_error"},
	{ErrSummarization, "summarization_error"},
	{ErrPublish, "publish_error"},
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		if err == nil {
			return errors.New(detail)
		}
		return fmt.Errorf("%s: %w", detail, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a stable snake_case label for the error's marker. Context
// cancellation reports "canceled"; unmarked errors report "unknown".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kindLabels {
		if errors.Is(err, k.marker) {
			return k.label
		}
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "unknown"
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
