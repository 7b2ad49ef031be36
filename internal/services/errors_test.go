package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"tubepost/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTranscode, "transcode", "ffmpeg", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTranscode) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcode", "ffmpeg", "failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrConfiguration, "config", "", "youtube api key missing", nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
	if strings.Contains(err.Error(), "%!") {
		t.Fatalf("unexpected formatting artifact in %q", err.Error())
	}
}

func TestWrapWithoutMarker(t *testing.T) {
	if err := services.Wrap(nil, "", "", "", nil); err == nil || err.Error() != "service failure" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestKindMapping(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrSourceQuery, "detect", "playlist items", "", errors.New("503")), "source_query_error"},
		{services.Wrap(services.ErrStateStore, "detect", "read", "", nil), "state_store_error"},
		{services.Wrap(services.ErrAcquisition, "acquire", "", "", nil), "acquisition_error"},
		{services.Wrap(services.ErrTranscode, "transcode", "", "", nil), "transcode_error"},
		{services.Wrap(services.ErrSummarization, "summarize", "", "", nil), "summarization_error"},
		{services.Wrap(services.ErrSummaryParse, "summarize", "", "", nil), "summary_parse_error"},
		{services.Wrap(services.ErrPublish, "publish", "", "", nil), "publish_error"},
		{services.Wrap(services.ErrConfiguration, "config", "", "", nil), "configuration_error"},
		{fmt.Errorf("outer: %w", context.Canceled), "canceled"},
		{errors.New("plain"), "unknown"},
	}
	for _, tc := range tests {
		if got := services.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
