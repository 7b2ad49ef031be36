package summary

import (
	"encoding/json"
	"strings"

	"tubepost/internal/services"
	"tubepost/internal/services/llm"
)

// Record is the parsed summarization result.
type Record struct {
	Title string
	Body  string
}

type recordPayload struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// ExtractJSON returns the substring between the first '{' and the last '}'
// (inclusive). It fails when no such span exists.
func ExtractJSON(raw string) (string, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < 0 || end < start {
		return "", services.Wrap(services.ErrSummaryParse, "summarize", "extract json", "no JSON object in response: "+llm.SummarizePayloadSnippet(raw), nil)
	}
	return raw[start : end+1], nil
}

// ParseRecord extracts and decodes a Record from model output.
func ParseRecord(raw string) (Record, error) {
	fragment, err := ExtractJSON(raw)
	if err != nil {
		return Record{}, err
	}
	var payload recordPayload
	if err := json.Unmarshal([]byte(fragment), &payload); err != nil {
		return Record{}, services.Wrap(services.ErrSummaryParse, "summarize", "decode json", llm.SummarizePayloadSnippet(fragment), err)
	}
	record := Record{
		Title: strings.TrimSpace(payload.Title),
		Body:  strings.TrimSpace(payload.Summary),
	}
	if record.Title == "" || record.Body == "" {
		return Record{}, services.Wrap(services.ErrSummaryParse, "summarize", "validate", "title and summary must be non-empty", nil)
	}
	return record, nil
}
