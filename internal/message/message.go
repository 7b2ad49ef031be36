// Package message renders a summary record into the text that gets published.
package message

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"

	"tubepost/internal/summary"
)

// Message is publish-ready text plus the link it announces.
type Message struct {
	Text   string
	URL    string
	ItemID string
}

var (
	strictPolicy = bluemonday.StrictPolicy()
	blankRuns    = regexp.MustCompile(`\n{3,}`)
	trailingWS   = regexp.MustCompile(`[ \t]+\n`)
)

// Format lays out the record as:
//
//	<title>
//
//	<body>
//
//	<url>
//
// Markup is stripped and text is NFC-normalized. Format fails only when a
// required part is empty after cleaning.
func Format(record summary.Record, url string) (Message, error) {
	title := Clean(record.Title)
	body := Clean(record.Body)
	url = strings.TrimSpace(url)
	switch {
	case title == "":
		return Message{}, errMissing("title")
	case body == "":
		return Message{}, errMissing("summary")
	case url == "":
		return Message{}, errMissing("url")
	}
	text := title + "\n\n" + body + "\n\n" + url
	return Message{Text: text, URL: url}, nil
}

// Clean strips HTML, decodes entities and normalizes whitespace and Unicode.
func Clean(value string) string {
	stripped := html.UnescapeString(strictPolicy.Sanitize(value))
	stripped = strings.ReplaceAll(stripped, "\r\n", "\n")
	stripped = trailingWS.ReplaceAllString(stripped, "\n")
	stripped = blankRuns.ReplaceAllString(stripped, "\n\n")
	return strings.TrimSpace(norm.NFC.String(stripped))
}

type missingFieldError struct {
	field string
}

func (e missingFieldError) Error() string {
	return "message: " + e.field + " is empty"
}

func errMissing(field string) error {
	return missingFieldError{field: field}
}
