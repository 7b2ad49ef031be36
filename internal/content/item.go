// Package content describes items published to the monitored collection.
package content

import (
	"net/url"
	"strings"
	"time"
)

// Visibility is the publication status reported by the source.
type Visibility string

const (
	Public   Visibility = "public"
	Unlisted Visibility = "unlisted"
	Private  Visibility = "private"
	Unknown  Visibility = "unknown"
)

// ParseVisibility maps a source privacy status onto a Visibility. Anything it
// does not recognise is Unknown, which is never eligible for processing.
func ParseVisibility(value string) Visibility {
	switch Visibility(strings.ToLower(strings.TrimSpace(value))) {
	case Public:
		return Public
	case Unlisted:
		return Unlisted
	case Private:
		return Private
	default:
		return Unknown
	}
}

// Item is a single published entry. Items are treated as immutable once fetched.
type Item struct {
	ID          string
	PublishedAt time.Time
	Visibility  Visibility
	Title       string
	Description string
}

// Eligible reports whether the item may be selected for processing.
func (i Item) Eligible() bool {
	return i.Visibility == Public
}

const watchBaseURL = "https://www.youtube.com/watch"

// WatchURL returns the canonical watch page for an item identifier.
func WatchURL(id string) string {
	return watchBaseURL + "?v=" + url.QueryEscape(id)
}
