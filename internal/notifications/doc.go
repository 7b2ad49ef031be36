// Package notifications delivers run events via ntfy.
//
// NewService returns an ntfy-backed Service when a topic URL is configured and
// a no-op otherwise. Events the operator disabled in the [notifications]
// section are dropped without a request. Notification failures never change a
// run's outcome; callers log them at debug level and move on.
package notifications
