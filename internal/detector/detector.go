// Package detector decides which item, if any, a run should process.
//
// Both functions are pure: they never touch the network or persisted state, so
// the orchestrator can call them between the source query and the pipeline.
package detector

import "tubepost/internal/content"

// SelectNewest returns the eligible item with the latest PublishedAt. Items that
// share a timestamp are ordered by ID ascending (bytewise) and the first wins,
// so the result does not depend on candidate order. The boolean is false when
// no candidate is eligible.
func SelectNewest(candidates []content.Item) (content.Item, bool) {
	var (
		best  content.Item
		found bool
	)
	for _, item := range candidates {
		if !item.Eligible() {
			continue
		}
		if !found || newer(item, best) {
			best = item
			found = true
		}
	}
	return best, found
}

func newer(a, b content.Item) bool {
	if a.PublishedAt.Equal(b.PublishedAt) {
		return a.ID < b.ID
	}
	return a.PublishedAt.After(b.PublishedAt)
}

// IsNew reports whether candidate differs from the last processed identifier.
// An absent state always yields true.
func IsNew(candidate content.Item, lastProcessedID string, found bool) bool {
	return !found || candidate.ID != lastProcessedID
}
