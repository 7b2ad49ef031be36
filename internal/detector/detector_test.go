package detector_test

import (
	"testing"
	"time"

	"tubepost/internal/content"
	"tubepost/internal/detector"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func item(id string, offset time.Duration, v content.Visibility) content.Item {
	return content.Item{ID: id, PublishedAt: base.Add(offset), Visibility: v}
}

func TestSelectNewestPicksLatestPublic(t *testing.T) {
	candidates := []content.Item{
		item("a", 0, content.Public),
		item("b", 2*time.Hour, content.Private),
		item("c", time.Hour, content.Public),
		item("d", 3*time.Hour, content.Unlisted),
		item("e", 30*time.Minute, content.Public),
	}
	got, ok := detector.SelectNewest(candidates)
	if !ok {
		t.Fatal("expected an eligible item")
	}
	if got.ID != "c" {
		t.Fatalf("expected c, got %q", got.ID)
	}
	for _, candidate := range candidates {
		if candidate.Visibility == content.Public && candidate.PublishedAt.After(got.PublishedAt) {
			t.Fatalf("public item %q is newer than selection", candidate.ID)
		}
	}
}

func TestSelectNewestAllPrivate(t *testing.T) {
	candidates := []content.Item{
		item("a", 0, content.Private),
		item("b", time.Hour, content.Unknown),
	}
	if _, ok := detector.SelectNewest(candidates); ok {
		t.Fatal("expected no eligible item")
	}
	if _, ok := detector.SelectNewest(nil); ok {
		t.Fatal("expected no eligible item for empty input")
	}
}

func TestSelectNewestTieBreakIsOrderIndependent(t *testing.T) {
	forward := []content.Item{
		item("zeta", time.Hour, content.Public),
		item("Alpha", time.Hour, content.Public),
		item("alpha", time.Hour, content.Public),
	}
	reverse := []content.Item{forward[2], forward[1], forward[0]}

	a, _ := detector.SelectNewest(forward)
	b, _ := detector.SelectNewest(reverse)
	if a.ID != "Alpha" || b.ID != "Alpha" {
		t.Fatalf("expected bytewise-smallest ID Alpha, got %q and %q", a.ID, b.ID)
	}
}

func TestIsNew(t *testing.T) {
	candidate := item("abc", 0, content.Public)
	if !detector.IsNew(candidate, "", false) {
		t.Fatal("absent state must be new")
	}
	if !detector.IsNew(candidate, "xyz", true) {
		t.Fatal("different id must be new")
	}
	if detector.IsNew(candidate, "abc", true) {
		t.Fatal("same id must not be new")
	}
}

func TestScenarioNewItemThenNoChange(t *testing.T) {
	candidates := []content.Item{
		item("X1", 0, content.Public),
		item("X2", time.Hour, content.Private),
	}
	newest, ok := detector.SelectNewest(candidates)
	if !ok || newest.ID != "X1" {
		t.Fatalf("expected X1, got %q (ok=%v)", newest.ID, ok)
	}
	if !detector.IsNew(newest, "X0", true) {
		t.Fatal("expected X1 to be new against X0")
	}
	if detector.IsNew(newest, "X1", true) {
		t.Fatal("expected no change after commit")
	}
}
