package storage

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func genCardID(t *rapid.T) string {
	n := rapid.IntRange(0, 99999).Draw(t, "cardNum")
	return fmt.Sprintf("CARD-%05d", n)
}

func genAlphaString(t *rapid.T, label string, minLen, maxLen int) string {
	letters := "abcdefghijklmnopqrstuvwxyz"
	n := rapid.IntRange(minLen, maxLen).Draw(t, label+"Len")
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rapid.IntRange(0, len(letters)-1).Draw(t, label+"Char")]
	}
	return string(b)
}

func genCardEntry(t *rapid.T) CardEntry {
	statuses := []string{CardStatusParsed, CardStatusCompleted, CardStatusFailed}
	formats := []string{"jira_api", "json", "markdown", "plain_text"}

	nLabels := rapid.IntRange(0, 3).Draw(t, "nLabels")
	labels := make([]string, nLabels)
	for i := range labels {
		labels[i] = genAlphaString(t, fmt.Sprintf("label%d", i), 1, 10)
	}

	entry := CardEntry{
		ID:        genCardID(t),
		Title:     genAlphaString(t, "title", 1, 40),
		Format:    formats[rapid.IntRange(0, len(formats)-1).Draw(t, "formatIdx")],
		Status:    statuses[rapid.IntRange(0, len(statuses)-1).Draw(t, "statusIdx")],
		Priority:  genAlphaString(t, "priority", 0, 8),
		Assignee:  genAlphaString(t, "assignee", 0, 12),
		Labels:    labels,
		Processed: "2026-08-01T00:00:00Z",
	}
	if rapid.Bool().Draw(t, "hasPoints") {
		points := rapid.IntRange(0, 100).Draw(t, "points")
		entry.StoryPoint = &points
	}
	return entry
}

// Save then Load preserves every entry.
func TestCardStoreRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dir := t.TempDir()
		store := NewCardStore(dir)

		n := rapid.IntRange(1, 10).Draw(rt, "nEntries")
		entries := make(map[string]CardEntry, n)
		for i := 0; i < n; i++ {
			entry := genCardEntry(rt)
			if _, dup := entries[entry.ID]; dup {
				continue
			}
			entries[entry.ID] = entry
			if err := store.AddCard(entry); err != nil {
				rt.Fatalf("unexpected error: %v", err)
			}
		}

		if err := store.Save(); err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}

		reloaded := NewCardStore(dir)
		if err := reloaded.Load(); err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}

		for id, want := range entries {
			got, err := reloaded.GetCard(id)
			if err != nil {
				rt.Fatalf("card %s lost in round trip: %v", id, err)
			}
			if got.Title != want.Title || got.Status != want.Status || got.Format != want.Format {
				rt.Fatalf("card %s changed: want %+v, got %+v", id, want, got)
			}
			if (got.StoryPoint == nil) != (want.StoryPoint == nil) {
				rt.Fatalf("card %s story points changed: want %v, got %v", id, want.StoryPoint, got.StoryPoint)
			}
		}
	})
}

// Filtering never invents entries: every result matches the filter.
func TestFilterCardsMatchesCriteria(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store := NewCardStore(t.TempDir())

		n := rapid.IntRange(0, 10).Draw(rt, "nEntries")
		for i := 0; i < n; i++ {
			entry := genCardEntry(rt)
			_ = store.AddCard(entry)
		}

		statuses := []string{CardStatusParsed, CardStatusCompleted, CardStatusFailed}
		status := statuses[rapid.IntRange(0, len(statuses)-1).Draw(rt, "filterStatus")]

		got, err := store.FilterCards(CardFilter{Status: []string{status}})
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		for _, e := range got {
			if e.Status != status {
				rt.Fatalf("entry %s has status %q, filter wanted %q", e.ID, e.Status, status)
			}
		}
	})
}
