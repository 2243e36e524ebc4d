package models

import (
	"strings"
	"testing"
)

func intp(n int) *int {
	return &n
}

func TestToSummary_FullCard(t *testing.T) {
	card := BacklogCard{
		Title:              "Fix login bug",
		Description:        "Users cannot log in with SSO.",
		AcceptanceCriteria: []string{"SSO login works", "Error shown on failure"},
		Priority:           "High",
		StoryPoints:        intp(5),
		Labels:             []string{"auth", "bug"},
		Assignee:           "Jane Doe",
	}

	want := `TITLE: Fix login bug
PRIORITY: High
STORY POINTS: 5
LABELS: auth, bug
ASSIGNEE: Jane Doe

DESCRIPTION:
Users cannot log in with SSO.

ACCEPTANCE CRITERIA:
- SSO login works
- Error shown on failure`

	if got := card.ToSummary(); got != want {
		t.Fatalf("summary mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestToSummary_EmptyFieldsUsePlaceholders(t *testing.T) {
	card := BacklogCard{Title: "Bare card", Description: "Something"}

	got := card.ToSummary()
	for _, want := range []string{
		"PRIORITY: Not set",
		"STORY POINTS: Not set",
		"LABELS: None",
		"ASSIGNEE: Not assigned",
		"None specified",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestZeroStoryPointsRenderAsUnset(t *testing.T) {
	card := BacklogCard{Title: "Bare card", Description: "Something", StoryPoints: intp(0)}

	if got := card.ToSummary(); !strings.Contains(got, "STORY POINTS: Not set") {
		t.Errorf("zero story points should read as unset:\n%s", got)
	}
	if got := card.ToMarkdown(); strings.Contains(got, "Story Points") {
		t.Errorf("zero story points should omit the metadata line:\n%s", got)
	}
}

func TestToMarkdown_FullCard(t *testing.T) {
	card := BacklogCard{
		Title:              "Add search",
		Description:        "Add a search box to the header.",
		AcceptanceCriteria: []string{"Search box visible", "Results update live"},
		Priority:           "Medium",
		StoryPoints:        intp(3),
		Labels:             []string{"ui"},
		Assignee:           "Sam",
	}

	got := card.ToMarkdown()

	if !strings.HasPrefix(got, "# Add search\n\n") {
		t.Errorf("missing title heading:\n%s", got)
	}
	if !strings.Contains(got, "## Description\nAdd a search box to the header.\n") {
		t.Errorf("missing description section:\n%s", got)
	}
	if !strings.Contains(got, "## Acceptance Criteria\n- Search box visible\n- Results update live\n") {
		t.Errorf("missing acceptance criteria section:\n%s", got)
	}
	if !strings.Contains(got, "## Metadata\n**Priority:** Medium\n**Story Points:** 3\n**Labels:** ui\n**Assignee:** Sam\n") {
		t.Errorf("missing metadata section:\n%s", got)
	}
}

func TestToMarkdown_OmitsEmptySections(t *testing.T) {
	card := BacklogCard{Title: "Minimal", Description: "Just a description."}

	got := card.ToMarkdown()

	if strings.Contains(got, "## Acceptance Criteria") {
		t.Errorf("unexpected acceptance criteria section:\n%s", got)
	}
	if strings.Contains(got, "## Metadata") {
		t.Errorf("unexpected metadata section:\n%s", got)
	}
}
