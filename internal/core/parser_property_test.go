package core

import (
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

func genTitleWord(t *rapid.T, label string) string {
	letters := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	n := rapid.IntRange(1, 12).Draw(t, label+"Len")
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rapid.IntRange(0, len(letters)-1).Draw(t, label+"Char")]
	}
	return string(b)
}

// Markdown rendered from a card parses back with the same title and
// acceptance criteria.
func TestMarkdownRoundTrip(t *testing.T) {
	parser := NewCardParser()

	rapid.Check(t, func(rt *rapid.T) {
		title := genTitleWord(rt, "title")
		description := genTitleWord(rt, "desc")

		nAC := rapid.IntRange(0, 4).Draw(rt, "nAC")
		criteria := make([]string, nAC)
		for i := range criteria {
			criteria[i] = genTitleWord(rt, fmt.Sprintf("ac%d", i))
		}

		card := models.BacklogCard{
			Title:              title,
			Description:        description,
			AcceptanceCriteria: criteria,
		}

		parsed, err := parser.Parse(card.ToMarkdown(), "")
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if parsed.OriginalFormat != models.FormatMarkdown {
			rt.Fatalf("expected markdown, got %q", parsed.OriginalFormat)
		}
		if parsed.Title != title {
			rt.Fatalf("title mismatch: want %q, got %q", title, parsed.Title)
		}
		if len(parsed.AcceptanceCriteria) != nAC {
			rt.Fatalf("criteria count mismatch: want %d, got %v", nAC, parsed.AcceptanceCriteria)
		}
		for i, ac := range criteria {
			if parsed.AcceptanceCriteria[i] != ac {
				rt.Fatalf("criterion %d mismatch: want %q, got %q", i, ac, parsed.AcceptanceCriteria[i])
			}
		}
	})
}

// The plain-text extractor accepts anything without erroring and always
// reports its format.
func TestPlainTextNeverErrors(t *testing.T) {
	parser := NewCardParser()

	rapid.Check(t, func(rt *rapid.T) {
		nLines := rapid.IntRange(1, 8).Draw(rt, "nLines")
		lines := make([]string, nLines)
		for i := range lines {
			lines[i] = rapid.StringMatching(`[ -~]{0,40}`).Draw(rt, fmt.Sprintf("line%d", i))
		}
		data := strings.Join(lines, "\n")

		card, err := parser.Parse(data, "plain_text")
		if err != nil {
			rt.Fatalf("unexpected error for %q: %v", data, err)
		}
		if card.OriginalFormat != models.FormatPlainText {
			rt.Fatalf("expected plain text, got %q", card.OriginalFormat)
		}
	})
}

// Summaries always carry the five header lines regardless of card content.
func TestSummaryAlwaysHasHeaderLines(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		card := models.BacklogCard{
			Title:       genTitleWord(rt, "title"),
			Description: genTitleWord(rt, "desc"),
			Priority:    rapid.SampledFrom([]string{"", "High", "Low"}).Draw(rt, "priority"),
		}

		summary := card.ToSummary()
		for _, header := range []string{"TITLE: ", "PRIORITY: ", "STORY POINTS: ", "LABELS: ", "ASSIGNEE: "} {
			if !strings.Contains(summary, header) {
				rt.Fatalf("summary missing %q:\n%s", header, summary)
			}
		}
	})
}
