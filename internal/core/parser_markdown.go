package core

import (
	"strings"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

var markdownACHeadings = []string{"## Acceptance Criteria", "## AC"}

var metadataPrefixes = []string{"priority:", "story points:", "labels:", "assignee:"}

func canParseMarkdown(data string) bool {
	return strings.HasPrefix(strings.TrimSpace(data), "# ")
}

// parseMarkdown walks the document line by line: the first "# " heading is
// the title, bullets under an acceptance-criteria heading become criteria,
// any other "##" heading opens an ignored section, and remaining
// description-section lines are either metadata assignments or description
// text.
func parseMarkdown(data string) (*models.BacklogCard, error) {
	lines := strings.Split(strings.TrimSpace(data), "\n")

	card := &models.BacklogCard{OriginalFormat: models.FormatMarkdown}
	card.Title = markdownTitle(lines)

	var description []string
	section := "description"

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "# "):
			// Title line, handled above.
		case isACHeading(line):
			section = "acceptance_criteria"
		case strings.HasPrefix(line, "##"):
			section = "other"
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			if section == "acceptance_criteria" {
				card.AcceptanceCriteria = append(card.AcceptanceCriteria, strings.TrimSpace(line[2:]))
			}
		case section == "description" && strings.TrimSpace(line) != "":
			if !isMetadataLine(line) {
				description = append(description, strings.TrimSpace(line))
			}
		}
	}

	card.Description = strings.Join(description, "\n")
	applyMetadataLines(lines, card)
	return card, nil
}

func markdownTitle(lines []string) string {
	for _, line := range lines {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

func isACHeading(line string) bool {
	for _, heading := range markdownACHeadings {
		if strings.HasPrefix(line, heading) {
			return true
		}
	}
	return false
}

func isMetadataLine(line string) bool {
	lower := strings.ToLower(line)
	for _, prefix := range metadataPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// applyMetadataLines parses "key: value" metadata lines into structured card
// fields. Labels are comma-split and trimmed; story points that fail integer
// coercion are dropped.
func applyMetadataLines(lines []string, card *models.BacklogCard) {
	for _, line := range lines {
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "priority:"):
			card.Priority = strings.TrimSpace(metadataValue(line))
		case strings.HasPrefix(lower, "story points:"):
			if n, ok := toInt(metadataValue(line)); ok {
				card.StoryPoints = &n
			}
		case strings.HasPrefix(lower, "labels:"):
			card.Labels = splitLabels(metadataValue(line))
		case strings.HasPrefix(lower, "assignee:"):
			card.Assignee = strings.TrimSpace(metadataValue(line))
		}
	}
}

func metadataValue(line string) string {
	_, after, _ := strings.Cut(line, ":")
	return after
}

func splitLabels(value string) []string {
	parts := strings.Split(value, ",")
	labels := make([]string, len(parts))
	for i, p := range parts {
		labels[i] = strings.TrimSpace(p)
	}
	return labels
}
