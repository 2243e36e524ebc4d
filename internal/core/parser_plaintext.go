package core

import (
	"regexp"
	"strings"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

// acLinePattern recognizes "-"/"*" bullets, numbered "1." items, and an
// explicit "AC:" prefix as acceptance-criteria lines.
var acLinePattern = regexp.MustCompile(`(?i)^\s*[-*]\s*(.+)|^\s*\d+\.\s*(.+)|^AC:\s*(.+)`)

// canParsePlainText is unconditionally true: plain text is the fallback of
// last resort.
func canParsePlainText(string) bool {
	return true
}

// parsePlainText treats the first line as the title. Any acceptance-criteria
// line switches the running section permanently: unlike Markdown, the
// section never reverts to description afterwards.
func parsePlainText(data string) (*models.BacklogCard, error) {
	lines := strings.Split(strings.TrimSpace(data), "\n")

	card := &models.BacklogCard{OriginalFormat: models.FormatPlainText}
	if len(lines) > 0 {
		card.Title = lines[0]
	}

	var description []string
	section := "description"

	for _, line := range lines[1:] {
		if m := acLinePattern.FindStringSubmatch(line); m != nil {
			section = "acceptance_criteria"
			card.AcceptanceCriteria = append(card.AcceptanceCriteria, strings.TrimSpace(firstGroup(m)))
		} else if applyPlainMetadata(line, card) {
			continue
		} else if section == "description" {
			description = append(description, strings.TrimSpace(line))
		}
	}

	card.Description = strings.Join(description, "\n")
	return card, nil
}

func firstGroup(match []string) string {
	for _, g := range match[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

// applyPlainMetadata reports whether the line was a metadata assignment,
// consuming it into the card if so. The prefixes match Markdown's metadata
// lines.
func applyPlainMetadata(line string, card *models.BacklogCard) bool {
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
	default:
		return false
	}
	return true
}
