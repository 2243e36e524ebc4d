package models

import (
	"fmt"
	"strings"
	"time"
)

// Card origin format tags, set by the extractor that produced the card.
const (
	FormatJiraAPI   = "jira_api"
	FormatJSON      = "json"
	FormatMarkdown  = "markdown"
	FormatPlainText = "plain_text"
)

// BacklogCard is the normalized representation of a task from any backlog
// system. Title, Description, and OriginalFormat are always set (possibly to
// the empty string) by the producing extractor. Cards are value objects: no
// component mutates one after creation.
type BacklogCard struct {
	Title              string         `json:"title" yaml:"title"`
	Description        string         `json:"description" yaml:"description"`
	OriginalFormat     string         `json:"original_format" yaml:"original_format"`
	AcceptanceCriteria []string       `json:"acceptance_criteria,omitempty" yaml:"acceptance_criteria,omitempty"`
	Priority           string         `json:"priority,omitempty" yaml:"priority,omitempty"`
	StoryPoints        *int           `json:"story_points,omitempty" yaml:"story_points,omitempty"`
	Labels             []string       `json:"labels,omitempty" yaml:"labels,omitempty"`
	Assignee           string         `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Reporter           string         `json:"reporter,omitempty" yaml:"reporter,omitempty"`
	DueDate            *time.Time     `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	CustomFields       map[string]any `json:"custom_fields,omitempty" yaml:"custom_fields,omitempty"`
	Attachments        []string       `json:"attachments,omitempty" yaml:"attachments,omitempty"`
}

// ToSummary renders the card as a fixed-order plain-text block. The exact
// layout is a stable contract: prompt-construction code embeds it verbatim.
func (c *BacklogCard) ToSummary() string {
	priority := c.Priority
	if priority == "" {
		priority = "Not set"
	}

	// A zero estimate reads the same as no estimate.
	points := "Not set"
	if c.StoryPoints != nil && *c.StoryPoints != 0 {
		points = fmt.Sprintf("%d", *c.StoryPoints)
	}

	labels := "None"
	if len(c.Labels) > 0 {
		labels = strings.Join(c.Labels, ", ")
	}

	assignee := c.Assignee
	if assignee == "" {
		assignee = "Not assigned"
	}

	criteria := "None specified"
	if len(c.AcceptanceCriteria) > 0 {
		lines := make([]string, len(c.AcceptanceCriteria))
		for i, ac := range c.AcceptanceCriteria {
			lines[i] = "- " + ac
		}
		criteria = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`TITLE: %s
PRIORITY: %s
STORY POINTS: %s
LABELS: %s
ASSIGNEE: %s

DESCRIPTION:
%s

ACCEPTANCE CRITERIA:
%s`, c.Title, priority, points, labels, assignee, c.Description, criteria)
}

// ToMarkdown renders the card as a markdown document: title heading,
// description section, then optional acceptance-criteria and metadata
// sections, each included only when present.
func (c *BacklogCard) ToMarkdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", c.Title)
	fmt.Fprintf(&b, "## Description\n%s\n\n", c.Description)

	if len(c.AcceptanceCriteria) > 0 {
		b.WriteString("## Acceptance Criteria\n")
		for i, ac := range c.AcceptanceCriteria {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("- " + ac)
		}
		b.WriteString("\n\n")
	}

	var metadata []string
	if c.Priority != "" {
		metadata = append(metadata, "**Priority:** "+c.Priority)
	}
	if c.StoryPoints != nil && *c.StoryPoints != 0 {
		metadata = append(metadata, fmt.Sprintf("**Story Points:** %d", *c.StoryPoints))
	}
	if len(c.Labels) > 0 {
		metadata = append(metadata, "**Labels:** "+strings.Join(c.Labels, ", "))
	}
	if c.Assignee != "" {
		metadata = append(metadata, "**Assignee:** "+c.Assignee)
	}

	if len(metadata) > 0 {
		b.WriteString("## Metadata\n" + strings.Join(metadata, "\n") + "\n")
	}

	return b.String()
}
