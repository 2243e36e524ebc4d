package core

import (
	"encoding/json"
	"strings"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

// jiraStoryPointFields are checked in order; the first value that coerces
// to an integer wins, non-integer values are skipped silently.
var jiraStoryPointFields = []string{
	"customfield_10002",
	"customfield_10004",
	"story points",
	"Story Points",
}

var jiraExcludedFields = map[string]struct{}{
	"summary": {}, "description": {}, "priority": {},
	"labels": {}, "assignee": {}, "reporter": {}, "duedate": {},
}

var genericExcludedFields = map[string]struct{}{
	"title": {}, "name": {}, "description": {}, "acceptance_criteria": {},
	"priority": {}, "story_points": {}, "labels": {}, "assignee": {}, "reporter": {},
}

func canParseJSON(data string) bool {
	data = strings.TrimSpace(data)
	return strings.HasPrefix(data, "{") && strings.HasSuffix(data, "}")
}

// parseJSON decodes a JSON card, branching on a top-level "fields" key:
// present means an issue-tracker API payload, absent means a flat generic
// object.
func parseJSON(data string) (*models.BacklogCard, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, &ParsingError{Msg: "invalid JSON", Err: err}
	}

	if rawFields, ok := raw["fields"]; ok {
		fields, _ := rawFields.(map[string]any)
		return parseJiraFields(fields), nil
	}
	return parseGenericJSON(raw), nil
}

func parseJiraFields(fields map[string]any) *models.BacklogCard {
	description := stringValue(fields["description"])
	return &models.BacklogCard{
		Title:              stringValue(fields["summary"]),
		Description:        description,
		OriginalFormat:     models.FormatJiraAPI,
		AcceptanceCriteria: criteriaFromDescription(description),
		Priority:           nestedString(fields, "priority", "name"),
		StoryPoints:        jiraStoryPoints(fields),
		Labels:             stringSlice(fields["labels"]),
		Assignee:           nestedString(fields, "assignee", "displayName"),
		Reporter:           nestedString(fields, "reporter", "displayName"),
		DueDate:            parseDate(stringValue(fields["duedate"])),
		CustomFields:       customFields(fields, jiraExcludedFields),
	}
}

func parseGenericJSON(data map[string]any) *models.BacklogCard {
	var title string
	if v, ok := data["title"]; ok {
		title = stringValue(v)
	} else {
		title = stringValue(data["name"])
	}

	return &models.BacklogCard{
		Title:              title,
		Description:        stringValue(data["description"]),
		OriginalFormat:     models.FormatJSON,
		AcceptanceCriteria: stringSlice(data["acceptance_criteria"]),
		Priority:           stringValue(data["priority"]),
		StoryPoints:        intPtr(data["story_points"]),
		Labels:             stringSlice(data["labels"]),
		Assignee:           stringValue(data["assignee"]),
		Reporter:           stringValue(data["reporter"]),
		CustomFields:       customFields(data, genericExcludedFields),
	}
}

func jiraStoryPoints(fields map[string]any) *int {
	for _, name := range jiraStoryPointFields {
		v, ok := fields[name]
		if !ok {
			continue
		}
		if n, ok := toInt(v); ok {
			return &n
		}
	}
	return nil
}

// customFields copies every field not claimed by a named card field. The
// result is always non-nil so callers can treat it as a plain map.
func customFields(fields map[string]any, excluded map[string]struct{}) map[string]any {
	custom := make(map[string]any)
	for k, v := range fields {
		if _, skip := excluded[k]; !skip {
			custom[k] = v
		}
	}
	return custom
}

// criteriaFromDescription scans description lines for an acceptance-criteria
// heading ("acceptance criteria" anywhere in the line, or an "ac:" prefix,
// case-insensitive), then collects subsequent bullet lines until a non-bullet
// non-blank line closes the section.
func criteriaFromDescription(description string) []string {
	if description == "" {
		return nil
	}

	var criteria []string
	inSection := false

	for _, line := range strings.Split(description, "\n") {
		lower := strings.ToLower(strings.TrimSpace(line))

		if strings.Contains(lower, "acceptance criteria") || strings.HasPrefix(lower, "ac:") {
			inSection = true
			continue
		}

		if !inSection {
			continue
		}

		stripped := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(stripped, "-"), strings.HasPrefix(stripped, "*"):
			criteria = append(criteria, strings.TrimSpace(stripped[1:]))
		case stripped != "":
			inSection = false
		}
	}

	return criteria
}
