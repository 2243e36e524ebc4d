// Package core contains the business logic for MultiAgent Developer:
// backlog card parsing, question tracking, human-in-the-loop interaction,
// codebase analysis, and crew orchestration.
package core

import (
	"strings"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

// extractor pairs a format-detection predicate with its decoder. Adding a
// new input format means appending another entry to the parser's list.
type extractor struct {
	format   string
	canParse func(data string) bool
	parse    func(data string) (*models.BacklogCard, error)
}

// CardParser normalizes raw backlog card text into a BacklogCard. It holds
// its extractors in a fixed precedence order encoding detection specificity:
// JSON (strict bracket framing) before Markdown (leading "# ") before plain
// text. The plain-text extractor matches anything and must stay last.
type CardParser struct {
	extractors []extractor
}

// NewCardParser creates a CardParser with the standard extractor set.
func NewCardParser() *CardParser {
	return &CardParser{
		extractors: []extractor{
			{format: models.FormatJSON, canParse: canParseJSON, parse: parseJSON},
			{format: models.FormatMarkdown, canParse: canParseMarkdown, parse: parseMarkdown},
			{format: models.FormatPlainText, canParse: canParsePlainText, parse: parsePlainText},
		},
	}
}

// Parse decodes data into a BacklogCard. A recognized formatHint ("json",
// "markdown", "plain_text") bypasses detection and forces that extractor
// even where detection would disagree; any other hint value falls through
// to auto-detection.
func (p *CardParser) Parse(data string, formatHint string) (*models.BacklogCard, error) {
	data = strings.TrimSpace(data)

	if formatHint != "" {
		hint := strings.ToLower(formatHint)
		for _, ex := range p.extractors {
			if ex.format == hint {
				return ex.parse(data)
			}
		}
	}

	for _, ex := range p.extractors {
		if ex.canParse(data) {
			return ex.parse(data)
		}
	}

	// Unreachable while the plain-text extractor is registered; kept as a
	// guard against future extractor removal.
	return nil, &ParsingError{Msg: "Unable to parse backlog card data"}
}
