// Package mcp provides an MCP (Model Context Protocol) server that exposes
// card parsing, human interaction, and codebase analysis as MCP tools for AI
// coding assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/core"
	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

// Interactor is the slice of the interaction service the tools need. It is
// an interface so tests can script answers.
type Interactor interface {
	AskQuestion(question, context string) string
	SendUpdate(message string)
}

// Server wraps the card-processing services and exposes them as MCP tools.
type Server struct {
	server      *gomcp.Server
	parser      *core.CardParser
	interaction Interactor
	analyzer    *core.CodebaseAnalyzer
}

// NewServer creates a new MCP server. interaction may be nil when no
// messaging channel is configured; the ask_user and send_update tools then
// report that interaction is unavailable.
func NewServer(parser *core.CardParser, interaction Interactor, analyzer *core.CodebaseAnalyzer, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		parser:      parser,
		interaction: interaction,
		analyzer:    analyzer,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "mad", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type parseCardInput struct {
	Data   string `json:"data" jsonschema:"required,the raw card content (JSON, markdown, or plain text)"`
	Format string `json:"format,omitempty" jsonschema:"optional format hint: json, markdown, or plain_text"`
}

type parseCardOutput struct {
	Title              string         `json:"title"`
	Description        string         `json:"description,omitempty"`
	AcceptanceCriteria []string       `json:"acceptance_criteria,omitempty"`
	Priority           string         `json:"priority,omitempty"`
	StoryPoints        *int           `json:"story_points,omitempty"`
	Labels             []string       `json:"labels,omitempty"`
	Assignee           string         `json:"assignee,omitempty"`
	Reporter           string         `json:"reporter,omitempty"`
	DueDate            string         `json:"due_date,omitempty"`
	OriginalFormat     string         `json:"original_format"`
	CustomFields       map[string]any `json:"custom_fields,omitempty"`
	Summary            string         `json:"summary"`
}

type askUserInput struct {
	Question string `json:"question" jsonschema:"required,the question to put to the human"`
	Context  string `json:"context,omitempty" jsonschema:"optional context shown with the question"`
}

type askUserOutput struct {
	Answer   string `json:"answer"`
	Answered bool   `json:"answered"`
}

type sendUpdateInput struct {
	Message string `json:"message" jsonschema:"required,the progress update to post to the session channel"`
}

type sendUpdateOutput struct {
	Message string `json:"message"`
}

type analyzeCodebaseInput struct {
	Path string `json:"path" jsonschema:"required,the project directory to analyze"`
}

type analyzeCodebaseOutput struct {
	Languages  []string `json:"languages"`
	Frameworks []string `json:"frameworks"`
	KeyFiles   []string `json:"key_files"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "parse_card",
		Description: "Parse a backlog card from JSON, markdown, or plain text into a normalized structure with title, description, acceptance criteria, and metadata.",
	}, s.handleParseCard)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "ask_user",
		Description: "Ask the human a question over the configured channel and wait for the reply. Returns the answer, or a timeout notice if no reply arrives.",
	}, s.handleAskUser)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "send_update",
		Description: "Post a progress update to the active session channel. Fire-and-forget.",
	}, s.handleSendUpdate)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "analyze_codebase",
		Description: "Scan a project directory and report detected languages, frameworks, and key build files.",
	}, s.handleAnalyzeCodebase)
}

// --- Tool handlers ---

func (s *Server) handleParseCard(_ context.Context, _ *gomcp.CallToolRequest, input parseCardInput) (*gomcp.CallToolResult, parseCardOutput, error) {
	if input.Data == "" {
		return errorResult("data is required"), parseCardOutput{}, nil
	}

	card, err := s.parser.Parse(input.Data, input.Format)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing card: %s", err)), parseCardOutput{}, nil
	}

	return nil, cardToOutput(card), nil
}

func (s *Server) handleAskUser(_ context.Context, _ *gomcp.CallToolRequest, input askUserInput) (*gomcp.CallToolResult, askUserOutput, error) {
	if input.Question == "" {
		return errorResult("question is required"), askUserOutput{}, nil
	}
	if s.interaction == nil {
		return errorResult("interaction service not available (no channel configured)"), askUserOutput{}, nil
	}

	answer := s.interaction.AskQuestion(input.Question, input.Context)
	out := askUserOutput{
		Answer:   answer,
		Answered: answer != core.NoResponseAnswer,
	}
	return nil, out, nil
}

func (s *Server) handleSendUpdate(_ context.Context, _ *gomcp.CallToolRequest, input sendUpdateInput) (*gomcp.CallToolResult, sendUpdateOutput, error) {
	if input.Message == "" {
		return errorResult("message is required"), sendUpdateOutput{}, nil
	}
	if s.interaction == nil {
		return errorResult("interaction service not available (no channel configured)"), sendUpdateOutput{}, nil
	}

	s.interaction.SendUpdate(input.Message)
	return nil, sendUpdateOutput{Message: "update sent"}, nil
}

func (s *Server) handleAnalyzeCodebase(_ context.Context, _ *gomcp.CallToolRequest, input analyzeCodebaseInput) (*gomcp.CallToolResult, analyzeCodebaseOutput, error) {
	if input.Path == "" {
		return errorResult("path is required"), analyzeCodebaseOutput{}, nil
	}

	info, err := s.analyzer.Analyze(input.Path)
	if err != nil {
		return errorResult(fmt.Sprintf("analyzing codebase: %s", err)), analyzeCodebaseOutput{}, nil
	}

	out := analyzeCodebaseOutput{
		Languages:  info.Languages,
		Frameworks: info.Frameworks,
		KeyFiles:   info.KeyFiles,
	}
	return nil, out, nil
}

// --- Helpers ---

func cardToOutput(card *models.BacklogCard) parseCardOutput {
	out := parseCardOutput{
		Title:              card.Title,
		Description:        card.Description,
		AcceptanceCriteria: card.AcceptanceCriteria,
		Priority:           card.Priority,
		StoryPoints:        card.StoryPoints,
		Labels:             card.Labels,
		Assignee:           card.Assignee,
		Reporter:           card.Reporter,
		OriginalFormat:     card.OriginalFormat,
		CustomFields:       card.CustomFields,
		Summary:            card.ToSummary(),
	}
	if card.DueDate != nil {
		out.DueDate = card.DueDate.Format(time.RFC3339)
	}
	return out
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
