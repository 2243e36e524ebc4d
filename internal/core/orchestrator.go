package core

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

// AgentRunner executes one agent prompt and returns the agent's output.
type AgentRunner interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// jsonBlockPattern grabs the outermost brace-delimited block from model
// output, tolerating prose around it.
var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Orchestrator drives a parsed card through codebase analysis, crew
// selection, and the crew's task pipeline. The interaction service is
// optional; when nil the pipeline runs without session messages.
type Orchestrator struct {
	analyzer    *CodebaseAnalyzer
	crews       *CrewFactory
	runner      AgentRunner
	interaction *InteractionService
	events      EventLogger
}

// NewOrchestrator wires the pipeline. analyzer, crews, and runner are
// required; interaction and events may be nil.
func NewOrchestrator(analyzer *CodebaseAnalyzer, crews *CrewFactory, runner AgentRunner, interaction *InteractionService, events EventLogger) (*Orchestrator, error) {
	if analyzer == nil || crews == nil || runner == nil {
		return nil, fmt.Errorf("orchestrator requires analyzer, crew factory, and runner")
	}
	return &Orchestrator{
		analyzer:    analyzer,
		crews:       crews,
		runner:      runner,
		interaction: interaction,
		events:      events,
	}, nil
}

// Execute runs the full pipeline for one card against the project at
// projectDir and returns the final crew output.
func (o *Orchestrator) Execute(ctx context.Context, card *models.BacklogCard, projectDir string) (string, error) {
	if o.interaction != nil {
		o.interaction.StartSession(card.Title)
	}
	o.logEvent("pipeline.started", map[string]any{"card": card.Title, "project": projectDir})

	codebase, err := o.analyzer.Analyze(projectDir)
	if err != nil {
		// Analysis failures degrade to an empty codebase picture rather
		// than aborting the run.
		o.logEvent("pipeline.analysis_failed", map[string]any{"error": err.Error()})
		codebase = models.CodebaseInfo{}
	}
	o.sendUpdate(fmt.Sprintf("🔍 Codebase analyzed: %d languages, %d frameworks detected",
		len(codebase.Languages), len(codebase.Frameworks)))

	analysis, err := o.analyzeCard(ctx, card, codebase)
	if err != nil {
		return "", fmt.Errorf("analyzing card: %w", err)
	}
	o.logEvent("pipeline.card_analyzed", map[string]any{"framework": analysis.Framework})
	o.sendUpdate(fmt.Sprintf("📋 Card analyzed, target framework: %s", analysis.Framework))

	crew := o.crews.Create(analysis, strings.Join(codebase.KeyFiles, ", "))
	o.sendUpdate(fmt.Sprintf("👥 Crew selected: %s (%d tasks)", crew.Name, len(crew.Tasks)))

	result, err := o.runCrew(ctx, crew)
	if err != nil {
		return "", fmt.Errorf("running crew %s: %w", crew.Name, err)
	}

	o.logEvent("pipeline.completed", map[string]any{"card": card.Title, "crew": crew.Name})
	if o.interaction != nil {
		o.interaction.SendCompletion("Implementation completed for: " + card.Title)
	}
	return result, nil
}

// analyzeCard asks the runner to map the card onto the codebase. Output that
// is not decodable JSON falls back to a default web-frontend analysis with
// the card summary as requirements.
func (o *Orchestrator) analyzeCard(ctx context.Context, card *models.BacklogCard, codebase models.CodebaseInfo) (models.AnalysisResult, error) {
	codebaseJSON, err := json.Marshal(codebase)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("encoding codebase info: %w", err)
	}

	prompt := fmt.Sprintf(`Analyze this backlog card against the codebase and answer with JSON only.

%s

Codebase:
%s

Respond with a JSON object containing: framework (string), files_to_modify
(array of strings), files_to_create (array of strings), requirements
(string), dependencies (array of strings).`, card.ToSummary(), codebaseJSON)

	output, err := o.runner.Run(ctx, prompt)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("running analysis agent: %w", err)
	}

	block := jsonBlockPattern.FindString(output)
	if block == "" {
		return models.DefaultAnalysisResult(card.ToSummary()), nil
	}
	var analysis models.AnalysisResult
	if err := json.Unmarshal([]byte(block), &analysis); err != nil {
		return models.DefaultAnalysisResult(card.ToSummary()), nil
	}
	if analysis.Framework == "" {
		analysis.Framework = "HTML/CSS/JS"
	}
	if analysis.Requirements == "" {
		analysis.Requirements = card.ToSummary()
	}
	return analysis, nil
}

// runCrew executes the crew's tasks in order, feeding each task the outputs
// of the ones before it. The last task's output is the pipeline result.
func (o *Orchestrator) runCrew(ctx context.Context, crew CrewSpec) (string, error) {
	var prior strings.Builder
	var last string

	for i, task := range crew.Tasks {
		agent := crew.Agents[min(i, len(crew.Agents)-1)]
		prompt := fmt.Sprintf("You are %s.\nGoal: %s\nBackstory: %s\n\nTask: %s\n\nExpected output: %s\n",
			agent.Role, agent.Goal, agent.Backstory, task.Description, task.ExpectedOutput)
		if prior.Len() > 0 {
			prompt += "\nOutput from previous stages:\n" + prior.String()
		}

		o.sendUpdate(fmt.Sprintf("⚙️ Running %s stage (%s)", task.Name, agent.Role))
		output, err := o.runner.Run(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("running %s task: %w", task.Name, err)
		}
		o.logEvent("pipeline.task_completed", map[string]any{"task": task.Name, "agent": agent.Role})

		fmt.Fprintf(&prior, "## %s\n%s\n\n", task.Name, output)
		last = output
	}
	return last, nil
}

func (o *Orchestrator) sendUpdate(message string) {
	if o.interaction != nil {
		o.interaction.SendUpdate(message)
	}
}

func (o *Orchestrator) logEvent(eventType string, data map[string]any) {
	if o.events != nil {
		_ = o.events.LogEvent(eventType, data)
	}
}
