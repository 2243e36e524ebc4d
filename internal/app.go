// Package internal provides the App struct that wires all components of the
// MultiAgent Developer system together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/cli"
	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/core"
	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/integration"
	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/observability"
	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/storage"
	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

// App holds all service dependencies for the MultiAgent Developer system.
type App struct {
	BasePath string

	// Configuration
	Settings *models.Settings

	// Storage layer
	CardStore   storage.CardStore
	Transcripts storage.TranscriptManager

	// Core services
	Parser      *core.CardParser
	Analyzer    *core.CodebaseAnalyzer
	Crews       *core.CrewFactory
	Interaction *core.InteractionService

	// Observability
	EventLog observability.EventLog
}

// NewApp creates and wires all components. basePath is the root directory
// where configuration and data are stored.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	settings, err := core.NewSettingsLoader(basePath).Load()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	app.Settings = settings

	// --- Storage layer ---
	app.CardStore = storage.NewCardStore(basePath)
	_ = app.CardStore.Load() // Non-fatal: empty registry on first use.
	app.Transcripts = storage.NewTranscriptManager(basePath)

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, ".mad_events.jsonl")
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: disable observability if the log can't be created.
		app.EventLog = nil
	}
	var evtAdapter core.EventLogger
	if app.EventLog != nil {
		evtAdapter = &eventLogAdapter{log: app.EventLog}
	}

	// --- Core services ---
	app.Parser = core.NewCardParser()
	app.Analyzer = core.NewCodebaseAnalyzer()
	app.Crews, err = core.NewCrewFactory()
	if err != nil {
		return nil, fmt.Errorf("loading crew catalog: %w", err)
	}

	// --- Interaction ---
	messenger := integration.NewMessenger(settings, false, nil, nil)
	channel := settings.SlackChannel
	if !settings.SlackConfigured() {
		channel = "console"
	}
	app.Interaction, err = core.NewInteractionService(messenger, channel, core.InteractionOptions{
		PollInterval: settings.SlackPollInterval,
		Timeout:      settings.SlackTimeout,
		Recorder:     &transcriptRecorder{mgr: app.Transcripts},
		Events:       evtAdapter,
	})
	if err != nil {
		return nil, fmt.Errorf("building interaction service: %w", err)
	}

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Settings = app.Settings
	cli.Parser = app.Parser
	cli.Analyzer = app.Analyzer
	cli.Crews = app.Crews
	cli.Interaction = app.Interaction
	cli.Events = evtAdapter
	cli.CardStore = app.CardStore
	cli.Transcripts = app.Transcripts
	cli.EventLog = app.EventLog

	return app, nil
}

// Close releases resources held by the App, such as the event log file
// handle. Safe to call when EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the base path for the data directory. It checks
// the MAD_HOME env var, then walks up from the current directory looking for
// .madconfig, then falls back to the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("MAD_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".madconfig")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}

// --- Adapters ---

// transcriptRecorder adapts storage.TranscriptManager to core.QuestionRecorder.
type transcriptRecorder struct {
	mgr storage.TranscriptManager
}

func (r *transcriptRecorder) RecordQuestion(sessionTS string, q models.Question) error {
	return r.mgr.Append(sessionTS, q)
}

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	var session string
	if s, ok := data["session"].(string); ok {
		session = s
		delete(data, "session")
	}
	return a.log.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   "INFO",
		Type:    eventType,
		Message: eventType,
		Session: session,
		Data:    data,
	})
}
