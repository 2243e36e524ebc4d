package cli

import (
	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/core"
	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/observability"
	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/storage"
	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath    string
	Settings    *models.Settings
	Parser      *core.CardParser
	Analyzer    *core.CodebaseAnalyzer
	Crews       *core.CrewFactory
	Interaction *core.InteractionService
	Events      core.EventLogger

	CardStore   storage.CardStore
	Transcripts storage.TranscriptManager

	EventLog observability.EventLog
)
