package core

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

//go:embed templates/crews.yaml
var crewTemplates embed.FS

// AgentSpec describes one agent in a crew.
type AgentSpec struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
}

// TaskSpec describes one task in a crew's pipeline. Description placeholders
// are filled by Create.
type TaskSpec struct {
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	ExpectedOutput string `yaml:"expected_output"`
}

// CrewSpec is a named agent roster with an ordered task pipeline.
type CrewSpec struct {
	Name   string      `yaml:"name"`
	Match  []string    `yaml:"match"`
	Agents []AgentSpec `yaml:"agents"`
	Tasks  []TaskSpec  `yaml:"tasks"`
}

type crewCatalog struct {
	Crews []CrewSpec `yaml:"crews"`
}

// CrewFactory selects and instantiates crews from the embedded catalog.
type CrewFactory struct {
	crews []CrewSpec
}

// NewCrewFactory loads the embedded crew catalog.
func NewCrewFactory() (*CrewFactory, error) {
	data, err := crewTemplates.ReadFile("templates/crews.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading crew catalog: %w", err)
	}
	var catalog crewCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing crew catalog: %w", err)
	}
	if len(catalog.Crews) == 0 {
		return nil, fmt.Errorf("crew catalog is empty")
	}
	return &CrewFactory{crews: catalog.Crews}, nil
}

// Create picks the crew matching the detected framework and fills task
// description placeholders from the analysis. Matching is a case-insensitive
// substring test; the last crew in the catalog is the fallback.
func (f *CrewFactory) Create(analysis models.AnalysisResult, extraContext string) CrewSpec {
	spec := f.selectCrew(analysis.Framework)

	replacer := strings.NewReplacer(
		"{requirements}", analysis.Requirements,
		"{files_to_modify}", strings.Join(analysis.FilesToModify, ", "),
		"{files_to_create}", strings.Join(analysis.FilesToCreate, ", "),
		"{context}", extraContext,
	)
	tasks := make([]TaskSpec, len(spec.Tasks))
	for i, task := range spec.Tasks {
		task.Description = replacer.Replace(task.Description)
		tasks[i] = task
	}
	spec.Tasks = tasks
	return spec
}

func (f *CrewFactory) selectCrew(framework string) CrewSpec {
	needle := strings.ToLower(framework)
	for _, crew := range f.crews {
		for _, keyword := range crew.Match {
			if strings.Contains(needle, keyword) {
				return crew
			}
		}
	}
	return f.crews[len(f.crews)-1]
}
