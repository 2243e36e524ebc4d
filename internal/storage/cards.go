// Package storage persists processed cards and interaction transcripts under
// the base path.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

// CardEntry is one processed card in the registry.
type CardEntry struct {
	ID         string   `yaml:"id"`
	Title      string   `yaml:"title"`
	Format     string   `yaml:"format"`
	Priority   string   `yaml:"priority,omitempty"`
	StoryPoint *int     `yaml:"story_points,omitempty"`
	Labels     []string `yaml:"labels,omitempty"`
	Assignee   string   `yaml:"assignee,omitempty"`
	Status     string   `yaml:"status"`
	ResultPath string   `yaml:"result_path,omitempty"`
	Processed  string   `yaml:"processed"`
}

// Card processing statuses.
const (
	CardStatusParsed    = "parsed"
	CardStatusCompleted = "completed"
	CardStatusFailed    = "failed"
)

// CardFilter specifies criteria for filtering card entries. All specified
// fields use AND logic.
type CardFilter struct {
	Status   []string
	Format   []string
	Assignee string
	Labels   []string
}

// CardFile is the top-level structure of cards.yaml.
type CardFile struct {
	Version string               `yaml:"version"`
	Cards   map[string]CardEntry `yaml:"cards"`
}

// CardStore defines the interface for the processed-card registry.
type CardStore interface {
	AddCard(entry CardEntry) error
	UpdateCard(id string, updates CardEntry) error
	GetCard(id string) (*CardEntry, error)
	GetAllCards() ([]CardEntry, error)
	FilterCards(filter CardFilter) ([]CardEntry, error)
	NextID() (string, error)
	Load() error
	Save() error
}

type fileCardStore struct {
	basePath string
	data     CardFile
}

// NewCardStore creates a CardStore backed by a cards.yaml file in the given
// base directory.
func NewCardStore(basePath string) CardStore {
	return &fileCardStore{
		basePath: basePath,
		data: CardFile{
			Version: "1.0",
			Cards:   make(map[string]CardEntry),
		},
	}
}

func (s *fileCardStore) filePath() string {
	return filepath.Join(s.basePath, "cards.yaml")
}

func (s *fileCardStore) counterPath() string {
	return filepath.Join(s.basePath, ".card_counter")
}

func (s *fileCardStore) AddCard(entry CardEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("adding card: ID must not be empty")
	}
	if _, exists := s.data.Cards[entry.ID]; exists {
		return fmt.Errorf("adding card: card %s already exists", entry.ID)
	}
	s.data.Cards[entry.ID] = entry
	return nil
}

func (s *fileCardStore) UpdateCard(id string, updates CardEntry) error {
	existing, exists := s.data.Cards[id]
	if !exists {
		return fmt.Errorf("updating card: card %s not found", id)
	}

	if updates.Title != "" {
		existing.Title = updates.Title
	}
	if updates.Format != "" {
		existing.Format = updates.Format
	}
	if updates.Priority != "" {
		existing.Priority = updates.Priority
	}
	if updates.StoryPoint != nil {
		existing.StoryPoint = updates.StoryPoint
	}
	if updates.Labels != nil {
		existing.Labels = updates.Labels
	}
	if updates.Assignee != "" {
		existing.Assignee = updates.Assignee
	}
	if updates.Status != "" {
		existing.Status = updates.Status
	}
	if updates.ResultPath != "" {
		existing.ResultPath = updates.ResultPath
	}
	if updates.Processed != "" {
		existing.Processed = updates.Processed
	}

	s.data.Cards[id] = existing
	return nil
}

func (s *fileCardStore) GetCard(id string) (*CardEntry, error) {
	entry, exists := s.data.Cards[id]
	if !exists {
		return nil, fmt.Errorf("card %s not found", id)
	}
	return &entry, nil
}

func (s *fileCardStore) GetAllCards() ([]CardEntry, error) {
	entries := make([]CardEntry, 0, len(s.data.Cards))
	for _, entry := range s.data.Cards {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (s *fileCardStore) FilterCards(filter CardFilter) ([]CardEntry, error) {
	all, err := s.GetAllCards()
	if err != nil {
		return nil, err
	}

	var result []CardEntry
	for _, entry := range all {
		if matchesCardFilter(entry, filter) {
			result = append(result, entry)
		}
	}
	return result, nil
}

func matchesCardFilter(entry CardEntry, filter CardFilter) bool {
	if len(filter.Status) > 0 && !containsString(filter.Status, entry.Status) {
		return false
	}
	if len(filter.Format) > 0 && !containsString(filter.Format, entry.Format) {
		return false
	}
	if filter.Assignee != "" && entry.Assignee != filter.Assignee {
		return false
	}
	if len(filter.Labels) > 0 && !hasAllLabels(entry.Labels, filter.Labels) {
		return false
	}
	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func hasAllLabels(entryLabels []string, requiredLabels []string) bool {
	labelSet := make(map[string]struct{}, len(entryLabels))
	for _, l := range entryLabels {
		labelSet[l] = struct{}{}
	}
	for _, req := range requiredLabels {
		if _, found := labelSet[req]; !found {
			return false
		}
	}
	return true
}

// NextID allocates the next sequential card ID from the counter file.
func (s *fileCardStore) NextID() (string, error) {
	counter := 0
	data, err := os.ReadFile(s.counterPath())
	if err == nil {
		if n, parseErr := strconv.Atoi(strings.TrimSpace(string(data))); parseErr == nil {
			counter = n
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("reading card counter: %w", err)
	}

	counter++
	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return "", fmt.Errorf("allocating card ID: creating directory: %w", err)
	}
	if err := os.WriteFile(s.counterPath(), []byte(strconv.Itoa(counter)), 0o600); err != nil {
		return "", fmt.Errorf("writing card counter: %w", err)
	}
	return fmt.Sprintf("CARD-%05d", counter), nil
}

func (s *fileCardStore) Load() error {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			s.data = CardFile{
				Version: "1.0",
				Cards:   make(map[string]CardEntry),
			}
			return nil
		}
		return fmt.Errorf("loading cards: %w", err)
	}

	var cf CardFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("loading cards: parsing YAML: %w", err)
	}
	if cf.Cards == nil {
		cf.Cards = make(map[string]CardEntry)
	}
	s.data = cf
	return nil
}

func (s *fileCardStore) Save() error {
	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return fmt.Errorf("saving cards: creating directory: %w", err)
	}
	data, err := yaml.Marshal(&s.data)
	if err != nil {
		return fmt.Errorf("saving cards: marshaling YAML: %w", err)
	}
	if err := os.WriteFile(s.filePath(), data, 0o600); err != nil {
		return fmt.Errorf("saving cards: writing file: %w", err)
	}
	return nil
}

// EntryFromCard builds a registry entry from a parsed card.
func EntryFromCard(id string, card *models.BacklogCard, status string) CardEntry {
	return CardEntry{
		ID:         id,
		Title:      card.Title,
		Format:     card.OriginalFormat,
		Priority:   card.Priority,
		StoryPoint: card.StoryPoints,
		Labels:     card.Labels,
		Assignee:   card.Assignee,
		Status:     status,
		Processed:  time.Now().Format(time.RFC3339),
	}
}
