package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

// TranscriptEntry is one recorded question/answer exchange.
type TranscriptEntry struct {
	Date     time.Time
	Session  string
	Question string
	Context  string
	Answer   string
	Answered bool
}

// TranscriptManager records question/answer exchanges as markdown files
// under sessions/{session}/.
type TranscriptManager interface {
	Append(sessionTS string, q models.Question) error
	List(sessionTS string) ([]TranscriptEntry, error)
	Search(query string) ([]TranscriptEntry, error)
}

type fileTranscriptManager struct {
	basePath string
}

// NewTranscriptManager creates a TranscriptManager rooted at basePath.
func NewTranscriptManager(basePath string) TranscriptManager {
	return &fileTranscriptManager{basePath: basePath}
}

func (m *fileTranscriptManager) sessionsDir() string {
	return filepath.Join(m.basePath, "sessions")
}

func (m *fileTranscriptManager) sessionDir(sessionTS string) string {
	return filepath.Join(m.sessionsDir(), sanitizeSession(sessionTS))
}

// sanitizeSession turns a thread timestamp into a directory name. Console
// sessions have no timestamp and share one directory.
func sanitizeSession(sessionTS string) string {
	if sessionTS == "" {
		return "console"
	}
	re := regexp.MustCompile(`[^a-zA-Z0-9]+`)
	name := re.ReplaceAllString(sessionTS, "-")
	return strings.Trim(name, "-")
}

func formatTranscript(sessionTS string, q models.Question) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Question %s\n\n", q.ID))
	sb.WriteString(fmt.Sprintf("**Date:** %s\n", q.CreatedAt.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("**Session:** %s\n", sanitizeSession(sessionTS)))
	sb.WriteString(fmt.Sprintf("**Answered:** %t\n", q.Answered))
	sb.WriteString("\n## Question\n\n")
	sb.WriteString(q.Text)
	if q.Context != "" {
		sb.WriteString("\n\n## Context\n\n")
		sb.WriteString(q.Context)
	}
	sb.WriteString("\n\n## Answer\n\n")
	sb.WriteString(q.Answer)
	sb.WriteString("\n")

	return sb.String()
}

func (m *fileTranscriptManager) Append(sessionTS string, q models.Question) error {
	dir := m.sessionDir(sessionTS)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("appending transcript: creating dir: %w", err)
	}

	filename := fmt.Sprintf("%s-%s.md", q.CreatedAt.Format("2006-01-02"), q.ID)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(formatTranscript(sessionTS, q)), 0o600); err != nil {
		return fmt.Errorf("appending transcript: writing file: %w", err)
	}
	return nil
}

func (m *fileTranscriptManager) List(sessionTS string) ([]TranscriptEntry, error) {
	return m.readDir(m.sessionDir(sessionTS))
}

func (m *fileTranscriptManager) Search(query string) ([]TranscriptEntry, error) {
	sessions, err := os.ReadDir(m.sessionsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading sessions: %w", err)
	}

	query = strings.ToLower(query)
	var results []TranscriptEntry
	for _, session := range sessions {
		if !session.IsDir() {
			continue
		}
		entries, err := m.readDir(filepath.Join(m.sessionsDir(), session.Name()))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if matchesTranscript(entry, query) {
				results = append(results, entry)
			}
		}
	}
	return results, nil
}

func matchesTranscript(entry TranscriptEntry, query string) bool {
	if strings.Contains(strings.ToLower(entry.Question), query) {
		return true
	}
	if strings.Contains(strings.ToLower(entry.Answer), query) {
		return true
	}
	if strings.Contains(strings.ToLower(entry.Context), query) {
		return true
	}
	if strings.Contains(entry.Date.Format("2006-01-02"), query) {
		return true
	}
	return false
}

func (m *fileTranscriptManager) readDir(dir string) ([]TranscriptEntry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading transcripts: %w", err)
	}

	var entries []TranscriptEntry
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, file.Name())) //nolint:gosec // G304: reading transcript files from managed directory
		if err != nil {
			continue
		}
		entries = append(entries, parseTranscriptMarkdown(string(data)))
	}
	return entries, nil
}

func parseTranscriptMarkdown(content string) TranscriptEntry {
	entry := TranscriptEntry{}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "**Date:**") {
			dateStr := strings.TrimSpace(strings.TrimPrefix(line, "**Date:**"))
			if t, err := time.Parse("2006-01-02", dateStr); err == nil {
				entry.Date = t
			}
		} else if strings.HasPrefix(line, "**Session:**") {
			entry.Session = strings.TrimSpace(strings.TrimPrefix(line, "**Session:**"))
		} else if strings.HasPrefix(line, "**Answered:**") {
			entry.Answered = strings.TrimSpace(strings.TrimPrefix(line, "**Answered:**")) == "true"
		}
	}

	entry.Question = sectionBetween(content, "## Question", []string{"## Context", "## Answer"})
	entry.Context = sectionBetween(content, "## Context", []string{"## Answer"})
	entry.Answer = sectionBetween(content, "## Answer", nil)
	return entry
}

func sectionBetween(content, heading string, stops []string) string {
	idx := strings.Index(content, heading)
	if idx < 0 {
		return ""
	}
	rest := content[idx+len(heading):]
	end := len(rest)
	for _, stop := range stops {
		if stopIdx := strings.Index(rest, stop); stopIdx >= 0 && stopIdx < end {
			end = stopIdx
		}
	}
	return strings.TrimSpace(rest[:end])
}
