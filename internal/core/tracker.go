package core

import (
	"sync"
	"time"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
	"github.com/google/uuid"
)

// QuestionTracker is an in-memory registry of questions asked during a
// session, keyed by generated id. Entries are never expired: answered and
// timed-out questions stay retrievable for the tracker's lifetime.
type QuestionTracker struct {
	mu        sync.RWMutex
	questions map[string]*models.Question
}

// NewQuestionTracker creates an empty QuestionTracker.
func NewQuestionTracker() *QuestionTracker {
	return &QuestionTracker{
		questions: make(map[string]*models.Question),
	}
}

// CreateQuestion registers a new pending question under a fresh short id
// and returns it.
func (t *QuestionTracker) CreateQuestion(text, context, channel string) *models.Question {
	q := &models.Question{
		ID:        uuid.NewString()[:8],
		Text:      text,
		Context:   context,
		Channel:   channel,
		CreatedAt: time.Now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.questions[q.ID] = q
	return q
}

// GetQuestion returns the tracked question with the given id, or nil.
func (t *QuestionTracker) GetQuestion(id string) *models.Question {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.questions[id]
}

// MarkAnswered records an answer against the question. Unknown ids are a
// no-op.
func (t *QuestionTracker) MarkAnswered(id, answer string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	q, ok := t.questions[id]
	if !ok {
		return
	}
	q.Answered = true
	q.Answer = answer
}

// PendingQuestions returns a copy of every unanswered question, in no
// guaranteed order.
func (t *QuestionTracker) PendingQuestions() []models.Question {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var pending []models.Question
	for _, q := range t.questions {
		if !q.Answered {
			pending = append(pending, *q)
		}
	}
	return pending
}
