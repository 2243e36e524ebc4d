package core

import (
	"testing"
)

func TestCreateQuestion(t *testing.T) {
	tracker := NewQuestionTracker()

	q := tracker.CreateQuestion("What color?", "Button styling", "dev-channel")
	if q.ID == "" {
		t.Fatal("expected generated id")
	}
	if len(q.ID) != 8 {
		t.Errorf("expected 8-char id, got %q", q.ID)
	}
	if q.Answered {
		t.Error("new question should not be answered")
	}

	got := tracker.GetQuestion(q.ID)
	if got == nil || got.Text != "What color?" {
		t.Fatalf("expected stored question, got %+v", got)
	}
}

func TestCreateQuestion_UniqueIDs(t *testing.T) {
	tracker := NewQuestionTracker()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		q := tracker.CreateQuestion("q", "", "c")
		if seen[q.ID] {
			t.Fatalf("duplicate id %q", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestMarkAnswered(t *testing.T) {
	tracker := NewQuestionTracker()
	q := tracker.CreateQuestion("Question?", "", "c")

	tracker.MarkAnswered(q.ID, "Blue")

	got := tracker.GetQuestion(q.ID)
	if !got.Answered || got.Answer != "Blue" {
		t.Fatalf("expected answered question, got %+v", got)
	}
}

func TestMarkAnswered_UnknownIDIsNoOp(t *testing.T) {
	tracker := NewQuestionTracker()
	tracker.MarkAnswered("missing", "answer")

	if got := tracker.GetQuestion("missing"); got != nil {
		t.Fatalf("expected nil for unknown id, got %+v", got)
	}
}

func TestPendingQuestions(t *testing.T) {
	tracker := NewQuestionTracker()
	q1 := tracker.CreateQuestion("first", "", "c")
	tracker.CreateQuestion("second", "", "c")

	tracker.MarkAnswered(q1.ID, "done")

	pending := tracker.PendingQuestions()
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending question, got %d", len(pending))
	}
	if pending[0].Text != "second" {
		t.Errorf("unexpected pending question %+v", pending[0])
	}
}
