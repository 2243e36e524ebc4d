package core

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

// fakeMessenger scripts a transport for interaction tests.
type fakeMessenger struct {
	sendErr   error
	sentTexts []string
	sentTS    []string
	nextTS    int

	// replyScript is consumed one batch per GetReplies call; after it runs
	// out, GetReplies returns nil.
	replyScript  [][]models.Reply
	replyCalls   int
	lastSinceTS  string
	lastThreadTS string
}

func (f *fakeMessenger) SendMessage(channel, text, threadTS string) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sentTexts = append(f.sentTexts, text)
	f.sentTS = append(f.sentTS, threadTS)
	f.nextTS++
	return fmt.Sprintf("100.%06d", f.nextTS), nil
}

func (f *fakeMessenger) GetReplies(channel, threadTS, sinceTS string) ([]models.Reply, error) {
	f.replyCalls++
	f.lastThreadTS = threadTS
	f.lastSinceTS = sinceTS
	if len(f.replyScript) == 0 {
		return nil, nil
	}
	batch := f.replyScript[0]
	f.replyScript = f.replyScript[1:]
	return batch, nil
}

func newTestInteraction(t *testing.T, client Messenger, opts InteractionOptions) *InteractionService {
	t.Helper()
	if opts.PollInterval == 0 {
		opts.PollInterval = time.Millisecond
	}
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Millisecond
	}
	svc, err := NewInteractionService(client, "dev-channel", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestNewInteractionService_Validation(t *testing.T) {
	if _, err := NewInteractionService(nil, "c", InteractionOptions{PollInterval: 1, Timeout: 1}); err == nil {
		t.Error("expected error for nil messenger")
	}
	if _, err := NewInteractionService(&fakeMessenger{}, "c", InteractionOptions{Timeout: 1}); err == nil {
		t.Error("expected error for zero poll interval")
	}
	if _, err := NewInteractionService(&fakeMessenger{}, "c", InteractionOptions{PollInterval: 1}); err == nil {
		t.Error("expected error for zero timeout")
	}
}

func TestStartSession(t *testing.T) {
	client := &fakeMessenger{}
	svc := newTestInteraction(t, client, InteractionOptions{})

	ts := svc.StartSession("Fix login bug")
	if ts == "" {
		t.Fatal("expected session timestamp")
	}
	if svc.ThreadTS() != ts {
		t.Errorf("thread ts not stored: %q vs %q", svc.ThreadTS(), ts)
	}
	if len(client.sentTexts) != 1 || !strings.Contains(client.sentTexts[0], "Fix login bug") {
		t.Errorf("unexpected session message: %v", client.sentTexts)
	}
	if client.sentTS[0] != "" {
		t.Errorf("session message should be unthreaded, got %q", client.sentTS[0])
	}
}

func TestAskQuestion_AnswerOnFirstPoll(t *testing.T) {
	client := &fakeMessenger{
		replyScript: [][]models.Reply{
			{{Text: "Use blue", Timestamp: "101.000001"}},
		},
	}
	svc := newTestInteraction(t, client, InteractionOptions{Timeout: 50 * time.Millisecond})
	svc.StartSession("Card")

	answer := svc.AskQuestion("What color?", "Buttons")
	if answer != "Use blue" {
		t.Fatalf("expected answer, got %q", answer)
	}

	pending := svc.Tracker().PendingQuestions()
	if len(pending) != 0 {
		t.Errorf("expected no pending questions, got %v", pending)
	}
}

func TestAskQuestion_TimeoutReturnsSentinel(t *testing.T) {
	client := &fakeMessenger{}
	svc := newTestInteraction(t, client, InteractionOptions{
		PollInterval: time.Millisecond,
		Timeout:      5 * time.Millisecond,
	})
	svc.StartSession("Card")

	answer := svc.AskQuestion("Anyone there?", "")
	if answer != NoResponseAnswer {
		t.Fatalf("expected timeout sentinel, got %q", answer)
	}

	pending := svc.Tracker().PendingQuestions()
	if len(pending) != 1 {
		t.Fatalf("expected question still pending, got %v", pending)
	}
}

func TestAskQuestion_SendFailureFallsBackToLocalPrompt(t *testing.T) {
	client := &fakeMessenger{sendErr: fmt.Errorf("network down")}
	var out strings.Builder
	svc := newTestInteraction(t, client, InteractionOptions{
		FallbackIn:  strings.NewReader("typed answer\n"),
		FallbackOut: &out,
	})

	answer := svc.AskQuestion("What now?", "")
	if answer != "typed answer" {
		t.Fatalf("expected local answer, got %q", answer)
	}
	if client.replyCalls != 0 {
		t.Errorf("fallback must not poll, got %d calls", client.replyCalls)
	}
	if !strings.Contains(out.String(), "What now?") {
		t.Errorf("prompt missing question: %q", out.String())
	}
	if len(svc.Tracker().PendingQuestions()) != 0 {
		t.Error("fallback questions must not be tracked")
	}
}

func TestAskQuestion_EmptyReplyAdvancesCursor(t *testing.T) {
	client := &fakeMessenger{
		replyScript: [][]models.Reply{
			{{Text: "", Timestamp: "102.000001"}},
			{{Text: "real answer", Timestamp: "103.000001"}},
		},
	}
	svc := newTestInteraction(t, client, InteractionOptions{Timeout: 100 * time.Millisecond})
	svc.StartSession("Card")

	answer := svc.AskQuestion("Q?", "")
	if answer != "real answer" {
		t.Fatalf("expected second-batch answer, got %q", answer)
	}
	if client.lastSinceTS != "102.000001" {
		t.Errorf("expected cursor advanced to empty reply ts, got %q", client.lastSinceTS)
	}
}

func TestAskQuestion_RecordsTranscript(t *testing.T) {
	recorded := make([]models.Question, 0, 1)
	recorder := questionRecorderFunc(func(sessionTS string, q models.Question) error {
		recorded = append(recorded, q)
		return nil
	})

	client := &fakeMessenger{
		replyScript: [][]models.Reply{
			{{Text: "yes", Timestamp: "105.000001"}},
		},
	}
	svc := newTestInteraction(t, client, InteractionOptions{
		Timeout:  50 * time.Millisecond,
		Recorder: recorder,
	})
	svc.StartSession("Card")

	svc.AskQuestion("Ship it?", "")
	if len(recorded) != 1 {
		t.Fatalf("expected one recorded question, got %d", len(recorded))
	}
	if !recorded[0].Answered || recorded[0].Answer != "yes" {
		t.Errorf("unexpected recorded question %+v", recorded[0])
	}
}

type questionRecorderFunc func(sessionTS string, q models.Question) error

func (f questionRecorderFunc) RecordQuestion(sessionTS string, q models.Question) error {
	return f(sessionTS, q)
}

func TestSendUpdateUsesSessionThread(t *testing.T) {
	client := &fakeMessenger{}
	svc := newTestInteraction(t, client, InteractionOptions{})
	ts := svc.StartSession("Card")

	svc.SendUpdate("halfway there")
	svc.SendCompletion("done")

	if len(client.sentTS) != 3 {
		t.Fatalf("expected 3 sends, got %d", len(client.sentTS))
	}
	if client.sentTS[1] != ts || client.sentTS[2] != ts {
		t.Errorf("updates must thread under session ts %q, got %v", ts, client.sentTS)
	}
}

type capturingEventLogger struct {
	types []string
	data  []map[string]any
}

func (l *capturingEventLogger) LogEvent(eventType string, data map[string]any) error {
	l.types = append(l.types, eventType)
	l.data = append(l.data, data)
	return nil
}

func TestEventsCarrySessionThread(t *testing.T) {
	client := &fakeMessenger{
		replyScript: [][]models.Reply{
			{{Text: "yes", Timestamp: "101.000001"}},
		},
	}
	events := &capturingEventLogger{}
	svc := newTestInteraction(t, client, InteractionOptions{Events: events})

	ts := svc.StartSession("Card")
	_ = svc.AskQuestion("Proceed?", "")

	want := []string{"session.started", "question.asked", "question.answered"}
	if len(events.types) != len(want) {
		t.Fatalf("expected events %v, got %v", want, events.types)
	}
	for i, typ := range want {
		if events.types[i] != typ {
			t.Fatalf("expected events %v, got %v", want, events.types)
		}
		if got := events.data[i]["session"]; got != ts {
			t.Errorf("%s event session = %v, want %q", typ, got, ts)
		}
	}
}
