package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/core"
)

// --- Fake implementations ---

type fakeInteractor struct {
	answer    string
	questions []string
	contexts  []string
	updates   []string
}

func (f *fakeInteractor) AskQuestion(question, context string) string {
	f.questions = append(f.questions, question)
	f.contexts = append(f.contexts, context)
	return f.answer
}

func (f *fakeInteractor) SendUpdate(message string) {
	f.updates = append(f.updates, message)
}

func newTestServer(t *testing.T, interactor Interactor) *Server {
	t.Helper()
	return NewServer(core.NewCardParser(), interactor, core.NewCodebaseAnalyzer(), "test")
}

// --- parse_card ---

func TestHandleParseCard(t *testing.T) {
	srv := newTestServer(t, nil)

	result, out, err := srv.handleParseCard(context.Background(), nil, parseCardInput{
		Data: `{"title": "Add login", "priority": "High"}`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("unexpected error result: %+v", result)
	}
	if out.Title != "Add login" || out.Priority != "High" {
		t.Errorf("unexpected output %+v", out)
	}
	if out.OriginalFormat != "json" {
		t.Errorf("unexpected format %q", out.OriginalFormat)
	}
	if out.Summary == "" {
		t.Error("expected summary in output")
	}
}

func TestHandleParseCard_FormatHint(t *testing.T) {
	srv := newTestServer(t, nil)

	_, out, err := srv.handleParseCard(context.Background(), nil, parseCardInput{
		Data:   "# Heading card\nBody",
		Format: "plain_text",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.OriginalFormat != "plain_text" {
		t.Errorf("hint not honored, got %q", out.OriginalFormat)
	}
}

func TestHandleParseCard_EmptyData(t *testing.T) {
	srv := newTestServer(t, nil)

	result, _, err := srv.handleParseCard(context.Background(), nil, parseCardInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected error result for empty data")
	}
}

func TestHandleParseCard_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, nil)

	result, _, err := srv.handleParseCard(context.Background(), nil, parseCardInput{
		Data: `{broken`, Format: "json",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected error result for invalid JSON")
	}
}

// --- ask_user ---

func TestHandleAskUser(t *testing.T) {
	interactor := &fakeInteractor{answer: "Blue"}
	srv := newTestServer(t, interactor)

	_, out, err := srv.handleAskUser(context.Background(), nil, askUserInput{
		Question: "What color?",
		Context:  "Buttons",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Answer != "Blue" || !out.Answered {
		t.Errorf("unexpected output %+v", out)
	}
	if len(interactor.questions) != 1 || interactor.questions[0] != "What color?" {
		t.Errorf("question not forwarded: %v", interactor.questions)
	}
	if interactor.contexts[0] != "Buttons" {
		t.Errorf("context not forwarded: %v", interactor.contexts)
	}
}

func TestHandleAskUser_TimeoutIsNotAnswered(t *testing.T) {
	interactor := &fakeInteractor{answer: core.NoResponseAnswer}
	srv := newTestServer(t, interactor)

	_, out, err := srv.handleAskUser(context.Background(), nil, askUserInput{Question: "Q?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Answered {
		t.Error("timeout sentinel must report answered=false")
	}
	if out.Answer != core.NoResponseAnswer {
		t.Errorf("unexpected answer %q", out.Answer)
	}
}

func TestHandleAskUser_NoInteractor(t *testing.T) {
	srv := newTestServer(t, nil)

	result, _, err := srv.handleAskUser(context.Background(), nil, askUserInput{Question: "Q?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected error result without interactor")
	}
}

// --- send_update ---

func TestHandleSendUpdate(t *testing.T) {
	interactor := &fakeInteractor{}
	srv := newTestServer(t, interactor)

	result, _, err := srv.handleSendUpdate(context.Background(), nil, sendUpdateInput{Message: "progress"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("unexpected error result: %+v", result)
	}
	if len(interactor.updates) != 1 || interactor.updates[0] != "progress" {
		t.Errorf("update not forwarded: %v", interactor.updates)
	}
}

func TestHandleSendUpdate_EmptyMessage(t *testing.T) {
	srv := newTestServer(t, &fakeInteractor{})

	result, _, err := srv.handleSendUpdate(context.Background(), nil, sendUpdateInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected error result for empty message")
	}
}

// --- analyze_codebase ---

func TestHandleAnalyzeCodebase(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	srv := newTestServer(t, nil)

	_, out, err := srv.handleAnalyzeCodebase(context.Background(), nil, analyzeCodebaseInput{Path: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.KeyFiles) != 1 || out.KeyFiles[0] != "package.json" {
		t.Errorf("unexpected key files %v", out.KeyFiles)
	}
}

func TestHandleAnalyzeCodebase_MissingPath(t *testing.T) {
	srv := newTestServer(t, nil)

	result, _, err := srv.handleAnalyzeCodebase(context.Background(), nil, analyzeCodebaseInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected error result for missing path")
	}
}
