package core

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

// NoResponseAnswer is returned by AskQuestion when the timeout elapses
// without a usable reply.
const NoResponseAnswer = "No response received within timeout."

// Messenger is the transport capability the interaction service needs:
// send a message into a channel (optionally threaded under threadTS) and
// fetch threaded replies newer than a timestamp cursor.
type Messenger interface {
	SendMessage(channel, text, threadTS string) (string, error)
	GetReplies(channel, threadTS, sinceTS string) ([]models.Reply, error)
}

// QuestionRecorder receives a copy of each question after its poll loop
// resolves (answered or timed out). Recording is observability only: it
// never influences the poll loop or its timeout semantics.
type QuestionRecorder interface {
	RecordQuestion(sessionTS string, q models.Question) error
}

// InteractionOptions configures an InteractionService.
type InteractionOptions struct {
	PollInterval time.Duration
	Timeout      time.Duration
	Recorder     QuestionRecorder // optional
	Events       EventLogger      // optional
	FallbackIn   io.Reader        // defaults to os.Stdin
	FallbackOut  io.Writer        // defaults to os.Stdout
}

// InteractionService manages one human-in-the-loop session over a messaging
// channel. It owns the session thread handle and turns questions into
// blocking send-then-poll exchanges: AskQuestion suspends the caller until
// a reply arrives or the timeout elapses. One service instance serves one
// session; only one question is outstanding at a time.
type InteractionService struct {
	client       Messenger
	channel      string
	pollInterval time.Duration
	timeout      time.Duration
	tracker      *QuestionTracker
	recorder     QuestionRecorder
	events       EventLogger

	fallbackIn  *bufio.Reader
	fallbackOut io.Writer

	// threadTS anchors every message of the session. Written once by
	// StartSession, read-only afterwards.
	threadTS string
}

// NewInteractionService creates an InteractionService over the given
// transport. Poll interval and timeout must be positive.
func NewInteractionService(client Messenger, channel string, opts InteractionOptions) (*InteractionService, error) {
	if client == nil {
		return nil, fmt.Errorf("creating interaction service: messenger is nil")
	}
	if opts.PollInterval <= 0 {
		return nil, fmt.Errorf("creating interaction service: poll interval must be positive, got %v", opts.PollInterval)
	}
	if opts.Timeout <= 0 {
		return nil, fmt.Errorf("creating interaction service: timeout must be positive, got %v", opts.Timeout)
	}

	in := opts.FallbackIn
	if in == nil {
		in = os.Stdin
	}
	out := opts.FallbackOut
	if out == nil {
		out = os.Stdout
	}

	return &InteractionService{
		client:       client,
		channel:      channel,
		pollInterval: opts.PollInterval,
		timeout:      opts.Timeout,
		tracker:      NewQuestionTracker(),
		recorder:     opts.Recorder,
		events:       opts.Events,
		fallbackIn:   bufio.NewReader(in),
		fallbackOut:  out,
	}, nil
}

// Tracker exposes the question registry for observability and testing.
func (s *InteractionService) Tracker() *QuestionTracker {
	return s.tracker
}

// ThreadTS returns the session thread handle, empty before StartSession or
// when the opening send failed.
func (s *InteractionService) ThreadTS() string {
	return s.threadTS
}

// StartSession opens the session thread that anchors every later question,
// update, and completion message. An empty return value means the opening
// send failed; later sends then go out unthreaded, which is accepted
// degraded behavior rather than an error.
func (s *InteractionService) StartSession(cardTitle string) string {
	message := fmt.Sprintf(
		"\U0001f680 *New Development Session Started*\n\n"+
			"\U0001f4cb *Card:* %s\n\n"+
			"I'll ask questions here as needed during development. Please reply in this thread.",
		cardTitle,
	)

	ts, err := s.client.SendMessage(s.channel, message, "")
	if err != nil {
		ts = ""
	}
	s.threadTS = ts
	s.logEvent("session.started", map[string]any{"card": cardTitle, "thread_ts": ts})
	return ts
}

// AskQuestion sends a question into the session thread and blocks until a
// reply with non-empty text arrives or the timeout elapses, in which case
// the NoResponseAnswer sentinel is returned. A failed send skips tracking
// and polling entirely and degrades to a local synchronous prompt.
func (s *InteractionService) AskQuestion(question, context string) string {
	text := formatQuestion(question, context)

	ts, err := s.client.SendMessage(s.channel, text, s.threadTS)
	if err != nil || ts == "" {
		s.logEvent("question.fallback", map[string]any{"question": question})
		return s.fallbackPrompt(question)
	}

	// The tracker entry exists for observability; the poll loop below reads
	// the transport's reply stream directly, never the tracker state.
	q := s.tracker.CreateQuestion(question, context, s.channel)
	q.ThreadTS = ts
	s.logEvent("question.asked", map[string]any{"id": q.ID, "question": question})

	answer, ok := s.waitForReply(ts)
	if !ok {
		s.logEvent("question.timeout", map[string]any{"id": q.ID})
		s.record(*q)
		return NoResponseAnswer
	}

	s.tracker.MarkAnswered(q.ID, answer)
	s.logEvent("question.answered", map[string]any{"id": q.ID})
	s.record(*q)
	return answer
}

// SendUpdate posts a fire-and-forget status update into the session thread.
func (s *InteractionService) SendUpdate(message string) {
	_, _ = s.client.SendMessage(s.channel, "\U0001f4ca *Update:* "+message, s.threadTS)
}

// SendCompletion posts the closing message of the session thread.
func (s *InteractionService) SendCompletion(summary string) {
	_, _ = s.client.SendMessage(s.channel, "✅ *Development Complete*\n\n"+summary, s.threadTS)
}

// waitForReply polls the transport until a reply with non-empty text shows
// up or the timeout elapses. Replies with empty text advance the since
// cursor and polling continues: emptiness is the only signal available to
// separate "answered" from "still waiting".
func (s *InteractionService) waitForReply(questionTS string) (string, bool) {
	start := time.Now()
	lastSeen := questionTS

	for time.Since(start) < s.timeout {
		time.Sleep(s.pollInterval)

		thread := s.threadTS
		if thread == "" {
			thread = questionTS
		}

		replies, err := s.client.GetReplies(s.channel, thread, lastSeen)
		if err != nil || len(replies) == 0 {
			continue
		}

		if text := replies[0].Text; text != "" {
			return text, true
		}
		if ts := replies[len(replies)-1].Timestamp; ts != "" {
			lastSeen = ts
		}
	}

	return "", false
}

func (s *InteractionService) fallbackPrompt(question string) string {
	fmt.Fprintf(s.fallbackOut, "\n[channel unavailable] %s\n", question)
	fmt.Fprint(s.fallbackOut, "Your answer: ")

	line, err := s.fallbackIn.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

func (s *InteractionService) record(q models.Question) {
	if s.recorder == nil {
		return
	}
	_ = s.recorder.RecordQuestion(s.threadTS, q)
}

// logEvent stamps the session thread into the event data so the sink can
// group events by session.
func (s *InteractionService) logEvent(eventType string, data map[string]any) {
	if s.events == nil {
		return
	}
	if s.threadTS != "" {
		data["session"] = s.threadTS
	}
	_ = s.events.LogEvent(eventType, data)
}

func formatQuestion(question, context string) string {
	var b strings.Builder
	b.WriteString("❓ *Question from Agent*\n")
	if context != "" {
		fmt.Fprintf(&b, "_Context: %s_\n", context)
	}
	fmt.Fprintf(&b, "\n%s\n", question)
	b.WriteString("\n_Please reply to this message with your answer._")
	return b.String()
}
