package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/core"
	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

const defaultSlackBaseURL = "https://slack.com/api"

// SlackMessenger talks to the Slack Web API with a bot token.
type SlackMessenger struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewSlackMessenger creates a messenger for the given bot token.
func NewSlackMessenger(token string) *SlackMessenger {
	return &SlackMessenger{
		token:   token,
		baseURL: defaultSlackBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type postMessageRequest struct {
	Channel  string `json:"channel"`
	Text     string `json:"text"`
	ThreadTS string `json:"thread_ts,omitempty"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	TS    string `json:"ts"`
	Error string `json:"error"`
}

// SendMessage posts to chat.postMessage, threaded when threadTS is set, and
// returns the new message's timestamp.
func (s *SlackMessenger) SendMessage(channel, text, threadTS string) (string, error) {
	payload, err := json.Marshal(postMessageRequest{Channel: channel, Text: text, ThreadTS: threadTS})
	if err != nil {
		return "", fmt.Errorf("encoding message: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/chat.postMessage", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	var result postMessageResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if !result.OK {
		return "", fmt.Errorf("slack rejected message: %s", result.Error)
	}
	return result.TS, nil
}

type repliesResponse struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error"`
	Messages []struct {
		Text string `json:"text"`
		TS   string `json:"ts"`
	} `json:"messages"`
}

// GetReplies fetches conversations.replies for the thread, excluding the
// parent message and anything at or before sinceTS.
func (s *SlackMessenger) GetReplies(channel, threadTS, sinceTS string) ([]models.Reply, error) {
	req, err := http.NewRequest(http.MethodGet, s.baseURL+"/conversations.replies", nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	q := req.URL.Query()
	q.Set("channel", channel)
	q.Set("ts", threadTS)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching replies: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	var result repliesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("slack rejected replies request: %s", result.Error)
	}

	since := tsFloat(sinceTS)
	var replies []models.Reply
	for _, m := range result.Messages {
		if m.TS == threadTS {
			continue
		}
		if sinceTS != "" && tsFloat(m.TS) <= since {
			continue
		}
		replies = append(replies, models.Reply{Text: m.Text, Timestamp: m.TS})
	}
	return replies, nil
}

func tsFloat(ts string) float64 {
	f, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return 0
	}
	return f
}

// NewMessenger picks the transport for the interaction service: Slack when
// fully configured and not overridden, otherwise the console.
func NewMessenger(settings *models.Settings, forceConsole bool, in io.Reader, out io.Writer) core.Messenger {
	if !forceConsole && settings.SlackConfigured() {
		return NewSlackMessenger(settings.SlackToken)
	}
	return NewConsoleMessenger(in, out)
}
