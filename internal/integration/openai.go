package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIRunner executes agent prompts against the chat completions API.
type OpenAIRunner struct {
	apiKey      string
	model       string
	temperature float64
	baseURL     string
	client      *http.Client
}

// NewOpenAIRunner creates a runner. An empty API key is rejected here so
// misconfiguration surfaces at wiring time, not mid-pipeline.
func NewOpenAIRunner(apiKey, model string, temperature float64) (*OpenAIRunner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	return &OpenAIRunner{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		baseURL:     defaultOpenAIBaseURL,
		client:      &http.Client{Timeout: 120 * time.Second},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Run sends the prompt as a single user message and returns the first
// choice's content.
func (r *OpenAIRunner) Run(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       r.model,
		Temperature: r.temperature,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling chat completions: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("chat completions failed: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("chat completions returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}

// StaticRunner returns canned outputs in order, then repeats the last one.
// It backs offline runs and tests.
type StaticRunner struct {
	Outputs []string
	calls   int
}

func (s *StaticRunner) Run(ctx context.Context, prompt string) (string, error) {
	if len(s.Outputs) == 0 {
		return "", fmt.Errorf("static runner has no outputs")
	}
	i := s.calls
	if i >= len(s.Outputs) {
		i = len(s.Outputs) - 1
	}
	s.calls++
	return s.Outputs[i], nil
}
