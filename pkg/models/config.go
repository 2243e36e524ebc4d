package models

import "time"

// Settings holds the runtime configuration loaded from .madconfig and
// environment variables.
type Settings struct {
	// OpenAI settings.
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAITemperature float64

	// Slack settings.
	SlackToken        string
	SlackChannel      string
	SlackEnabled      bool
	SlackPollInterval time.Duration
	SlackTimeout      time.Duration

	// General settings.
	LogLevel      string
	VerboseAgents bool
}

// SlackConfigured reports whether Slack is fully configured: enabled with
// both a token and a target channel.
func (s *Settings) SlackConfigured() bool {
	return s.SlackEnabled && s.SlackToken != "" && s.SlackChannel != ""
}
