package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

// SettingsLoader reads configuration from the .madconfig file in the base
// path, with environment variables taking precedence over file values.
type SettingsLoader struct {
	basePath string
}

func NewSettingsLoader(basePath string) *SettingsLoader {
	return &SettingsLoader{basePath: basePath}
}

// Load reads settings. A missing config file is not an error; defaults and
// environment variables still apply.
func (l *SettingsLoader) Load() (*models.Settings, error) {
	v := viper.New()
	v.SetConfigName(".madconfig")
	v.SetConfigType("yaml")
	v.AddConfigPath(l.basePath)

	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.temperature", 0.3)
	v.SetDefault("slack.enabled", false)
	v.SetDefault("slack.poll_interval", "5s")
	v.SetDefault("slack.timeout", "300s")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("agents.verbose", false)

	bindings := map[string]string{
		"openai.api_key":      "OPENAI_API_KEY",
		"openai.model":        "OPENAI_MODEL",
		"openai.temperature":  "OPENAI_TEMPERATURE",
		"slack.token":         "SLACK_BOT_TOKEN",
		"slack.channel":       "SLACK_CHANNEL",
		"slack.enabled":       "SLACK_ENABLED",
		"slack.poll_interval": "SLACK_POLL_INTERVAL",
		"slack.timeout":       "SLACK_TIMEOUT",
		"log.level":           "LOG_LEVEL",
		"agents.verbose":      "VERBOSE_AGENTS",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	settings := &models.Settings{
		OpenAIAPIKey:      v.GetString("openai.api_key"),
		OpenAIModel:       v.GetString("openai.model"),
		OpenAITemperature: v.GetFloat64("openai.temperature"),
		SlackToken:        v.GetString("slack.token"),
		SlackChannel:      v.GetString("slack.channel"),
		SlackEnabled:      v.GetBool("slack.enabled"),
		SlackPollInterval: parseDuration(v.GetString("slack.poll_interval"), 5*time.Second),
		SlackTimeout:      parseDuration(v.GetString("slack.timeout"), 300*time.Second),
		LogLevel:          strings.ToUpper(v.GetString("log.level")),
		VerboseAgents:     v.GetBool("agents.verbose"),
	}
	if err := validateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// parseDuration accepts Go duration strings and bare second counts.
func parseDuration(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if d, err := time.ParseDuration(raw + "s"); err == nil {
		return d
	}
	return fallback
}

func validateSettings(s *models.Settings) error {
	if s.SlackPollInterval <= 0 {
		return fmt.Errorf("slack poll interval must be positive, got %s", s.SlackPollInterval)
	}
	if s.SlackTimeout <= 0 {
		return fmt.Errorf("slack timeout must be positive, got %s", s.SlackTimeout)
	}
	if s.OpenAITemperature < 0 || s.OpenAITemperature > 2 {
		return fmt.Errorf("openai temperature must be between 0 and 2, got %g", s.OpenAITemperature)
	}
	if s.LogLevel == "" {
		return fmt.Errorf("log level must not be empty")
	}
	return nil
}
