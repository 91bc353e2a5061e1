package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Env holds settings read from environment variables.
type Env struct {
	FeedbackAPIKey  string        `env:"NBACK_FEEDBACK_API_KEY"`
	AnthropicAPIKey string        `env:"ANTHROPIC_API_KEY"`
	FeedbackModel   string        `env:"NBACK_FEEDBACK_MODEL"`
	FeedbackBaseURL string        `env:"NBACK_FEEDBACK_BASE_URL"`
	FeedbackTimeout time.Duration `env:"NBACK_FEEDBACK_TIMEOUT"`
}

// APIKey returns the feedback key, preferring the app-specific variable.
func (e Env) APIKey() string {
	if e.FeedbackAPIKey != "" {
		return e.FeedbackAPIKey
	}
	return e.AnthropicAPIKey
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (Env, error) {
	var env Env
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Env{}, fmt.Errorf("failed to read env: %w", err)
	}
	return env, nil
}
