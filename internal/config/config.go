// Package config loads runtime configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/abhisek/mathdrill/internal/llm"
)

// Config holds everything the serve command needs to wire the engine.
type Config struct {
	Addr            string        `env:"MATHDRILL_ADDR" envDefault:":5001"`
	DBPath          string        `env:"MATHDRILL_DB" envDefault:"mathdrill.db"`
	ShutdownTimeout time.Duration `env:"MATHDRILL_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LLMProvider    string        `env:"MATHDRILL_LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey   string        `env:"GEMINI_API_KEY"`
	GeminiModel    string        `env:"MATHDRILL_GEMINI_MODEL"`
	AnthropicKey   string        `env:"ANTHROPIC_API_KEY"`
	AnthropicModel string        `env:"MATHDRILL_ANTHROPIC_MODEL"`
	OpenAIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIModel    string        `env:"MATHDRILL_OPENAI_MODEL"`
	OpenAIBaseURL  string        `env:"MATHDRILL_OPENAI_BASE_URL"`
	LLMTimeout     time.Duration `env:"MATHDRILL_LLM_TIMEOUT" envDefault:"30s"`

	HintTimeout      time.Duration `env:"MATHDRILL_HINT_TIMEOUT" envDefault:"15s"`
	Estimator        string        `env:"MATHDRILL_ESTIMATOR" envDefault:"bkt"`
	EstimatorTimeout time.Duration `env:"MATHDRILL_ESTIMATOR_TIMEOUT" envDefault:"2s"`
}

// Load reads configuration from the process environment. A .env file in
// the working directory is applied first when present; a missing file
// is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// LLMConfig translates the flat environment view into the provider
// configuration. When the selected provider has no API key the mock
// provider is substituted so the server still runs locally.
func (c *Config) LLMConfig() llm.Config {
	lc := llm.DefaultConfig()
	lc.Provider = c.LLMProvider
	lc.Timeout = c.LLMTimeout

	lc.Gemini.APIKey = c.GeminiAPIKey
	if c.GeminiModel != "" {
		lc.Gemini.Model = c.GeminiModel
	}
	lc.Anthropic.APIKey = c.AnthropicKey
	if c.AnthropicModel != "" {
		lc.Anthropic.Model = c.AnthropicModel
	}
	lc.OpenAI.APIKey = c.OpenAIKey
	if c.OpenAIModel != "" {
		lc.OpenAI.Model = c.OpenAIModel
	}
	if c.OpenAIBaseURL != "" {
		lc.OpenAI.BaseURL = c.OpenAIBaseURL
	}

	if !c.hasKeyFor(lc.Provider) {
		lc.Provider = "mock"
	}
	return lc
}

func (c *Config) hasKeyFor(provider string) bool {
	switch provider {
	case "gemini":
		return c.GeminiAPIKey != ""
	case "anthropic":
		return c.AnthropicKey != ""
	case "openai":
		return c.OpenAIKey != ""
	case "mock":
		return true
	default:
		return false
	}
}
