package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"atelier/internal/validation"
)

// Default models per provider.
const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-haiku-4-5-20251001"
	DefaultGeminiModel    = "gemini-2.0-flash"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "openai", "anthropic", "gemini", "mock"
	Provider string

	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Gemini    GeminiConfig
	Retry     RetryConfig

	// Timeout bounds a single generation, retries included.
	Timeout time.Duration
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Optional. Override for compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with the atelier defaults: OpenAI, no retry.
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		OpenAI:    OpenAIConfig{Model: DefaultOpenAIModel},
		Anthropic: AnthropicConfig{Model: DefaultAnthropicModel},
		Gemini:    GeminiConfig{Model: DefaultGeminiModel},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	if m := os.Getenv("OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	cfg.OpenAI.BaseURL = os.Getenv("OPENAI_BASE_URL")

	cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	if m := os.Getenv("ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}
	cfg.Anthropic.BaseURL = os.Getenv("ANTHROPIC_BASE_URL")

	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	if m := os.Getenv("GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	if v, err := strconv.Atoi(os.Getenv("LLM_MAX_ATTEMPTS")); err == nil && v > 0 {
		cfg.Retry.MaxAttempts = v
	}
	if d, err := time.ParseDuration(os.Getenv("LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}

	return cfg
}

// Validate checks that the selected provider has its credential set.
func (c Config) Validate() error {
	switch c.Provider {
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider: %w", ErrMissingCredential)
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider: %w", ErrMissingCredential)
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider: %w", ErrMissingCredential)
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}

	for name, u := range map[string]string{
		"OPENAI_BASE_URL":    c.OpenAI.BaseURL,
		"ANTHROPIC_BASE_URL": c.Anthropic.BaseURL,
	} {
		if u == "" {
			continue
		}
		if ok, msg := validation.ValidateURL(u); !ok {
			return fmt.Errorf("%s: %s", name, msg)
		}
	}
	return nil
}
