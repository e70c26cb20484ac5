package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// mockText is served by the mock provider when no canned response is queued.
const mockText = "Il était une fois une classe très curieuse qui inventait des histoires ensemble."

// NewProvider creates a Provider from configuration, wrapped with
// instrumentation and, when enabled, retries.
func NewProvider(ctx context.Context, cfg Config, observer Observer, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		mock := NewMockProvider()
		mock.Fallback = mockText
		base = mock
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller -> retry -> instrumentation -> base
	instrumented := WithInstrumentation(base, observer, logger)
	return WithRetry(instrumented, cfg.Retry), nil
}
