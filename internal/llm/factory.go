package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhisek/parley/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with timeout and logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger zerolog.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → timeout → logging → base
	logged := WithLogging(base, cfg.Provider, eventRepo, logger)
	return WithTimeout(logged, cfg.Timeout), nil
}

