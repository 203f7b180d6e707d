package llm

import (
	"context"
	"fmt"

	"github.com/winglish-nk/Winglish-bot/internal/logger"
	"github.com/winglish-nk/Winglish-bot/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with retry,
// rate limiting and request logging.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → rate limit → logging → base
	logged := WithLogging(base, eventRepo, log)
	limited := WithRateLimit(logged, cfg.RateLimit)
	return WithRetry(limited, cfg.Retry), nil
}
