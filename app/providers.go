package app

import (
	"context"
	"fmt"

	"bazi-fengshui/advisor"
	"bazi-fengshui/cache"
	"bazi-fengshui/config"
	"bazi-fengshui/llm"
	"bazi-fengshui/notifications"

	"go.uber.org/zap"
)

// buildProvider selects the AI backend named by cfg.Provider
func buildProvider(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (llm.Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return llm.NewGeminiProvider(ctx, llm.GeminiConfig{
			APIKey:           cfg.GeminiAPIKey,
			Model:            cfg.GeminiModel,
			TTSModel:         cfg.GeminiTTSModel,
			TTSFallbackModel: cfg.GeminiTTSFallbackModel,
			Voice:            cfg.GeminiTTSVoice,
			Temperature:      cfg.Temperature,
		}, logger)
	case "openai":
		return llm.NewClient(cfg.Endpoint, cfg.APIKey, cfg.Model, cfg.Temperature, logger), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// newAdvisor wires the result cache and live cooldown. Without Redis the
// advisor runs uncached.
func newAdvisor(provider llm.Provider, redis *cache.RedisClient, cfg config.AIConfig, logger *zap.Logger) *advisor.Advisor {
	opts := []advisor.Option{advisor.WithCooldown(cfg.LiveCooldown)}
	if redis != nil {
		opts = append(opts, advisor.WithCache(cache.NewAICache(redis), cfg.CacheTTL))
	}
	return advisor.New(provider, logger, opts...)
}

func webhooks(cfg config.WebhookConfig) []notifications.Webhook {
	hooks := make([]notifications.Webhook, 0, len(cfg.URLs))
	for _, url := range cfg.URLs {
		hooks = append(hooks, notifications.Webhook{
			URL:        url,
			AuthHeader: cfg.AuthHeader,
			AuthValue:  cfg.AuthValue,
			RetryCount: cfg.Retries,
			RetryDelay: cfg.RetryDelay,
		})
	}
	return hooks
}
