package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidchat/internal/config"
	"vidchat/internal/services"
)

// Generator produces text for a prompt with the named model.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Backend is a Generator that can also verify its credentials.
type Backend interface {
	Generator
	HealthCheck(ctx context.Context, model string) error
}

// FromConfig constructs the provider selected in cfg.
func FromConfig(ctx context.Context, cfg config.LLM, opts ...Option) (Backend, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewClient(Config{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			Referer:        cfg.Referer,
			Title:          cfg.Title,
			TimeoutSeconds: cfg.TimeoutSeconds,
		}, opts...), nil
	case config.ProviderGemini, "":
		return NewGemini(ctx, GeminiConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		})
	default:
		return nil, services.Wrap(services.ErrConfiguration, "llm", "provider", fmt.Sprintf("unsupported provider %q", cfg.Provider), nil)
	}
}

// IsQuota reports whether err is a quota or rate-limit refusal.
func IsQuota(err error) bool {
	return errors.Is(err, services.ErrQuotaExhausted)
}

// looksLikeQuota catches quota refusals that arrive without a 429 status.
func looksLikeQuota(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "quota") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "rate limit")
}

func quotaError(model string, err error) error {
	return services.Wrap(services.ErrQuotaExhausted, "llm", "generate", model, err)
}

func generateError(model string, err error) error {
	if looksLikeQuota(err.Error()) {
		return quotaError(model, err)
	}
	return services.Wrap(services.ErrExternalTool, "llm", "generate", model, err)
}

func missingKeyError(op string) error {
	return services.Wrap(services.ErrConfiguration, "llm", op, "api key required", nil)
}
