package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/scholarpulse/scholarpulse/internal/platform/config"
)

// newCompatClient builds a go-openai client against an OpenAI-compatible
// chat completions endpoint.
func newCompatClient(apiKey, baseURL string) *openai.Client {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	return openai.NewClientWithConfig(clientCfg)
}

// newChatInvoke returns the invocation handle for an OpenAI-compatible
// provider. API failures are mapped onto the outcome sentinels so the
// invoker can classify them.
func newChatInvoke(id ProviderID, client *openai.Client, model string, limiter *rate.Limiter, logger *zerolog.Logger) InvokeFunc {
	return func(ctx context.Context, inv Invocation) (string, error) {
		if err := limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       model,
			MaxTokens:   inv.TokenBudget,
			Temperature: adapterTemperature,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: inv.Prompt,
				},
			},
		})
		if err != nil {
			return "", mapChatError(id, err)
		}

		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%s: %w", id, ErrEmptyContent)
		}

		content := resp.Choices[0].Message.Content

		logger.Debug().
			Str(logKeyProvider, string(id)).
			Int("content_length", len(content)).
			Msg("chat completion")

		return content, nil
	}
}

// mapChatError translates go-openai API errors onto the outcome sentinels.
func mapChatError(id ProviderID, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w: %s", id, ErrRateLimited, apiErr.Message)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w: %s", id, ErrAuthFailure, apiErr.Message)
		}
	}

	return fmt.Errorf("%s chat completion: %w", id, err)
}

func newRateLimiter(rps int) *rate.Limiter {
	if rps <= 0 {
		rps = 1
	}

	return rate.NewLimiter(rate.Limit(float64(rps)), rateLimiterBurst)
}

// NewGroqProvider builds the Groq adapter: the fast summarization tier.
func NewGroqProvider(cfg *config.Config, logger *zerolog.Logger) (ProviderDescriptor, InvokeFunc) {
	descriptor := ProviderDescriptor{
		ID:           ProviderGroq,
		Capabilities: []Category{CategoryFast, CategoryCreative},
		Available:    cfg.GroqAPIKey != "",
		TokenBudget:  groqTokenBudget,
		Timeout:      groqTimeout,
	}

	client := newCompatClient(cfg.GroqAPIKey, cfg.GroqBaseURL)
	invoke := newChatInvoke(ProviderGroq, client, cfg.GroqModel, newRateLimiter(cfg.RateLimitRPS), logger)

	return descriptor, invoke
}

// NewOxloProvider builds the Oxlo adapter: the general fallback tier that
// also leads idea generation.
func NewOxloProvider(cfg *config.Config, logger *zerolog.Logger) (ProviderDescriptor, InvokeFunc) {
	descriptor := ProviderDescriptor{
		ID:           ProviderOxlo,
		Capabilities: []Category{CategoryFast, CategoryDeep, CategoryCreative},
		Available:    cfg.OxloAPIKey != "",
		TokenBudget:  oxloTokenBudget,
		Timeout:      oxloTimeout,
	}

	client := newCompatClient(cfg.OxloAPIKey, cfg.OxloBaseURL)
	invoke := newChatInvoke(ProviderOxlo, client, cfg.OxloModel, newRateLimiter(cfg.RateLimitRPS), logger)

	return descriptor, invoke
}
