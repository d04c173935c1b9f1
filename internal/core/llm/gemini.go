package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/scholarpulse/scholarpulse/internal/platform/config"
)

const (
	defaultGeminiModel = "gemini-2.0-flash"
	modelPrefixGemini  = "gemini"
)

// NewGeminiProvider builds the Gemini adapter: the deep synthesis tier.
func NewGeminiProvider(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (ProviderDescriptor, InvokeFunc, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return ProviderDescriptor{}, nil, fmt.Errorf("creating google genai client: %w", err)
	}

	descriptor := ProviderDescriptor{
		ID:           ProviderGemini,
		Capabilities: []Category{CategoryDeep, CategoryCreative},
		Available:    cfg.GeminiAPIKey != "",
		TokenBudget:  geminiTokenBudget,
		Timeout:      geminiTimeout,
	}

	modelName := resolveGeminiModel(cfg.GeminiModel)
	limiter := newRateLimiter(cfg.RateLimitRPS)

	invoke := func(ctx context.Context, inv Invocation) (string, error) {
		if err := limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		model := client.GenerativeModel(modelName)
		model.SetTemperature(adapterTemperature)

		if inv.TokenBudget > 0 {
			model.SetMaxOutputTokens(int32(inv.TokenBudget))
		}

		resp, err := model.GenerateContent(ctx, genai.Text(inv.Prompt))
		if err != nil {
			return "", mapGeminiError(err)
		}

		content := extractGeminiText(resp)

		logger.Debug().
			Str(logKeyProvider, string(ProviderGemini)).
			Int("content_length", len(content)).
			Msg("gemini completion")

		return content, nil
	}

	return descriptor, invoke, nil
}

// resolveGeminiModel normalizes configured model names. Historic configs
// carried a "models/" prefix.
func resolveGeminiModel(model string) string {
	model = strings.TrimPrefix(model, "models/")

	if !strings.HasPrefix(model, modelPrefixGemini) {
		return defaultGeminiModel
	}

	return model
}

func mapGeminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w: %s", ProviderGemini, ErrRateLimited, apiErr.Message)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w: %s", ProviderGemini, ErrAuthFailure, apiErr.Message)
		}
	}

	return fmt.Errorf("google genai completion: %w", err)
}

// extractGeminiText concatenates the text parts of the first candidate.
func extractGeminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder

	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	return sb.String()
}
