// Package llm is the multi-provider generation orchestration core: an
// immutable provider registry, category-based routing with declarative
// priority overrides, a resilient invoker with retry/backoff/fallback, a
// bounded-concurrency batch coordinator, and a never-failing structured
// response parser.
package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarpulse/scholarpulse/internal/platform/config"
)

// Client is the boundary calling services use. Submit and SubmitBatch never
// return errors: a TaskResult with status error or empty is a normal,
// expected outcome.
type Client interface {
	Submit(ctx context.Context, req TaskRequest) TaskResult
	SubmitBatch(ctx context.Context, requests []TaskRequest, concurrency int, deadline time.Duration) []TaskResult
	ProviderStatuses() []ProviderStatus
}

type client struct {
	registry    *Registry
	invoker     *Invoker
	coordinator *Coordinator
}

func (c *client) Submit(ctx context.Context, req TaskRequest) TaskResult {
	return c.invoker.Submit(ctx, req)
}

func (c *client) SubmitBatch(ctx context.Context, requests []TaskRequest, concurrency int, deadline time.Duration) []TaskResult {
	return c.coordinator.SubmitBatch(ctx, requests, concurrency, deadline)
}

func (c *client) ProviderStatuses() []ProviderStatus {
	return c.registry.Statuses()
}

// NewClient wires a client over an already-populated registry. The first
// routing query seals the registry.
func NewClient(registry *Registry, overrides map[Category][]ProviderID, cfg InvokerConfig, logger *zerolog.Logger) Client {
	policy := NewRoutingPolicy(registry, overrides, logger)
	invoker := NewInvoker(registry, policy, cfg, logger)

	return &client{
		registry:    registry,
		invoker:     invoker,
		coordinator: NewCoordinator(invoker, logger),
	}
}

// New builds the registry from configuration and returns the wired client.
// Providers are registered in fixed order (groq, gemini, oxlo) when their
// keys are present; with no keys at all the mock provider is registered so
// the pipeline stays runnable offline.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (Client, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	registry := NewRegistry(logger)
	if err := registerProviders(ctx, registry, cfg, logger); err != nil {
		return nil, err
	}

	invokerCfg := InvokerConfig{
		BackoffBase: cfg.BackoffBase,
		BackoffCap:  cfg.BackoffCap,
		MaxAttempts: cfg.MaxAttemptsPerProvider,
	}

	return NewClient(registry, RoutingOverrides(cfg), invokerCfg, logger), nil
}

// registerProviders registers all configured provider adapters.
func registerProviders(ctx context.Context, registry *Registry, cfg *config.Config, logger *zerolog.Logger) error {
	if cfg.GroqAPIKey != "" {
		descriptor, invoke := NewGroqProvider(cfg, logger)
		if err := registry.Register(descriptor, invoke); err != nil {
			return err
		}
	}

	if cfg.GeminiAPIKey != "" {
		descriptor, invoke, err := NewGeminiProvider(ctx, cfg, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to create gemini provider")
		} else if err := registry.Register(descriptor, invoke); err != nil {
			return err
		}
	}

	if cfg.OxloAPIKey != "" {
		descriptor, invoke := NewOxloProvider(cfg, logger)
		if err := registry.Register(descriptor, invoke); err != nil {
			return err
		}
	}

	if registry.ProviderCount() == 0 {
		descriptor, invoke := NewMockProvider()
		if err := registry.Register(descriptor, invoke); err != nil {
			return err
		}
	}

	return nil
}

// RoutingOverrides turns the configured per-category provider lists into
// routing policy overrides. Empty lists get the default ordering: the
// fastest provider leads fast tasks, the strongest leads deep synthesis,
// and idea generation prefers the creative fallback tier.
func RoutingOverrides(cfg *config.Config) map[Category][]ProviderID {
	overrides := map[Category][]ProviderID{
		CategoryFast:     {ProviderGroq, ProviderOxlo, ProviderGemini},
		CategoryDeep:     {ProviderGemini, ProviderOxlo, ProviderGroq},
		CategoryCreative: {ProviderOxlo, ProviderGroq, ProviderGemini},
	}

	if len(cfg.RoutingFast) > 0 {
		overrides[CategoryFast] = toProviderIDs(cfg.RoutingFast)
	}

	if len(cfg.RoutingDeep) > 0 {
		overrides[CategoryDeep] = toProviderIDs(cfg.RoutingDeep)
	}

	if len(cfg.RoutingCreative) > 0 {
		overrides[CategoryCreative] = toProviderIDs(cfg.RoutingCreative)
	}

	return overrides
}

func toProviderIDs(names []string) []ProviderID {
	ids := make([]ProviderID, len(names))
	for i, n := range names {
		ids[i] = ProviderID(n)
	}

	return ids
}
