package llm

import (
	"context"
	"time"
)

// ProviderID identifies a generation provider.
type ProviderID string

// Provider ID constants for the built-in adapters.
const (
	ProviderGroq   ProviderID = "groq"
	ProviderGemini ProviderID = "gemini"
	ProviderOxlo   ProviderID = "oxlo"
	ProviderMock   ProviderID = "mock"
)

// Invocation carries the per-attempt parameters handed to an adapter.
// Budget and timeout are already resolved against the descriptor defaults.
type Invocation struct {
	Prompt      string
	TokenBudget int
	Timeout     time.Duration
}

// InvokeFunc is the opaque invocation handle an adapter registers alongside
// its descriptor. Implementations return the raw completion text, or an
// error wrapping one of the outcome sentinels (ErrRateLimited,
// ErrAuthFailure, ErrEmptyContent) when they can classify the failure.
type InvokeFunc func(ctx context.Context, inv Invocation) (string, error)

// ProviderDescriptor holds the static capabilities of a registered provider.
// Descriptors are immutable after registration.
type ProviderDescriptor struct {
	// ID uniquely identifies the provider within a registry.
	ID ProviderID

	// Capabilities are the task categories this provider can serve.
	Capabilities []Category

	// Available is set once at construction. Once false it stays false for
	// the lifetime of the registry.
	Available bool

	// TokenBudget is the default completion budget applied when a request
	// carries no override.
	TokenBudget int

	// Timeout is the default per-attempt timeout applied when a request
	// carries no override.
	Timeout time.Duration
}

// Supports reports whether the provider is tagged for the category.
func (d ProviderDescriptor) Supports(category Category) bool {
	for _, c := range d.Capabilities {
		if c == category {
			return true
		}
	}

	return false
}
