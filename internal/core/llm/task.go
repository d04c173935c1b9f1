package llm

import (
	"time"
)

// Category classifies a generation task and selects its provider chain.
type Category string

// Task categories.
const (
	CategoryFast     Category = "fast"
	CategoryDeep     Category = "deep"
	CategoryCreative Category = "creative"
)

// Categories lists all known task categories in a stable order.
func Categories() []Category {
	return []Category{CategoryFast, CategoryDeep, CategoryCreative}
}

// Valid reports whether the category is one of the known task categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFast, CategoryDeep, CategoryCreative:
		return true
	}

	return false
}

// DefaultMaxAttempts is the per-provider attempt budget when a request
// does not override it.
const DefaultMaxAttempts = 2

// TaskRequest describes one generation request routed through a provider chain.
type TaskRequest struct {
	// Prompt is the text sent to the provider. Must be non-empty.
	Prompt string

	// Category selects the provider chain for this request.
	Category Category

	// TokenBudget overrides the provider's default completion budget when > 0.
	TokenBudget int

	// Timeout overrides the provider's default per-attempt timeout when > 0.
	Timeout time.Duration

	// MaxAttempts overrides the per-provider attempt budget when > 0.
	MaxAttempts int
}

// Status is the final disposition of a TaskRequest.
type Status string

// Task result statuses.
const (
	// StatusSuccess means a provider returned non-empty content.
	StatusSuccess Status = "success"

	// StatusEmpty means every reachable provider returned blank content and
	// no hard failure occurred. Callers may tolerate this.
	StatusEmpty Status = "empty"

	// StatusError means the chain was exhausted with at least one hard
	// failure, or was empty to begin with.
	StatusError Status = "error"
)

// FailureReason records one failed attempt against one provider.
type FailureReason struct {
	Provider ProviderID
	Attempt  int
	Outcome  OutcomeKind
	Message  string
}

func (f FailureReason) String() string {
	if f.Provider == "" {
		return f.Message
	}

	return string(f.Provider) + ": " + f.Message
}

// TaskResult is the outcome of resolving one TaskRequest. A result is always
// produced; failures are carried as data, never as a returned error.
type TaskResult struct {
	Status Status

	// Content is the trimmed provider output. Set only on StatusSuccess.
	Content string

	// Provider identifies the provider that produced Content.
	Provider ProviderID

	// Attempts counts every invocation made across the whole chain.
	Attempts int

	// Failures lists per-attempt failure reasons in the order they occurred.
	// Empty on success.
	Failures []FailureReason
}

// BatchItem pairs a request with its position in the original batch and,
// once resolved, its result.
type BatchItem struct {
	Index   int
	Request TaskRequest
	Result  TaskResult
}
