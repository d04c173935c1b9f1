package llm

import (
	"context"
	"strings"
)

// NewMockProvider builds a keyless deterministic provider. It backs local
// runs where no real API key is configured, and some tests.
func NewMockProvider() (ProviderDescriptor, InvokeFunc) {
	descriptor := ProviderDescriptor{
		ID:           ProviderMock,
		Capabilities: []Category{CategoryFast, CategoryDeep, CategoryCreative},
		Available:    true,
		TokenBudget:  oxloTokenBudget,
		Timeout:      oxloTimeout,
	}

	invoke := func(_ context.Context, inv Invocation) (string, error) {
		if strings.Contains(inv.Prompt, "JSON array") {
			return `[{"title": "Mock research direction", "description": "A mock description."}]`, nil
		}

		if strings.Contains(inv.Prompt, "JSON") {
			return `{"objective": "Mock objective", "method": "Mock method"}`, nil
		}

		return "Mock response", nil
	}

	return descriptor, invoke
}
