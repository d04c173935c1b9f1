package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoutingRegistry(t *testing.T) *Registry {
	t.Helper()

	registry := NewRegistry(nil)

	require.NoError(t, registry.Register(testDescriptor("alpha", true, CategoryFast, CategoryCreative), staticInvoke("ok")))
	require.NoError(t, registry.Register(testDescriptor("beta", true, CategoryFast, CategoryDeep), staticInvoke("ok")))
	require.NoError(t, registry.Register(testDescriptor("gamma", false, CategoryFast), staticInvoke("ok")))
	require.NoError(t, registry.Register(testDescriptor("delta", true, CategoryDeep), staticInvoke("ok")))

	return registry
}

func TestRoutingDefaultsToRegistrationOrder(t *testing.T) {
	policy := NewRoutingPolicy(newRoutingRegistry(t), nil, nil)

	assert.Equal(t, []ProviderID{"alpha", "beta"}, policy.ChainFor(CategoryFast))
	assert.Equal(t, []ProviderID{"beta", "delta"}, policy.ChainFor(CategoryDeep))
	assert.Equal(t, []ProviderID{"alpha"}, policy.ChainFor(CategoryCreative))
}

func TestRoutingOverridePriority(t *testing.T) {
	overrides := map[Category][]ProviderID{
		CategoryFast: {"beta", "alpha"},
		CategoryDeep: {"delta"},
	}

	policy := NewRoutingPolicy(newRoutingRegistry(t), overrides, nil)

	assert.Equal(t, []ProviderID{"beta", "alpha"}, policy.ChainFor(CategoryFast))

	// Providers not named in the override still complete the chain.
	assert.Equal(t, []ProviderID{"delta", "beta"}, policy.ChainFor(CategoryDeep))
}

func TestRoutingDropsUnusableOverrides(t *testing.T) {
	overrides := map[Category][]ProviderID{
		// gamma is unavailable, delta lacks the fast tag, nosuch is unknown,
		// and beta appears twice.
		CategoryFast: {"gamma", "delta", "nosuch", "beta", "beta"},
	}

	policy := NewRoutingPolicy(newRoutingRegistry(t), overrides, nil)

	assert.Equal(t, []ProviderID{"beta", "alpha"}, policy.ChainFor(CategoryFast))
}

func TestRoutingEmptyChain(t *testing.T) {
	registry := NewRegistry(nil)

	require.NoError(t, registry.Register(testDescriptor("alpha", true, CategoryFast), staticInvoke("ok")))

	policy := NewRoutingPolicy(registry, nil, nil)

	assert.Empty(t, policy.ChainFor(CategoryDeep))
}

func TestChainForReturnsCopy(t *testing.T) {
	policy := NewRoutingPolicy(newRoutingRegistry(t), nil, nil)

	chain := policy.ChainFor(CategoryFast)
	require.NotEmpty(t, chain)

	chain[0] = "mutated"

	assert.Equal(t, ProviderID("alpha"), policy.ChainFor(CategoryFast)[0])
}
