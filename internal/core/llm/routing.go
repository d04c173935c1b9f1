package llm

import (
	"github.com/rs/zerolog"
)

// RoutingTable maps a task category to its ordered, deduplicated provider
// chain. Built once from the registry; immutable afterwards.
type RoutingTable map[Category][]ProviderID

// RoutingPolicy resolves the provider chain for a task category.
//
// The chain for a category starts with the declarative priority override
// list (filtered to providers that are registered, available and tagged for
// the category) and is completed with the remaining capable providers in
// registration order. Deterministic given a fixed registration order.
type RoutingPolicy struct {
	table RoutingTable
}

// NewRoutingPolicy builds the routing table from the registry. Overrides
// are configuration data: ordered provider IDs per category. IDs unknown to
// the registry or not tagged for the category are dropped, never invented.
func NewRoutingPolicy(registry *Registry, overrides map[Category][]ProviderID, logger *zerolog.Logger) *RoutingPolicy {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	table := make(RoutingTable, len(Categories()))

	for _, category := range Categories() {
		chain := buildChain(registry, category, overrides[category])
		table[category] = chain

		logger.Debug().
			Str(logKeyCategory, string(category)).
			Strs("chain", providerStrings(chain)).
			Msg("built routing chain")
	}

	return &RoutingPolicy{table: table}
}

// ChainFor returns the provider chain for a category. An empty chain is a
// valid answer that callers must treat as an immediate exhausted-chain
// condition, not a crash.
func (p *RoutingPolicy) ChainFor(category Category) []ProviderID {
	chain := p.table[category]

	out := make([]ProviderID, len(chain))
	copy(out, chain)

	return out
}

func buildChain(registry *Registry, category Category, override []ProviderID) []ProviderID {
	available := registry.Available(category)

	capable := make(map[ProviderID]bool, len(available))
	for _, d := range available {
		capable[d.ID] = true
	}

	seen := make(map[ProviderID]bool, len(available))
	chain := make([]ProviderID, 0, len(available))

	for _, id := range override {
		if capable[id] && !seen[id] {
			chain = append(chain, id)
			seen[id] = true
		}
	}

	for _, d := range available {
		if !seen[d.ID] {
			chain = append(chain, d.ID)
			seen[d.ID] = true
		}
	}

	return chain
}

func providerStrings(ids []ProviderID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}

	return out
}
