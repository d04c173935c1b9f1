package llm

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/scholarpulse/scholarpulse/internal/platform/observability"
)

// registryEntry pairs a descriptor with its invocation handle and the
// failure counter shared by concurrent batch workers.
type registryEntry struct {
	descriptor ProviderDescriptor
	invoke     InvokeFunc
	failures   atomic.Int64
}

// Registry holds the set of registered providers. Registration happens at
// startup; the first routing query seals the registry, after which it is
// read-only and safe for concurrent use without locking.
type Registry struct {
	mu      sync.Mutex
	sealed  atomic.Bool
	order   []ProviderID
	entries map[ProviderID]*registryEntry
	logger  *zerolog.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry(logger *zerolog.Logger) *Registry {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Registry{
		entries: make(map[ProviderID]*registryEntry),
		logger:  logger,
	}
}

// Register adds a provider and its invocation handle. It fails once the
// registry is sealed by first use, and on duplicate or malformed descriptors.
func (r *Registry) Register(descriptor ProviderDescriptor, invoke InvokeFunc) error {
	if descriptor.ID == "" || invoke == nil || len(descriptor.Capabilities) == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidDescriptor, descriptor.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return fmt.Errorf("%w: cannot register %q", ErrRegistrySealed, descriptor.ID)
	}

	if _, ok := r.entries[descriptor.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateProvider, descriptor.ID)
	}

	r.entries[descriptor.ID] = &registryEntry{descriptor: descriptor, invoke: invoke}
	r.order = append(r.order, descriptor.ID)

	available := 0.0
	if descriptor.Available {
		available = 1.0
	}

	observability.ProviderAvailable.WithLabelValues(string(descriptor.ID)).Set(available)

	r.logger.Info().
		Str(logKeyProvider, string(descriptor.ID)).
		Strs("capabilities", capabilityStrings(descriptor.Capabilities)).
		Bool("available", descriptor.Available).
		Msg("registered generation provider")

	return nil
}

// Available returns the registered providers tagged for the category whose
// availability flag is true, in registration order. The first call seals
// the registry.
func (r *Registry) Available(category Category) []ProviderDescriptor {
	r.seal()

	descriptors := make([]ProviderDescriptor, 0, len(r.order))

	for _, id := range r.order {
		d := r.entries[id].descriptor
		if d.Available && d.Supports(category) {
			descriptors = append(descriptors, d)
		}
	}

	return descriptors
}

// Descriptor returns the descriptor for a provider ID.
func (r *Registry) Descriptor(id ProviderID) (ProviderDescriptor, bool) {
	r.seal()

	e, ok := r.entries[id]
	if !ok {
		return ProviderDescriptor{}, false
	}

	return e.descriptor, true
}

// Invoker returns the invocation handle for a provider ID.
func (r *Registry) Invoker(id ProviderID) (InvokeFunc, bool) {
	r.seal()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}

	return e.invoke, true
}

// ProviderCount returns the number of registered providers.
func (r *Registry) ProviderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// RecordFailure increments the provider's failure counter. Counters feed
// provider status readouts and are updated atomically because many batch
// workers may report failures for the same provider concurrently.
func (r *Registry) RecordFailure(id ProviderID) {
	if e, ok := r.entries[id]; ok {
		e.failures.Add(1)
	}
}

// FailureCount returns the accumulated failure count for a provider.
func (r *Registry) FailureCount(id ProviderID) int64 {
	if e, ok := r.entries[id]; ok {
		return e.failures.Load()
	}

	return 0
}

// ProviderStatus holds status information for a provider.
type ProviderStatus struct {
	ID        ProviderID
	Available bool
	Failures  int64
}

// Statuses returns status information for all registered providers in
// registration order.
func (r *Registry) Statuses() []ProviderStatus {
	r.seal()

	statuses := make([]ProviderStatus, 0, len(r.order))

	for _, id := range r.order {
		e := r.entries[id]

		statuses = append(statuses, ProviderStatus{
			ID:        id,
			Available: e.descriptor.Available,
			Failures:  e.failures.Load(),
		})
	}

	return statuses
}

// seal marks the registry read-only. Sealing takes the registration lock so
// it orders after any in-flight Register; registration order and entries
// never change afterwards, so subsequent reads need no locking.
func (r *Registry) seal() {
	if r.sealed.Load() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.CompareAndSwap(false, true) {
		r.logger.Debug().Int(logKeyCount, len(r.order)).Msg("provider registry sealed")
	}
}

func capabilityStrings(categories []Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}

	return out
}
