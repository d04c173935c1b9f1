package llm

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticInvoke(content string) InvokeFunc {
	return func(_ context.Context, _ Invocation) (string, error) {
		return content, nil
	}
}

func testDescriptor(id ProviderID, available bool, capabilities ...Category) ProviderDescriptor {
	return ProviderDescriptor{
		ID:           id,
		Capabilities: capabilities,
		Available:    available,
		TokenBudget:  256,
		Timeout:      0,
	}
}

func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry(nil)

	err := registry.Register(testDescriptor("alpha", true, CategoryFast), staticInvoke("ok"))
	require.NoError(t, err)

	err = registry.Register(testDescriptor("beta", true, CategoryDeep), staticInvoke("ok"))
	require.NoError(t, err)

	assert.Equal(t, 2, registry.ProviderCount())
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	registry := NewRegistry(nil)

	require.NoError(t, registry.Register(testDescriptor("alpha", true, CategoryFast), staticInvoke("ok")))

	err := registry.Register(testDescriptor("alpha", true, CategoryDeep), staticInvoke("ok"))
	require.ErrorIs(t, err, ErrDuplicateProvider)
}

func TestRegistryRejectsInvalidDescriptor(t *testing.T) {
	registry := NewRegistry(nil)

	tests := []struct {
		name       string
		descriptor ProviderDescriptor
		invoke     InvokeFunc
	}{
		{name: "missing id", descriptor: testDescriptor("", true, CategoryFast), invoke: staticInvoke("ok")},
		{name: "nil invoke", descriptor: testDescriptor("alpha", true, CategoryFast), invoke: nil},
		{name: "no capabilities", descriptor: testDescriptor("alpha", true), invoke: staticInvoke("ok")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := registry.Register(tt.descriptor, tt.invoke)
			assert.ErrorIs(t, err, ErrInvalidDescriptor)
		})
	}
}

func TestRegistrySealsOnFirstQuery(t *testing.T) {
	registry := NewRegistry(nil)

	require.NoError(t, registry.Register(testDescriptor("alpha", true, CategoryFast), staticInvoke("ok")))

	_ = registry.Available(CategoryFast)

	err := registry.Register(testDescriptor("beta", true, CategoryFast), staticInvoke("ok"))
	require.ErrorIs(t, err, ErrRegistrySealed)
}

func TestRegistryAvailableFiltersAndOrders(t *testing.T) {
	registry := NewRegistry(nil)

	require.NoError(t, registry.Register(testDescriptor("alpha", true, CategoryFast, CategoryCreative), staticInvoke("ok")))
	require.NoError(t, registry.Register(testDescriptor("beta", false, CategoryFast), staticInvoke("ok")))
	require.NoError(t, registry.Register(testDescriptor("gamma", true, CategoryFast, CategoryDeep), staticInvoke("ok")))

	fast := registry.Available(CategoryFast)
	require.Len(t, fast, 2)
	assert.Equal(t, ProviderID("alpha"), fast[0].ID)
	assert.Equal(t, ProviderID("gamma"), fast[1].ID)

	deep := registry.Available(CategoryDeep)
	require.Len(t, deep, 1)
	assert.Equal(t, ProviderID("gamma"), deep[0].ID)

	assert.Empty(t, registry.Available(Category("unknown")))
}

func TestRegistryConcurrentRegistrationAndSealing(t *testing.T) {
	registry := NewRegistry(nil)

	require.NoError(t, registry.Register(testDescriptor("alpha", true, CategoryFast), staticInvoke("ok")))

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			if n%2 == 0 {
				// Late registrations either land before the seal or fail
				// with ErrRegistrySealed; nothing else is acceptable.
				id := ProviderID(fmt.Sprintf("late-%d", n))
				if err := registry.Register(testDescriptor(id, true, CategoryFast), staticInvoke("ok")); err != nil {
					assert.ErrorIs(t, err, ErrRegistrySealed)
				}

				return
			}

			for _, d := range registry.Available(CategoryFast) {
				assert.NotEmpty(t, d.ID)
			}
		}(i)
	}

	wg.Wait()

	// Every provider the sealed registry reports must be fully registered.
	for _, d := range registry.Available(CategoryFast) {
		_, ok := registry.Invoker(d.ID)
		assert.True(t, ok)
	}
}

func TestRegistryFailureCounters(t *testing.T) {
	registry := NewRegistry(nil)

	require.NoError(t, registry.Register(testDescriptor("alpha", true, CategoryFast), staticInvoke("ok")))

	registry.RecordFailure("alpha")
	registry.RecordFailure("alpha")
	registry.RecordFailure("unknown")

	assert.Equal(t, int64(2), registry.FailureCount("alpha"))
	assert.Equal(t, int64(0), registry.FailureCount("unknown"))

	statuses := registry.Statuses()
	require.Len(t, statuses, 1)
	assert.Equal(t, ProviderID("alpha"), statuses[0].ID)
	assert.True(t, statuses[0].Available)
	assert.Equal(t, int64(2), statuses[0].Failures)
}
