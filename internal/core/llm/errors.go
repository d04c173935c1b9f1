package llm

import "errors"

// Configuration errors. These are programmer errors surfaced loudly at
// setup time; everything else in this package resolves to TaskResult data.
var (
	// ErrRegistrySealed indicates a registration attempt after the registry
	// was first used for routing.
	ErrRegistrySealed = errors.New("provider registry is sealed")

	// ErrDuplicateProvider indicates a provider ID was registered twice.
	ErrDuplicateProvider = errors.New("provider already registered")

	// ErrInvalidDescriptor indicates a descriptor with no ID, no invoke
	// handle, or no capability tags.
	ErrInvalidDescriptor = errors.New("invalid provider descriptor")
)

// Invocation outcome sentinels. Provider adapters wrap these so the invoker
// can classify an attempt without inspecting SDK-specific error types.
var (
	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthFailure indicates the provider rejected the credential.
	ErrAuthFailure = errors.New("authentication failed")

	// ErrEmptyContent indicates the provider answered with blank content.
	ErrEmptyContent = errors.New("empty content")
)
