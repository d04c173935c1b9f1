package llm

import "time"

// Backoff defaults. Delay doubles per attempt and is capped.
const (
	defaultBackoffBase = 200 * time.Millisecond
	defaultBackoffCap  = 5 * time.Second
)

// Rate limiter settings for the provider adapters.
const (
	rateLimiterBurst = 5
)

// Default adapter budgets and timeouts.
const (
	groqTokenBudget   = 512
	groqTimeout       = 10 * time.Second
	geminiTokenBudget = 2048
	geminiTimeout     = 30 * time.Second
	oxloTokenBudget   = 1536
	oxloTimeout       = 20 * time.Second

	adapterTemperature = 0.7
)

// Failure reason messages.
const (
	msgBlankContent     = "provider returned blank content"
	msgTimeout          = "provider timed out"
	msgEmptyPrompt      = "empty prompt"
	msgNoProvider       = "no provider available for category"
	msgDeadlineExceeded = "batch deadline exceeded"
)

// Log field keys.
const (
	logKeyProvider = "provider"
	logKeyCategory = "category"
	logKeyAttempt  = "attempt"
	logKeyOutcome  = "outcome"
	logKeyCount    = "count"
	logKeyIndex    = "index"
)

// Request status labels for metrics.
const (
	statusSuccess = "success"
	statusEmpty   = "empty"
	statusError   = "error"
)
