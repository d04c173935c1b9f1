package llm

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarpulse/scholarpulse/internal/platform/observability"
)

// Invoker executes a TaskRequest against its routing chain, producing one
// TaskResult. It never returns an error: every per-attempt failure is
// captured as data inside the result.
type Invoker struct {
	registry    *Registry
	policy      *RoutingPolicy
	backoffBase time.Duration
	backoffCap  time.Duration
	maxAttempts int
	logger      *zerolog.Logger

	// sleep is ctx-aware and replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// InvokerConfig tunes retry backoff and the per-provider attempt budget.
// Zero values use package defaults.
type InvokerConfig struct {
	BackoffBase time.Duration
	BackoffCap  time.Duration
	MaxAttempts int
}

// NewInvoker creates a resilient invoker over a sealed registry and its
// routing policy.
func NewInvoker(registry *Registry, policy *RoutingPolicy, cfg InvokerConfig, logger *zerolog.Logger) *Invoker {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}

	if cfg.BackoffCap <= 0 {
		cfg.BackoffCap = defaultBackoffCap
	}

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}

	return &Invoker{
		registry:    registry,
		policy:      policy,
		backoffBase: cfg.BackoffBase,
		backoffCap:  cfg.BackoffCap,
		maxAttempts: cfg.MaxAttempts,
		logger:      logger,
		sleep:       sleepCtx,
	}
}

// Submit resolves one request against its category's provider chain.
func (inv *Invoker) Submit(ctx context.Context, req TaskRequest) TaskResult {
	if strings.TrimSpace(req.Prompt) == "" {
		return TaskResult{
			Status:   StatusError,
			Failures: []FailureReason{{Outcome: OutcomeOther, Message: msgEmptyPrompt}},
		}
	}

	chain := inv.policy.ChainFor(req.Category)
	if len(chain) == 0 {
		observability.GenerationRequests.WithLabelValues("none", string(req.Category), statusError).Inc()

		return TaskResult{
			Status:   StatusError,
			Failures: []FailureReason{{Outcome: OutcomeOther, Message: msgNoProvider + " " + string(req.Category)}},
		}
	}

	var (
		attempts    int
		failures    []FailureReason
		hardFailure bool
	)

	for chainIdx, id := range chain {
		descriptor, ok := inv.registry.Descriptor(id)
		if !ok {
			// Routing table never references unknown providers; guard anyway.
			continue
		}

		invoke, _ := inv.registry.Invoker(id)

		maxAttempts := inv.maxAttempts
		if req.MaxAttempts > 0 {
			maxAttempts = req.MaxAttempts
		}

		for attempt := 1; attempt <= maxAttempts; attempt++ {
			attempts++

			o := inv.attempt(ctx, req, descriptor, invoke)

			observability.GenerationAttempts.WithLabelValues(string(id), string(o.kind)).Inc()

			if o.kind == OutcomeSuccess {
				if chainIdx > 0 {
					observability.GenerationFallbacks.WithLabelValues(
						string(chain[chainIdx-1]),
						string(id),
						string(req.Category),
					).Inc()

					inv.logger.Info().
						Str(logKeyProvider, string(id)).
						Str(logKeyCategory, string(req.Category)).
						Msg("used fallback provider")
				}

				observability.GenerationRequests.WithLabelValues(string(id), string(req.Category), statusSuccess).Inc()

				return TaskResult{
					Status:   StatusSuccess,
					Content:  o.content,
					Provider: id,
					Attempts: attempts,
					Failures: failures,
				}
			}

			failures = append(failures, FailureReason{Provider: id, Attempt: attempt, Outcome: o.kind, Message: o.message})
			inv.registry.RecordFailure(id)

			if o.kind != OutcomeEmpty {
				hardFailure = true
			}

			inv.logger.Warn().
				Str(logKeyProvider, string(id)).
				Str(logKeyCategory, string(req.Category)).
				Int(logKeyAttempt, attempt).
				Str(logKeyOutcome, string(o.kind)).
				Msg("provider attempt failed")

			if ctx.Err() != nil {
				return inv.exhausted(req, attempts, failures, hardFailure)
			}

			if !o.retriable() {
				break
			}

			if attempt < maxAttempts && o.backsOff() {
				if err := inv.sleep(ctx, inv.backoffDelay(attempt)); err != nil {
					return inv.exhausted(req, attempts, failures, hardFailure)
				}
			}
		}
	}

	return inv.exhausted(req, attempts, failures, hardFailure)
}

// attempt runs one invocation under the resolved per-attempt timeout and
// classifies the result.
func (inv *Invoker) attempt(ctx context.Context, req TaskRequest, descriptor ProviderDescriptor, invoke InvokeFunc) outcome {
	budget := descriptor.TokenBudget
	if req.TokenBudget > 0 {
		budget = req.TokenBudget
	}

	timeout := descriptor.Timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	attemptCtx := ctx
	cancel := context.CancelFunc(func() {})

	if timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	start := time.Now()

	content, err := invoke(attemptCtx, Invocation{Prompt: req.Prompt, TokenBudget: budget, Timeout: timeout})

	observability.GenerationLatency.WithLabelValues(string(descriptor.ID), string(req.Category)).Observe(time.Since(start).Seconds())

	return classify(content, err)
}

// exhausted builds the terminal result after the chain produced no success.
// When every recorded failure was blank content the status is empty rather
// than error, so callers can decide whether blank output is tolerable.
func (inv *Invoker) exhausted(req TaskRequest, attempts int, failures []FailureReason, hardFailure bool) TaskResult {
	status := StatusError
	if !hardFailure && attempts > 0 {
		status = StatusEmpty
	}

	label := statusError
	if status == StatusEmpty {
		label = statusEmpty
	}

	observability.GenerationRequests.WithLabelValues("none", string(req.Category), label).Inc()

	inv.logger.Error().
		Str(logKeyCategory, string(req.Category)).
		Int("attempts", attempts).
		Int("failures", len(failures)).
		Msg("provider chain exhausted")

	return TaskResult{
		Status:   status,
		Attempts: attempts,
		Failures: failures,
	}
}

func (inv *Invoker) backoffDelay(attempt int) time.Duration {
	delay := inv.backoffBase << (attempt - 1)
	if delay > inv.backoffCap {
		delay = inv.backoffCap
	}

	return delay
}

// sleepCtx waits for the delay or the context, whichever ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
