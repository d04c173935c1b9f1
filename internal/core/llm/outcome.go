package llm

import (
	"context"
	"errors"
	"strings"
)

// OutcomeKind classifies one invocation attempt. The invoker's loop
// consumes the classification instead of letting errors cross the Submit
// boundary.
type OutcomeKind string

// Attempt outcomes.
const (
	OutcomeSuccess     OutcomeKind = "success"
	OutcomeEmpty       OutcomeKind = "empty"
	OutcomeRateLimited OutcomeKind = "rate_limited"
	OutcomeTimeout     OutcomeKind = "timeout"
	OutcomeAuthFailure OutcomeKind = "auth_failure"
	OutcomeOther       OutcomeKind = "other"
)

// outcome is the classified result of a single attempt.
type outcome struct {
	kind    OutcomeKind
	content string
	message string
}

// classify turns an adapter's raw return into an outcome. Adapters wrap the
// sentinel errors where they can; timeouts surface as context deadline
// errors from the per-attempt context.
func classify(content string, err error) outcome {
	if err != nil {
		return classifyError(err)
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return outcome{kind: OutcomeEmpty, message: msgBlankContent}
	}

	return outcome{kind: OutcomeSuccess, content: trimmed}
}

func classifyError(err error) outcome {
	switch {
	case errors.Is(err, ErrAuthFailure):
		return outcome{kind: OutcomeAuthFailure, message: err.Error()}
	case errors.Is(err, ErrRateLimited):
		return outcome{kind: OutcomeRateLimited, message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return outcome{kind: OutcomeTimeout, message: msgTimeout}
	case errors.Is(err, ErrEmptyContent):
		return outcome{kind: OutcomeEmpty, message: err.Error()}
	default:
		return outcome{kind: OutcomeOther, message: err.Error()}
	}
}

// retriable reports whether the same provider may be attempted again.
// Auth failures and timeouts abandon the provider immediately: neither
// resolves by repeating the same request within seconds.
func (o outcome) retriable() bool {
	switch o.kind {
	case OutcomeRateLimited, OutcomeEmpty, OutcomeOther:
		return true
	default:
		return false
	}
}

// backsOff reports whether a delay is due before the next attempt.
func (o outcome) backsOff() bool {
	return o.kind == OutcomeRateLimited || o.kind == OutcomeOther
}
