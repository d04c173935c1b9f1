package llm

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarpulse/scholarpulse/internal/platform/observability"
)

// Coordinator fans out independent requests over a bounded worker pool with
// a hard batch deadline. Output order always matches input order; individual
// failures are data in the per-item results, never a batch error.
type Coordinator struct {
	invoker *Invoker
	logger  *zerolog.Logger
}

// NewCoordinator creates a batch coordinator over an invoker.
func NewCoordinator(invoker *Invoker, logger *zerolog.Logger) *Coordinator {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Coordinator{invoker: invoker, logger: logger}
}

// SubmitBatch resolves requests concurrently with at most `concurrency`
// requests in flight. Once the deadline elapses, in-flight invocations are
// cancelled, no new items start, and every unresolved item receives a
// "batch deadline exceeded" error result. Completed items keep their result.
func (c *Coordinator) SubmitBatch(ctx context.Context, requests []TaskRequest, concurrency int, deadline time.Duration) []TaskResult {
	if len(requests) == 0 {
		return nil
	}

	if concurrency < 1 {
		concurrency = 1
	}

	if concurrency > len(requests) {
		concurrency = len(requests)
	}

	batchCtx := ctx
	cancel := context.CancelFunc(func() {})

	if deadline > 0 {
		batchCtx, cancel = context.WithTimeout(ctx, deadline)
	}
	defer cancel()

	start := time.Now()

	items := make(chan BatchItem, len(requests))
	for i, req := range requests {
		items <- BatchItem{Index: i, Request: req}
	}
	close(items)

	results := make([]TaskResult, len(requests))

	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for item := range items {
				results[item.Index] = c.resolve(batchCtx, item)
			}
		}()
	}

	wg.Wait()

	observability.BatchDuration.Observe(time.Since(start).Seconds())

	for _, res := range results {
		observability.BatchItems.WithLabelValues(string(res.Status)).Inc()
	}

	c.logger.Info().
		Int(logKeyCount, len(requests)).
		Int("concurrency", concurrency).
		Dur("elapsed", time.Since(start)).
		Msg("batch resolved")

	return results
}

func (c *Coordinator) resolve(batchCtx context.Context, item BatchItem) TaskResult {
	if batchCtx.Err() != nil {
		return deadlineResult()
	}

	res := c.invoker.Submit(batchCtx, item.Request)

	// An item interrupted mid-flight by the batch deadline is "pending", not
	// failed on its own terms. Items that finished before the cutoff keep
	// their real result, success or not.
	if res.Status != StatusSuccess && batchCtx.Err() != nil {
		c.logger.Warn().Int(logKeyIndex, item.Index).Msg(msgDeadlineExceeded)

		return deadlineResult()
	}

	return res
}

func deadlineResult() TaskResult {
	return TaskResult{
		Status:   StatusError,
		Failures: []FailureReason{{Outcome: OutcomeTimeout, Message: msgDeadlineExceeded}},
	}
}
