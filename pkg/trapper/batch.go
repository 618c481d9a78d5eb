package trapper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/wildintel/trapper-client/internal/constants"
)

// BatchResult is the outcome of one item of a batch.
type BatchResult[I, O any] struct {
	Index    int
	Item     I
	Value    O
	Err      error
	Duration time.Duration
}

// BatchResults holds the outcomes of a batch in input order.
type BatchResults[I, O any] []BatchResult[I, O]

// Values returns the values of the successful items, in input order.
func (r BatchResults[I, O]) Values() []O {
	values := make([]O, 0, len(r))

	for _, result := range r {
		if result.Err == nil {
			values = append(values, result.Value)
		}
	}

	return values
}

// Failed returns the failed items.
func (r BatchResults[I, O]) Failed() BatchResults[I, O] {
	var failed BatchResults[I, O]

	for _, result := range r {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}

	return failed
}

// Err combines the errors of every failed item, or returns nil.
func (r BatchResults[I, O]) Err() error {
	var err error

	for _, result := range r {
		if result.Err != nil {
			err = multierr.Append(err, fmt.Errorf("item %d: %w", result.Index, result.Err))
		}
	}

	return err
}

// BatchExecutor runs per-item work with bounded concurrency.
type BatchExecutor struct {
	concurrency int
	timeout     time.Duration
	logger      Logger
}

// NewBatchExecutor creates a new batch executor. A non-positive concurrency
// uses the default.
func NewBatchExecutor(concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the timeout applied to every item. Zero disables it.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// SetLogger sets the logger receiving the per-batch summary.
func (b *BatchExecutor) SetLogger(logger Logger) {
	b.logger = logger
}

// Concurrency returns the maximum number of items in flight.
func (b *BatchExecutor) Concurrency() int {
	return b.concurrency
}

// RunBatch calls fn for every item with at most exec.Concurrency() calls in
// flight. Individual failures never stop the batch; results are returned in
// input order.
func RunBatch[I, O any](ctx context.Context, exec *BatchExecutor, items []I, fn func(context.Context, I) (O, error)) BatchResults[I, O] {
	if exec == nil {
		exec = NewBatchExecutor(0)
	}

	results := make(BatchResults[I, O], len(items))
	start := time.Now()

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, exec.concurrency)

	for index, item := range items {
		waitGroup.Add(1)

		go func(index int, item I) {
			defer waitGroup.Done()

			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			itemCtx := ctx

			if exec.timeout > 0 {
				var cancel context.CancelFunc

				itemCtx, cancel = context.WithTimeout(ctx, exec.timeout)
				defer cancel()
			}

			itemStart := time.Now()

			value, err := fn(itemCtx, item)
			results[index] = BatchResult[I, O]{
				Index:    index,
				Item:     item,
				Value:    value,
				Err:      err,
				Duration: time.Since(itemStart),
			}
		}(index, item)
	}

	waitGroup.Wait()

	if exec.logger != nil {
		exec.logger.Debug("batch completed", map[string]interface{}{
			"items":    len(items),
			"failed":   len(results.Failed()),
			"duration": time.Since(start).String(),
		})
	}

	return results
}
