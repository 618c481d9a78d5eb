package trapper_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildintel/trapper-client/pkg/trapper"
)

type recordingLogger struct {
	messages atomic.Int32
}

func (l *recordingLogger) Debug(string, map[string]interface{}) { l.messages.Add(1) }
func (l *recordingLogger) Info(string, map[string]interface{})  { l.messages.Add(1) }
func (l *recordingLogger) Warn(string, map[string]interface{})  { l.messages.Add(1) }
func (l *recordingLogger) Error(string, map[string]interface{}) { l.messages.Add(1) }

func TestRunBatch_PreservesOrder(t *testing.T) {
	t.Parallel()

	exec := trapper.NewBatchExecutor(3)
	items := []int{5, 1, 4, 2, 3}

	results := trapper.RunBatch(context.Background(), exec, items, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)

		return n * 10, nil
	})

	require.Len(t, results, len(items))
	require.NoError(t, results.Err())
	assert.Equal(t, []int{50, 10, 40, 20, 30}, results.Values())
	assert.Empty(t, results.Failed())

	for i, result := range results {
		assert.Equal(t, i, result.Index)
		assert.Equal(t, items[i], result.Item)
	}
}

func TestRunBatch_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32

	exec := trapper.NewBatchExecutor(2)
	items := make([]int, 12)

	trapper.RunBatch(context.Background(), exec, items, func(_ context.Context, _ int) (struct{}, error) {
		current := inFlight.Add(1)
		defer inFlight.Add(-1)

		for {
			seen := peak.Load()
			if current <= seen || peak.CompareAndSwap(seen, current) {
				break
			}
		}

		time.Sleep(5 * time.Millisecond)

		return struct{}{}, nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, 2, exec.Concurrency())
}

func TestRunBatch_FailuresDoNotStopBatch(t *testing.T) {
	t.Parallel()

	errOdd := errors.New("odd item")
	logger := &recordingLogger{}

	exec := trapper.NewBatchExecutor(0)
	exec.SetLogger(logger)

	results := trapper.RunBatch(context.Background(), exec, []int{1, 2, 3, 4}, func(_ context.Context, n int) (int, error) {
		if n%2 == 1 {
			return 0, errOdd
		}

		return n, nil
	})

	assert.Equal(t, []int{2, 4}, results.Values())

	failed := results.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, 1, failed[0].Item)
	assert.Equal(t, 3, failed[1].Item)

	err := results.Err()
	require.ErrorIs(t, err, errOdd)
	assert.Contains(t, err.Error(), "item 0")
	assert.Contains(t, err.Error(), "item 2")
	assert.Equal(t, int32(1), logger.messages.Load())
}

func TestRunBatch_ItemTimeout(t *testing.T) {
	t.Parallel()

	exec := trapper.NewBatchExecutor(1)
	exec.SetTimeout(10 * time.Millisecond)

	results := trapper.RunBatch(context.Background(), exec, []string{"slow"}, func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()

		return "", ctx.Err()
	})

	require.ErrorIs(t, results.Err(), context.DeadlineExceeded)
}

func TestRunBatch_NilExecutorAndEmptyInput(t *testing.T) {
	t.Parallel()

	results := trapper.RunBatch(context.Background(), nil, nil, func(context.Context, int) (int, error) {
		t.Fatal("fn must not be called")

		return 0, nil
	})

	assert.Empty(t, results)
	assert.Empty(t, results.Values())
	require.NoError(t, results.Err())
}
