package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions(attempts int) func(o *Options) {
	return func(o *Options) {
		o.MaxAttempts = attempts
		o.Delay = time.Millisecond
		o.Backoff = 1.0
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return nil
	}, fastOptions(3))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, fastOptions(5))
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ReturnsLastErrorAfterExhaustion(t *testing.T) {
	lastErr := errors.New("still failing")
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return lastErr
	}, fastOptions(3))
	assert.ErrorIs(t, err, lastErr)
	assert.Equal(t, 3, calls)
}

func TestDo_ContextCancellationAbortsWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, func() error {
		calls++
		cancel()
		return errors.New("fail")
	}, func(o *Options) {
		o.MaxAttempts = 5
		o.Delay = time.Hour
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDoValue(t *testing.T) {
	calls := 0
	v, err := DoValue(context.Background(), func() (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	}, fastOptions(3))
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestDo_MinimumOneAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return errors.New("fail")
	}, func(o *Options) { o.MaxAttempts = 0 })
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
