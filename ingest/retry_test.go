package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return nil
	}, 3, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetrySucceedsAfterFailure(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	failure := errors.New("always fails")
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return failure
	}, 3, time.Millisecond)

	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 3, calls)
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		cancel()
		return errors.New("fail then cancel")
	}, 5, time.Minute)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetryInvalidMaxAttempts(t *testing.T) {
	err := RetryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}
