package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docdash/internal/logging"
)

func fastConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
	}
}

func TestExecute_RetriesTemporaryFailure(t *testing.T) {
	exec := NewExecutor(fastConfig(), logging.Discard())

	attempts := 0
	err := exec.Execute(context.Background(), "refresh", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary")
		}
		return nil
	}, RetryAll)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestExecute_StopsOnPermanentFailure(t *testing.T) {
	exec := NewExecutor(fastConfig(), logging.Discard())
	errPermanent := errors.New("permanent")

	attempts := 0
	err := exec.Execute(context.Background(), "refresh", func(context.Context) error {
		attempts++
		return errPermanent
	}, func(error) Classification { return Classification{Retryable: false, RecordFailure: true} })

	assert.ErrorIs(t, err, errPermanent)
	assert.Equal(t, 1, attempts)
}

func TestExecute_ReturnsLastErrorWhenExhausted(t *testing.T) {
	exec := NewExecutor(fastConfig(), logging.Discard())

	attempts := 0
	err := exec.Execute(context.Background(), "refresh", func(context.Context) error {
		attempts++
		return errors.New("still down")
	}, nil)

	assert.EqualError(t, err, "still down")
	assert.Equal(t, 3, attempts)
}

func TestExecute_NoRetryPolicy(t *testing.T) {
	exec := NewExecutor(NoRetry(), logging.Discard())

	attempts := 0
	_ = exec.Execute(context.Background(), "refresh", func(context.Context) error {
		attempts++
		return errors.New("down")
	}, RetryAll)

	assert.Equal(t, 1, attempts)
}

func TestExecute_CancelledContext(t *testing.T) {
	exec := NewExecutor(fastConfig(), logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := exec.Execute(ctx, "refresh", func(context.Context) error {
		called = true
		return nil
	}, RetryAll)

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestExecute_BreakerOpens(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryMaxAttempts = 1
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = time.Minute
	exec := NewExecutor(cfg, logging.Discard())

	fail := func(context.Context) error { return errors.New("down") }
	_ = exec.Execute(context.Background(), "refresh", fail, RetryAll)
	_ = exec.Execute(context.Background(), "refresh", fail, RetryAll)

	err := exec.Execute(context.Background(), "refresh", func(context.Context) error { return nil }, RetryAll)
	assert.True(t, IsCircuitOpen(err))
}

func TestExecute_NilCallback(t *testing.T) {
	exec := NewExecutor(fastConfig(), nil)
	assert.Error(t, exec.Execute(context.Background(), "refresh", nil, nil))
}
