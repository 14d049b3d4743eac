//go:build unit

package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func fastPolicy(attempts int) retry.Policy {
	return retry.Policy{
		BaseDelay:   time.Millisecond,
		Factor:      2,
		MaxAttempts: attempts,
		MaxDelay:    5 * time.Millisecond,
		Jitter:      0,
	}
}

func isFlaky(err error) bool { return errors.Is(err, errFlaky) }

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("success after transient failures", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, fastPolicy(4), isFlaky, func(context.Context) error {
			calls++
			if calls < 3 {
				return errFlaky
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-retryable error returns immediately", func(t *testing.T) {
		calls := 0
		conflict := errs.Mark(errors.New("slot taken"), errs.ErrBookingConflict)
		err := retry.Do(ctx, fastPolicy(4), isFlaky, func(context.Context) error {
			calls++
			return conflict
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.True(t, errs.Is(err, errs.ErrBookingConflict))
		assert.False(t, errs.Is(err, errs.ErrTransientStore))
	})

	t.Run("exhaustion is marked transient", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, fastPolicy(3), isFlaky, func(context.Context) error {
			calls++
			return errFlaky
		})

		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.True(t, errs.Is(err, errs.ErrTransientStore))
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		calls := 0
		err := retry.Do(cctx, fastPolicy(10), isFlaky, func(context.Context) error {
			calls++
			cancel()
			return errFlaky
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestPolicy_Delay(t *testing.T) {
	p := retry.Policy{BaseDelay: 50 * time.Millisecond, Factor: 2, MaxDelay: 300 * time.Millisecond}

	assert.Equal(t, 50*time.Millisecond, p.Delay(0))
	assert.Equal(t, 100*time.Millisecond, p.Delay(1))
	assert.Equal(t, 200*time.Millisecond, p.Delay(2))
	assert.Equal(t, 300*time.Millisecond, p.Delay(3))
}

func TestPoll(t *testing.T) {
	ctx := context.Background()

	t.Run("returns once condition holds", func(t *testing.T) {
		checks := 0
		err := retry.Poll(ctx, time.Millisecond, 2*time.Millisecond, time.Second, func(context.Context) (bool, error) {
			checks++
			return checks == 3, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, checks)
	})

	t.Run("times out", func(t *testing.T) {
		err := retry.Poll(ctx, time.Millisecond, 2*time.Millisecond, 20*time.Millisecond, func(context.Context) (bool, error) {
			return false, nil
		})
		assert.ErrorIs(t, err, retry.ErrPollTimeout)
	})

	t.Run("check error aborts", func(t *testing.T) {
		boom := errors.New("boom")
		err := retry.Poll(ctx, time.Millisecond, 2*time.Millisecond, time.Second, func(context.Context) (bool, error) {
			return false, boom
		})
		assert.ErrorIs(t, err, boom)
	})
}
