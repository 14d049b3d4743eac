package retry

import (
	"context"
	"log/slog"
	"time"

	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

var ErrPollTimeout = errs.New("poll deadline exceeded")

var errStillWaiting = errs.New("condition not met yet")

type Policy struct {
	BaseDelay   time.Duration
	Factor      float64
	MaxAttempts int
	MaxDelay    time.Duration
	Jitter      float64
}

// Classifier decides whether a failed attempt may be retried.
type Classifier func(err error) bool

func DefaultPolicy() Policy {
	return Policy{
		BaseDelay:   50 * time.Millisecond,
		Factor:      2,
		MaxAttempts: 4,
		MaxDelay:    time.Second,
		Jitter:      0.2,
	}
}

func PolicyFromConfig(cfg config.RetryConfig) Policy {
	p := DefaultPolicy()
	if cfg.BaseDelay > 0 {
		p.BaseDelay = cfg.BaseDelay
	}
	if cfg.Factor >= 1 {
		p.Factor = cfg.Factor
	}
	if cfg.MaxAttempts > 0 {
		p.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.MaxDelay > 0 {
		p.MaxDelay = cfg.MaxDelay
	}
	if cfg.Jitter >= 0 && cfg.Jitter < 1 {
		p.Jitter = cfg.Jitter
	}
	return p
}

// Delay returns the un-jittered wait before the given retry (0-based).
func (p Policy) Delay(retry int) time.Duration {
	d := float64(p.BaseDelay)
	for range retry {
		d *= p.Factor
		if p.MaxDelay > 0 && time.Duration(d) >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	return time.Duration(d)
}

func (p Policy) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = p.Factor
	b.RandomizationFactor = p.Jitter
	b.MaxInterval = p.MaxDelay
	b.MaxElapsedTime = 0
	b.Reset()

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}

// Do runs op until it succeeds, fails with a non-retryable error, or the
// attempt budget is spent. Exhaustion is marked with errs.ErrTransientStore.
func Do(ctx context.Context, p Policy, retryable Classifier, op func(ctx context.Context) error) error {
	attempt := 0
	err := backoff.RetryNotify(
		func() error {
			attempt++
			opErr := op(ctx)
			if opErr == nil {
				return nil
			}
			if !retryable(opErr) {
				return backoff.Permanent(opErr)
			}
			return opErr
		},
		p.newBackOff(ctx),
		func(err error, wait time.Duration) {
			slog.Warn("retrying after transient failure",
				"attempt", attempt,
				"wait_ms", wait.Milliseconds(),
				"error", err.Error())
		},
	)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errs.Is(err, ctxErr) {
		return err
	}
	if retryable(err) {
		slog.Error("giving up after max attempts", "attempts", attempt, "error", err.Error())
		return errs.Mark(errs.Wrapf(err, "gave up after %d attempts", attempt), errs.ErrTransientStore)
	}
	return err
}

// Poll calls check with growing pauses until it reports done, returns an
// error, or timeout elapses (ErrPollTimeout).
func Poll(ctx context.Context, interval, maxInterval, timeout time.Duration, check func(ctx context.Context) (bool, error)) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = interval
	b.MaxInterval = maxInterval
	b.Multiplier = 1.5
	b.RandomizationFactor = 0.1
	b.MaxElapsedTime = timeout
	b.Reset()

	err := backoff.Retry(func() error {
		done, checkErr := check(ctx)
		if checkErr != nil {
			return backoff.Permanent(checkErr)
		}
		if !done {
			return errStillWaiting
		}
		return nil
	}, backoff.WithContext(b, ctx))

	if errs.Is(err, errStillWaiting) {
		return ErrPollTimeout
	}
	return err
}
