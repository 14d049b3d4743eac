package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"booking-core/internal/domain/idempotency"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/metrics"
	"booking-core/internal/pkg/retry"
	"booking-core/internal/usecase/shared"
)

var ErrIdempotencyRecordCorrupt = errs.New("stored idempotent response cannot be decoded")

type IdempotencyOptions struct {
	TTL             time.Duration
	WaitTimeout     time.Duration
	StaleAfter      time.Duration
	PollInterval    time.Duration
	PollMaxInterval time.Duration
}

func IdempotencyOptionsFromConfig(cfg config.IdempotencyConfig) IdempotencyOptions {
	opts := IdempotencyOptions{
		TTL:             cfg.TTL,
		WaitTimeout:     cfg.WaitTimeout,
		StaleAfter:      cfg.StaleAfter,
		PollInterval:    20 * time.Millisecond,
		PollMaxInterval: 250 * time.Millisecond,
	}
	if opts.TTL <= 0 {
		opts.TTL = idempotency.DefaultTTL
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 5 * time.Second
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = 2 * time.Minute
	}
	return opts
}

// IdempotencyStore runs an operation at most once per (tenant, key) while
// its record lives and hands every later caller the stored result.
type IdempotencyStore struct {
	uow     shared.UnitOfWork
	clock   clock.Clock
	opts    IdempotencyOptions
	metrics *metrics.Metrics
}

func NewIdempotencyStore(uow shared.UnitOfWork, clk clock.Clock, opts IdempotencyOptions, m *metrics.Metrics) *IdempotencyStore {
	return &IdempotencyStore{uow: uow, clock: clk, opts: opts, metrics: m}
}

// Outcome of GetOrCompute. Replayed is true when Value came from the store.
type Computed[T any] struct {
	Value    T
	Replayed bool
}

// GetOrCompute claims the key and runs compute inside one transaction that
// also stores the JSON-encoded result. Failed computations are not cached:
// the placeholder is released and the error returned. Callers that lose the
// claim wait for the winner's result and give up with
// errs.ErrConcurrentOperationTimeout after WaitTimeout.
func GetOrCompute[T any](
	ctx context.Context,
	s *IdempotencyStore,
	tenantID, key, operation string,
	compute func(ctx context.Context, tx shared.Tx) (T, error),
) (Computed[T], error) {
	var zero Computed[T]
	deadline := s.clock.Now().Add(s.opts.WaitTimeout)
	repo := s.uow.Autocommit()

	for {
		now := s.clock.Now()
		claim, err := repo.Idempotency().Claim(ctx, repo.DB(), tenantID, key, operation, now, now.Add(s.opts.TTL), now.Add(-s.opts.StaleAfter))
		if err != nil {
			return zero, errs.Wrap(err, "claim idempotency key")
		}

		if claim != nil {
			value, err := runClaimed(ctx, s, *claim, compute)
			if err != nil {
				return zero, err
			}
			return Computed[T]{Value: value}, nil
		}

		remaining := deadline.Sub(s.clock.Now())
		if remaining <= 0 {
			return zero, s.waitTimedOut(tenantID, key, operation)
		}

		rec, err := s.awaitCompletion(ctx, tenantID, key, remaining)
		if err != nil {
			if errs.Is(err, retry.ErrPollTimeout) {
				return zero, s.waitTimedOut(tenantID, key, operation)
			}
			return zero, err
		}
		if rec == nil {
			// the winner failed or the record expired; compete again
			continue
		}

		var value T
		if err := json.Unmarshal(rec.Response, &value); err != nil {
			return zero, errs.Mark(errs.Wrapf(err, "decode %s response", operation), ErrIdempotencyRecordCorrupt)
		}
		if s.metrics != nil {
			s.metrics.IdempotencyReplays.WithLabelValues(operation).Inc()
		}
		return Computed[T]{Value: value, Replayed: true}, nil
	}
}

func runClaimed[T any](
	ctx context.Context,
	s *IdempotencyStore,
	claim shared.IdempotencyClaim,
	compute func(ctx context.Context, tx shared.Tx) (T, error),
) (T, error) {
	var value T
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		v, err := compute(ctx, tx)
		if err != nil {
			return err
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return errs.Wrap(err, "encode idempotent response")
		}
		if err := tx.Idempotency().Complete(ctx, tx.DB(), claim, encoded, s.clock.Now()); err != nil {
			return err
		}
		value = v
		return nil
	})
	if err == nil {
		return value, nil
	}

	// The release must happen even when the caller went away.
	releaseCtx := context.WithoutCancel(ctx)
	repo := s.uow.Autocommit()
	if rerr := repo.Idempotency().Release(releaseCtx, repo.DB(), claim); rerr != nil {
		slog.Warn("failed to release idempotency placeholder",
			"tenant_id", claim.TenantID,
			"key", claim.Key,
			"error", rerr.Error())
	}
	var zero T
	return zero, err
}

// awaitCompletion returns the completed record, or nil when the key became
// claimable again.
func (s *IdempotencyStore) awaitCompletion(ctx context.Context, tenantID, key string, timeout time.Duration) (*idempotency.Record, error) {
	var completed *idempotency.Record
	repo := s.uow.Autocommit()

	err := retry.Poll(ctx, s.opts.PollInterval, s.opts.PollMaxInterval, timeout, func(ctx context.Context) (bool, error) {
		rec, err := repo.Idempotency().Get(ctx, repo.DB(), tenantID, key)
		if err != nil {
			if errs.Is(err, errs.ErrNotFound) {
				return true, nil
			}
			return false, err
		}
		if rec.IsExpired(s.clock.Now()) {
			return true, nil
		}
		if rec.IsCompleted() {
			completed = rec
			return true, nil
		}
		if rec.CreatedAt.Before(s.clock.Now().Add(-s.opts.StaleAfter)) {
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

func (s *IdempotencyStore) waitTimedOut(tenantID, key, operation string) error {
	if s.metrics != nil {
		s.metrics.IdempotencyWaitTimeout.Inc()
	}
	slog.Warn("gave up waiting for concurrent operation",
		"tenant_id", tenantID,
		"key", key,
		"operation", operation)
	return errs.Wrapf(errs.ErrConcurrentOperationTimeout, "%s is still in progress", operation)
}

// PurgeExpired deletes records past their TTL.
func (s *IdempotencyStore) PurgeExpired(ctx context.Context) (int64, error) {
	repo := s.uow.Autocommit()
	n, err := repo.Idempotency().DeleteExpired(ctx, repo.DB(), s.clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("purged expired idempotency records", "count", n)
	}
	return n, nil
}
