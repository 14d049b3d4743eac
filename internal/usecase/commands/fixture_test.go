//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/metrics"
	"booking-core/internal/pkg/retry"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/shared"
	sharedmock "booking-core/tests/mock/shared"

	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

// uowFixture wires a mocked unit of work whose transactions simply run the
// callback against the mocked repositories.
type uowFixture struct {
	ctrl         *gomock.Controller
	uow          *sharedmock.MockUnitOfWork
	tx           *sharedmock.MockTx
	reads        *sharedmock.MockCommandReads
	reservations *sharedmock.MockReservationRepository
	events       *sharedmock.MockPaymentEventRepository
	idempotency  *sharedmock.MockIdempotencyRepository
	clock        *clock.MockClock
	metrics      *metrics.Metrics
}

func newUoWFixture(t *testing.T) *uowFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &uowFixture{
		ctrl:         ctrl,
		uow:          sharedmock.NewMockUnitOfWork(ctrl),
		tx:           sharedmock.NewMockTx(ctrl),
		reads:        sharedmock.NewMockCommandReads(ctrl),
		reservations: sharedmock.NewMockReservationRepository(ctrl),
		events:       sharedmock.NewMockPaymentEventRepository(ctrl),
		idempotency:  sharedmock.NewMockIdempotencyRepository(ctrl),
		clock:        clock.NewMockClock(fixedNow),
		metrics:      metrics.NewNoop(),
	}

	f.uow.EXPECT().Autocommit().Return(f.tx).AnyTimes()
	f.uow.EXPECT().CommandReads().Return(f.reads).AnyTimes()
	f.uow.EXPECT().Within(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, f.tx)
		}).AnyTimes()

	f.tx.EXPECT().DB().Return(nil).AnyTimes()
	f.tx.EXPECT().Reads().Return(f.reads).AnyTimes()
	f.tx.EXPECT().Reservations().Return(f.reservations).AnyTimes()
	f.tx.EXPECT().PaymentEvents().Return(f.events).AnyTimes()
	f.tx.EXPECT().Idempotency().Return(f.idempotency).AnyTimes()
	return f
}

func (f *uowFixture) idempotencyStore(waitTimeout time.Duration) *commands.IdempotencyStore {
	return commands.NewIdempotencyStore(f.uow, f.clock, commands.IdempotencyOptions{
		TTL:             24 * time.Hour,
		WaitTimeout:     waitTimeout,
		StaleAfter:      2 * time.Minute,
		PollInterval:    time.Millisecond,
		PollMaxInterval: 5 * time.Millisecond,
	}, f.metrics)
}

func fastRetry() retry.Policy {
	return retry.Policy{
		BaseDelay:   time.Millisecond,
		Factor:      2,
		MaxAttempts: 2,
		MaxDelay:    2 * time.Millisecond,
	}
}
