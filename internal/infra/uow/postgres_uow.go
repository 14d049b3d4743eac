package uow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"booking-core/internal/domain/offering"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra"
	"booking-core/internal/infra/readstore"
	"booking-core/internal/infra/repository"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/retry"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	errTransactionBegin  = errs.New("failed to begin transaction")
	errTransactionCommit = errs.New("failed to commit transaction")
)

// TxBeginner is the part of *pgxpool.Pool the unit of work needs.
type TxBeginner interface {
	sqlc.DBTX
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type PostgresUoW struct {
	pool   TxBeginner
	q      *sqlc.Queries
	policy retry.Policy

	reservations  *repository.ReservationRepository
	paymentEvents *repository.PaymentEventRepository
	idempotency   *repository.IdempotencyRepository
}

func NewPostgresUoW(pool TxBeginner, q *sqlc.Queries, slotPolicy reservation.SlotPolicy, lockTimeout time.Duration, policy retry.Policy) shared.UnitOfWork {
	return &PostgresUoW{
		pool:          pool,
		q:             q,
		policy:        policy,
		reservations:  repository.NewReservationRepository(q, slotPolicy, lockTimeout),
		paymentEvents: repository.NewPaymentEventRepository(q),
		idempotency:   repository.NewIdempotencyRepository(q),
	}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes.
// The whole transaction is replayed on serialization failures, deadlocks
// and lock timeouts.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return retry.Do(ctx, u.policy, infra.IsRetryable, func(ctx context.Context) error {
		return u.runInTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
	})
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) Autocommit() shared.Tx {
	return &pgTx{dbtx: u.pool, uow: u}
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{uow: u, dbtx: u.pool}
}

// Avoids defer accumulation across retries to prevent connection leaks
func (u *PostgresUoW) runInTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(infra.WrapRepoErr("begin transaction", err), errTransactionBegin)
	}

	err = fn(ctx, &pgTx{dbtx: pgxTx, uow: u})
	if err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Mark(infra.WrapRepoErr("commit transaction", err), errTransactionCommit)
	}

	if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
		if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("rollback failed", "error", rollbackErr.Error())
		}
	}
	return err
}

type pgTx struct {
	dbtx sqlc.DBTX
	uow  *PostgresUoW

	commandReads shared.CommandReads
}

func (t *pgTx) DB() sqlc.DBTX {
	return t.dbtx
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	return t.uow.reservations
}

func (t *pgTx) PaymentEvents() shared.PaymentEventRepository {
	return t.uow.paymentEvents
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	return t.uow.idempotency
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{
			uow:  t.uow,
			dbtx: t.dbtx,
		}
	}
	return t.commandReads
}

type commandReads struct {
	uow  *PostgresUoW
	dbtx sqlc.DBTX

	// Lazy-initialized readstores
	offeringStore    *readstore.OfferingReadStore
	reservationStore *readstore.ReservationReadStore
}

func (r *commandReads) OfferingByID(ctx context.Context, tenantID string, id uuid.UUID) (*offering.Offering, error) {
	if r.offeringStore == nil {
		r.offeringStore = readstore.NewOfferingReadStore(r.uow.q, r.dbtx)
	}
	return r.offeringStore.FindByID(ctx, tenantID, id)
}

func (r *commandReads) ReservationByID(ctx context.Context, tenantID string, id uuid.UUID) (*reservation.Reservation, error) {
	if r.reservationStore == nil {
		r.reservationStore = readstore.NewReservationReadStore(r.uow.q, r.dbtx)
	}
	return r.reservationStore.FindAggregateByID(ctx, tenantID, id)
}
