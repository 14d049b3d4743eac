package repository

import (
	"context"
	"fmt"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra"
	"booking-core/internal/infra/repository/converter"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ReservationWriteQueries interface {
	TryCreateReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.TryCreateReservationParams) (uuid.UUID, error)
	FindSlotHolder(ctx context.Context, db sqlc.DBTX, arg sqlc.FindSlotHolderParams) (uuid.UUID, error)
	GetReservationForUpdate(ctx context.Context, db sqlc.DBTX, arg sqlc.GetReservationForUpdateParams) (sqlc.Reservations, error)
	UpdateReservationStatus(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateReservationStatusParams) (int64, error)
	SetLocalLockTimeout(ctx context.Context, db sqlc.DBTX, timeout string) error
}

type ReservationRepository struct {
	queries     ReservationWriteQueries
	policy      reservation.SlotPolicy
	lockTimeout time.Duration
}

func NewReservationRepository(queries ReservationWriteQueries, policy reservation.SlotPolicy, lockTimeout time.Duration) *ReservationRepository {
	return &ReservationRepository{
		queries:     queries,
		policy:      policy,
		lockTimeout: lockTimeout,
	}
}

// TryCreate inserts the reservation unless another row already holds its
// slot, in which case it returns *reservation.ConflictError naming the holder.
//
// A reservation that does not hold its slot yet (confirmed-only holding) is
// inserted with a NULL slot_hold, so ON CONFLICT cannot fire for it and the
// current holder is checked first. A holder confirmed between that check and
// the insert is caught when this reservation confirms, by the unique
// violation in saveStatus.
func (r *ReservationRepository) TryCreate(ctx context.Context, tx sqlc.DBTX, res *reservation.Reservation, idempotencyKey string) (uuid.UUID, error) {
	conflict := &reservation.ConflictError{TenantID: res.TenantID(), SlotKey: res.SlotKey()}

	if res.SlotHold() == nil {
		holder, found, err := r.findSlotHolder(ctx, tx, res)
		if err != nil {
			return uuid.Nil, err
		}
		if found {
			conflict.HolderID = &holder
			return uuid.Nil, conflict
		}
	}

	id, err := r.queries.TryCreateReservation(ctx, tx, converter.ReservationToInfra(res, idempotencyKey))
	if err == nil {
		return id, nil
	}
	if !pgconv.IsNoRows(err) {
		return uuid.Nil, infra.WrapRepoErr("failed to create reservation", err)
	}

	holder, found, err := r.findSlotHolder(ctx, tx, res)
	if err != nil {
		return uuid.Nil, err
	}
	if found {
		conflict.HolderID = &holder
	}
	return uuid.Nil, conflict
}

func (r *ReservationRepository) findSlotHolder(ctx context.Context, tx sqlc.DBTX, res *reservation.Reservation) (uuid.UUID, bool, error) {
	holder, err := r.queries.FindSlotHolder(ctx, tx, sqlc.FindSlotHolderParams{
		TenantID: res.TenantID().String(),
		SlotHold: pgconv.StringToPgtype(res.SlotKey().String()),
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, infra.WrapRepoErr("failed to look up slot holder", err)
	}
	return holder, true, nil
}

func (r *ReservationRepository) ConfirmPayment(ctx context.Context, tx sqlc.DBTX, tenantID string, id uuid.UUID, paid reservation.Money, now time.Time) (*reservation.Reservation, bool, error) {
	res, err := r.lockForUpdate(ctx, tx, tenantID, id)
	if err != nil {
		return nil, false, err
	}

	changed, err := res.Confirm(paid, r.policy, now)
	if err != nil || !changed {
		return res, false, err
	}
	if err := r.saveStatus(ctx, tx, res); err != nil {
		return nil, false, err
	}
	return res, true, nil
}

func (r *ReservationRepository) Cancel(ctx context.Context, tx sqlc.DBTX, tenantID string, id uuid.UUID, now time.Time) (*reservation.Reservation, bool, error) {
	res, err := r.lockForUpdate(ctx, tx, tenantID, id)
	if err != nil {
		return nil, false, err
	}

	changed, err := res.Cancel(now)
	if err != nil || !changed {
		return res, false, err
	}
	if err := r.saveStatus(ctx, tx, res); err != nil {
		return nil, false, err
	}
	return res, true, nil
}

func (r *ReservationRepository) lockForUpdate(ctx context.Context, tx sqlc.DBTX, tenantID string, id uuid.UUID) (*reservation.Reservation, error) {
	if r.lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())
		if err := r.queries.SetLocalLockTimeout(ctx, tx, timeout); err != nil {
			return nil, infra.WrapRepoErr("failed to set lock timeout", err)
		}
	}

	row, err := r.queries.GetReservationForUpdate(ctx, tx, sqlc.GetReservationForUpdateParams{TenantID: tenantID, ID: id})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock reservation", err)
	}

	res, err := converter.ReservationToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode reservation", err, infra.KindDBFailure)
	}
	return res, nil
}

// A unique violation here aborts the surrounding transaction, so the holder
// is not looked up.
func (r *ReservationRepository) saveStatus(ctx context.Context, tx sqlc.DBTX, res *reservation.Reservation) error {
	n, err := r.queries.UpdateReservationStatus(ctx, tx, converter.ReservationStatusToInfra(res))
	if err != nil {
		if infra.PgCode(err) == infra.PgUniqueViolation {
			return &reservation.ConflictError{TenantID: res.TenantID(), SlotKey: res.SlotKey()}
		}
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}
