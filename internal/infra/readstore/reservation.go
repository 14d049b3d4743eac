package readstore

import (
	"context"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra"
	"booking-core/internal/infra/repository/converter"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/pgconv"
	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationViewQueries interface {
	GetReservationByID(ctx context.Context, db sqlc.DBTX, arg sqlc.GetReservationByIDParams) (sqlc.Reservations, error)
	ListReservationsBySlotDate(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsBySlotDateParams) ([]sqlc.Reservations, error)
}

type ReservationReadStore struct {
	queries ReservationViewQueries
	db      sqlc.DBTX
}

func NewReservationReadStore(queries ReservationViewQueries, db sqlc.DBTX) *ReservationReadStore {
	return &ReservationReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservationByID(ctx, r.db, sqlc.GetReservationByIDParams{TenantID: tenantID, ID: id})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	return rowToReservationView(row), nil
}

func (r *ReservationReadStore) FindBySlotDate(ctx context.Context, tenantID string, date time.Time) ([]*queries.ReservationView, error) {
	rows, err := r.queries.ListReservationsBySlotDate(ctx, r.db, sqlc.ListReservationsBySlotDateParams{
		TenantID: tenantID,
		SlotDate: pgconv.DateToPgtype(date),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by slot date", err)
	}

	result := make([]*queries.ReservationView, len(rows))
	for i, row := range rows {
		result[i] = rowToReservationView(row)
	}
	return result, nil
}

// FindAggregateByID serves command-side reads that need the aggregate itself.
func (r *ReservationReadStore) FindAggregateByID(ctx context.Context, tenantID string, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationByID(ctx, r.db, sqlc.GetReservationByIDParams{TenantID: tenantID, ID: id})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	res, err := converter.ReservationToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode reservation", err, infra.KindDBFailure)
	}
	return res, nil
}

func rowToReservationView(row sqlc.Reservations) *queries.ReservationView {
	extras := row.Extras
	if extras == nil {
		extras = []string{}
	}
	return &queries.ReservationView{
		ID:          row.ID,
		TenantID:    row.TenantID,
		OfferingID:  row.OfferingID,
		ResourceID:  pgconv.UUIDPtrFromPgtype(row.ResourceID),
		SlotDate:    pgconv.DateFromPgtype(row.SlotDate).Format(time.DateOnly),
		SlotKey:     row.SlotKey,
		HoldsSlot:   row.SlotHold.Valid,
		CustomerRef: row.CustomerRef,
		Extras:      extras,
		AmountCents: row.AmountCents,
		Currency:    row.Currency,
		Status:      row.Status,
		ConfirmedAt: pgconv.TimePtrFromPgtype(row.ConfirmedAt),
		CreatedAt:   pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:   pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
