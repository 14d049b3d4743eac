package queries

import (
	"context"
	"time"

	"booking-core/internal/domain/reservation"

	"github.com/google/uuid"
)

type ReservationQueries interface {
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*ReservationView, error)
	ListBySlotDate(ctx context.Context, tenantID string, date time.Time) ([]*ReservationView, error)
}

type ReservationViewRepo interface {
	FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*ReservationView, error)
	FindBySlotDate(ctx context.Context, tenantID string, date time.Time) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	repo ReservationViewRepo
}

func NewReservationQueries(repo ReservationViewRepo) ReservationQueries {
	return &reservationQueriesImpl{repo: repo}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*ReservationView, error) {
	if _, err := reservation.NewTenantID(tenantID); err != nil {
		return nil, err
	}
	return q.repo.FindByID(ctx, tenantID, id)
}

func (q *reservationQueriesImpl) ListBySlotDate(ctx context.Context, tenantID string, date time.Time) ([]*ReservationView, error) {
	if _, err := reservation.NewTenantID(tenantID); err != nil {
		return nil, err
	}
	return q.repo.FindBySlotDate(ctx, tenantID, date)
}
