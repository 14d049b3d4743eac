//go:build unit || e2e

package builder

import (
	"time"

	"booking-core/internal/domain/reservation"
	reqdto "booking-core/internal/handler/dto/request"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/pgconv"
	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationBuilder struct {
	ReservationID uuid.UUID
	TenantID      string
	OfferingID    uuid.UUID
	ResourceID    *uuid.UUID
	SlotDate      reservation.SlotDate
	CustomerRef   string
	Extras        []string
	AmountCents   int64
	Currency      string
	Status        reservation.Status
	SlotHeld      bool
	Policy        reservation.SlotPolicy
	ConfirmedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		ReservationID: uuid.New(),
		TenantID:      "acme",
		OfferingID:    uuid.New(),
		SlotDate:      reservation.NewSlotDate(2026, time.June, 1),
		CustomerRef:   "cust-1",
		Extras:        []string{},
		AmountCents:   12000,
		Currency:      "JPY",
		Status:        reservation.StatusPendingPayment,
		SlotHeld:      true,
		Policy:        reservation.DefaultSlotPolicy(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (r *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(r)
	return r
}

func (r *ReservationBuilder) SlotKey() reservation.SlotKey {
	return r.Policy.KeyFor(r.SlotDate, r.ResourceID)
}

// Build methods
func (r *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	tenantID, err := reservation.NewTenantID(r.TenantID)
	if err != nil {
		return nil, err
	}
	customer, err := reservation.NewCustomerRef(r.CustomerRef)
	if err != nil {
		return nil, err
	}
	extras, err := reservation.NewExtras(r.Extras)
	if err != nil {
		return nil, err
	}
	price, err := reservation.NewMoney(r.AmountCents, r.Currency)
	if err != nil {
		return nil, err
	}
	return reservation.ReconstructReservation(
		r.ReservationID,
		tenantID,
		r.OfferingID,
		r.ResourceID,
		r.SlotDate,
		r.SlotKey(),
		r.SlotHeld,
		customer,
		extras,
		price,
		r.Status,
		r.confirmedAt(),
		r.CreatedAt,
		r.UpdatedAt,
	), nil
}

func (r *ReservationBuilder) BuildInfra() sqlc.Reservations {
	row := sqlc.Reservations{
		ID:          r.ReservationID,
		TenantID:    r.TenantID,
		OfferingID:  r.OfferingID,
		ResourceID:  pgconv.UUIDPtrToPgtype(r.ResourceID),
		SlotDate:    pgconv.DateToPgtype(r.SlotDate.Time()),
		SlotKey:     r.SlotKey().String(),
		CustomerRef: r.CustomerRef,
		Extras:      r.Extras,
		AmountCents: r.AmountCents,
		Currency:    r.Currency,
		Status:      r.Status.String(),
		ConfirmedAt: pgconv.TimePtrToPgtype(r.confirmedAt()),
		CreatedAt:   pgtype.Timestamptz{Time: r.CreatedAt, Valid: true},
		UpdatedAt:   pgtype.Timestamptz{Time: r.UpdatedAt, Valid: true},
	}
	if r.SlotHeld {
		row.SlotHold = pgconv.StringToPgtype(r.SlotKey().String())
	}
	return row
}

func (r *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		OfferingID:  r.OfferingID,
		SlotDate:    r.SlotDate.String(),
		ResourceID:  r.ResourceID,
		CustomerRef: r.CustomerRef,
		Extras:      r.Extras,
	}
}

func (r *ReservationBuilder) BuildViewQuery() *queries.ReservationView {
	return &queries.ReservationView{
		ID:          r.ReservationID,
		TenantID:    r.TenantID,
		OfferingID:  r.OfferingID,
		ResourceID:  r.ResourceID,
		SlotDate:    r.SlotDate.String(),
		SlotKey:     r.SlotKey().String(),
		HoldsSlot:   r.SlotHeld,
		CustomerRef: r.CustomerRef,
		Extras:      r.Extras,
		AmountCents: r.AmountCents,
		Currency:    r.Currency,
		Status:      r.Status.String(),
		ConfirmedAt: r.confirmedAt(),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r *ReservationBuilder) confirmedAt() *time.Time {
	if r.ConfirmedAt == nil && r.Status == reservation.StatusConfirmed {
		t := r.UpdatedAt
		return &t
	}
	return r.ConfirmedAt
}

// Fluent builder methods
func (r *ReservationBuilder) WithTenantID(tenantID string) *ReservationBuilder {
	r.TenantID = tenantID
	return r
}

func (r *ReservationBuilder) WithOfferingID(id uuid.UUID) *ReservationBuilder {
	r.OfferingID = id
	return r
}

func (r *ReservationBuilder) WithResourceID(id uuid.UUID) *ReservationBuilder {
	r.ResourceID = &id
	return r
}

func (r *ReservationBuilder) WithSlotDate(d reservation.SlotDate) *ReservationBuilder {
	r.SlotDate = d
	return r
}

func (r *ReservationBuilder) WithAmount(cents int64) *ReservationBuilder {
	r.AmountCents = cents
	return r
}

func (r *ReservationBuilder) AsConfirmed() *ReservationBuilder {
	r.Status = reservation.StatusConfirmed
	r.SlotHeld = true
	return r
}

func (r *ReservationBuilder) AsCancelled() *ReservationBuilder {
	r.Status = reservation.StatusCancelled
	r.SlotHeld = false
	return r
}
