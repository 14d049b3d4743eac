package reservation

import (
	"fmt"
	"time"

	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationCancelled = errs.Define(errs.ErrBusinessRule, "reservation is cancelled")
	ErrAmountMismatch       = errs.Define(errs.ErrBusinessRule, "paid amount does not match reservation price")
	ErrSlotInPast           = errs.Define(errs.ErrValidation, "slot date is in the past")
	ErrInvalidStatus        = errs.Define(errs.ErrValidation, "invalid reservation status")
	ErrAlreadyConfirmed     = errs.Define(errs.ErrBusinessRule, "confirmed reservations cannot be cancelled")
)

// ConflictError means another reservation already holds the slot.
type ConflictError struct {
	TenantID TenantID
	SlotKey  SlotKey
	HolderID *uuid.UUID
}

func (e *ConflictError) Error() string {
	if e.HolderID != nil {
		return fmt.Sprintf("slot %s of tenant %s is held by reservation %s", e.SlotKey, e.TenantID, e.HolderID)
	}
	return fmt.Sprintf("slot %s of tenant %s is already held", e.SlotKey, e.TenantID)
}

func (e *ConflictError) Is(target error) bool {
	return target == errs.ErrBookingConflict
}

type Reservation struct {
	id          uuid.UUID
	tenantID    TenantID
	offeringID  uuid.UUID
	resourceID  *uuid.UUID
	slotDate    SlotDate
	slotKey     SlotKey
	slotHeld    bool
	customerRef CustomerRef
	extras      Extras
	price       Money
	status      Status
	confirmedAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

func ReconstructReservation(
	id uuid.UUID,
	tenantID TenantID,
	offeringID uuid.UUID,
	resourceID *uuid.UUID,
	slotDate SlotDate,
	slotKey SlotKey,
	slotHeld bool,
	customerRef CustomerRef,
	extras Extras,
	price Money,
	status Status,
	confirmedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:          id,
		tenantID:    tenantID,
		offeringID:  offeringID,
		resourceID:  resourceID,
		slotDate:    slotDate,
		slotKey:     slotKey,
		slotHeld:    slotHeld,
		customerRef: customerRef,
		extras:      extras,
		price:       price,
		status:      status,
		confirmedAt: confirmedAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Confirm applies a payment. Confirming twice is a no-op and reports changed=false.
func (r *Reservation) Confirm(paid Money, policy SlotPolicy, now time.Time) (changed bool, err error) {
	switch r.status {
	case StatusConfirmed:
		return false, nil
	case StatusCancelled:
		return false, ErrReservationCancelled
	}
	if !r.price.Equal(paid) {
		return false, errs.Wrapf(ErrAmountMismatch, "expected %d got %d", r.price.Cents(), paid.Cents())
	}
	r.status = StatusConfirmed
	r.slotHeld = StatusConfirmed.HoldsSlot(policy)
	r.confirmedAt = &now
	r.updatedAt = now
	return true, nil
}

// Cancel releases the slot of an unpaid reservation. Cancelling twice is a no-op.
func (r *Reservation) Cancel(now time.Time) (changed bool, err error) {
	switch r.status {
	case StatusCancelled:
		return false, nil
	case StatusConfirmed:
		return false, ErrAlreadyConfirmed
	}
	r.status = StatusCancelled
	r.slotHeld = false
	r.updatedAt = now
	return true, nil
}

// SlotHold is the value written to the uniqueness-guarded column, nil when
// the reservation does not occupy its slot.
func (r *Reservation) SlotHold() *string {
	if !r.slotHeld {
		return nil
	}
	k := r.slotKey.String()
	return &k
}

func (r *Reservation) IsPendingPayment() bool { return r.status == StatusPendingPayment }
func (r *Reservation) IsConfirmed() bool      { return r.status == StatusConfirmed }

func (r *Reservation) ID() uuid.UUID            { return r.id }
func (r *Reservation) TenantID() TenantID       { return r.tenantID }
func (r *Reservation) OfferingID() uuid.UUID    { return r.offeringID }
func (r *Reservation) ResourceID() *uuid.UUID   { return r.resourceID }
func (r *Reservation) SlotDate() SlotDate       { return r.slotDate }
func (r *Reservation) SlotKey() SlotKey         { return r.slotKey }
func (r *Reservation) CustomerRef() CustomerRef { return r.customerRef }
func (r *Reservation) Extras() Extras           { return r.extras }
func (r *Reservation) Price() Money             { return r.price }
func (r *Reservation) Status() Status           { return r.status }
func (r *Reservation) ConfirmedAt() *time.Time  { return r.confirmedAt }
func (r *Reservation) CreatedAt() time.Time     { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time     { return r.updatedAt }
