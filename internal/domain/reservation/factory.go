package reservation

import (
	"booking-core/internal/domain/offering"
	"booking-core/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
	Policy          SlotPolicy
}

func NewFactory(clock clock.Clock, priceCalculator PriceCalculator, policy SlotPolicy) *Factory {
	return &Factory{
		Clock:           clock,
		PriceCalculator: priceCalculator,
		Policy:          policy,
	}
}

type Draft struct {
	TenantID    TenantID
	SlotDate    SlotDate
	ResourceID  *uuid.UUID
	CustomerRef CustomerRef
	Extras      Extras
}

// CreateReservation builds a new PENDING_PAYMENT reservation priced from the offering.
func (f *Factory) CreateReservation(off *offering.Offering, d Draft) (*Reservation, error) {
	if err := off.EnsureBookable(); err != nil {
		return nil, err
	}

	now := f.Clock.Now()
	if d.SlotDate.Before(SlotDateFromTime(now.UTC())) {
		return nil, ErrSlotInPast
	}

	price, err := f.PriceCalculator.Calculate(off, d.Extras)
	if err != nil {
		return nil, err
	}

	return &Reservation{
		id:          uuid.New(),
		tenantID:    d.TenantID,
		offeringID:  off.ID(),
		resourceID:  d.ResourceID,
		slotDate:    d.SlotDate,
		slotKey:     f.Policy.KeyFor(d.SlotDate, d.ResourceID),
		slotHeld:    StatusPendingPayment.HoldsSlot(f.Policy),
		customerRef: d.CustomerRef,
		extras:      d.Extras,
		price:       price,
		status:      StatusPendingPayment,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}
