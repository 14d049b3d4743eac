package paymentevent

import (
	"time"

	"booking-core/internal/pkg/errs"
)

var ErrInvalidTransition = errs.New("invalid payment event status transition")

// PaymentEvent is the durable record of one provider event per (tenant, event id).
type PaymentEvent struct {
	TenantID      string
	EventID       string
	EventType     Type
	Status        Status
	Payload       []byte
	Attempts      int32
	DeliveryCount int32
	LastError     *string
	ClaimedAt     *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewPaymentEvent(tenantID, eventID string, eventType Type, payload []byte, now time.Time) (*PaymentEvent, error) {
	if err := ValidateEventID(eventID); err != nil {
		return nil, err
	}
	return &PaymentEvent{
		TenantID:      tenantID,
		EventID:       eventID,
		EventType:     eventType,
		Status:        StatusPending,
		Payload:       payload,
		DeliveryCount: 1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (e *PaymentEvent) TransitionTo(next Status, now time.Time) error {
	if !e.Status.CanTransition(next) {
		return errs.Wrapf(ErrInvalidTransition, "%s -> %s", e.Status, next)
	}
	e.Status = next
	e.UpdatedAt = now
	switch next {
	case StatusProcessing:
		e.Attempts++
		e.ClaimedAt = &now
	case StatusProcessed:
		e.ProcessedAt = &now
		e.LastError = nil
	}
	return nil
}
