//go:build unit || e2e

package builder

import (
	"encoding/json"
	"time"

	"booking-core/internal/domain/paymentevent"
	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentEventBuilder struct {
	TenantID      string
	EventID       string
	Type          paymentevent.Type
	ReservationID uuid.UUID
	AmountCents   int64
	Currency      string
	Status        paymentevent.Status
	Attempts      int32
	At            time.Time
	// RawData replaces the generated data block when set.
	RawData json.RawMessage
}

func NewPaymentEventBuilder() *PaymentEventBuilder {
	return &PaymentEventBuilder{
		TenantID:      "acme",
		EventID:       "evt_" + uuid.NewString()[:8],
		Type:          paymentevent.TypeCheckoutCompleted,
		ReservationID: uuid.New(),
		AmountCents:   12000,
		Currency:      "JPY",
		Status:        paymentevent.StatusProcessing,
		Attempts:      1,
		At:            time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (p *PaymentEventBuilder) With(mutate func(*PaymentEventBuilder)) *PaymentEventBuilder {
	mutate(p)
	return p
}

func (p *PaymentEventBuilder) WithEventID(id string) *PaymentEventBuilder {
	p.EventID = id
	return p
}

func (p *PaymentEventBuilder) WithType(t paymentevent.Type) *PaymentEventBuilder {
	p.Type = t
	return p
}

func (p *PaymentEventBuilder) ForReservation(id uuid.UUID, amountCents int64) *PaymentEventBuilder {
	p.ReservationID = id
	p.AmountCents = amountCents
	return p
}

func (p *PaymentEventBuilder) WithRawData(raw string) *PaymentEventBuilder {
	p.RawData = json.RawMessage(raw)
	return p
}

// Payload renders the provider envelope.
func (p *PaymentEventBuilder) Payload() []byte {
	data := p.RawData
	if data == nil {
		data, _ = json.Marshal(map[string]any{
			"reservation_id": p.ReservationID.String(),
			"amount_cents":   p.AmountCents,
			"currency":       p.Currency,
		})
	}
	body, _ := json.Marshal(map[string]any{
		"id":   p.EventID,
		"type": p.Type.String(),
		"data": data,
	})
	return body
}

func (p *PaymentEventBuilder) BuildDomain() *paymentevent.PaymentEvent {
	claimedAt := p.At
	return &paymentevent.PaymentEvent{
		TenantID:      p.TenantID,
		EventID:       p.EventID,
		EventType:     p.Type,
		Status:        p.Status,
		Payload:       p.Payload(),
		Attempts:      p.Attempts,
		DeliveryCount: 1,
		ClaimedAt:     &claimedAt,
		CreatedAt:     p.At,
		UpdatedAt:     p.At,
	}
}

func (p *PaymentEventBuilder) BuildViewQuery() *queries.PaymentEventView {
	claimedAt := p.At
	return &queries.PaymentEventView{
		TenantID:      p.TenantID,
		EventID:       p.EventID,
		EventType:     p.Type.String(),
		Status:        p.Status.String(),
		Attempts:      p.Attempts,
		DeliveryCount: 1,
		Payload:       p.Payload(),
		ClaimedAt:     &claimedAt,
		CreatedAt:     p.At,
		UpdatedAt:     p.At,
	}
}
