package paymentevent

import (
	"bytes"
	"encoding/json"
	"strings"

	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

const maxEventIDLength = 255

// Envelope is the provider-level wrapper shared by every event type.
type Envelope struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ParseEnvelope reads the id and type a transport needs before ingestion.
func ParseEnvelope(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errs.NewValidationError("payload", "is not a JSON object")
	}
	if err := ValidateEventID(env.ID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(env.Type) == "" {
		return nil, errs.NewValidationError("type", "is required")
	}
	return &env, nil
}

func ValidateEventID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.NewValidationError("event_id", "is required")
	}
	if len(id) > maxEventIDLength {
		return errs.NewValidationError("event_id", "is too long")
	}
	return nil
}

// CheckoutData is the data block of checkout.completed and checkout.expired.
type CheckoutData struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	AmountCents   int64     `json:"amount_cents"`
	Currency      string    `json:"currency"`
}

// ParseCheckoutData validates the schema of a checkout event.
func ParseCheckoutData(raw []byte, requireAmount bool) (*CheckoutData, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errs.NewValidationError("payload", "is not a JSON object")
	}
	if len(bytes.TrimSpace(env.Data)) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return nil, errs.NewValidationError("data", "is required")
	}

	var data CheckoutData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, errs.NewValidationError("data", "has an invalid shape")
	}
	if data.ReservationID == uuid.Nil {
		return nil, errs.NewValidationError("data.reservation_id", "is required")
	}
	if requireAmount {
		if data.AmountCents <= 0 {
			return nil, errs.NewValidationError("data.amount_cents", "must be positive")
		}
		if strings.TrimSpace(data.Currency) == "" {
			return nil, errs.NewValidationError("data.currency", "is required")
		}
	}
	data.Currency = strings.ToUpper(strings.TrimSpace(data.Currency))
	return &data, nil
}
