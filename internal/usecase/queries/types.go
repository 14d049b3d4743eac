package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type ReservationView struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    string     `json:"tenant_id"`
	OfferingID  uuid.UUID  `json:"offering_id"`
	ResourceID  *uuid.UUID `json:"resource_id,omitempty"`
	SlotDate    string     `json:"slot_date"`
	SlotKey     string     `json:"slot_key"`
	HoldsSlot   bool       `json:"holds_slot"`
	CustomerRef string     `json:"customer_ref"`
	Extras      []string   `json:"extras"`
	AmountCents int64      `json:"amount_cents"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type PaymentEventView struct {
	TenantID      string     `json:"tenant_id"`
	EventID       string     `json:"event_id"`
	EventType     string     `json:"event_type"`
	Status        string     `json:"status"`
	Attempts      int32      `json:"attempts"`
	DeliveryCount int32      `json:"delivery_count"`
	LastError     *string    `json:"last_error,omitempty"`
	Payload       []byte     `json:"payload"`
	ClaimedAt     *time.Time `json:"claimed_at,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
