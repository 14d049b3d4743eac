package response

import (
	"encoding/json"
	"time"

	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type PaymentEventResponse struct {
	TenantID      string          `json:"tenantId"`
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	Status        string          `json:"status"`
	Attempts      int32           `json:"attempts"`
	DeliveryCount int32           `json:"deliveryCount"`
	LastError     *string         `json:"lastError,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty" copier:"-"`
	ClaimedAt     *time.Time      `json:"claimedAt,omitempty"`
	ProcessedAt   *time.Time      `json:"processedAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func FromPaymentEventView(v *queries.PaymentEventView) *PaymentEventResponse {
	var res PaymentEventResponse
	_ = copier.Copy(&res, v)
	if json.Valid(v.Payload) {
		res.Payload = json.RawMessage(v.Payload)
	}
	return &res
}

// IngestResponse is what the provider (or an operator replaying) gets back.
type IngestResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	Outcome      string `json:"outcome"`
	EventID      string `json:"eventId,omitempty"`
	EventType    string `json:"eventType,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

func FromIngestResult(r *commands.IngestResult) *IngestResponse {
	return &IngestResponse{
		Acknowledged: r.Acknowledged,
		Outcome:      r.Outcome.String(),
		EventID:      r.EventID,
		EventType:    r.EventType,
		Reason:       r.Reason,
	}
}
