package response

import (
	"time"

	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    string     `json:"tenantId"`
	OfferingID  uuid.UUID  `json:"offeringId"`
	ResourceID  *uuid.UUID `json:"resourceId,omitempty"`
	SlotDate    string     `json:"slotDate"`
	SlotKey     string     `json:"slotKey"`
	HoldsSlot   bool       `json:"holdsSlot"`
	CustomerRef string     `json:"customerRef"`
	Extras      []string   `json:"extras"`
	AmountCents int64      `json:"amountCents"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	var res ReservationResponse
	_ = copier.Copy(&res, v)
	if res.Extras == nil {
		res.Extras = []string{}
	}
	return &res
}

func FromReservationViews(vs []*queries.ReservationView) []*ReservationResponse {
	out := make([]*ReservationResponse, len(vs))
	for i, v := range vs {
		out[i] = FromReservationView(v)
	}
	return out
}
