package request

import (
	"strings"

	"booking-core/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	OfferingID  uuid.UUID  `json:"offeringId" binding:"required"`
	SlotDate    string     `json:"slotDate" binding:"required"`
	ResourceID  *uuid.UUID `json:"resourceId,omitempty"`
	CustomerRef string     `json:"customerRef" binding:"required,max=128"`
	Extras      []string   `json:"extras,omitempty" binding:"max=16"`
}

func (r CreateReservationRequest) ToCommand() commands.ReserveRequest {
	return commands.ReserveRequest{
		OfferingID:  r.OfferingID,
		SlotDate:    strings.TrimSpace(r.SlotDate),
		ResourceID:  r.ResourceID,
		CustomerRef: r.CustomerRef,
		Extras:      r.Extras,
	}
}

type ListReservationsQuery struct {
	Date string `form:"date" binding:"required"`
}
