package reservation

import (
	"strings"

	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

type Granularity string

const (
	GranularityDate         Granularity = "date"
	GranularityDateResource Granularity = "date_resource"
)

const anyResource = "*"

func ParseGranularity(raw string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(raw))); g {
	case GranularityDate, GranularityDateResource:
		return g, nil
	case "":
		return GranularityDate, nil
	default:
		return "", errs.Wrapf(errs.ErrValidation, "unknown slot granularity %q", raw)
	}
}

// SlotPolicy decides which key a reservation competes on and whether
// unpaid reservations already block the slot.
type SlotPolicy struct {
	Granularity   Granularity
	HoldOnPending bool
}

func DefaultSlotPolicy() SlotPolicy {
	return SlotPolicy{Granularity: GranularityDate, HoldOnPending: true}
}

type SlotKey string

func (k SlotKey) String() string { return string(k) }

// KeyFor returns the key reservations compete on. Under date_resource a
// request without a resource keys on "<date>/*", a slot of its own that does
// not overlap "<date>/<resource>" keys.
func (p SlotPolicy) KeyFor(date SlotDate, resourceID *uuid.UUID) SlotKey {
	if p.Granularity != GranularityDateResource {
		return SlotKey(date.String())
	}
	if resourceID == nil {
		return SlotKey(date.String() + "/" + anyResource)
	}
	return SlotKey(date.String() + "/" + resourceID.String())
}
