package converter

import (
	"encoding/json"

	"booking-core/internal/domain/offering"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/errs"
)

func OfferingToDomain(row sqlc.Offerings) (*offering.Offering, error) {
	extras := map[string]int64{}
	if len(row.Extras) > 0 {
		if err := json.Unmarshal(row.Extras, &extras); err != nil {
			return nil, errs.Wrap(err, "stored offering extras")
		}
	}
	return offering.NewOffering(row.ID, row.TenantID, row.Name, row.PriceCents, row.Currency, extras, row.Active)
}
