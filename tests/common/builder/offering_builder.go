//go:build unit || e2e

package builder

import (
	"encoding/json"
	"time"

	"booking-core/internal/domain/offering"
	sqlc "booking-core/internal/infra/sqlc/generated"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OfferingBuilder struct {
	ID         uuid.UUID
	TenantID   string
	Name       string
	PriceCents int64
	Currency   string
	Extras     map[string]int64
	Active     bool
	CreatedAt  time.Time
}

func NewOfferingBuilder() *OfferingBuilder {
	return &OfferingBuilder{
		ID:         uuid.New(),
		TenantID:   "acme",
		Name:       "Half-day boat tour",
		PriceCents: 10000,
		Currency:   "JPY",
		Extras:     map[string]int64{"lunch": 1500, "parking": 500},
		Active:     true,
		CreatedAt:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (o *OfferingBuilder) With(mutate func(*OfferingBuilder)) *OfferingBuilder {
	mutate(o)
	return o
}

func (o *OfferingBuilder) BuildDomain() (*offering.Offering, error) {
	return offering.NewOffering(o.ID, o.TenantID, o.Name, o.PriceCents, o.Currency, o.Extras, o.Active)
}

func (o *OfferingBuilder) BuildInfra() sqlc.Offerings {
	extras, _ := json.Marshal(o.Extras)
	ts := pgtype.Timestamptz{Time: o.CreatedAt, Valid: true}
	return sqlc.Offerings{
		ID:         o.ID,
		TenantID:   o.TenantID,
		Name:       o.Name,
		PriceCents: o.PriceCents,
		Currency:   o.Currency,
		Extras:     extras,
		Active:     o.Active,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
}

func (o *OfferingBuilder) AsInactive() *OfferingBuilder {
	o.Active = false
	return o
}
