package readstore

import (
	"context"

	"booking-core/internal/domain/offering"
	"booking-core/internal/infra"
	"booking-core/internal/infra/repository/converter"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type OfferingReadQueries interface {
	GetOfferingByID(ctx context.Context, db sqlc.DBTX, arg sqlc.GetOfferingByIDParams) (sqlc.Offerings, error)
}

// OfferingReadStore is the catalog lookup used when pricing and confirming
// reservations. Soft-deleted offerings are reported as not found.
type OfferingReadStore struct {
	queries OfferingReadQueries
	db      sqlc.DBTX
}

func NewOfferingReadStore(queries OfferingReadQueries, db sqlc.DBTX) *OfferingReadStore {
	return &OfferingReadStore{
		queries: queries,
		db:      db,
	}
}

func (s *OfferingReadStore) FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*offering.Offering, error) {
	row, err := s.queries.GetOfferingByID(ctx, s.db, sqlc.GetOfferingByIDParams{TenantID: tenantID, ID: id})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("offering not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find offering by ID", err)
	}

	off, err := converter.OfferingToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode offering", err, infra.KindDBFailure)
	}
	return off, nil
}
