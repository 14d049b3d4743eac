package readstore

import (
	"context"

	"booking-core/internal/infra"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/pgconv"
	"booking-core/internal/usecase/queries"
)

type PaymentEventViewQueries interface {
	GetPaymentEvent(ctx context.Context, db sqlc.DBTX, arg sqlc.GetPaymentEventParams) (sqlc.PaymentEvents, error)
}

type PaymentEventReadStore struct {
	queries PaymentEventViewQueries
	db      sqlc.DBTX
}

func NewPaymentEventReadStore(queries PaymentEventViewQueries, db sqlc.DBTX) *PaymentEventReadStore {
	return &PaymentEventReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *PaymentEventReadStore) FindByID(ctx context.Context, tenantID, eventID string) (*queries.PaymentEventView, error) {
	row, err := r.queries.GetPaymentEvent(ctx, r.db, sqlc.GetPaymentEventParams{TenantID: tenantID, EventID: eventID})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment event not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment event", err)
	}

	return &queries.PaymentEventView{
		TenantID:      row.TenantID,
		EventID:       row.EventID,
		EventType:     row.EventType,
		Status:        row.Status,
		Attempts:      row.Attempts,
		DeliveryCount: row.DeliveryCount,
		LastError:     pgconv.StringPtrFromPgtype(row.LastError),
		Payload:       row.Payload,
		ClaimedAt:     pgconv.TimePtrFromPgtype(row.ClaimedAt),
		ProcessedAt:   pgconv.TimePtrFromPgtype(row.ProcessedAt),
		CreatedAt:     pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:     pgconv.TimeFromPgtype(row.UpdatedAt),
	}, nil
}
