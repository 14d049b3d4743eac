package queries

import (
	"context"

	"booking-core/internal/domain/paymentevent"
)

type PaymentEventQueries interface {
	GetByID(ctx context.Context, tenantID, eventID string) (*PaymentEventView, error)
}

type PaymentEventViewRepo interface {
	FindByID(ctx context.Context, tenantID, eventID string) (*PaymentEventView, error)
}

type paymentEventQueriesImpl struct {
	repo PaymentEventViewRepo
}

func NewPaymentEventQueries(repo PaymentEventViewRepo) PaymentEventQueries {
	return &paymentEventQueriesImpl{repo: repo}
}

func (q *paymentEventQueriesImpl) GetByID(ctx context.Context, tenantID, eventID string) (*PaymentEventView, error) {
	if err := paymentevent.ValidateEventID(eventID); err != nil {
		return nil, err
	}
	return q.repo.FindByID(ctx, tenantID, eventID)
}
