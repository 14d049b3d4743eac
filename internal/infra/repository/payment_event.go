package repository

import (
	"context"
	"time"

	"booking-core/internal/domain/paymentevent"
	"booking-core/internal/infra"
	"booking-core/internal/infra/repository/converter"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/pgconv"
)

type PaymentEventWriteQueries interface {
	InsertPaymentEvent(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertPaymentEventParams) (int64, error)
	RecordDuplicateDelivery(ctx context.Context, db sqlc.DBTX, arg sqlc.RecordDuplicateDeliveryParams) (string, error)
	ClaimPaymentEvent(ctx context.Context, db sqlc.DBTX, arg sqlc.ClaimPaymentEventParams) (sqlc.PaymentEvents, error)
	ClaimStalledPaymentEvents(ctx context.Context, db sqlc.DBTX, arg sqlc.ClaimStalledPaymentEventsParams) ([]sqlc.PaymentEvents, error)
	MarkPaymentEventProcessed(ctx context.Context, db sqlc.DBTX, arg sqlc.MarkPaymentEventProcessedParams) (int64, error)
	MarkPaymentEventFailed(ctx context.Context, db sqlc.DBTX, arg sqlc.MarkPaymentEventFailedParams) (int64, error)
	ReleasePaymentEvent(ctx context.Context, db sqlc.DBTX, arg sqlc.ReleasePaymentEventParams) (int64, error)
	GetPaymentEvent(ctx context.Context, db sqlc.DBTX, arg sqlc.GetPaymentEventParams) (sqlc.PaymentEvents, error)
}

type PaymentEventRepository struct {
	queries PaymentEventWriteQueries
}

func NewPaymentEventRepository(queries PaymentEventWriteQueries) *PaymentEventRepository {
	return &PaymentEventRepository{queries: queries}
}

func (r *PaymentEventRepository) TryInsert(ctx context.Context, tx sqlc.DBTX, ev *paymentevent.PaymentEvent) (bool, error) {
	n, err := r.queries.InsertPaymentEvent(ctx, tx, converter.PaymentEventToInfra(ev))
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert payment event", err)
	}
	return n == 1, nil
}

func (r *PaymentEventRepository) RecordDuplicate(ctx context.Context, tx sqlc.DBTX, tenantID, eventID string) (paymentevent.Status, error) {
	status, err := r.queries.RecordDuplicateDelivery(ctx, tx, sqlc.RecordDuplicateDeliveryParams{TenantID: tenantID, EventID: eventID})
	if err != nil {
		return "", infra.WrapRepoErr("failed to record duplicate delivery", err)
	}
	return paymentevent.Status(status), nil
}

// Claim moves the event to PROCESSING when its status is one of from.
// It returns nil without error when the event is not claimable.
func (r *PaymentEventRepository) Claim(ctx context.Context, tx sqlc.DBTX, tenantID, eventID string, from []paymentevent.Status, now time.Time) (*paymentevent.PaymentEvent, error) {
	row, err := r.queries.ClaimPaymentEvent(ctx, tx, sqlc.ClaimPaymentEventParams{
		Now:          pgconv.TimeToPgtype(now),
		TenantID:     tenantID,
		EventID:      eventID,
		FromStatuses: converter.StatusesToInfra(from),
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to claim payment event", err)
	}
	return converter.PaymentEventToDomain(row), nil
}

func (r *PaymentEventRepository) ClaimStalled(ctx context.Context, tx sqlc.DBTX, stalledBefore, now time.Time, limit int32) ([]*paymentevent.PaymentEvent, error) {
	rows, err := r.queries.ClaimStalledPaymentEvents(ctx, tx, sqlc.ClaimStalledPaymentEventsParams{
		Now:           pgconv.TimeToPgtype(now),
		StalledBefore: pgconv.TimeToPgtype(stalledBefore),
		BatchSize:     limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim stalled payment events", err)
	}

	events := make([]*paymentevent.PaymentEvent, len(rows))
	for i, row := range rows {
		events[i] = converter.PaymentEventToDomain(row)
	}
	return events, nil
}

func (r *PaymentEventRepository) MarkProcessed(ctx context.Context, tx sqlc.DBTX, ev *paymentevent.PaymentEvent, now time.Time) error {
	n, err := r.queries.MarkPaymentEventProcessed(ctx, tx, sqlc.MarkPaymentEventProcessedParams{
		TenantID:    ev.TenantID,
		EventID:     ev.EventID,
		ProcessedAt: pgconv.TimeToPgtype(now),
		ClaimedAt:   pgconv.TimePtrToPgtype(ev.ClaimedAt),
	})
	return expectClaimed(n, err, "failed to mark payment event processed")
}

func (r *PaymentEventRepository) MarkFailed(ctx context.Context, tx sqlc.DBTX, ev *paymentevent.PaymentEvent, reason string, now time.Time) error {
	n, err := r.queries.MarkPaymentEventFailed(ctx, tx, sqlc.MarkPaymentEventFailedParams{
		TenantID:  ev.TenantID,
		EventID:   ev.EventID,
		LastError: pgconv.StringToPgtype(reason),
		UpdatedAt: pgconv.TimeToPgtype(now),
		ClaimedAt: pgconv.TimePtrToPgtype(ev.ClaimedAt),
	})
	return expectClaimed(n, err, "failed to mark payment event failed")
}

func (r *PaymentEventRepository) Release(ctx context.Context, tx sqlc.DBTX, ev *paymentevent.PaymentEvent, reason string, now time.Time) error {
	n, err := r.queries.ReleasePaymentEvent(ctx, tx, sqlc.ReleasePaymentEventParams{
		TenantID:  ev.TenantID,
		EventID:   ev.EventID,
		LastError: pgconv.StringToPgtype(reason),
		UpdatedAt: pgconv.TimeToPgtype(now),
		ClaimedAt: pgconv.TimePtrToPgtype(ev.ClaimedAt),
	})
	return expectClaimed(n, err, "failed to release payment event")
}

func (r *PaymentEventRepository) Get(ctx context.Context, tx sqlc.DBTX, tenantID, eventID string) (*paymentevent.PaymentEvent, error) {
	row, err := r.queries.GetPaymentEvent(ctx, tx, sqlc.GetPaymentEventParams{TenantID: tenantID, EventID: eventID})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment event not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get payment event", err)
	}
	return converter.PaymentEventToDomain(row), nil
}

// Status updates only apply to the PROCESSING row this caller claimed; zero
// rows means another worker finished, released or reclaimed it first.
func expectClaimed(n int64, err error, msg string) error {
	if err != nil {
		return infra.WrapRepoErr(msg, err)
	}
	if n == 0 {
		return infra.WrapRepoErr(msg+": event is no longer processing", nil, infra.KindConflict)
	}
	return nil
}
