package repository

import (
	"context"
	"time"

	"booking-core/internal/domain/idempotency"
	"booking-core/internal/infra"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/pgconv"
	"booking-core/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyWriteQueries interface {
	ClaimIdempotencyRecord(ctx context.Context, db sqlc.DBTX, arg sqlc.ClaimIdempotencyRecordParams) (pgtype.Timestamptz, error)
	CompleteIdempotencyRecord(ctx context.Context, db sqlc.DBTX, arg sqlc.CompleteIdempotencyRecordParams) (int64, error)
	ReleaseIdempotencyRecord(ctx context.Context, db sqlc.DBTX, arg sqlc.ReleaseIdempotencyRecordParams) (int64, error)
	GetIdempotencyRecord(ctx context.Context, db sqlc.DBTX, arg sqlc.GetIdempotencyRecordParams) (sqlc.IdempotencyRecords, error)
	DeleteExpiredIdempotencyRecords(ctx context.Context, db sqlc.DBTX, expiresAt pgtype.Timestamptz) (int64, error)
}

type IdempotencyRepository struct {
	queries IdempotencyWriteQueries
}

func NewIdempotencyRepository(queries IdempotencyWriteQueries) *IdempotencyRepository {
	return &IdempotencyRepository{queries: queries}
}

// Claim inserts an in_progress placeholder, taking over an expired record or
// one whose owner went quiet before staleBefore. It returns nil when a live
// record belongs to someone else.
func (r *IdempotencyRepository) Claim(ctx context.Context, tx sqlc.DBTX, tenantID, key, operation string, now, expiresAt, staleBefore time.Time) (*shared.IdempotencyClaim, error) {
	createdAt, err := r.queries.ClaimIdempotencyRecord(ctx, tx, sqlc.ClaimIdempotencyRecordParams{
		TenantID:    tenantID,
		Key:         key,
		Operation:   operation,
		Now:         pgconv.TimeToPgtype(now),
		ExpiresAt:   pgconv.TimeToPgtype(expiresAt),
		StaleBefore: pgconv.TimeToPgtype(staleBefore),
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to claim idempotency key", err)
	}
	return &shared.IdempotencyClaim{TenantID: tenantID, Key: key, ClaimedAt: createdAt.Time}, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, tx sqlc.DBTX, claim shared.IdempotencyClaim, response []byte, now time.Time) error {
	n, err := r.queries.CompleteIdempotencyRecord(ctx, tx, sqlc.CompleteIdempotencyRecordParams{
		Response:  response,
		Now:       pgconv.TimeToPgtype(now),
		TenantID:  claim.TenantID,
		Key:       claim.Key,
		ClaimedAt: pgconv.TimeToPgtype(claim.ClaimedAt),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("idempotency claim was taken over", nil, infra.KindConflict)
	}
	return nil
}

func (r *IdempotencyRepository) Release(ctx context.Context, tx sqlc.DBTX, claim shared.IdempotencyClaim) error {
	_, err := r.queries.ReleaseIdempotencyRecord(ctx, tx, sqlc.ReleaseIdempotencyRecordParams{
		TenantID:  claim.TenantID,
		Key:       claim.Key,
		ClaimedAt: pgconv.TimeToPgtype(claim.ClaimedAt),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to release idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, tx sqlc.DBTX, tenantID, key string) (*idempotency.Record, error) {
	row, err := r.queries.GetIdempotencyRecord(ctx, tx, sqlc.GetIdempotencyRecordParams{TenantID: tenantID, Key: key})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency record not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency record", err)
	}
	return &idempotency.Record{
		TenantID:  row.TenantID,
		Key:       row.Key,
		Operation: row.Operation,
		Status:    idempotency.Status(row.Status),
		Response:  row.Response,
		CreatedAt: pgconv.TimeFromPgtype(row.CreatedAt),
		ExpiresAt: pgconv.TimeFromPgtype(row.ExpiresAt),
	}, nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, tx sqlc.DBTX, now time.Time) (int64, error) {
	count, err := r.queries.DeleteExpiredIdempotencyRecords(ctx, tx, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency records", err)
	}
	return count, nil
}
