package shared

import (
	"context"
	"time"

	"booking-core/internal/domain/idempotency"
	"booking-core/internal/domain/offering"
	"booking-core/internal/domain/paymentevent"
	"booking-core/internal/domain/reservation"
	sqlc "booking-core/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error
	// Autocommit: the same repositories bound to the pool, each statement commits on its own
	Autocommit() Tx
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	PaymentEvents() PaymentEventRepository
	Idempotency() IdempotencyRepository
	Reads() CommandReads
	DB() sqlc.DBTX
}

type CommandReads interface {
	OfferingByID(ctx context.Context, tenantID string, id uuid.UUID) (*offering.Offering, error)
	ReservationByID(ctx context.Context, tenantID string, id uuid.UUID) (*reservation.Reservation, error)
}

type ReservationRepository interface {
	// TryCreate returns *reservation.ConflictError when the slot is already held.
	TryCreate(ctx context.Context, tx sqlc.DBTX, res *reservation.Reservation, idempotencyKey string) (uuid.UUID, error)
	// ConfirmPayment locks the row and applies the payment. changed is false
	// when the reservation was already confirmed.
	ConfirmPayment(ctx context.Context, tx sqlc.DBTX, tenantID string, id uuid.UUID, paid reservation.Money, now time.Time) (res *reservation.Reservation, changed bool, err error)
	Cancel(ctx context.Context, tx sqlc.DBTX, tenantID string, id uuid.UUID, now time.Time) (res *reservation.Reservation, changed bool, err error)
}

type PaymentEventRepository interface {
	// TryInsert reports false when (tenant, event id) is already recorded.
	TryInsert(ctx context.Context, tx sqlc.DBTX, ev *paymentevent.PaymentEvent) (bool, error)
	RecordDuplicate(ctx context.Context, tx sqlc.DBTX, tenantID, eventID string) (paymentevent.Status, error)
	Claim(ctx context.Context, tx sqlc.DBTX, tenantID, eventID string, from []paymentevent.Status, now time.Time) (*paymentevent.PaymentEvent, error)
	ClaimStalled(ctx context.Context, tx sqlc.DBTX, stalledBefore, now time.Time, limit int32) ([]*paymentevent.PaymentEvent, error)
	// MarkProcessed, MarkFailed and Release only touch the row while ev's
	// claim is still current.
	MarkProcessed(ctx context.Context, tx sqlc.DBTX, ev *paymentevent.PaymentEvent, now time.Time) error
	MarkFailed(ctx context.Context, tx sqlc.DBTX, ev *paymentevent.PaymentEvent, reason string, now time.Time) error
	Release(ctx context.Context, tx sqlc.DBTX, ev *paymentevent.PaymentEvent, reason string, now time.Time) error
	Get(ctx context.Context, tx sqlc.DBTX, tenantID, eventID string) (*paymentevent.PaymentEvent, error)
}

// IdempotencyClaim identifies the placeholder a caller owns. ClaimedAt is
// the stored creation time and guards completion against a takeover.
type IdempotencyClaim struct {
	TenantID  string
	Key       string
	ClaimedAt time.Time
}

type IdempotencyRepository interface {
	// Claim returns nil without error when another caller owns a live record.
	Claim(ctx context.Context, tx sqlc.DBTX, tenantID, key, operation string, now, expiresAt, staleBefore time.Time) (*IdempotencyClaim, error)
	Complete(ctx context.Context, tx sqlc.DBTX, claim IdempotencyClaim, response []byte, now time.Time) error
	Release(ctx context.Context, tx sqlc.DBTX, claim IdempotencyClaim) error
	Get(ctx context.Context, tx sqlc.DBTX, tenantID, key string) (*idempotency.Record, error)
	DeleteExpired(ctx context.Context, tx sqlc.DBTX, now time.Time) (int64, error)
}
