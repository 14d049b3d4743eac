package components

import (
	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra/readstore"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/infra/uow"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/retry"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	unitOfWorkModule,
)

var baseOption = fx.Provide(
	NewSQLQueries,
	NewDBTX,
	NewSlotPolicy,
	NewRetryPolicy,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Reservation
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.ReservationViewQueries)),
		),
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationViewRepo)),
		),
		// PaymentEvent
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.PaymentEventViewQueries)),
		),
		fx.Annotate(
			readstore.NewPaymentEventReadStore,
			fx.As(new(queries.PaymentEventViewRepo)),
		),
	),
)

var unitOfWorkModule = fx.Module("persistence/uow",
	fx.Provide(
		func(pool *pgxpool.Pool) uow.TxBeginner { return pool },
		NewUnitOfWork,
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *sqlc.Queries {
	return sqlc.New()
}

func NewDBTX(pool *pgxpool.Pool) sqlc.DBTX {
	return pool
}

func NewSlotPolicy(cfg config.Config) (reservation.SlotPolicy, error) {
	g, err := reservation.ParseGranularity(cfg.Booking.SlotGranularity)
	if err != nil {
		return reservation.SlotPolicy{}, err
	}
	return reservation.SlotPolicy{Granularity: g, HoldOnPending: cfg.Booking.HoldOnPending}, nil
}

func NewRetryPolicy(cfg config.Config) retry.Policy {
	return retry.PolicyFromConfig(cfg.Retry)
}

func NewUnitOfWork(pool uow.TxBeginner, q *sqlc.Queries, policy reservation.SlotPolicy, cfg config.Config, rp retry.Policy) shared.UnitOfWork {
	return uow.NewPostgresUoW(pool, q, policy, cfg.DB.LockTimeout, rp)
}
