package components

import (
	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra/signature"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/retry"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		reservation.NewDefaultPriceCalculator,
		fx.As(new(reservation.PriceCalculator)),
	),
	reservation.NewFactory,
	func(cfg config.Config) commands.IdempotencyOptions {
		return commands.IdempotencyOptionsFromConfig(cfg.Idempotency)
	},
	func(cfg config.Config, policy retry.Policy) commands.PaymentEventOptions {
		return commands.PaymentEventOptionsFromConfig(cfg.Webhook, policy)
	},
	fx.Annotate(
		func(cfg config.Config, clk clock.Clock) *signature.Verifier {
			return signature.NewVerifier(cfg.Webhook, clk)
		},
		fx.As(new(commands.SignatureVerifier)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewIdempotencyStore,
		commands.NewReservationUseCase,
		func(uc *commands.ReservationUseCase) commands.ReservationCommands { return uc },
		func(uc *commands.ReservationUseCase) commands.ReservationTxCommands { return uc },
		commands.NewPaymentEventUseCase,
		func(uc *commands.PaymentEventUseCase) commands.PaymentEventCommands { return uc },
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		queries.NewPaymentEventQueries,
	),
)
