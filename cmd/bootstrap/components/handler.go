package components

import (
	"booking-core/internal/handler"
	"booking-core/internal/handler/api"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReservationHandler,
		func(cfg config.Config, cmds commands.PaymentEventCommands, q queries.PaymentEventQueries) *api.PaymentEventHandler {
			return api.NewPaymentEventHandler(cmds, q, cfg.Webhook.MaxPayloadBytes)
		},
	),
	fx.Invoke(handler.NewRouter),
)
