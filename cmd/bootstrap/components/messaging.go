package components

import (
	"context"
	"log/slog"

	"booking-core/internal/infra/messaging"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/commands"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		func(cfg config.Config, events commands.PaymentEventCommands) *messaging.PaymentEventConsumer {
			return messaging.NewPaymentEventConsumer(cfg.AMQP, events)
		},
	),
	fx.Invoke(startConsumer),
)

func startConsumer(lc fx.Lifecycle, consumer *messaging.PaymentEventConsumer) {
	if !consumer.Enabled() {
		slog.Info("AMQP_URLが未設定のため決済イベントコンシューマーを無効化します")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return consumer.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return consumer.Stop(ctx)
		},
	})
}
