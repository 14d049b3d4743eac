package components

import (
	"context"
	"log/slog"

	"booking-core/internal/infra/jobs"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/commands"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Provide(NewJobRunner),
	fx.Invoke(startJobs),
)

func NewJobRunner(cfg config.Config, events *commands.PaymentEventUseCase, store *commands.IdempotencyStore) *jobs.Runner {
	return jobs.NewRunner(
		jobs.Task{
			Name:     "payment-event-sweeper",
			Interval: cfg.Webhook.SweepInterval,
			Run: func(ctx context.Context) error {
				n, err := events.ResumeStalled(ctx)
				if n > 0 {
					slog.InfoContext(ctx, "停滞した決済イベントを再開しました", "count", n)
				}
				return err
			},
		},
		jobs.Task{
			Name:     "idempotency-purge",
			Interval: cfg.Idempotency.PurgeInterval,
			Run: func(ctx context.Context) error {
				n, err := store.PurgeExpired(ctx)
				if n > 0 {
					slog.InfoContext(ctx, "期限切れの冪等性レコードを削除しました", "count", n)
				}
				return err
			},
		},
	)
}

func startJobs(lc fx.Lifecycle, runner *jobs.Runner) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			runner.Start(context.Background())
			return nil
		},
		OnStop: runner.Stop,
	})
}
