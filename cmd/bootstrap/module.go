package bootstrap

import (
	"booking-core/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	TracingModule,
	DBModule,
	components.MetricsModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
	components.MessagingModule,
	components.JobsModule,
)
