package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	CORS        CORSConfig
	Log         LogConfig
	Booking     BookingConfig
	Idempotency IdempotencyConfig
	Webhook     WebhookConfig
	Retry       RetryConfig
	AMQP        AMQPConfig
	Tracing     TracingConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`

	MaxConns    int32         `envconfig:"DB_MAX_CONNS" default:"20"`
	LockTimeout time.Duration `envconfig:"DB_LOCK_TIMEOUT" default:"2s"`
	AutoMigrate bool          `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,X-Signature"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Idempotent-Replayed"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"false"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

// BookingConfig controls what counts as an occupied slot.
type BookingConfig struct {
	// "date" or "date_resource"
	SlotGranularity string `envconfig:"BOOKING_SLOT_GRANULARITY" default:"date"`
	// When false only CONFIRMED reservations hold their slot.
	HoldOnPending bool `envconfig:"BOOKING_HOLD_ON_PENDING" default:"true"`
}

type IdempotencyConfig struct {
	TTL           time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
	WaitTimeout   time.Duration `envconfig:"IDEMPOTENCY_WAIT_TIMEOUT" default:"5s"`
	StaleAfter    time.Duration `envconfig:"IDEMPOTENCY_STALE_AFTER" default:"2m"`
	PurgeInterval time.Duration `envconfig:"IDEMPOTENCY_PURGE_INTERVAL" default:"1h"`
}

type WebhookConfig struct {
	// tenant:secret pairs, e.g. "acme:whsec_1,globex:whsec_2"
	Secrets            map[string]string `envconfig:"WEBHOOK_SECRETS"`
	DefaultSecret      string            `envconfig:"WEBHOOK_DEFAULT_SECRET"`
	SignatureTolerance time.Duration     `envconfig:"WEBHOOK_SIGNATURE_TOLERANCE" default:"5m"`
	StallThreshold     time.Duration     `envconfig:"WEBHOOK_STALL_THRESHOLD" default:"5m"`
	SweepInterval      time.Duration     `envconfig:"WEBHOOK_SWEEP_INTERVAL" default:"1m"`
	SweepBatchSize     int32             `envconfig:"WEBHOOK_SWEEP_BATCH_SIZE" default:"50"`
	MaxPayloadBytes    int64             `envconfig:"WEBHOOK_MAX_PAYLOAD_BYTES" default:"65536"`
}

type RetryConfig struct {
	BaseDelay   time.Duration `envconfig:"RETRY_BASE_DELAY" default:"50ms"`
	Factor      float64       `envconfig:"RETRY_FACTOR" default:"2"`
	MaxAttempts int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"4"`
	MaxDelay    time.Duration `envconfig:"RETRY_MAX_DELAY" default:"1s"`
	Jitter      float64       `envconfig:"RETRY_JITTER" default:"0.2"`
}

// AMQPConfig enables the queue-fed payment event consumer when URL is set.
type AMQPConfig struct {
	URL           string `envconfig:"AMQP_URL"`
	Queue         string `envconfig:"AMQP_PAYMENT_QUEUE" default:"payment.events"`
	ConsumerTag   string `envconfig:"AMQP_CONSUMER_TAG" default:"booking-core"`
	PrefetchCount int    `envconfig:"AMQP_PREFETCH" default:"10"`
}

type TracingConfig struct {
	Enabled        bool   `envconfig:"OTEL_ENABLED" default:"false"`
	Endpoint       string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"otel-collector:4317"`
	ServiceName    string `envconfig:"OTEL_SERVICE_NAME" default:"booking-core"`
	ServiceVersion string `envconfig:"SERVICE_VERSION" default:"0.1.0"`
	Environment    string `envconfig:"ENV" default:"dev"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:        "localhost",
			Port:        "15433", // Test DB port
			User:        "test",
			Password:    "test",
			DBName:      "test_db",
			SSLMode:     "disable",
			TimeZone:    "UTC",
			MaxConns:    20,
			LockTimeout: 2 * time.Second,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		Booking: BookingConfig{
			SlotGranularity: "date",
			HoldOnPending:   true,
		},
		Idempotency: IdempotencyConfig{
			TTL:           24 * time.Hour,
			WaitTimeout:   5 * time.Second,
			StaleAfter:    2 * time.Minute,
			PurgeInterval: time.Hour,
		},
		Webhook: WebhookConfig{
			Secrets:            map[string]string{"acme": "whsec_test_acme"},
			SignatureTolerance: 5 * time.Minute,
			StallThreshold:     5 * time.Minute,
			SweepInterval:      time.Minute,
			SweepBatchSize:     50,
			MaxPayloadBytes:    65536,
		},
		Retry: RetryConfig{
			BaseDelay:   50 * time.Millisecond,
			Factor:      2,
			MaxAttempts: 4,
			MaxDelay:    time.Second,
			Jitter:      0.2,
		},
		AMQP: AMQPConfig{
			Queue:         "payment.events",
			ConsumerTag:   "booking-core-test",
			PrefetchCount: 10,
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "booking-core-test",
			Environment: "test",
		},
	}
}
