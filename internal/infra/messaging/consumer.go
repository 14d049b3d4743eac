package messaging

import (
	"context"
	"log/slog"
	"sync"

	"booking-core/internal/domain/paymentevent"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/commands"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Headers a publisher sets on every payment event message. The body is the
// provider payload exactly as it was signed.
const (
	HeaderTenantID  = "tenant_id"
	HeaderSignature = "signature"
)

// PaymentEventConsumer feeds payment events from a queue into the same
// ingestion path the webhook uses.
type PaymentEventConsumer struct {
	cfg    config.AMQPConfig
	events commands.PaymentEventCommands

	conn   *amqp.Connection
	ch     *amqp.Channel
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPaymentEventConsumer(cfg config.AMQPConfig, events commands.PaymentEventCommands) *PaymentEventConsumer {
	return &PaymentEventConsumer{cfg: cfg, events: events}
}

func (c *PaymentEventConsumer) Enabled() bool {
	return c.cfg.URL != ""
}

func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return errs.Wrap(err, "dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return errs.Wrap(err, "open channel")
	}
	if err := ch.Qos(c.cfg.PrefetchCount, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return errs.Wrap(err, "set prefetch")
	}
	if _, err := ch.QueueDeclare(
		c.cfg.Queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return errs.Wrapf(err, "declare queue %s", c.cfg.Queue)
	}

	// Deliveries outlive the fx start context.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	msgs, err := ch.ConsumeWithContext(runCtx, c.cfg.Queue, c.cfg.ConsumerTag,
		false, // autoAck
		false, false, false, nil)
	if err != nil {
		cancel()
		_ = ch.Close()
		_ = conn.Close()
		return errs.Wrapf(err, "consume %s", c.cfg.Queue)
	}

	c.conn, c.ch, c.cancel = conn, ch, cancel
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(runCtx, msgs)
	}()

	slog.Info("payment event consumer started", "queue", c.cfg.Queue, "prefetch", c.cfg.PrefetchCount)
	return nil
}

func (c *PaymentEventConsumer) Stop(ctx context.Context) error {
	if c.cancel == nil {
		return nil
	}
	c.cancel()
	if c.ch != nil {
		_ = c.ch.Cancel(c.cfg.ConsumerTag, false)
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn("payment event consumer did not drain before shutdown")
	}

	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *PaymentEventConsumer) run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping payment event consumer")
			return
		case d, ok := <-msgs:
			if !ok {
				slog.Warn("payment event delivery channel closed")
				return
			}
			c.handleDelivery(ctx, d)
		}
	}
}

// handleDelivery settles one message: ack once the event is recorded for
// good, dead-letter what no redelivery can fix, requeue the rest.
func (c *PaymentEventConsumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	tenantID := headerString(d.Headers, HeaderTenantID)
	result, err := c.events.Ingest(ctx, commands.IngestRequest{
		TenantID:  tenantID,
		Payload:   d.Body,
		Signature: headerString(d.Headers, HeaderSignature),
	})

	switch {
	case err != nil && (errs.Is(err, errs.ErrInvalidSignature) || errs.Is(err, errs.ErrValidation)):
		slog.Warn("dropping payment event message",
			"tenant_id", tenantID, "message_id", d.MessageId, "error", err.Error())
		settle(d.Nack(false, false))
	case err != nil:
		slog.Error("payment event message not recorded, requeueing",
			"tenant_id", tenantID, "message_id", d.MessageId, "error", err.Error())
		settle(d.Nack(false, true))
	case result.Acknowledged:
		settle(d.Ack(false))
	case result.Outcome == paymentevent.OutcomeRejected:
		settle(d.Nack(false, false))
	default:
		settle(d.Nack(false, true))
	}
}

func settle(err error) {
	if err != nil {
		slog.Error("failed to settle payment event message", "error", err.Error())
	}
}

func headerString(h amqp.Table, key string) string {
	switch v := h[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}
