package commands

import (
	"context"
	"log/slog"
	"time"

	"booking-core/internal/domain/paymentevent"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/metrics"
	"booking-core/internal/pkg/retry"
	"booking-core/internal/usecase/shared"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxStoredErrorLength = 1000

var (
	ErrPayloadSchema        = errs.Define(errs.ErrValidation, "payment event payload failed schema validation")
	ErrPaymentEventNotFound = errs.Define(errs.ErrNotFound, "payment event not found")
	ErrReplayNotAllowed     = errs.Define(errs.ErrBusinessRule, "only failed payment events can be replayed")
)

type IngestRequest struct {
	TenantID  string
	Payload   []byte
	Signature string
}

// IngestResult tells the transport how to answer the provider. Acknowledged
// false asks for a redelivery.
type IngestResult struct {
	Acknowledged bool
	Outcome      paymentevent.Outcome
	EventID      string
	EventType    string
	Reason       string
}

type SignatureVerifier interface {
	Verify(tenantID string, payload []byte, header string) error
}

type PaymentEventCommands interface {
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)
	Replay(ctx context.Context, tenantID, eventID string) (*IngestResult, error)
	ResumeStalled(ctx context.Context) (int, error)
}

type PaymentEventOptions struct {
	StallThreshold time.Duration
	SweepBatchSize int32
	Retry          retry.Policy
}

func PaymentEventOptionsFromConfig(cfg config.WebhookConfig, policy retry.Policy) PaymentEventOptions {
	opts := PaymentEventOptions{
		StallThreshold: cfg.StallThreshold,
		SweepBatchSize: cfg.SweepBatchSize,
		Retry:          policy,
	}
	if opts.StallThreshold <= 0 {
		opts.StallThreshold = 5 * time.Minute
	}
	if opts.SweepBatchSize <= 0 {
		opts.SweepBatchSize = 50
	}
	return opts
}

type PaymentEventUseCase struct {
	uow          shared.UnitOfWork
	verifier     SignatureVerifier
	reservations ReservationTxCommands
	clock        clock.Clock
	opts         PaymentEventOptions
	metrics      *metrics.Metrics
}

func NewPaymentEventUseCase(
	uow shared.UnitOfWork,
	verifier SignatureVerifier,
	reservations ReservationTxCommands,
	clk clock.Clock,
	opts PaymentEventOptions,
	m *metrics.Metrics,
) *PaymentEventUseCase {
	return &PaymentEventUseCase{
		uow:          uow,
		verifier:     verifier,
		reservations: reservations,
		clock:        clk,
		opts:         opts,
		metrics:      m,
	}
}

func isTransient(err error) bool {
	return errs.Is(err, errs.ErrTransientStore)
}

// Ingest records a provider delivery and applies it at most once per
// (tenant, event id). It returns an error only when the delivery could not
// be recorded: a bad tenant, a bad signature, or a store outage.
func (uc *PaymentEventUseCase) Ingest(ctx context.Context, req IngestRequest) (result *IngestResult, err error) {
	ctx, span := tracer.Start(ctx, "PaymentEventUseCase.Ingest", trace.WithAttributes(
		attribute.String("tenant.id", req.TenantID),
	))
	started := uc.clock.Now()
	defer func() {
		uc.recordIngest(span, started, result, err)
		span.End()
	}()

	if _, err := reservation.NewTenantID(req.TenantID); err != nil {
		return nil, err
	}

	if err := uc.verifier.Verify(req.TenantID, req.Payload, req.Signature); err != nil {
		attrs := []any{"tenant_id", req.TenantID, "reason", err.Error()}
		if env, perr := paymentevent.ParseEnvelope(req.Payload); perr == nil {
			attrs = append(attrs, "event_id", env.ID, "event_type", env.Type)
		}
		slog.Warn("payment event rejected: invalid signature", attrs...)
		return nil, errs.Mark(err, errs.ErrInvalidSignature)
	}

	env, err := paymentevent.ParseEnvelope(req.Payload)
	if err != nil {
		slog.Warn("payment event rejected: malformed envelope", "tenant_id", req.TenantID, "error", err.Error())
		return &IngestResult{Outcome: paymentevent.OutcomeRejected, Reason: err.Error()}, nil
	}
	span.SetAttributes(attribute.String("event.id", env.ID), attribute.String("event.type", env.Type))

	now := uc.clock.Now()
	ev, err := paymentevent.NewPaymentEvent(req.TenantID, env.ID, paymentevent.Type(env.Type), req.Payload, now)
	if err != nil {
		return &IngestResult{Outcome: paymentevent.OutcomeRejected, EventID: env.ID, EventType: env.Type, Reason: err.Error()}, nil
	}

	store := uc.uow.Autocommit()
	var inserted bool
	err = retry.Do(ctx, uc.opts.Retry, isTransient, func(ctx context.Context) error {
		var ierr error
		inserted, ierr = store.PaymentEvents().TryInsert(ctx, store.DB(), ev)
		return ierr
	})
	if err != nil {
		return nil, errs.Wrapf(err, "record payment event %s", ev.EventID)
	}

	if !inserted {
		return uc.duplicate(ctx, ev), nil
	}

	var claimed *paymentevent.PaymentEvent
	err = retry.Do(ctx, uc.opts.Retry, isTransient, func(ctx context.Context) error {
		var cerr error
		claimed, cerr = store.PaymentEvents().Claim(ctx, store.DB(), ev.TenantID, ev.EventID,
			[]paymentevent.Status{paymentevent.StatusPending}, uc.clock.Now())
		return cerr
	})
	if err != nil {
		// The row stays PENDING; the stall sweeper picks it up.
		slog.Error("failed to claim recorded payment event",
			"tenant_id", ev.TenantID, "event_id", ev.EventID, "error", err.Error())
		return &IngestResult{Outcome: paymentevent.OutcomeFailed, EventID: ev.EventID, EventType: ev.EventType.String(), Reason: err.Error()}, nil
	}
	if claimed == nil {
		return uc.duplicate(ctx, ev), nil
	}

	return uc.process(ctx, claimed), nil
}

func (uc *PaymentEventUseCase) duplicate(ctx context.Context, ev *paymentevent.PaymentEvent) *IngestResult {
	store := uc.uow.Autocommit()
	status, err := store.PaymentEvents().RecordDuplicate(ctx, store.DB(), ev.TenantID, ev.EventID)
	if err != nil {
		slog.Warn("failed to count duplicate payment event delivery",
			"tenant_id", ev.TenantID, "event_id", ev.EventID, "error", err.Error())
	}
	slog.Info("payment event redelivered, skipping",
		"tenant_id", ev.TenantID,
		"event_id", ev.EventID,
		"event_type", ev.EventType.String(),
		"existing_status", status.String())
	return &IngestResult{
		Acknowledged: true,
		Outcome:      paymentevent.OutcomeDuplicate,
		EventID:      ev.EventID,
		EventType:    ev.EventType.String(),
	}
}

// process runs the business effect and the PROCESSED mark in one
// transaction. ev must already be PROCESSING.
func (uc *PaymentEventUseCase) process(ctx context.Context, ev *paymentevent.PaymentEvent) *IngestResult {
	result := &IngestResult{EventID: ev.EventID, EventType: ev.EventType.String()}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := uc.dispatch(ctx, tx, ev); err != nil {
			return err
		}
		return tx.PaymentEvents().MarkProcessed(ctx, tx.DB(), ev, uc.clock.Now())
	})
	if err == nil {
		slog.Info("payment event processed",
			"tenant_id", ev.TenantID,
			"event_id", ev.EventID,
			"event_type", ev.EventType.String(),
			"attempts", ev.Attempts)
		result.Acknowledged = true
		result.Outcome = paymentevent.OutcomeProcessed
		return result
	}

	reason := truncate(err.Error(), maxStoredErrorLength)
	result.Reason = reason
	// Status bookkeeping must land even if the caller has gone away.
	bookkeeping := context.WithoutCancel(ctx)
	store := uc.uow.Autocommit()

	switch {
	case errs.Is(err, ErrPayloadSchema):
		result.Outcome = paymentevent.OutcomeRejected
		if merr := store.PaymentEvents().MarkFailed(bookkeeping, store.DB(), ev, reason, uc.clock.Now()); merr != nil {
			slog.Error("failed to mark payment event failed", "event_id", ev.EventID, "error", merr.Error())
		}
		slog.Warn("payment event rejected: payload schema",
			"tenant_id", ev.TenantID, "event_id", ev.EventID, "event_type", ev.EventType.String(), "error", reason)

	case errs.IsBusinessFailure(err):
		result.Outcome = paymentevent.OutcomeFailed
		if merr := store.PaymentEvents().MarkFailed(bookkeeping, store.DB(), ev, reason, uc.clock.Now()); merr != nil {
			slog.Error("failed to mark payment event failed", "event_id", ev.EventID, "error", merr.Error())
			return result
		}
		// Redelivery cannot fix a business failure; replay is an operator action.
		result.Acknowledged = true
		slog.Warn("payment event failed",
			"tenant_id", ev.TenantID, "event_id", ev.EventID, "event_type", ev.EventType.String(), "error", reason)

	default:
		result.Outcome = paymentevent.OutcomeFailed
		if rerr := store.PaymentEvents().Release(bookkeeping, store.DB(), ev, reason, uc.clock.Now()); rerr != nil {
			slog.Error("failed to release payment event", "event_id", ev.EventID, "error", rerr.Error())
		}
		slog.Error("payment event processing interrupted, awaiting redelivery",
			"tenant_id", ev.TenantID, "event_id", ev.EventID, "event_type", ev.EventType.String(), "error", reason)
	}
	return result
}

func (uc *PaymentEventUseCase) dispatch(ctx context.Context, tx shared.Tx, ev *paymentevent.PaymentEvent) error {
	switch {
	case ev.EventType.ConfirmsPayment():
		data, err := paymentevent.ParseCheckoutData(ev.Payload, true)
		if err != nil {
			return errs.Mark(err, ErrPayloadSchema)
		}
		paid, err := reservation.NewMoney(data.AmountCents, data.Currency)
		if err != nil {
			return errs.Mark(err, ErrPayloadSchema)
		}
		_, err = uc.reservations.ApplyPaymentConfirmationTx(ctx, tx, ev.TenantID, data.ReservationID, paid)
		return err

	case ev.EventType.ExpiresCheckout():
		data, err := paymentevent.ParseCheckoutData(ev.Payload, false)
		if err != nil {
			return errs.Mark(err, ErrPayloadSchema)
		}
		return uc.reservations.ExpireCheckoutTx(ctx, tx, ev.TenantID, data.ReservationID)

	default:
		slog.Info("ignoring unhandled payment event type",
			"tenant_id", ev.TenantID, "event_id", ev.EventID, "event_type", ev.EventType.String())
		return nil
	}
}

// Replay re-runs a FAILED event. This is the only way a failed event is
// attempted again; provider redeliveries stay duplicates.
func (uc *PaymentEventUseCase) Replay(ctx context.Context, tenantID, eventID string) (*IngestResult, error) {
	if _, err := reservation.NewTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := paymentevent.ValidateEventID(eventID); err != nil {
		return nil, err
	}

	store := uc.uow.Autocommit()
	claimed, err := store.PaymentEvents().Claim(ctx, store.DB(), tenantID, eventID,
		[]paymentevent.Status{paymentevent.StatusFailed}, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if claimed == nil {
		existing, gerr := store.PaymentEvents().Get(ctx, store.DB(), tenantID, eventID)
		if gerr != nil {
			if errs.Is(gerr, errs.ErrNotFound) {
				return nil, errs.Wrapf(ErrPaymentEventNotFound, "event %s", eventID)
			}
			return nil, gerr
		}
		return nil, errs.Wrapf(ErrReplayNotAllowed, "event %s is %s", eventID, existing.Status)
	}

	slog.Info("replaying failed payment event",
		"tenant_id", tenantID, "event_id", eventID, "attempt", claimed.Attempts)
	result := uc.process(ctx, claimed)
	uc.count(result)
	return result, nil
}

// ResumeStalled re-runs events left PENDING or PROCESSING past the stall
// threshold, e.g. after a crash or a released claim.
func (uc *PaymentEventUseCase) ResumeStalled(ctx context.Context) (int, error) {
	now := uc.clock.Now()
	store := uc.uow.Autocommit()
	events, err := store.PaymentEvents().ClaimStalled(ctx, store.DB(), now.Add(-uc.opts.StallThreshold), now, uc.opts.SweepBatchSize)
	if err != nil {
		return 0, err
	}

	for _, ev := range events {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		slog.Info("resuming stalled payment event",
			"tenant_id", ev.TenantID, "event_id", ev.EventID, "attempt", ev.Attempts)
		result := uc.process(ctx, ev)
		uc.count(result)
		if uc.metrics != nil {
			uc.metrics.StalledEventsResumed.Inc()
		}
	}
	return len(events), nil
}

func (uc *PaymentEventUseCase) count(result *IngestResult) {
	if uc.metrics == nil || result == nil {
		return
	}
	uc.metrics.PaymentEventsTotal.WithLabelValues(result.Outcome.String(), result.EventType).Inc()
}

func (uc *PaymentEventUseCase) recordIngest(span trace.Span, started time.Time, result *IngestResult, err error) {
	outcome := "error"
	switch {
	case err != nil && errs.Is(err, errs.ErrInvalidSignature):
		outcome = "invalid_signature"
	case err == nil && result != nil:
		outcome = result.Outcome.String()
		span.SetAttributes(
			attribute.String("event.outcome", outcome),
			attribute.Bool("event.acknowledged", result.Acknowledged),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}

	if uc.metrics == nil {
		return
	}
	eventType := ""
	if result != nil {
		eventType = result.EventType
	}
	uc.metrics.PaymentEventsTotal.WithLabelValues(outcome, eventType).Inc()
	uc.metrics.EventProcessingSeconds.WithLabelValues(outcome).Observe(uc.clock.Now().Sub(started).Seconds())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
