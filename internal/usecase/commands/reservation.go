package commands

import (
	"context"
	"log/slog"

	"booking-core/internal/domain/idempotency"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/metrics"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const operationReserve = "reserve"

var tracer = otel.Tracer("booking-core/usecase/commands")

var (
	ErrOfferingNotFound    = errs.Define(errs.ErrNotFound, "offering not found")
	ErrReservationNotFound = errs.Define(errs.ErrNotFound, "reservation not found")
)

type ReserveRequest struct {
	OfferingID  uuid.UUID
	SlotDate    string
	ResourceID  *uuid.UUID
	CustomerRef string
	Extras      []string
}

type ReserveResult struct {
	Reservation *queries.ReservationView
	Replayed    bool
}

type ConfirmResult struct {
	ReservationID uuid.UUID
	Status        reservation.Status
	// Changed is false when the reservation was already confirmed.
	Changed bool
}

// reserveRecord is what the idempotency store keeps for a Reserve call.
type reserveRecord struct {
	ReservationID uuid.UUID `json:"reservation_id"`
}

type ReservationCommands interface {
	Reserve(ctx context.Context, tenantID string, req ReserveRequest) (*ReserveResult, error)
	ApplyPaymentConfirmation(ctx context.Context, tenantID string, reservationID uuid.UUID, paid reservation.Money) (*ConfirmResult, error)
	CancelReservation(ctx context.Context, tenantID string, reservationID uuid.UUID) (*queries.ReservationView, error)
}

// ReservationTxCommands run inside a transaction owned by the caller.
type ReservationTxCommands interface {
	ApplyPaymentConfirmationTx(ctx context.Context, tx shared.Tx, tenantID string, reservationID uuid.UUID, paid reservation.Money) (*ConfirmResult, error)
	ExpireCheckoutTx(ctx context.Context, tx shared.Tx, tenantID string, reservationID uuid.UUID) error
}

type ReservationUseCase struct {
	uow                shared.UnitOfWork
	idempotency        *IdempotencyStore
	factory            *reservation.Factory
	reservationQueries queries.ReservationQueries
	clock              clock.Clock
	metrics            *metrics.Metrics
}

func NewReservationUseCase(
	uow shared.UnitOfWork,
	idempotencyStore *IdempotencyStore,
	factory *reservation.Factory,
	reservationQueries queries.ReservationQueries,
	clk clock.Clock,
	m *metrics.Metrics,
) *ReservationUseCase {
	return &ReservationUseCase{
		uow:                uow,
		idempotency:        idempotencyStore,
		factory:            factory,
		reservationQueries: reservationQueries,
		clock:              clk,
		metrics:            m,
	}
}

func (uc *ReservationUseCase) Reserve(ctx context.Context, tenantID string, req ReserveRequest) (result *ReserveResult, err error) {
	ctx, span := tracer.Start(ctx, "ReservationUseCase.Reserve", trace.WithAttributes(
		attribute.String("tenant.id", tenantID),
		attribute.String("offering.id", req.OfferingID.String()),
		attribute.String("slot.date", req.SlotDate),
	))
	defer func() {
		uc.recordReserve(span, result, err)
		span.End()
	}()

	draft, err := buildDraft(tenantID, req)
	if err != nil {
		return nil, err
	}

	off, err := uc.uow.CommandReads().OfferingByID(ctx, draft.TenantID.String(), req.OfferingID)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, errs.Wrapf(ErrOfferingNotFound, "offering %s", req.OfferingID)
		}
		return nil, err
	}

	res, err := uc.factory.CreateReservation(off, draft)
	if err != nil {
		return nil, err
	}

	key, err := reserveFingerprint(draft, req.OfferingID)
	if err != nil {
		return nil, errs.Wrap(err, "fingerprint reserve request")
	}

	computed, err := GetOrCompute(ctx, uc.idempotency, draft.TenantID.String(), key, operationReserve,
		func(ctx context.Context, tx shared.Tx) (reserveRecord, error) {
			id, err := tx.Reservations().TryCreate(ctx, tx.DB(), res, key)
			if err != nil {
				return reserveRecord{}, err
			}
			return reserveRecord{ReservationID: id}, nil
		})
	if err != nil {
		return nil, err
	}

	view, err := uc.reservationQueries.GetByID(ctx, draft.TenantID.String(), computed.Value.ReservationID)
	if err != nil {
		return nil, errs.Wrap(err, "load reserved reservation")
	}

	return &ReserveResult{Reservation: view, Replayed: computed.Replayed}, nil
}

func (uc *ReservationUseCase) recordReserve(span trace.Span, result *ReserveResult, err error) {
	label := "created"
	switch {
	case err == nil && result.Replayed:
		label = "replayed"
	case err == nil:
		span.SetAttributes(attribute.String("reservation.id", result.Reservation.ID.String()))
	case errs.Is(err, errs.ErrBookingConflict):
		label = "conflict"
	case errs.Is(err, errs.ErrValidation) || errs.Is(err, errs.ErrNotFound) || errs.Is(err, errs.ErrBusinessRule):
		label = "rejected"
	default:
		label = "error"
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, label)
	}
	span.SetAttributes(attribute.String("reserve.result", label))
	if uc.metrics != nil {
		uc.metrics.ReservationsTotal.WithLabelValues(label).Inc()
	}
}

func buildDraft(tenantID string, req ReserveRequest) (reservation.Draft, error) {
	tenant, err := reservation.NewTenantID(tenantID)
	if err != nil {
		return reservation.Draft{}, err
	}
	if req.OfferingID == uuid.Nil {
		return reservation.Draft{}, errs.NewValidationError("offering_id", "is required")
	}
	date, err := reservation.ParseSlotDate(req.SlotDate)
	if err != nil {
		return reservation.Draft{}, err
	}
	customer, err := reservation.NewCustomerRef(req.CustomerRef)
	if err != nil {
		return reservation.Draft{}, err
	}
	extras, err := reservation.NewExtras(req.Extras)
	if err != nil {
		return reservation.Draft{}, err
	}
	return reservation.Draft{
		TenantID:    tenant,
		SlotDate:    date,
		ResourceID:  req.ResourceID,
		CustomerRef: customer,
		Extras:      extras,
	}, nil
}

func reserveFingerprint(d reservation.Draft, offeringID uuid.UUID) (string, error) {
	resource := ""
	if d.ResourceID != nil {
		resource = d.ResourceID.String()
	}
	return idempotency.Fingerprint(d.TenantID.String(), operationReserve, map[string]any{
		"offering_id":  offeringID.String(),
		"slot_date":    d.SlotDate.String(),
		"resource_id":  resource,
		"customer_ref": d.CustomerRef.String(),
		"extras":       d.Extras.Codes(),
	})
}

func (uc *ReservationUseCase) ApplyPaymentConfirmation(ctx context.Context, tenantID string, reservationID uuid.UUID, paid reservation.Money) (*ConfirmResult, error) {
	var result *ConfirmResult
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := uc.ApplyPaymentConfirmationTx(ctx, tx, tenantID, reservationID, paid)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyPaymentConfirmationTx confirms a reservation inside tx. Confirming a
// confirmed reservation succeeds without changes. A pending reservation whose
// offering has since been removed is not confirmed.
func (uc *ReservationUseCase) ApplyPaymentConfirmationTx(ctx context.Context, tx shared.Tx, tenantID string, reservationID uuid.UUID, paid reservation.Money) (*ConfirmResult, error) {
	current, err := tx.Reads().ReservationByID(ctx, tenantID, reservationID)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, errs.Wrapf(ErrReservationNotFound, "reservation %s", reservationID)
		}
		return nil, err
	}

	if current.IsPendingPayment() {
		if _, err := tx.Reads().OfferingByID(ctx, tenantID, current.OfferingID()); err != nil {
			if errs.Is(err, errs.ErrNotFound) {
				return nil, errs.Wrapf(ErrOfferingNotFound, "offering %s of reservation %s no longer exists", current.OfferingID(), reservationID)
			}
			return nil, err
		}
	}

	res, changed, err := tx.Reservations().ConfirmPayment(ctx, tx.DB(), tenantID, reservationID, paid, uc.clock.Now())
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, errs.Wrapf(ErrReservationNotFound, "reservation %s", reservationID)
		}
		return nil, err
	}

	if changed {
		slog.Info("reservation confirmed",
			"tenant_id", tenantID,
			"reservation_id", reservationID.String(),
			"amount_cents", paid.Cents())
	}
	return &ConfirmResult{ReservationID: res.ID(), Status: res.Status(), Changed: changed}, nil
}

func (uc *ReservationUseCase) CancelReservation(ctx context.Context, tenantID string, reservationID uuid.UUID) (*queries.ReservationView, error) {
	if _, err := reservation.NewTenantID(tenantID); err != nil {
		return nil, err
	}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, _, err := tx.Reservations().Cancel(ctx, tx.DB(), tenantID, reservationID, uc.clock.Now())
		return err
	})
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, errs.Wrapf(ErrReservationNotFound, "reservation %s", reservationID)
		}
		return nil, err
	}
	return uc.reservationQueries.GetByID(ctx, tenantID, reservationID)
}

// ExpireCheckoutTx releases the slot of a reservation whose checkout expired
// unpaid. A reservation that got confirmed in the meantime is left alone.
func (uc *ReservationUseCase) ExpireCheckoutTx(ctx context.Context, tx shared.Tx, tenantID string, reservationID uuid.UUID) error {
	_, changed, err := tx.Reservations().Cancel(ctx, tx.DB(), tenantID, reservationID, uc.clock.Now())
	switch {
	case err == nil:
		if changed {
			slog.Info("reservation released after checkout expiry",
				"tenant_id", tenantID,
				"reservation_id", reservationID.String())
		}
		return nil
	case errs.Is(err, reservation.ErrAlreadyConfirmed):
		slog.Info("checkout expiry ignored for confirmed reservation",
			"tenant_id", tenantID,
			"reservation_id", reservationID.String())
		return nil
	case errs.Is(err, errs.ErrNotFound):
		return errs.Wrapf(ErrReservationNotFound, "reservation %s", reservationID)
	default:
		return err
	}
}
