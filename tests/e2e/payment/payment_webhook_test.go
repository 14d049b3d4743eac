//go:build e2e

package payment_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"booking-core/internal/domain/paymentevent"
	"booking-core/internal/handler/api"
	"booking-core/internal/handler/dto/request"
	"booking-core/internal/handler/dto/response"
	"booking-core/internal/infra/signature"
	"booking-core/tests/common/builder"
	"booking-core/tests/common/dbtest"
	"booking-core/tests/common/httptest"
	"booking-core/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	webhookURL      = "/api/tenants/acme/webhooks/payments"
	reservationsURL = "/api/tenants/acme/reservations"
	eventsURL       = "/api/tenants/acme/payment-events"
	testSecret      = "whsec_test_acme"
)

type PaymentWebhookSuite struct {
	e2e.SharedSuite
}

func TestPaymentWebhookSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(PaymentWebhookSuite))
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func (s *PaymentWebhookSuite) reserve(t *testing.T, date string) response.ReservationResponse {
	t.Helper()

	body := request.CreateReservationRequest{
		OfferingID:  dbtest.DefaultOfferingID,
		SlotDate:    date,
		CustomerRef: "cust-" + uuid.NewString()[:6],
	}
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, body)
	var got response.ReservationResponse
	httptest.AssertSuccessResponse(t, w, http.StatusCreated, &got)
	return got
}

func (s *PaymentWebhookSuite) deliver(t *testing.T, payload []byte) (int, response.IngestResponse) {
	t.Helper()

	headers := map[string]string{api.HeaderSignature: signature.Sign(testSecret, payload, time.Now())}
	w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, payload, headers)

	var got response.IngestResponse
	if w.Code == http.StatusOK || w.Code == http.StatusUnprocessableEntity || w.Code == http.StatusServiceUnavailable {
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &got))
	}
	return w.Code, got
}

func paidEvent(res response.ReservationResponse) *builder.PaymentEventBuilder {
	return builder.NewPaymentEventBuilder().ForReservation(res.ID, res.AmountCents)
}

// =============================================================================
// TestPaymentCompleted
// =============================================================================

func (s *PaymentWebhookSuite) TestPaymentCompleted() {
	s.Run("Redelivery: the first delivery confirms, the rest are duplicates", func() {
		t := s.T()
		res := s.reserve(t, futureDate(30))
		payload := paidEvent(res).WithEventID("evt_1").Payload()

		code, first := s.deliver(t, payload)
		require.Equal(t, http.StatusOK, code)
		s.Equal(paymentevent.OutcomeProcessed.String(), first.Outcome)

		for range 2 {
			code, again := s.deliver(t, payload)
			require.Equal(t, http.StatusOK, code)
			s.True(again.Acknowledged)
			s.Equal(paymentevent.OutcomeDuplicate.String(), again.Outcome)
		}

		s.Equal("CONFIRMED", dbtest.ReservationStatus(t, s.DB, res.ID))
		status, deliveries := dbtest.PaymentEventState(t, s.DB, "acme", "evt_1")
		s.Equal("PROCESSED", status)
		s.EqualValues(3, deliveries)
	})

	s.Run("Concurrent redelivery: exactly one delivery is processed", func() {
		t := s.T()
		res := s.reserve(t, futureDate(31))
		payload := paidEvent(res).Payload()
		const n = 6

		outcomes := make([]string, n)
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := range n {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				_, got := s.deliver(t, payload)
				outcomes[i] = got.Outcome
			}(i)
		}
		close(start)
		wg.Wait()

		processed, duplicates := 0, 0
		for _, o := range outcomes {
			switch o {
			case paymentevent.OutcomeProcessed.String():
				processed++
			case paymentevent.OutcomeDuplicate.String():
				duplicates++
			}
		}
		s.Equal(1, processed, "outcomes: %v", outcomes)
		s.Equal(n-1, duplicates, "outcomes: %v", outcomes)
		s.Equal("CONFIRMED", dbtest.ReservationStatus(t, s.DB, res.ID))
	})

	s.Run("Deleted offering: event fails, is acknowledged, and can be replayed", func() {
		t := s.T()
		offeringID := dbtest.CreateTestOffering(t, s.DB, "acme", "Sunset cruise", 8000, map[string]int64{})
		body := request.CreateReservationRequest{OfferingID: offeringID, SlotDate: futureDate(32), CustomerRef: "cust-c"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, body)
		var res response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &res)

		dbtest.SoftDeleteOffering(t, s.DB, offeringID)

		eventID := "evt_c_" + uuid.NewString()[:8]
		code, got := s.deliver(t, paidEvent(res).WithEventID(eventID).Payload())
		require.Equal(t, http.StatusOK, code)
		s.True(got.Acknowledged)
		s.Equal(paymentevent.OutcomeFailed.String(), got.Outcome)
		s.NotEmpty(got.Reason)
		s.Equal("PENDING_PAYMENT", dbtest.ReservationStatus(t, s.DB, res.ID))

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, eventsURL+"/"+eventID, nil)
		var stored response.PaymentEventResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &stored)
		s.Equal("FAILED", stored.Status)
		require.NotNil(t, stored.LastError)
		s.Contains(*stored.LastError, "offering")

		_, err := s.DB.Exec(context.Background(), "UPDATE offerings SET deleted_at = NULL WHERE id = $1", offeringID)
		require.NoError(t, err)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, eventsURL+"/"+eventID+"/replay", nil)
		var replayed response.IngestResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &replayed)
		s.Equal(paymentevent.OutcomeProcessed.String(), replayed.Outcome)
		s.Equal("CONFIRMED", dbtest.ReservationStatus(t, s.DB, res.ID))
	})

	s.Run("Amount mismatch: event fails without confirming", func() {
		t := s.T()
		res := s.reserve(t, futureDate(33))
		code, got := s.deliver(t, paidEvent(res).With(func(p *builder.PaymentEventBuilder) { p.AmountCents = 1 }).Payload())

		require.Equal(t, http.StatusOK, code)
		s.Equal(paymentevent.OutcomeFailed.String(), got.Outcome)
		s.Equal("PENDING_PAYMENT", dbtest.ReservationStatus(t, s.DB, res.ID))
	})

	s.Run("Replay of a processed event is refused", func() {
		t := s.T()
		res := s.reserve(t, futureDate(34))
		eventID := "evt_p_" + uuid.NewString()[:8]
		code, _ := s.deliver(t, paidEvent(res).WithEventID(eventID).Payload())
		require.Equal(t, http.StatusOK, code)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, eventsURL+"/"+eventID+"/replay", nil)
		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "")
	})
}

// =============================================================================
// TestOtherEvents
// =============================================================================

func (s *PaymentWebhookSuite) TestOtherEvents() {
	s.Run("Unknown event type is acknowledged without side effects", func() {
		t := s.T()
		res := s.reserve(t, futureDate(40))
		payload := paidEvent(res).WithEventID("evt_2").WithType(paymentevent.Type("refund.disputed")).Payload()

		code, got := s.deliver(t, payload)

		require.Equal(t, http.StatusOK, code)
		s.Equal(paymentevent.OutcomeProcessed.String(), got.Outcome)
		s.Equal("PENDING_PAYMENT", dbtest.ReservationStatus(t, s.DB, res.ID))
	})

	s.Run("Expired checkout cancels the pending reservation and frees the slot", func() {
		t := s.T()
		date := futureDate(41)
		res := s.reserve(t, date)

		code, got := s.deliver(t, paidEvent(res).WithType(paymentevent.TypeCheckoutExpired).Payload())

		require.Equal(t, http.StatusOK, code)
		s.Equal(paymentevent.OutcomeProcessed.String(), got.Outcome)
		s.Equal("CANCELLED", dbtest.ReservationStatus(t, s.DB, res.ID))
		s.reserve(t, date)
	})

	s.Run("Schema violation is rejected with 422", func() {
		t := s.T()
		code, got := s.deliver(t, builder.NewPaymentEventBuilder().WithRawData(`{"amount_cents":12000}`).Payload())

		s.Equal(http.StatusUnprocessableEntity, code)
		s.False(got.Acknowledged)
		s.Equal(paymentevent.OutcomeRejected.String(), got.Outcome)
	})

	s.Run("Bad signature is refused before anything is stored", func() {
		t := s.T()
		b := builder.NewPaymentEventBuilder()
		payload := b.Payload()
		headers := map[string]string{api.HeaderSignature: signature.Sign("whsec_wrong", payload, time.Now())}

		w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, payload, headers)

		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Invalid signature")
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, eventsURL+"/"+b.EventID, nil)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Not found")
	})
}

// =============================================================================
// TestResumeStalled
// =============================================================================

func (s *PaymentWebhookSuite) TestResumeStalled() {
	s.Run("An abandoned claim is picked up by the sweeper", func() {
		t := s.T()
		res := s.reserve(t, futureDate(50))
		b := paidEvent(res)
		stale := time.Now().Add(-time.Hour)

		_, err := s.DB.Exec(context.Background(), `
			INSERT INTO payment_events (tenant_id, event_id, event_type, status, payload, attempts, claimed_at, created_at, updated_at)
			VALUES ('acme', $1, $2, 'PROCESSING', $3, 1, $4, $4, $4)`,
			b.EventID, b.Type.String(), b.Payload(), stale)
		require.NoError(t, err)

		n, err := s.Events.ResumeStalled(context.Background())
		require.NoError(t, err)
		s.Equal(1, n)

		status, _ := dbtest.PaymentEventState(t, s.DB, "acme", b.EventID)
		s.Equal("PROCESSED", status)
		s.Equal("CONFIRMED", dbtest.ReservationStatus(t, s.DB, res.ID))
	})

	s.Run("Expired idempotency records are purged", func() {
		t := s.T()
		_, err := s.DB.Exec(context.Background(), `
			INSERT INTO idempotency_records (tenant_id, key, operation, status, expires_at)
			VALUES ('acme', $1, 'reserve', 'completed', now() - interval '1 hour')`, fmt.Sprintf("k-%s", uuid.NewString()))
		require.NoError(t, err)

		n, err := s.Store.PurgeExpired(context.Background())
		require.NoError(t, err)
		s.EqualValues(1, n)
	})
}
