//go:build e2e

package reservation_test

import (
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
	"booking-core/internal/pkg/config"
	"booking-core/tests/common/builder"
	"booking-core/tests/common/dbtest"
	"booking-core/tests/common/httptest"
	"booking-core/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const reservationsURL = "/api/tenants/%s/reservations"

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func createBody(slotDate, customer string, extras ...string) request.CreateReservationRequest {
	return request.CreateReservationRequest{
		OfferingID:  dbtest.DefaultOfferingID,
		SlotDate:    slotDate,
		CustomerRef: customer,
		Extras:      extras,
	}
}

type ReservationSuite struct {
	e2e.SharedSuite
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ReservationSuite))
}

// =============================================================================
// TestCreateReservation
// =============================================================================

func (s *ReservationSuite) TestCreateReservation() {
	url := fmt.Sprintf(reservationsURL, "acme")

	s.Run("Normal case: reservation is priced from the offering and holds its slot", func() {
		t := s.T()
		date := futureDate(30)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, createBody(date, "cust-1", "lunch"))

		var got response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &got)
		s.Equal("PENDING_PAYMENT", got.Status)
		s.Equal(dbtest.DefaultPriceCents+dbtest.DefaultLunchCents, got.AmountCents)
		s.Equal(date, got.SlotDate)
		s.True(got.HoldsSlot)
	})

	s.Run("Conflict: a second customer cannot take a held slot", func() {
		t := s.T()
		date := futureDate(31)

		first := httptest.PerformRequest(t, s.Router, http.MethodPost, url, createBody(date, "cust-1"))
		var holder response.ReservationResponse
		httptest.AssertSuccessResponse(t, first, http.StatusCreated, &holder)

		second := httptest.PerformRequest(t, s.Router, http.MethodPost, url, createBody(date, "cust-2"))
		httptest.AssertErrorResponse(t, second, http.StatusConflict, "already booked")
		s.Contains(second.Body.String(), holder.ID.String())
		s.Equal(1, dbtest.CountReservations(t, s.DB, "acme", date))
	})

	s.Run("Concurrent: exactly one of many simultaneous requests wins the slot", func() {
		t := s.T()
		date := futureDate(32)
		const n = 8

		codes := make([]int, n)
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := range n {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, createBody(date, fmt.Sprintf("cust-%d", i)))
				codes[i] = w.Code
			}(i)
		}
		close(start)
		wg.Wait()

		created, conflicts := 0, 0
		for _, c := range codes {
			switch c {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicts++
			}
		}
		s.Equal(1, created, "codes: %v", codes)
		s.Equal(n-1, conflicts, "codes: %v", codes)
		s.Equal(1, dbtest.CountReservations(t, s.DB, "acme", date))
	})

	s.Run("Concurrent retries: identical requests create one reservation and replay it", func() {
		t := s.T()
		date := futureDate(37)
		body := createBody(date, "cust-1", "lunch")
		const n = 8

		type reply struct {
			code     int
			replayed string
			id       uuid.UUID
		}
		replies := make([]reply, n)
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := range n {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, body)
				replies[i] = reply{code: w.Code, replayed: w.Header().Get(api.HeaderReplayed)}
				if w.Code == http.StatusCreated || w.Code == http.StatusOK {
					var got response.ReservationResponse
					if err := httptest.DecodeResponseBody(t, w.Body, &got); err == nil {
						replies[i].id = got.ID
					}
				}
			}(i)
		}
		close(start)
		wg.Wait()

		created, replayed, busy := 0, 0, 0
		ids := map[uuid.UUID]struct{}{}
		for _, r := range replies {
			switch r.code {
			case http.StatusCreated:
				created++
				ids[r.id] = struct{}{}
			case http.StatusOK:
				s.Equal("true", r.replayed)
				replayed++
				ids[r.id] = struct{}{}
			case http.StatusServiceUnavailable:
				busy++
			}
		}
		s.Equal(1, created, "replies: %v", replies)
		s.Equal(n-1, replayed+busy, "replies: %v", replies)
		s.Len(ids, 1, "every successful reply names the same reservation")
		s.Equal(1, dbtest.CountReservations(t, s.DB, "acme", date))
	})

	s.Run("Retry: an identical request replays the first reservation", func() {
		t := s.T()
		date := futureDate(33)
		body := createBody(date, "cust-1", "parking", "lunch")

		first := httptest.PerformRequest(t, s.Router, http.MethodPost, url, body)
		var original response.ReservationResponse
		httptest.AssertSuccessResponse(t, first, http.StatusCreated, &original)

		body.Extras = []string{"lunch", "parking"}
		second := httptest.PerformRequest(t, s.Router, http.MethodPost, url, body)
		var replayed response.ReservationResponse
		httptest.AssertSuccessResponse(t, second, http.StatusOK, &replayed)
		httptest.AssertHeaders(t, second, map[string]string{api.HeaderReplayed: "true"})

		if diff := cmp.Diff(original, replayed,
			cmpopts.IgnoreFields(response.ReservationResponse{}, "CreatedAt", "UpdatedAt"),
		); diff != "" {
			t.Errorf("replayed reservation mismatch (-original +replayed):\n%s", diff)
		}
		s.Equal(1, dbtest.CountReservations(t, s.DB, "acme", date))
	})

	s.Run("Tenants are isolated: the same date is free for another tenant", func() {
		t := s.T()
		date := futureDate(34)
		globexOffering := dbtest.CreateTestOffering(t, s.DB, "globex", "City walk", 5000, map[string]int64{})

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, createBody(date, "cust-1"))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		body := createBody(date, "cust-1")
		body.OfferingID = globexOffering
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(reservationsURL, "globex"), body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	errCases := []struct {
		name       string
		body       func() request.CreateReservationRequest
		expectCode int
		expectMsg  string
	}{
		{
			name:       "past slot",
			body:       func() request.CreateReservationRequest { return createBody(futureDate(-1), "cust-1") },
			expectCode: http.StatusUnprocessableEntity,
			expectMsg:  "Validation failed",
		},
		{
			name:       "malformed slot date",
			body:       func() request.CreateReservationRequest { return createBody("01/06/2030", "cust-1") },
			expectCode: http.StatusUnprocessableEntity,
			expectMsg:  "Validation failed",
		},
		{
			name:       "unknown extra",
			body:       func() request.CreateReservationRequest { return createBody(futureDate(35), "cust-1", "helicopter") },
			expectCode: http.StatusUnprocessableEntity,
			expectMsg:  "",
		},
		{
			name: "unknown offering",
			body: func() request.CreateReservationRequest {
				b := createBody(futureDate(35), "cust-1")
				b.OfferingID = uuid.New()
				return b
			},
			expectCode: http.StatusNotFound,
			expectMsg:  "Not found",
		},
	}
	for _, tc := range errCases {
		s.Run("Error: "+tc.name, func() {
			w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, tc.body())
			httptest.AssertErrorResponse(s.T(), w, tc.expectCode, tc.expectMsg)
		})
	}

	s.Run("Error: invalid tenant id", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, fmt.Sprintf(reservationsURL, "Not_A_Tenant!"), createBody(futureDate(36), "cust-1"))
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "Validation failed")
	})
}

// =============================================================================
// TestGetAndList / TestCancel
// =============================================================================

func (s *ReservationSuite) TestGetAndList() {
	url := fmt.Sprintf(reservationsURL, "acme")

	s.Run("Normal case: created reservation is readable and listed by date", func() {
		t := s.T()
		date := futureDate(40)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, createBody(date, "cust-1"))
		var created response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, url+"/"+created.ID.String(), nil)
		var got response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		s.Equal(created.ID, got.ID)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, url+"?date="+date, nil)
		var list []response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &list)
		require.Len(t, list, 1)
		s.Equal(created.ID, list[0].ID)
	})

	s.Run("Not found: another tenant cannot read the reservation", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, createBody(futureDate(41), "cust-1"))
		var created response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(reservationsURL, "globex")+"/"+created.ID.String(), nil)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Not found")
	})
}

func (s *ReservationSuite) TestCancel() {
	url := fmt.Sprintf(reservationsURL, "acme")

	s.Run("Normal case: cancelling frees the slot", func() {
		t := s.T()
		date := futureDate(50)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, createBody(date, "cust-1"))
		var first response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &first)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, url+"/"+first.ID.String()+"/cancel", nil)
		var cancelled response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &cancelled)
		s.Equal("CANCELLED", cancelled.Status)
		s.False(cancelled.HoldsSlot)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, url, createBody(date, "cust-2"))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})
}

// =============================================================================
// Slot policies
// =============================================================================

type ResourceGranularitySuite struct {
	e2e.SharedSuite
}

func TestResourceGranularitySuite(t *testing.T) {
	t.Parallel()
	s := new(ResourceGranularitySuite)
	s.ConfigOverride = func(cfg *config.Config) {
		cfg.Booking.SlotGranularity = "date_resource"
	}
	suite.Run(t, s)
}

func (s *ResourceGranularitySuite) TestSlotPerResource() {
	url := fmt.Sprintf(reservationsURL, "acme")

	s.Run("Different resources share a date, the same resource does not", func() {
		t := s.T()
		date := futureDate(30)
		boatA, boatB := uuid.New(), uuid.New()

		bodyA := createBody(date, "cust-1")
		bodyA.ResourceID = &boatA
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, bodyA)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		bodyB := createBody(date, "cust-2")
		bodyB.ResourceID = &boatB
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, url, bodyB)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		again := createBody(date, "cust-3")
		again.ResourceID = &boatA
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, url, again)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "already booked")

		s.Equal(2, dbtest.CountReservations(t, s.DB, "acme", date))
	})

	s.Run("A request without a resource competes only with other resource-less requests", func() {
		t := s.T()
		date := futureDate(31)
		boat := uuid.New()

		withBoat := createBody(date, "cust-1")
		withBoat.ResourceID = &boat
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, withBoat)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, url, createBody(date, "cust-2"))
		var anyResource response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &anyResource)
		s.Equal(date+"/*", anyResource.SlotKey)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, url, createBody(date, "cust-3"))
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "already booked")

		s.Equal(2, dbtest.CountReservations(t, s.DB, "acme", date))
	})
}

type ConfirmedOnlyHoldSuite struct {
	e2e.SharedSuite
}

func TestConfirmedOnlyHoldSuite(t *testing.T) {
	t.Parallel()
	s := new(ConfirmedOnlyHoldSuite)
	s.ConfigOverride = func(cfg *config.Config) {
		cfg.Booking.HoldOnPending = false
	}
	suite.Run(t, s)
}

const testWebhookSecret = "whsec_test_acme"

// confirm delivers a signed checkout.completed event for res.
func (s *ConfirmedOnlyHoldSuite) confirm(t *testing.T, res response.ReservationResponse) response.IngestResponse {
	t.Helper()

	payload := builder.NewPaymentEventBuilder().ForReservation(res.ID, res.AmountCents).Payload()
	headers := map[string]string{api.HeaderSignature: signature.Sign(testWebhookSecret, payload, time.Now())}
	w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, "/api/tenants/acme/webhooks/payments", payload, headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got response.IngestResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &got))
	return got
}

func (s *ConfirmedOnlyHoldSuite) TestPendingDoesNotHold() {
	url := fmt.Sprintf(reservationsURL, "acme")

	s.Run("Unpaid reservations may overlap until one is confirmed", func() {
		t := s.T()
		date := futureDate(30)

		for i := range 3 {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, createBody(date, fmt.Sprintf("cust-%d", i)))
			var got response.ReservationResponse
			httptest.AssertSuccessResponse(t, w, http.StatusCreated, &got)
			s.False(got.HoldsSlot)
		}
		s.Equal(3, dbtest.CountReservations(t, s.DB, "acme", date))
	})

	s.Run("Conflict: a confirmed reservation blocks new reservations for its slot", func() {
		t := s.T()
		date := futureDate(31)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, createBody(date, "cust-1"))
		var paid response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &paid)

		got := s.confirm(t, paid)
		s.Equal(paymentevent.OutcomeProcessed.String(), got.Outcome)
		s.Equal("CONFIRMED", dbtest.ReservationStatus(t, s.DB, paid.ID))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, url, createBody(date, "cust-2"))
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "already booked")
		s.Contains(w.Body.String(), paid.ID.String())
		s.Equal(1, dbtest.CountReservations(t, s.DB, "acme", date))
	})

	s.Run("Conflict: only the first of two overlapping reservations can be confirmed", func() {
		t := s.T()
		date := futureDate(32)

		pending := make([]response.ReservationResponse, 2)
		for i := range pending {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, createBody(date, fmt.Sprintf("cust-%d", i)))
			httptest.AssertSuccessResponse(t, w, http.StatusCreated, &pending[i])
		}

		first := s.confirm(t, pending[0])
		s.Equal(paymentevent.OutcomeProcessed.String(), first.Outcome)

		second := s.confirm(t, pending[1])
		s.True(second.Acknowledged)
		s.Equal(paymentevent.OutcomeFailed.String(), second.Outcome)
		s.Contains(second.Reason, "already held")

		s.Equal("CONFIRMED", dbtest.ReservationStatus(t, s.DB, pending[0].ID))
		s.Equal("PENDING_PAYMENT", dbtest.ReservationStatus(t, s.DB, pending[1].ID))
	})
}
