//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/handler/api"
	resdto "booking-core/internal/handler/dto/response"
	"booking-core/internal/handler/middleware"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/commands"
	"booking-core/tests/common/builder"
	"booking-core/tests/common/httptest"
	"booking-core/tests/common/testutil"
	commandsmock "booking-core/tests/mock/commands"
	queriesmock "booking-core/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
	handler      *api.ReservationHandler
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockCommands, s.mockQueries)

	g := s.router.Group("/api/tenants/:tenantId/reservations")
	g.POST("", s.handler.Create)
	g.GET("", s.handler.ListByDate)
	g.GET("/:id", s.handler.Get)
	g.POST("/:id/cancel", s.handler.Cancel)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

type testCaseReservation struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCreate() {
	url := "/api/tenants/acme/reservations"
	b := builder.NewReservationBuilder().With(func(r *builder.ReservationBuilder) { r.Extras = []string{"lunch"} })
	reqBody := b.BuildCreateRequestDTO()
	view := b.BuildViewQuery()

	s.Run("success: returns 201 Created for a new reservation", func() {
		s.mockCommands.EXPECT().Reserve(gomock.Any(), "acme", commands.ReserveRequest{
			OfferingID:  b.OfferingID,
			SlotDate:    "2026-06-01",
			CustomerRef: "cust-1",
			Extras:      []string{"lunch"},
		}).Return(&commands.ReserveResult{Reservation: view}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)

		var got resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &got)
		s.Equal(view.ID, got.ID)
		s.Equal("PENDING_PAYMENT", got.Status)
		s.True(got.HoldsSlot)
		s.Empty(rec.Header().Get(api.HeaderReplayed))
	})

	s.Run("success: replay returns 200 with the original reservation", func() {
		s.mockCommands.EXPECT().Reserve(gomock.Any(), "acme", gomock.Any()).
			Return(&commands.ReserveResult{Reservation: view, Replayed: true}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)

		var got resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Equal(view.ID, got.ID)
		httptest.AssertHeaders(s.T(), rec, map[string]string{api.HeaderReplayed: "true"})
	})

	missing := []testCaseReservation{
		{name: "missing field: offeringId", mutate: testutil.Field("offeringId", nil), expectCode: http.StatusBadRequest},
		{name: "missing field: slotDate", mutate: testutil.Field("slotDate", nil), expectCode: http.StatusBadRequest},
		{name: "missing field: customerRef", mutate: testutil.Field("customerRef", nil), expectCode: http.StatusBadRequest},
		{name: "malformed offeringId", mutate: testutil.Field("offeringId", "not-a-uuid"), expectCode: http.StatusBadRequest},
	}
	for _, tc := range missing {
		s.Run(tc.name, func() {
			body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body)
			httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request format")
		})
	}

	s.Run("conflict: returns 409 naming the holder", func() {
		holder := uuid.New()
		s.mockCommands.EXPECT().Reserve(gomock.Any(), "acme", gomock.Any()).
			Return(nil, &reservation.ConflictError{TenantID: "acme", SlotKey: "2026-06-01", HolderID: &holder})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)

		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already booked")
		s.Contains(rec.Body.String(), holder.String())
	})

	errCases := []struct {
		name       string
		err        error
		expectCode int
		expectMsg  string
	}{
		{name: "validation", err: errs.NewValidationError("slot_date", "must be YYYY-MM-DD"), expectCode: http.StatusUnprocessableEntity, expectMsg: "Validation failed"},
		{name: "past slot", err: reservation.ErrSlotInPast, expectCode: http.StatusUnprocessableEntity, expectMsg: "Validation failed"},
		{name: "unknown offering", err: commands.ErrOfferingNotFound, expectCode: http.StatusNotFound, expectMsg: "Not found"},
		{name: "identical request in flight", err: errs.Wrap(errs.ErrConcurrentOperationTimeout, "reserve"), expectCode: http.StatusServiceUnavailable, expectMsg: "in progress"},
		{name: "store outage", err: errs.Mark(errs.New("conn refused"), errs.ErrTransientStore), expectCode: http.StatusServiceUnavailable, expectMsg: "unavailable"},
		{name: "unexpected", err: errs.New("boom"), expectCode: http.StatusInternalServerError, expectMsg: "Internal server error"},
	}
	for _, tc := range errCases {
		s.Run("error: "+tc.name, func() {
			s.mockCommands.EXPECT().Reserve(gomock.Any(), "acme", gomock.Any()).Return(nil, tc.err)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)

			httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, tc.expectMsg)
		})
	}
}

// ================================================================================
// TestGet / TestListByDate / TestCancel
// ================================================================================

func (s *ReservationHandlerTestSuite) TestGet() {
	b := builder.NewReservationBuilder().AsConfirmed()

	s.Run("success", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), "acme", b.ReservationID).Return(b.BuildViewQuery(), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/tenants/acme/reservations/"+b.ReservationID.String(), nil)

		var got resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Equal("CONFIRMED", got.Status)
		s.NotNil(got.ConfirmedAt)
	})

	s.Run("invalid id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/tenants/acme/reservations/xyz", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid reservation ID")
	})

	s.Run("other tenant's reservation is not found", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), "globex", b.ReservationID).
			Return(nil, errs.Wrap(errs.ErrNotFound, "reservation"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/tenants/globex/reservations/"+b.ReservationID.String(), nil)

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})
}

func (s *ReservationHandlerTestSuite) TestListByDate() {
	s.Run("success", func() {
		views := []*resdto.ReservationResponse{}
		s.mockQueries.EXPECT().ListBySlotDate(gomock.Any(), "acme", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)).
			Return(nil, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/tenants/acme/reservations?date=2026-06-01", nil)

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &views)
		s.Empty(views)
	})

	s.Run("missing date", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/tenants/acme/reservations", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "date")
	})

	s.Run("malformed date", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/tenants/acme/reservations?date=06-01-2026", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Validation failed")
	})
}

func (s *ReservationHandlerTestSuite) TestCancel() {
	b := builder.NewReservationBuilder()

	s.Run("success", func() {
		s.mockCommands.EXPECT().CancelReservation(gomock.Any(), "acme", b.ReservationID).
			Return(builder.NewReservationBuilder().AsCancelled().BuildViewQuery(), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/tenants/acme/reservations/"+b.ReservationID.String()+"/cancel", nil)

		var got resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Equal("CANCELLED", got.Status)
		s.False(got.HoldsSlot)
	})

	s.Run("confirmed reservation cannot be cancelled", func() {
		s.mockCommands.EXPECT().CancelReservation(gomock.Any(), "acme", b.ReservationID).
			Return(nil, reservation.ErrAlreadyConfirmed)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/tenants/acme/reservations/"+b.ReservationID.String()+"/cancel", nil)

		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "already confirmed")
	})
}
