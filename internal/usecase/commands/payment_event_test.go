//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"booking-core/internal/domain/paymentevent"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/commands"
	"booking-core/tests/common/builder"
	commandsmock "booking-core/tests/mock/commands"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentEventUseCaseTestSuite struct {
	suite.Suite
	f            *uowFixture
	verifier     *commandsmock.MockSignatureVerifier
	reservations *commandsmock.MockReservationTxCommands
	useCase      *commands.PaymentEventUseCase
}

func (s *PaymentEventUseCaseTestSuite) SetupTest() {
	s.f = newUoWFixture(s.T())
	s.verifier = commandsmock.NewMockSignatureVerifier(s.f.ctrl)
	s.reservations = commandsmock.NewMockReservationTxCommands(s.f.ctrl)
	s.useCase = commands.NewPaymentEventUseCase(s.f.uow, s.verifier, s.reservations, s.f.clock,
		commands.PaymentEventOptions{StallThreshold: 5 * time.Minute, SweepBatchSize: 10, Retry: fastRetry()},
		s.f.metrics)
}

func TestPaymentEventUseCaseSuite(t *testing.T) {
	suite.Run(t, new(PaymentEventUseCaseTestSuite))
}

func (s *PaymentEventUseCaseTestSuite) ingest(b *builder.PaymentEventBuilder) (*commands.IngestResult, error) {
	return s.useCase.Ingest(context.Background(), commands.IngestRequest{
		TenantID:  b.TenantID,
		Payload:   b.Payload(),
		Signature: "t=1,v1=ok",
	})
}

// expectFreshDelivery sets up a first delivery that is recorded and claimed.
func (s *PaymentEventUseCaseTestSuite) expectFreshDelivery(b *builder.PaymentEventBuilder) {
	s.verifier.EXPECT().Verify(b.TenantID, b.Payload(), "t=1,v1=ok").Return(nil)
	s.f.events.EXPECT().TryInsert(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ any, ev *paymentevent.PaymentEvent) (bool, error) {
			s.Equal(paymentevent.StatusPending, ev.Status)
			s.Equal(b.EventID, ev.EventID)
			return true, nil
		})
	s.f.events.EXPECT().Claim(gomock.Any(), gomock.Any(), b.TenantID, b.EventID,
		[]paymentevent.Status{paymentevent.StatusPending}, fixedNow).Return(b.BuildDomain(), nil)
}

// claimMatcher matches the claimed event handed back to the store.
type claimMatcher struct{ b *builder.PaymentEventBuilder }

func claimOf(b *builder.PaymentEventBuilder) gomock.Matcher { return claimMatcher{b: b} }

func (m claimMatcher) Matches(x any) bool {
	ev, ok := x.(*paymentevent.PaymentEvent)
	return ok && ev.TenantID == m.b.TenantID && ev.EventID == m.b.EventID && ev.ClaimedAt != nil
}

func (m claimMatcher) String() string { return "claimed event " + m.b.EventID }

func paid(cents int64) reservation.Money {
	m, _ := reservation.NewMoney(cents, "JPY")
	return m
}

// =============================================================================
// Ingest
// =============================================================================

func (s *PaymentEventUseCaseTestSuite) TestIngest_ConfirmsReservation() {
	b := builder.NewPaymentEventBuilder()
	s.expectFreshDelivery(b)

	gomock.InOrder(
		s.reservations.EXPECT().ApplyPaymentConfirmationTx(gomock.Any(), s.f.tx, "acme", b.ReservationID, paid(12000)).
			Return(&commands.ConfirmResult{ReservationID: b.ReservationID, Status: reservation.StatusConfirmed, Changed: true}, nil),
		s.f.events.EXPECT().MarkProcessed(gomock.Any(), gomock.Any(), claimOf(b), fixedNow).Return(nil),
	)

	result, err := s.ingest(b)

	s.Require().NoError(err)
	s.True(result.Acknowledged)
	s.Equal(paymentevent.OutcomeProcessed, result.Outcome)
	s.Equal(b.EventID, result.EventID)
}

func (s *PaymentEventUseCaseTestSuite) TestIngest_InvalidSignature() {
	b := builder.NewPaymentEventBuilder()
	s.verifier.EXPECT().Verify(b.TenantID, gomock.Any(), gomock.Any()).
		Return(errs.Define(errs.ErrInvalidSignature, "signature mismatch"))
	s.f.events.EXPECT().TryInsert(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	result, err := s.ingest(b)

	s.Nil(result)
	s.True(errs.Is(err, errs.ErrInvalidSignature))
}

func (s *PaymentEventUseCaseTestSuite) TestIngest_InvalidTenant() {
	b := builder.NewPaymentEventBuilder().With(func(p *builder.PaymentEventBuilder) { p.TenantID = "ACME!" })

	_, err := s.ingest(b)

	s.True(errs.Is(err, errs.ErrValidation))
}

func (s *PaymentEventUseCaseTestSuite) TestIngest_RedeliveryIsDuplicate() {
	b := builder.NewPaymentEventBuilder()
	s.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	s.f.events.EXPECT().TryInsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	s.f.events.EXPECT().RecordDuplicate(gomock.Any(), gomock.Any(), "acme", b.EventID).Return(paymentevent.StatusProcessed, nil)
	s.f.events.EXPECT().Claim(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.reservations.EXPECT().ApplyPaymentConfirmationTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	result, err := s.ingest(b)

	s.Require().NoError(err)
	s.True(result.Acknowledged)
	s.Equal(paymentevent.OutcomeDuplicate, result.Outcome)
}

func (s *PaymentEventUseCaseTestSuite) TestIngest_LostClaimRaceIsDuplicate() {
	b := builder.NewPaymentEventBuilder()
	s.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	s.f.events.EXPECT().TryInsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	s.f.events.EXPECT().Claim(gomock.Any(), gomock.Any(), "acme", b.EventID, gomock.Any(), gomock.Any()).Return(nil, nil)
	s.f.events.EXPECT().RecordDuplicate(gomock.Any(), gomock.Any(), "acme", b.EventID).Return(paymentevent.StatusProcessing, nil)

	result, err := s.ingest(b)

	s.Require().NoError(err)
	s.Equal(paymentevent.OutcomeDuplicate, result.Outcome)
}

func (s *PaymentEventUseCaseTestSuite) TestIngest_SchemaFailureIsRejected() {
	b := builder.NewPaymentEventBuilder().WithRawData(`{"amount_cents":12000}`)
	s.expectFreshDelivery(b)
	s.reservations.EXPECT().ApplyPaymentConfirmationTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.f.events.EXPECT().MarkProcessed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.f.events.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), claimOf(b), gomock.Any(), fixedNow).Return(nil)

	result, err := s.ingest(b)

	s.Require().NoError(err)
	s.False(result.Acknowledged)
	s.Equal(paymentevent.OutcomeRejected, result.Outcome)
	s.Contains(result.Reason, "reservation_id")
}

func (s *PaymentEventUseCaseTestSuite) TestIngest_BusinessFailureIsAcknowledged() {
	b := builder.NewPaymentEventBuilder()
	s.expectFreshDelivery(b)
	s.reservations.EXPECT().ApplyPaymentConfirmationTx(gomock.Any(), gomock.Any(), "acme", b.ReservationID, gomock.Any()).
		Return(nil, errs.Wrapf(commands.ErrOfferingNotFound, "offering gone"))
	s.f.events.EXPECT().MarkProcessed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.f.events.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), claimOf(b), gomock.Any(), fixedNow).Return(nil)

	result, err := s.ingest(b)

	s.Require().NoError(err)
	s.True(result.Acknowledged)
	s.Equal(paymentevent.OutcomeFailed, result.Outcome)
	s.Contains(result.Reason, "offering not found")
}

func (s *PaymentEventUseCaseTestSuite) TestIngest_UnmarkableBusinessFailureAsksForRedelivery() {
	b := builder.NewPaymentEventBuilder()
	s.expectFreshDelivery(b)
	s.reservations.EXPECT().ApplyPaymentConfirmationTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, reservation.ErrAmountMismatch)
	s.f.events.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), claimOf(b), gomock.Any(), gomock.Any()).
		Return(infra.WrapRepoErr("failed to mark payment event failed", errs.New("conn reset"), infra.KindTransient))

	result, err := s.ingest(b)

	s.Require().NoError(err)
	s.False(result.Acknowledged)
	s.Equal(paymentevent.OutcomeFailed, result.Outcome)
}

func (s *PaymentEventUseCaseTestSuite) TestIngest_InfrastructureFailureReleasesClaim() {
	b := builder.NewPaymentEventBuilder()
	s.expectFreshDelivery(b)
	s.reservations.EXPECT().ApplyPaymentConfirmationTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, infra.WrapRepoErr("failed to lock reservation", errs.New("lock timeout"), infra.KindTransient))
	s.f.events.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.f.events.EXPECT().Release(gomock.Any(), gomock.Any(), claimOf(b), gomock.Any(), fixedNow).Return(nil)

	result, err := s.ingest(b)

	s.Require().NoError(err)
	s.False(result.Acknowledged)
	s.Equal(paymentevent.OutcomeFailed, result.Outcome)
}

func (s *PaymentEventUseCaseTestSuite) TestIngest_CheckoutExpiredReleasesSlot() {
	b := builder.NewPaymentEventBuilder().
		WithType(paymentevent.TypeCheckoutExpired).
		With(func(p *builder.PaymentEventBuilder) { p.AmountCents = 0 })
	s.expectFreshDelivery(b)
	s.reservations.EXPECT().ExpireCheckoutTx(gomock.Any(), s.f.tx, "acme", b.ReservationID).Return(nil)
	s.f.events.EXPECT().MarkProcessed(gomock.Any(), gomock.Any(), claimOf(b), fixedNow).Return(nil)

	result, err := s.ingest(b)

	s.Require().NoError(err)
	s.Equal(paymentevent.OutcomeProcessed, result.Outcome)
}

func (s *PaymentEventUseCaseTestSuite) TestIngest_UnknownTypeIsRecordedAndAcknowledged() {
	b := builder.NewPaymentEventBuilder().WithType(paymentevent.Type("refund.disputed"))
	s.expectFreshDelivery(b)
	s.reservations.EXPECT().ApplyPaymentConfirmationTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.reservations.EXPECT().ExpireCheckoutTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.f.events.EXPECT().MarkProcessed(gomock.Any(), gomock.Any(), claimOf(b), fixedNow).Return(nil)

	result, err := s.ingest(b)

	s.Require().NoError(err)
	s.True(result.Acknowledged)
	s.Equal(paymentevent.OutcomeProcessed, result.Outcome)
	s.Equal("refund.disputed", result.EventType)
}

func (s *PaymentEventUseCaseTestSuite) TestIngest_MalformedEnvelopeIsNotRecorded() {
	payload := []byte(`["not", "an", "object"]`)
	s.verifier.EXPECT().Verify("acme", payload, "sig").Return(nil)
	s.f.events.EXPECT().TryInsert(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	result, err := s.useCase.Ingest(context.Background(), commands.IngestRequest{TenantID: "acme", Payload: payload, Signature: "sig"})

	s.Require().NoError(err)
	s.False(result.Acknowledged)
	s.Equal(paymentevent.OutcomeRejected, result.Outcome)
}

func (s *PaymentEventUseCaseTestSuite) TestIngest_TransientInsertIsRetriedThenSurfaced() {
	b := builder.NewPaymentEventBuilder()
	s.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	s.f.events.EXPECT().TryInsert(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(false, infra.WrapRepoErr("failed to insert payment event", errs.New("connection refused"), infra.KindTransient)).
		Times(fastRetry().MaxAttempts)

	result, err := s.ingest(b)

	s.Nil(result)
	s.True(errs.Is(err, errs.ErrTransientStore))
}

// =============================================================================
// Replay / stall recovery
// =============================================================================

func (s *PaymentEventUseCaseTestSuite) TestReplay() {
	ctx := context.Background()

	s.Run("reprocesses a failed event", func() {
		b := builder.NewPaymentEventBuilder().With(func(p *builder.PaymentEventBuilder) { p.Attempts = 2 })
		s.f.events.EXPECT().Claim(gomock.Any(), gomock.Any(), "acme", b.EventID,
			[]paymentevent.Status{paymentevent.StatusFailed}, fixedNow).Return(b.BuildDomain(), nil)
		s.reservations.EXPECT().ApplyPaymentConfirmationTx(gomock.Any(), gomock.Any(), "acme", b.ReservationID, paid(12000)).
			Return(&commands.ConfirmResult{ReservationID: b.ReservationID, Status: reservation.StatusConfirmed, Changed: true}, nil)
		s.f.events.EXPECT().MarkProcessed(gomock.Any(), gomock.Any(), claimOf(b), fixedNow).Return(nil)

		result, err := s.useCase.Replay(ctx, "acme", b.EventID)

		s.Require().NoError(err)
		s.Equal(paymentevent.OutcomeProcessed, result.Outcome)
	})

	s.Run("refuses events that did not fail", func() {
		b := builder.NewPaymentEventBuilder().With(func(p *builder.PaymentEventBuilder) { p.Status = paymentevent.StatusProcessed })
		s.f.events.EXPECT().Claim(gomock.Any(), gomock.Any(), "acme", b.EventID, gomock.Any(), gomock.Any()).Return(nil, nil)
		s.f.events.EXPECT().Get(gomock.Any(), gomock.Any(), "acme", b.EventID).Return(b.BuildDomain(), nil)

		_, err := s.useCase.Replay(ctx, "acme", b.EventID)

		s.ErrorIs(err, commands.ErrReplayNotAllowed)
	})

	s.Run("unknown event", func() {
		s.f.events.EXPECT().Claim(gomock.Any(), gomock.Any(), "acme", "evt_missing", gomock.Any(), gomock.Any()).Return(nil, nil)
		s.f.events.EXPECT().Get(gomock.Any(), gomock.Any(), "acme", "evt_missing").
			Return(nil, infra.WrapRepoErr("payment event not found", nil, infra.KindNotFound))

		_, err := s.useCase.Replay(ctx, "acme", "evt_missing")

		s.ErrorIs(err, commands.ErrPaymentEventNotFound)
		s.True(errs.Is(err, errs.ErrNotFound))
	})

	s.Run("rejects an empty event id", func() {
		_, err := s.useCase.Replay(ctx, "acme", "")
		s.True(errs.Is(err, errs.ErrValidation))
	})
}

func (s *PaymentEventUseCaseTestSuite) TestResumeStalled() {
	first := builder.NewPaymentEventBuilder()
	second := builder.NewPaymentEventBuilder().WithType(paymentevent.TypeCheckoutExpired)

	s.f.events.EXPECT().ClaimStalled(gomock.Any(), gomock.Any(), fixedNow.Add(-5*time.Minute), fixedNow, int32(10)).
		Return([]*paymentevent.PaymentEvent{first.BuildDomain(), second.BuildDomain()}, nil)
	s.reservations.EXPECT().ApplyPaymentConfirmationTx(gomock.Any(), gomock.Any(), "acme", first.ReservationID, paid(12000)).
		Return(&commands.ConfirmResult{ReservationID: first.ReservationID, Status: reservation.StatusConfirmed}, nil)
	s.reservations.EXPECT().ExpireCheckoutTx(gomock.Any(), gomock.Any(), "acme", second.ReservationID).
		Return(infra.WrapRepoErr("failed to lock reservation", errs.New("lock timeout"), infra.KindTransient))
	s.f.events.EXPECT().MarkProcessed(gomock.Any(), gomock.Any(), claimOf(first), fixedNow).Return(nil)
	s.f.events.EXPECT().Release(gomock.Any(), gomock.Any(), claimOf(second), gomock.Any(), fixedNow).Return(nil)

	n, err := s.useCase.ResumeStalled(context.Background())

	s.Require().NoError(err)
	s.Equal(2, n)
}
