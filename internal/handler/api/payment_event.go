package api

import (
	"errors"
	"io"
	"net/http"

	"booking-core/internal/domain/paymentevent"
	resdto "booking-core/internal/handler/dto/response"
	"booking-core/internal/handler/httperr"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const HeaderSignature = "X-Signature"

type PaymentEventHandler struct {
	cmds            commands.PaymentEventCommands
	q               queries.PaymentEventQueries
	maxPayloadBytes int64
}

func NewPaymentEventHandler(cmds commands.PaymentEventCommands, q queries.PaymentEventQueries, maxPayloadBytes int64) *PaymentEventHandler {
	return &PaymentEventHandler{cmds: cmds, q: q, maxPayloadBytes: maxPayloadBytes}
}

// @Summary Receive payment webhook
// @Description Verify, record and apply a payment provider event. Redeliveries are acknowledged without effect.
// @Tags payment-events
// @Accept json
// @Produce json
// @Param tenantId path string true "Tenant ID"
// @Param X-Signature header string true "t=<unix>,v1=<hex hmac>"
// @Success 200 {object} resdto.IngestResponse
// @Failure 401 {object} httperr.Response
// @Failure 413 {object} httperr.Response
// @Failure 422 {object} resdto.IngestResponse
// @Failure 503 {object} resdto.IngestResponse
// @Router /tenants/{tenantId}/webhooks/payments [post]
func (h *PaymentEventHandler) Receive(c *gin.Context) {
	body := c.Request.Body
	if h.maxPayloadBytes > 0 {
		body = http.MaxBytesReader(c.Writer, body, h.maxPayloadBytes)
	}
	// The signature covers the raw bytes, so the body is never re-encoded.
	payload, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperr.AbortWithError(c, http.StatusRequestEntityTooLarge, err, "Payload too large", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Failed to read body", nil)
		return
	}

	result, err := h.cmds.Ingest(c.Request.Context(), commands.IngestRequest{
		TenantID:  c.Param("tenantId"),
		Payload:   payload,
		Signature: c.GetHeader(HeaderSignature),
	})
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(ingestStatus(result), resdto.FromIngestResult(result))
}

// @Summary Get payment event
// @Tags payment-events
// @Produce json
// @Param tenantId path string true "Tenant ID"
// @Param eventId path string true "Provider event ID"
// @Success 200 {object} resdto.PaymentEventResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /tenants/{tenantId}/payment-events/{eventId} [get]
func (h *PaymentEventHandler) Get(c *gin.Context) {
	view, err := h.q.GetByID(c.Request.Context(), c.Param("tenantId"), c.Param("eventId"))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentEventView(view))
}

// @Summary Replay failed payment event
// @Description Re-run a FAILED event. Any other status is refused.
// @Tags payment-events
// @Produce json
// @Param tenantId path string true "Tenant ID"
// @Param eventId path string true "Provider event ID"
// @Success 200 {object} resdto.IngestResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 503 {object} resdto.IngestResponse
// @Router /tenants/{tenantId}/payment-events/{eventId}/replay [post]
func (h *PaymentEventHandler) Replay(c *gin.Context) {
	result, err := h.cmds.Replay(c.Request.Context(), c.Param("tenantId"), c.Param("eventId"))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(ingestStatus(result), resdto.FromIngestResult(result))
}

// ingestStatus tells the provider whether to redeliver: any non-2xx does.
func ingestStatus(r *commands.IngestResult) int {
	switch {
	case r.Acknowledged:
		return http.StatusOK
	case r.Outcome == paymentevent.OutcomeRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusServiceUnavailable
	}
}
