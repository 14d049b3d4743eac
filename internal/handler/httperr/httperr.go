package httperr

import (
	"net/http"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

type ConflictDetail struct {
	SlotKey             string `json:"slotKey"`
	HolderReservationID string `json:"holderReservationId,omitempty"`
}

type ValidationDetail struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// Abort maps a usecase error onto its HTTP status by category.
func Abort(c *gin.Context, err error) {
	var conflict *reservation.ConflictError
	var invalid *errs.ValidationError

	switch {
	case errs.As(err, &conflict):
		detail := ConflictDetail{SlotKey: conflict.SlotKey.String()}
		if conflict.HolderID != nil {
			detail.HolderReservationID = conflict.HolderID.String()
		}
		AbortWithError(c, http.StatusConflict, err, "Slot is already booked", detail)
	case errs.As(err, &invalid):
		AbortWithError(c, http.StatusUnprocessableEntity, err, "Validation failed",
			ValidationDetail{Field: invalid.Field, Reason: invalid.Reason})
	case errs.Is(err, errs.ErrValidation):
		AbortWithError(c, http.StatusUnprocessableEntity, err, "Validation failed", nil)
	case errs.Is(err, errs.ErrInvalidSignature):
		AbortWithError(c, http.StatusUnauthorized, err, "Invalid signature", nil)
	case errs.Is(err, errs.ErrNotFound):
		AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
	case errs.Is(err, errs.ErrBookingConflict):
		AbortWithError(c, http.StatusConflict, err, "Slot is already booked", nil)
	case errs.Is(err, errs.ErrBusinessRule):
		AbortWithError(c, http.StatusUnprocessableEntity, err, businessMessage(err), nil)
	case errs.Is(err, errs.ErrConcurrentOperationTimeout):
		c.Header("Retry-After", "1")
		AbortWithError(c, http.StatusServiceUnavailable, err, "Identical request still in progress", nil)
	case errs.Is(err, errs.ErrTransientStore):
		c.Header("Retry-After", "1")
		AbortWithError(c, http.StatusServiceUnavailable, err, "Temporarily unavailable", nil)
	default:
		AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func businessMessage(err error) string {
	switch {
	case errs.Is(err, reservation.ErrAlreadyConfirmed):
		return "Reservation is already confirmed"
	case errs.Is(err, reservation.ErrReservationCancelled):
		return "Reservation is cancelled"
	default:
		return "Request violates a business rule"
	}
}
