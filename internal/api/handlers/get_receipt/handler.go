package get_receipt

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicService/internal/service/receipts"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	service ReceiptService
	logger  Logger
}

func NewHandler(service ReceiptService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}/receipt
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/receipt - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id}/receipt - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	data, filename, err := h.service.Generate(r.Context(), bookingID, actor)
	if err != nil {
		switch {
		case errors.Is(err, receipts.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id}/receipt - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, receipts.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{id}/receipt - Access denied: booking_id=%d, user_id=%d", bookingID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings/{id}/receipt - Failed to generate receipt: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{id}/receipt - Receipt generated: booking_id=%d, size=%d", bookingID, len(data))
	handlers.RespondFile(w, "application/pdf", filename, data)
}
