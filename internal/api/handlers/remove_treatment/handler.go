package remove_treatment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ClinicService/internal/service/ledger"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidTreatmentID = "некорректный ID процедуры"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "изменять процедуры может только персонал клиники"
	msgBookingNotFound    = "бронирование не найдено"
	msgLineItemNotFound   = "процедуры нет в бронировании"
	msgBookingLocked      = "бронирование оплачено, позиции изменить нельзя"
	msgBookingClosed      = "бронирование закрыто, позиции изменить нельзя"
	msgConcurrentUpdate   = "бронирование изменяется параллельно, повторите запрос"
)

type Handler struct {
	ledger Ledger
	logger Logger
}

func NewHandler(ledger Ledger, logger Logger) *Handler {
	return &Handler{
		ledger: ledger,
		logger: logger,
	}
}

// Handle DELETE /api/v1/bookings/{bookingId}/treatments/{treatmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("DELETE /bookings/{id}/treatments/{treatmentId} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}
	treatmentID, err := handlers.PathInt64(r, "treatmentId")
	if err != nil {
		h.logger.Warn("DELETE /bookings/{id}/treatments/{treatmentId} - Invalid treatment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTreatmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("DELETE /bookings/{id}/treatments/{treatmentId} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if !actor.Role.IsStaff() {
		h.logger.Warn("DELETE /bookings/{id}/treatments/{treatmentId} - Access denied: user_id=%d, role=%s",
			actor.UserID, actor.Role)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.ledger.RemoveTreatment(r.Context(), bookingID, treatmentID, actor.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrBookingNotFound):
			h.logger.Warn("DELETE /bookings/{id}/treatments/{treatmentId} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, ledger.ErrLineItemNotFound):
			h.logger.Warn("DELETE /bookings/{id}/treatments/{treatmentId} - Line item not found: booking_id=%d, treatment_id=%d",
				bookingID, treatmentID)
			handlers.RespondNotFound(w, msgLineItemNotFound)

		case errors.Is(err, ledger.ErrBookingLocked):
			h.logger.Warn("DELETE /bookings/{id}/treatments/{treatmentId} - Booking locked: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgBookingLocked)

		case errors.Is(err, ledger.ErrBookingClosed):
			h.logger.Warn("DELETE /bookings/{id}/treatments/{treatmentId} - Booking closed: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgBookingClosed)

		case errors.Is(err, ledger.ErrConcurrentUpdate):
			h.logger.Warn("DELETE /bookings/{id}/treatments/{treatmentId} - Concurrent update: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		default:
			h.logger.Error("DELETE /bookings/{id}/treatments/{treatmentId} - Failed to remove treatment: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /bookings/{id}/treatments/{treatmentId} - Treatment removed: booking_id=%d, treatment_id=%d, total=%d",
		bookingID, treatmentID, result.Booking.TotalAmount)
	handlers.RespondJSON(w, http.StatusOK, models.FromLedgerChange(result.Booking, result.LineItem, result.Audit))
}
