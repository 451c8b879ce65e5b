package update_quantity

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
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "изменять процедуры может только персонал клиники"
	msgBookingNotFound    = "бронирование не найдено"
	msgLineItemNotFound   = "процедуры нет в бронировании"
	msgInvalidQuantity    = "количество должно быть положительным"
	msgBookingLocked      = "бронирование оплачено, позиции изменить нельзя"
	msgBookingClosed      = "бронирование закрыто, позиции изменить нельзя"
	msgConcurrentUpdate   = "бронирование изменяется параллельно, повторите запрос"
)

// UpdateQuantityRequest HTTP request model
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

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

// Handle PATCH /api/v1/bookings/{bookingId}/treatments/{treatmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/treatments/{treatmentId} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}
	treatmentID, err := handlers.PathInt64(r, "treatmentId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/treatments/{treatmentId} - Invalid treatment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTreatmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/treatments/{treatmentId} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if !actor.Role.IsStaff() {
		h.logger.Warn("PATCH /bookings/{id}/treatments/{treatmentId} - Access denied: user_id=%d, role=%s",
			actor.UserID, actor.Role)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req UpdateQuantityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/treatments/{treatmentId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.ledger.UpdateQuantity(r.Context(), bookingID, treatmentID, req.Quantity, actor.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/treatments/{treatmentId} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, ledger.ErrLineItemNotFound):
			h.logger.Warn("PATCH /bookings/{id}/treatments/{treatmentId} - Line item not found: booking_id=%d, treatment_id=%d",
				bookingID, treatmentID)
			handlers.RespondNotFound(w, msgLineItemNotFound)

		case errors.Is(err, ledger.ErrInvalidQuantity):
			h.logger.Warn("PATCH /bookings/{id}/treatments/{treatmentId} - Invalid quantity: %d", req.Quantity)
			handlers.RespondBadRequest(w, msgInvalidQuantity)

		case errors.Is(err, ledger.ErrBookingLocked):
			h.logger.Warn("PATCH /bookings/{id}/treatments/{treatmentId} - Booking locked: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgBookingLocked)

		case errors.Is(err, ledger.ErrBookingClosed):
			h.logger.Warn("PATCH /bookings/{id}/treatments/{treatmentId} - Booking closed: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgBookingClosed)

		case errors.Is(err, ledger.ErrConcurrentUpdate):
			h.logger.Warn("PATCH /bookings/{id}/treatments/{treatmentId} - Concurrent update: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		default:
			h.logger.Error("PATCH /bookings/{id}/treatments/{treatmentId} - Failed to update quantity: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/treatments/{treatmentId} - Quantity updated: booking_id=%d, treatment_id=%d, quantity=%d",
		bookingID, treatmentID, req.Quantity)
	handlers.RespondJSON(w, http.StatusOK, models.FromLedgerChange(result.Booking, result.LineItem, result.Audit))
}
