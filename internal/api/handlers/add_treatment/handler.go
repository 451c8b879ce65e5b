package add_treatment

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
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "изменять процедуры может только персонал клиники"
	msgBookingNotFound    = "бронирование не найдено"
	msgTreatmentNotFound  = "процедура не найдена"
	msgTreatmentInactive  = "процедура недоступна"
	msgInvalidQuantity    = "количество должно быть положительным"
	msgInvalidPrice       = "цена не может быть отрицательной"
	msgBookingLocked      = "бронирование оплачено, позиции изменить нельзя"
	msgBookingClosed      = "бронирование закрыто, позиции изменить нельзя"
	msgConsultation       = "в консультацию нельзя добавлять процедуры"
	msgLineItemExists     = "процедура уже есть в бронировании"
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

// Handle POST /api/v1/bookings/{bookingId}/treatments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/treatments - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/treatments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if !actor.Role.IsStaff() {
		h.logger.Warn("POST /bookings/{id}/treatments - Access denied: user_id=%d, role=%s", actor.UserID, actor.Role)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req AddTreatmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.TreatmentID <= 0 {
		h.logger.Warn("POST /bookings/{id}/treatments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.ledger.AddTreatment(r.Context(), bookingID, req.TreatmentID, req.Quantity, req.UnitPriceOverride, actor.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/treatments - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, ledger.ErrTreatmentNotFound):
			h.logger.Warn("POST /bookings/{id}/treatments - Treatment not found: treatment_id=%d", req.TreatmentID)
			handlers.RespondNotFound(w, msgTreatmentNotFound)

		case errors.Is(err, ledger.ErrTreatmentInactive):
			h.logger.Warn("POST /bookings/{id}/treatments - Treatment inactive: treatment_id=%d", req.TreatmentID)
			handlers.RespondBadRequest(w, msgTreatmentInactive)

		case errors.Is(err, ledger.ErrInvalidQuantity):
			h.logger.Warn("POST /bookings/{id}/treatments - Invalid quantity: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidQuantity)

		case errors.Is(err, ledger.ErrInvalidPrice):
			h.logger.Warn("POST /bookings/{id}/treatments - Invalid price override: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidPrice)

		case errors.Is(err, ledger.ErrBookingLocked):
			h.logger.Warn("POST /bookings/{id}/treatments - Booking locked: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgBookingLocked)

		case errors.Is(err, ledger.ErrBookingClosed):
			h.logger.Warn("POST /bookings/{id}/treatments - Booking closed: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgBookingClosed)

		case errors.Is(err, ledger.ErrConsultationBooking):
			h.logger.Warn("POST /bookings/{id}/treatments - Consultation booking: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgConsultation)

		case errors.Is(err, ledger.ErrLineItemExists):
			h.logger.Warn("POST /bookings/{id}/treatments - Line item exists: booking_id=%d, treatment_id=%d",
				bookingID, req.TreatmentID)
			handlers.RespondConflict(w, msgLineItemExists)

		case errors.Is(err, ledger.ErrConcurrentUpdate):
			h.logger.Warn("POST /bookings/{id}/treatments - Concurrent update: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		default:
			h.logger.Error("POST /bookings/{id}/treatments - Failed to add treatment: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/treatments - Treatment added: booking_id=%d, treatment_id=%d, total=%d",
		bookingID, req.TreatmentID, result.Booking.TotalAmount)
	handlers.RespondJSON(w, http.StatusCreated, models.FromLedgerChange(result.Booking, result.LineItem, result.Audit))
}
