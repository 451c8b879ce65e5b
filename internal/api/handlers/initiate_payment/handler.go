package initiate_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicService/internal/service/payments"
	"github.com/m04kA/SMC-ClinicService/internal/service/payments/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgInvalidMethod      = "неподдерживаемый способ оплаты"
	msgBookingLocked      = "бронирование уже оплачено"
	msgNotPayable         = "бронирование нельзя оплатить"
	msgPaymentPending     = "по бронированию уже есть ожидающий платёж"
	msgConcurrentPayment  = "бронирование оплачивается параллельно, повторите запрос"
)

// InitiatePaymentRequest HTTP request model
type InitiatePaymentRequest struct {
	Method   string `json:"method"`   // gateway | manual
	Provider string `json:"provider"` // midtrans | doku | cash | transfer
}

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/payments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payments - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req InitiatePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/payments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	payment, err := h.service.Initiate(r.Context(), bookingID, &models.InitiatePaymentRequest{
		Actor:    actor,
		Method:   req.Method,
		Provider: req.Provider,
	})
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payments - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payments.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payments - Access denied: booking_id=%d, user_id=%d", bookingID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, payments.ErrInvalidMethod):
			h.logger.Warn("POST /bookings/{id}/payments - Invalid method: method=%s, provider=%s", req.Method, req.Provider)
			handlers.RespondBadRequest(w, msgInvalidMethod)

		case errors.Is(err, payments.ErrBookingLocked):
			h.logger.Warn("POST /bookings/{id}/payments - Booking locked: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgBookingLocked)

		case errors.Is(err, payments.ErrBookingNotPayable):
			h.logger.Warn("POST /bookings/{id}/payments - Booking not payable: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotPayable)

		case errors.Is(err, payments.ErrPaymentPending):
			h.logger.Warn("POST /bookings/{id}/payments - Payment pending: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgPaymentPending)

		case errors.Is(err, payments.ErrConcurrentPayment):
			h.logger.Warn("POST /bookings/{id}/payments - Concurrent payment: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgConcurrentPayment)

		default:
			h.logger.Error("POST /bookings/{id}/payments - Failed to initiate payment: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payments - Payment initiated: booking_id=%d, order_id=%s, amount=%d",
		bookingID, payment.OrderID, payment.Amount)
	handlers.RespondJSON(w, http.StatusCreated, payment)
}
