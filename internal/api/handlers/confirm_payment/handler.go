package confirm_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicService/internal/service/payments"
)

const (
	msgInvalidPaymentID  = "некорректный ID платежа"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgPaymentNotFound   = "платёж не найден"
	msgBookingNotFound   = "бронирование не найдено"
	msgForbidden         = "подтверждать оплату может только кассир или администратор"
	msgNotManual         = "онлайн-платёж подтверждается платёжным шлюзом"
	msgPaymentClosed     = "платёж уже закрыт"
	msgStalePayment      = "сумма бронирования изменилась, создайте новый платёж"
	msgConcurrentPayment = "бронирование оплачивается параллельно, повторите запрос"
)

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

// Handle POST /api/v1/payments/{paymentId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	paymentID, err := handlers.PathInt64(r, "paymentId")
	if err != nil {
		h.logger.Warn("POST /payments/{id}/confirm - Invalid payment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaymentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /payments/{id}/confirm - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	payment, err := h.service.ConfirmManual(r.Context(), paymentID, actor)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrPaymentNotFound):
			h.logger.Warn("POST /payments/{id}/confirm - Payment not found: payment_id=%d", paymentID)
			handlers.RespondNotFound(w, msgPaymentNotFound)

		case errors.Is(err, payments.ErrBookingNotFound):
			h.logger.Warn("POST /payments/{id}/confirm - Booking not found: payment_id=%d", paymentID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, payments.ErrAccessDenied):
			h.logger.Warn("POST /payments/{id}/confirm - Access denied: user_id=%d, role=%s", actor.UserID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, payments.ErrNotManualPayment):
			h.logger.Warn("POST /payments/{id}/confirm - Not a manual payment: payment_id=%d", paymentID)
			handlers.RespondConflict(w, msgNotManual)

		case errors.Is(err, payments.ErrPaymentClosed):
			h.logger.Warn("POST /payments/{id}/confirm - Payment closed: payment_id=%d", paymentID)
			handlers.RespondConflict(w, msgPaymentClosed)

		case errors.Is(err, payments.ErrStalePayment):
			h.logger.Warn("POST /payments/{id}/confirm - Stale payment: payment_id=%d, error=%v", paymentID, err)
			handlers.RespondConflict(w, msgStalePayment)

		case errors.Is(err, payments.ErrConcurrentPayment):
			h.logger.Warn("POST /payments/{id}/confirm - Concurrent payment: payment_id=%d", paymentID)
			handlers.RespondConflict(w, msgConcurrentPayment)

		default:
			h.logger.Error("POST /payments/{id}/confirm - Failed to confirm payment: payment_id=%d, error=%v", paymentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/{id}/confirm - Payment confirmed: payment_id=%d, booking_id=%d, user_id=%d",
		paymentID, payment.BookingID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, payment)
}
