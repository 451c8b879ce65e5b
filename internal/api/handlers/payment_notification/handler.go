package payment_notification

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/service/payments"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidNotification = "уведомление не прошло проверку"
	msgPaymentNotFound     = "платёж не найден"
	msgAmountMismatch      = "сумма уведомления не совпадает с суммой платежа"
	msgStalePayment        = "сумма бронирования изменилась после создания платежа"
	msgConcurrentPayment   = "платёж обрабатывается параллельно, повторите уведомление"
)

// NotificationRequest тело уведомления шлюза: подписанный JWT
type NotificationRequest struct {
	Token string `json:"token"`
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

// Handle POST /api/v1/payments/notifications
// Публичный маршрут: подлинность проверяется подписью токена
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req NotificationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.Token == "" {
		h.logger.Warn("POST /payments/notifications - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	payment, err := h.service.HandleNotification(r.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidNotification):
			h.logger.Warn("POST /payments/notifications - Invalid notification: %v", err)
			handlers.RespondUnauthorized(w, msgInvalidNotification)

		case errors.Is(err, payments.ErrPaymentNotFound):
			h.logger.Warn("POST /payments/notifications - Payment not found")
			handlers.RespondNotFound(w, msgPaymentNotFound)

		case errors.Is(err, payments.ErrAmountMismatch):
			h.logger.Warn("POST /payments/notifications - Amount mismatch: %v", err)
			handlers.RespondBadRequest(w, msgAmountMismatch)

		case errors.Is(err, payments.ErrStalePayment):
			h.logger.Warn("POST /payments/notifications - Stale payment: %v", err)
			handlers.RespondConflict(w, msgStalePayment)

		case errors.Is(err, payments.ErrConcurrentPayment):
			h.logger.Warn("POST /payments/notifications - Concurrent payment: %v", err)
			handlers.RespondConflict(w, msgConcurrentPayment)

		default:
			h.logger.Error("POST /payments/notifications - Failed to handle notification: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/notifications - Notification handled: order_id=%s, status=%s",
		payment.OrderID, payment.Status)
	handlers.RespondJSON(w, http.StatusOK, payment)
}
