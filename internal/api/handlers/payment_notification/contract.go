package payment_notification

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/service/payments/models"
)

type PaymentService interface {
	HandleNotification(ctx context.Context, token string) (*models.PaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
