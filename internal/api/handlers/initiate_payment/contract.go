package initiate_payment

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/service/payments/models"
)

type PaymentService interface {
	Initiate(ctx context.Context, bookingID int64, req *models.InitiatePaymentRequest) (*models.PaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
