package get_receipt

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

type ReceiptService interface {
	Generate(ctx context.Context, bookingID int64, actor domain.Actor) ([]byte, string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
