package get_treatment_price

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/service/treatments/models"
)

type TreatmentService interface {
	GetPrice(ctx context.Context, treatmentID int64) (*models.TreatmentPriceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
