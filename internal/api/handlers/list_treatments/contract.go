package list_treatments

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/service/treatments/models"
)

type TreatmentService interface {
	ListWithPrices(ctx context.Context, activeOnly bool) (*models.TreatmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
