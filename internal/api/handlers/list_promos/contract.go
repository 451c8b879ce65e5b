package list_promos

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/service/promos/models"
)

type PromoService interface {
	List(ctx context.Context, actor domain.Actor, activeOnly bool) (*models.PromoListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
