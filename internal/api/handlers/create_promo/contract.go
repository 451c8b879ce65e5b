package create_promo

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/service/promos/models"
)

type PromoService interface {
	Create(ctx context.Context, actor domain.Actor, req *models.CreatePromoRequest) (*models.PromoResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
