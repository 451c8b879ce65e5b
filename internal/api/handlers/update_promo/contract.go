package update_promo

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/service/promos/models"
)

type PromoService interface {
	Update(ctx context.Context, actor domain.Actor, id int64, req *models.UpdatePromoRequest) (*models.PromoResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
