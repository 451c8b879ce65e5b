package deactivate_promo

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

type PromoService interface {
	Deactivate(ctx context.Context, actor domain.Actor, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
