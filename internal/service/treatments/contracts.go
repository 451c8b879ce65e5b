package treatments

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// TreatmentRepository интерфейс каталога процедур
type TreatmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Treatment, error)
	List(ctx context.Context, filter domain.TreatmentsFilter) ([]*domain.Treatment, error)
}

// PromoRepository интерфейс репозитория акций
type PromoRepository interface {
	List(ctx context.Context, filter domain.PromosFilter) ([]*domain.Promo, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
