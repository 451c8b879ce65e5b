package promos

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// PromoRepository интерфейс репозитория акций
type PromoRepository interface {
	Create(ctx context.Context, promo *domain.Promo) (*domain.Promo, error)
	GetByID(ctx context.Context, id int64) (*domain.Promo, error)
	List(ctx context.Context, filter domain.PromosFilter) ([]*domain.Promo, error)
	Update(ctx context.Context, promo *domain.Promo) (*domain.Promo, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// TreatmentRepository интерфейс каталога процедур
type TreatmentRepository interface {
	List(ctx context.Context, filter domain.TreatmentsFilter) ([]*domain.Treatment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
