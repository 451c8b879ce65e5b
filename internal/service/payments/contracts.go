package payments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-ClinicService/internal/service/ledger"
)

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus, paidAt *time.Time, confirmedBy *int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
}

// Ledger блокировка бронирования после оплаты
type Ledger interface {
	LockOnPayment(ctx context.Context, bookingID int64) (*ledger.Result, error)
}

// NotificationVerifier проверка подписанных уведомлений шлюза
type NotificationVerifier interface {
	Verify(token string) (*paymentgateway.Notification, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчик переходов статусов платежей
type Metrics interface {
	PaymentTransition(provider, status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
