package ledger

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateTotal(ctx context.Context, id int64, total int64, expectedVersion int64) (int64, error)
	Lock(ctx context.Context, id int64, at time.Time, expectedVersion int64) (int64, error)
	InsertLineItem(ctx context.Context, item *domain.BookingLineItem) (*domain.BookingLineItem, error)
	DeleteLineItem(ctx context.Context, bookingID, treatmentID int64) error
	UpdateLineItemQuantity(ctx context.Context, bookingID, treatmentID int64, quantity int) error
}

// TreatmentRepository интерфейс каталога процедур
type TreatmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Treatment, error)
}

// PromoRepository интерфейс репозитория акций
type PromoRepository interface {
	ListActive(ctx context.Context, treatmentID int64, at time.Time) ([]*domain.Promo, error)
}

// AuditRepository интерфейс журнала изменений
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчики операций ledger
type Metrics interface {
	LedgerOperation(action, result string)
	LedgerConflictRetry(action string)
	LedgerInvariantViolation(action string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
