package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicService/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"booking_id",
	"actor_id",
	"action",
	"treatment_id",
	"treatment_name",
	"quantity",
	"price",
	"previous_total",
	"new_total",
	"created_at",
}

// Repository журнал изменений бронирований (только добавление)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Insert добавляет запись в журнал
// Запись пишется в той же транзакции, что и изменение суммы
func (r *Repository) Insert(ctx context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_audit_log").
		Columns(
			"booking_id",
			"actor_id",
			"action",
			"treatment_id",
			"treatment_name",
			"quantity",
			"price",
			"previous_total",
			"new_total",
		).
		Values(
			entry.BookingID,
			entry.ActorID,
			entry.Action,
			entry.TreatmentID,
			entry.TreatmentName,
			entry.Quantity,
			entry.Price,
			entry.PreviousTotal,
			entry.NewTotal,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Insert - execute insert: %v", ErrExecQuery, err)
	}
	entry.CreatedAt = createdAt.Time

	return entry, nil
}

// ListByBooking возвращает журнал бронирования в порядке записи
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.AuditEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("booking_audit_log").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.AuditEntry, 0)
	for rows.Next() {
		var e domain.AuditEntry
		var createdAt sql.NullTime
		err := rows.Scan(
			&e.ID,
			&e.BookingID,
			&e.ActorID,
			&e.Action,
			&e.TreatmentID,
			&e.TreatmentName,
			&e.Quantity,
			&e.Price,
			&e.PreviousTotal,
			&e.NewTotal,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBooking - scan row: %v", ErrScanRow, err)
		}
		e.CreatedAt = createdAt.Time
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
