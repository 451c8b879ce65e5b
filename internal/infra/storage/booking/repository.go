package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"user_id",
	"type",
	"status",
	"scheduled_at",
	"is_walk_in",
	"total_amount",
	"consultation_fee",
	"notes",
	"locked_at",
	"version",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями и их позициями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование без позиций
// Если в контексте передана активная транзакция, использует её.
// Позиции добавляются отдельно через InsertLineItem, чтобы сумма всегда проходила через ledger.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"type",
			"status",
			"scheduled_at",
			"is_walk_in",
			"total_amount",
			"consultation_fee",
			"notes",
		).
		Values(
			booking.UserID,
			booking.Type,
			booking.Status,
			booking.ScheduledAt,
			booking.IsWalkIn,
			booking.TotalAmount,
			booking.ConsultationFee,
			booking.Notes,
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time
	if booking.LineItems == nil {
		booking.LineItems = []domain.BookingLineItem{}
	}

	return booking, nil
}

// GetByID получает бронирование по ID вместе с позициями
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает бронирование с блокировкой строки (SELECT ... FOR UPDATE)
// Вне транзакции блокировка не имеет смысла, поэтому FOR UPDATE добавляется только внутри неё.
// Все изменения позиций одного бронирования проходят через эту блокировку и выполняются строго по очереди.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	items, err := r.getLineItems(ctx, []int64{booking.ID})
	if err != nil {
		return nil, err
	}
	booking.LineItems = items[booking.ID]
	if booking.LineItems == nil {
		booking.LineItems = []domain.BookingLineItem{}
	}

	return booking, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	filter := domain.BookingsFilter{
		UserID:          &userID,
		Status:          status,
		IncludeInactive: true,
	}
	return r.List(ctx, filter)
}

// List получает бронирования с фильтрацией
// Поддерживает фильтрацию по пользователю, статусу, типу и периоду (по scheduled_at).
// Если статус не указан и IncludeInactive = false, отменённые и no-show исключаются.
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings")

	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Type != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"scheduled_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"scheduled_at": *filter.EndDate})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatusStrings})
	}

	query, args, err := selectBuilder.OrderBy("scheduled_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
		ids = append(ids, booking.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return bookings, nil
	}

	items, err := r.getLineItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, booking := range bookings {
		booking.LineItems = items[booking.ID]
		if booking.LineItems == nil {
			booking.LineItems = []domain.BookingLineItem{}
		}
	}

	return bookings, nil
}

// UpdateTotal записывает новую сумму, если версия бронирования не изменилась (compare-and-swap)
// Возвращает новую версию. Если строку успели изменить - ErrVersionConflict.
func (r *Repository) UpdateTotal(ctx context.Context, id int64, total int64, expectedVersion int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("total_amount", total).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"version": expectedVersion}).
		Suffix("RETURNING version").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: UpdateTotal - build update query: %v", ErrBuildQuery, err)
	}

	var version int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, r.conflictOrNotFound(ctx, id)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: UpdateTotal - execute update: %v", ErrExecQuery, err)
	}

	return version, nil
}

// Lock фиксирует время оплаты и увеличивает версию
// Уже заблокированное бронирование не меняется (ErrVersionConflict не возвращается)
func (r *Repository) Lock(ctx context.Context, id int64, at time.Time, expectedVersion int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("locked_at", at).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"version": expectedVersion}).
		Where(squirrel.Eq{"locked_at": nil}).
		Suffix("RETURNING version").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Lock - build update query: %v", ErrBuildQuery, err)
	}

	var version int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, r.conflictOrNotFound(ctx, id)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: Lock - execute update: %v", ErrExecQuery, err)
	}

	return version, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args, ErrBookingNotFound)
}

// Cancel отменяет бронирование с указанием причины
// Отменяется только неоплаченное бронирование в статусе pending/confirmed:
// условие проверяется в самом UPDATE, поэтому параллельная оплата не даёт отменить оплаченное
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": []string{string(domain.StatusPending), string(domain.StatusConfirmed)}}).
		Where(squirrel.Eq{"locked_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	err = r.execAffectingOne(ctx, executor, "Cancel", query, args, ErrBookingNotCancellable)
	if errors.Is(err, ErrBookingNotCancellable) {
		if existsErr := r.conflictOrNotFound(ctx, id); errors.Is(existsErr, ErrBookingNotFound) {
			return ErrBookingNotFound
		}
	}
	return err
}

// conflictOrNotFound различает "строки нет" и "строку изменили параллельно"
func (r *Repository) conflictOrNotFound(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: conflictOrNotFound - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: conflictOrNotFound - scan: %v", ErrScanRow, err)
	}

	return ErrVersionConflict
}

func (r *Repository) execAffectingOne(
	ctx context.Context,
	executor DBExecutor,
	op string,
	query string,
	args []interface{},
	notFound error,
) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return notFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует строку bookings в доменную модель
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.Type,
		&booking.Status,
		&booking.ScheduledAt,
		&booking.IsWalkIn,
		&booking.TotalAmount,
		&booking.ConsultationFee,
		&booking.Notes,
		&booking.LockedAt,
		&booking.Version,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
