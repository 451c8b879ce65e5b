package promo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicService/pkg/psqlbuilder"
)

const foreignKeyViolationCode = "23503"

var columns = []string{
	"p.id",
	"p.name",
	"p.discount_type",
	"p.discount_value",
	"p.start_date",
	"p.end_date",
	"p.is_active",
	"p.is_global",
	"p.created_at",
	"p.updated_at",
	"COALESCE(array_agg(pt.treatment_id ORDER BY pt.treatment_id) FILTER (WHERE pt.treatment_id IS NOT NULL), '{}') AS treatment_ids",
}

// Repository репозиторий промо-акций и их привязок к процедурам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория акций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает акцию и её привязки к процедурам
// Вызывается внутри транзакции, чтобы акция и привязки появились одновременно
func (r *Repository) Create(ctx context.Context, promo *domain.Promo) (*domain.Promo, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("promos").
		Columns(
			"name",
			"discount_type",
			"discount_value",
			"start_date",
			"end_date",
			"is_active",
			"is_global",
		).
		Values(
			promo.Name,
			promo.DiscountType,
			promo.DiscountValue,
			promo.StartDate,
			promo.EndDate,
			promo.IsActive,
			promo.IsGlobal,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&promo.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	promo.CreatedAt = createdAt.Time
	promo.UpdatedAt = updatedAt.Time

	if err := r.insertTreatments(ctx, promo.ID, promo.ApplicableTreatments); err != nil {
		return nil, err
	}

	return promo, nil
}

// Update полностью заменяет параметры акции и список процедур
func (r *Repository) Update(ctx context.Context, promo *domain.Promo) (*domain.Promo, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("promos").
		Set("name", promo.Name).
		Set("discount_type", promo.DiscountType).
		Set("discount_value", promo.DiscountValue).
		Set("start_date", promo.StartDate).
		Set("end_date", promo.EndDate).
		Set("is_active", promo.IsActive).
		Set("is_global", promo.IsGlobal).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": promo.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}
	promo.UpdatedAt = updatedAt.Time

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("promo_treatments").
		Where(squirrel.Eq{"promo_id": promo.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return nil, fmt.Errorf("%w: Update - delete treatments: %v", ErrExecQuery, err)
	}

	if err := r.insertTreatments(ctx, promo.ID, promo.ApplicableTreatments); err != nil {
		return nil, err
	}

	return promo, nil
}

// SetActive включает или выключает акцию
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("promos").
		Set("is_active", active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetActive - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetActive - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetActive - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrPromoNotFound
	}

	return nil
}

// GetByID получает акцию по ID вместе со списком процедур
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Promo, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := baseSelect().
		Where(squirrel.Eq{"p.id": id}).
		GroupBy("p.id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	promo, err := scanPromo(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan promo: %v", ErrScanRow, err)
	}

	return promo, nil
}

// List получает акции с фильтрацией
// ActiveAt оставляет только включённые акции, окно которых содержит указанный момент.
// ForTreatment оставляет глобальные акции и акции, привязанные к процедуре.
func (r *Repository) List(ctx context.Context, filter domain.PromosFilter) ([]*domain.Promo, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := baseSelect()

	if filter.ActiveAt != nil {
		at := *filter.ActiveAt
		selectBuilder = selectBuilder.
			Where(squirrel.Eq{"p.is_active": true}).
			Where(squirrel.Or{squirrel.Eq{"p.start_date": nil}, squirrel.LtOrEq{"p.start_date": at}}).
			Where(squirrel.Or{squirrel.Eq{"p.end_date": nil}, squirrel.GtOrEq{"p.end_date": at}})
	}
	if filter.ForTreatment != nil {
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Eq{"p.is_global": true},
			squirrel.Expr(
				"EXISTS (SELECT 1 FROM promo_treatments x WHERE x.promo_id = p.id AND x.treatment_id = ?)",
				*filter.ForTreatment,
			),
		})
	}

	query, args, err := selectBuilder.GroupBy("p.id").OrderBy("p.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	promos := make([]*domain.Promo, 0)
	for rows.Next() {
		promo, err := scanPromo(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		promos = append(promos, promo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return promos, nil
}

// ListActive акции, которые могут дать скидку на процедуру в момент at
func (r *Repository) ListActive(ctx context.Context, treatmentID int64, at time.Time) ([]*domain.Promo, error) {
	return r.List(ctx, domain.PromosFilter{ActiveAt: &at, ForTreatment: &treatmentID})
}

func (r *Repository) insertTreatments(ctx context.Context, promoID int64, treatmentIDs []int64) error {
	if len(treatmentIDs) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("promo_treatments").Columns("promo_id", "treatment_id")
	for _, id := range treatmentIDs {
		insertBuilder = insertBuilder.Values(promoID, id)
	}

	query, args, err := insertBuilder.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertTreatments - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolationCode {
			return fmt.Errorf("%w: %s", ErrUnknownTreatment, pqErr.Detail)
		}
		return fmt.Errorf("%w: insertTreatments - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(columns...).
		From("promos p").
		LeftJoin("promo_treatments pt ON pt.promo_id = p.id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPromo(row rowScanner) (*domain.Promo, error) {
	var p domain.Promo
	var treatmentIDs pq.Int64Array
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.DiscountType,
		&p.DiscountValue,
		&p.StartDate,
		&p.EndDate,
		&p.IsActive,
		&p.IsGlobal,
		&createdAt,
		&updatedAt,
		&treatmentIDs,
	)
	if err != nil {
		return nil, err
	}

	p.ApplicableTreatments = []int64(treatmentIDs)
	if p.ApplicableTreatments == nil {
		p.ApplicableTreatments = []int64{}
	}
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}
