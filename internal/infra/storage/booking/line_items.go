package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicService/pkg/psqlbuilder"
)

const uniqueViolationCode = "23505"

var lineItemColumns = []string{
	"id",
	"booking_id",
	"treatment_id",
	"treatment_name",
	"quantity",
	"price",
	"original_price",
	"promo_id",
	"promo_name",
	"promo_discount_type",
	"promo_discount_value",
	"created_at",
	"updated_at",
}

// InsertLineItem добавляет позицию в бронирование
// Снимок акции сохраняется в колонках позиции и не зависит от дальнейших изменений акции.
func (r *Repository) InsertLineItem(ctx context.Context, item *domain.BookingLineItem) (*domain.BookingLineItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var (
		promoID            sql.NullInt64
		promoName          sql.NullString
		promoDiscountType  sql.NullString
		promoDiscountValue decimal.NullDecimal
	)
	if item.PromoApplied != nil {
		promoID = sql.NullInt64{Int64: item.PromoApplied.PromoID, Valid: true}
		promoName = sql.NullString{String: item.PromoApplied.Name, Valid: true}
		promoDiscountType = sql.NullString{String: string(item.PromoApplied.DiscountType), Valid: true}
		promoDiscountValue = decimal.NewNullDecimal(item.PromoApplied.DiscountValue)
	}

	query, args, err := psqlbuilder.Insert("booking_line_items").
		Columns(
			"booking_id",
			"treatment_id",
			"treatment_name",
			"quantity",
			"price",
			"original_price",
			"promo_id",
			"promo_name",
			"promo_discount_type",
			"promo_discount_value",
		).
		Values(
			item.BookingID,
			item.TreatmentID,
			item.TreatmentName,
			item.Quantity,
			item.Price,
			item.OriginalPrice,
			promoID,
			promoName,
			promoDiscountType,
			promoDiscountValue,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: InsertLineItem - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&item.ID, &createdAt, &updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrLineItemExists
		}
		return nil, fmt.Errorf("%w: InsertLineItem - execute insert: %v", ErrExecQuery, err)
	}

	item.CreatedAt = createdAt.Time
	item.UpdatedAt = updatedAt.Time

	return item, nil
}

// DeleteLineItem удаляет позицию процедуры из бронирования
func (r *Repository) DeleteLineItem(ctx context.Context, bookingID, treatmentID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_line_items").
		Where(squirrel.Eq{"booking_id": bookingID}).
		Where(squirrel.Eq{"treatment_id": treatmentID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteLineItem - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "DeleteLineItem", query, args, ErrLineItemNotFound)
}

// UpdateLineItemQuantity меняет количество в позиции; цена за единицу не пересчитывается
func (r *Repository) UpdateLineItemQuantity(ctx context.Context, bookingID, treatmentID int64, quantity int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_line_items").
		Set("quantity", quantity).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID}).
		Where(squirrel.Eq{"treatment_id": treatmentID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateLineItemQuantity - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateLineItemQuantity", query, args, ErrLineItemNotFound)
}

// getLineItems загружает позиции для набора бронирований одним запросом
func (r *Repository) getLineItems(ctx context.Context, bookingIDs []int64) (map[int64][]domain.BookingLineItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(lineItemColumns...).
		From("booking_line_items").
		Where(squirrel.Eq{"booking_id": bookingIDs}).
		OrderBy("booking_id", "id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getLineItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getLineItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.BookingLineItem, len(bookingIDs))
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: getLineItems - scan row: %v", ErrScanRow, err)
		}
		result[item.BookingID] = append(result[item.BookingID], *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getLineItems - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

func scanLineItem(row rowScanner) (*domain.BookingLineItem, error) {
	var (
		item               domain.BookingLineItem
		originalPrice      sql.NullInt64
		promoID            sql.NullInt64
		promoName          sql.NullString
		promoDiscountType  sql.NullString
		promoDiscountValue decimal.NullDecimal
		createdAt          sql.NullTime
		updatedAt          sql.NullTime
	)

	err := row.Scan(
		&item.ID,
		&item.BookingID,
		&item.TreatmentID,
		&item.TreatmentName,
		&item.Quantity,
		&item.Price,
		&originalPrice,
		&promoID,
		&promoName,
		&promoDiscountType,
		&promoDiscountValue,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if originalPrice.Valid {
		v := originalPrice.Int64
		item.OriginalPrice = &v
	}
	if promoID.Valid {
		item.PromoApplied = &domain.PromoSnapshot{
			PromoID:       promoID.Int64,
			Name:          promoName.String,
			DiscountType:  domain.DiscountType(promoDiscountType.String),
			DiscountValue: promoDiscountValue.Decimal,
		}
	}
	item.CreatedAt = createdAt.Time
	item.UpdatedAt = updatedAt.Time

	return &item, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}
