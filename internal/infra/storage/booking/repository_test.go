package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
)

var scheduledAt = time.Date(2025, 10, 20, 9, 30, 0, 0, time.UTC)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func bookingRow(id int64, total int64, version int64) *sqlmock.Rows {
	return sqlmock.NewRows(bookingColumns).AddRow(
		id, int64(7), "treatment", "pending", scheduledAt, false,
		total, int64(0), nil, nil, version, nil, nil, scheduledAt, scheduledAt,
	)
}

func TestGetByID_LoadsLineItemsWithPromoSnapshot(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
		WithArgs(int64(1)).
		WillReturnRows(bookingRow(1, 350000, 3))

	mock.ExpectQuery("SELECT (.+) FROM booking_line_items WHERE booking_id IN \\(\\$1\\)").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(lineItemColumns).
			AddRow(int64(10), int64(1), int64(42), "Facial", 1, int64(150000), int64(200000),
				int64(2), "Autumn", "fixed", "50000", scheduledAt, scheduledAt).
			AddRow(int64(11), int64(1), int64(43), "Massage", 2, int64(100000), nil,
				nil, nil, nil, nil, scheduledAt, scheduledAt))

	got, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(350000), got.TotalAmount)
	assert.Equal(t, int64(3), got.Version)
	assert.Equal(t, domain.TypeTreatment, got.Type)
	require.Len(t, got.LineItems, 2)

	facial := got.LineItems[0]
	require.NotNil(t, facial.PromoApplied)
	assert.Equal(t, int64(2), facial.PromoApplied.PromoID)
	assert.Equal(t, domain.DiscountFixed, facial.PromoApplied.DiscountType)
	assert.True(t, facial.PromoApplied.DiscountValue.Equal(decimal.NewFromInt(50000)))
	require.NotNil(t, facial.OriginalPrice)
	assert.Equal(t, int64(200000), *facial.OriginalPrice)

	massage := got.LineItems[1]
	assert.Nil(t, massage.PromoApplied)
	assert.Nil(t, massage.OriginalPrice)
	assert.Equal(t, int64(200000), massage.Subtotal())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDForUpdate_LocksRowInsideTransaction(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(bookingRow(1, 0, 1))
	mock.ExpectQuery("SELECT (.+) FROM booking_line_items").
		WillReturnRows(sqlmock.NewRows(lineItemColumns))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	got, err := repo.GetByIDForUpdate(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got.LineItems)

	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTotal(t *testing.T) {
	t.Run("success returns new version", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewRepository(db)

		mock.ExpectQuery("UPDATE bookings SET total_amount = \\$1, version = version \\+ 1").
			WithArgs(int64(150000), int64(1), int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(5)))

		version, err := repo.UpdateTotal(context.Background(), 1, 150000, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(5), version)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version is a conflict", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewRepository(db)

		mock.ExpectQuery("UPDATE bookings").
			WillReturnRows(sqlmock.NewRows([]string{"version"}))
		mock.ExpectQuery("SELECT 1 FROM bookings WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		_, err := repo.UpdateTotal(context.Background(), 1, 150000, 4)
		assert.ErrorIs(t, err, ErrVersionConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing booking", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewRepository(db)

		mock.ExpectQuery("UPDATE bookings").
			WillReturnRows(sqlmock.NewRows([]string{"version"}))
		mock.ExpectQuery("SELECT 1 FROM bookings").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

		_, err := repo.UpdateTotal(context.Background(), 1, 150000, 4)
		assert.ErrorIs(t, err, ErrBookingNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInsertLineItem(t *testing.T) {
	t.Run("stores promo snapshot", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewRepository(db)

		original := int64(200000)
		item := &domain.BookingLineItem{
			BookingID:     1,
			TreatmentID:   42,
			TreatmentName: "Facial",
			Quantity:      1,
			Price:         150000,
			OriginalPrice: &original,
			PromoApplied: &domain.PromoSnapshot{
				PromoID:       2,
				Name:          "Autumn",
				DiscountType:  domain.DiscountFixed,
				DiscountValue: decimal.NewFromInt(50000),
			},
		}

		mock.ExpectQuery("INSERT INTO booking_line_items").
			WithArgs(int64(1), int64(42), "Facial", 1, int64(150000), sqlmock.AnyArg(),
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(10), scheduledAt, scheduledAt))

		got, err := repo.InsertLineItem(context.Background(), item)
		require.NoError(t, err)
		assert.Equal(t, int64(10), got.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate treatment", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewRepository(db)

		mock.ExpectQuery("INSERT INTO booking_line_items").
			WillReturnError(&pq.Error{Code: uniqueViolationCode})

		_, err := repo.InsertLineItem(context.Background(), &domain.BookingLineItem{BookingID: 1, TreatmentID: 42, Quantity: 1})
		assert.ErrorIs(t, err, ErrLineItemExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteLineItem_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectExec("DELETE FROM booking_line_items WHERE booking_id = \\$1 AND treatment_id = \\$2").
		WithArgs(int64(1), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteLineItem(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrLineItemNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ExcludesInactiveByDefault(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	userID := int64(7)
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE user_id = \\$1 AND status NOT IN \\(\\$2,\\$3,\\$4\\)").
		WithArgs(userID, "cancelled_by_user", "cancelled_by_clinic", "no_show").
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	got, err := repo.List(context.Background(), domain.BookingsFilter{UserID: &userID})
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel(t *testing.T) {
	const cancelQuery = "UPDATE bookings SET status = \\$1, cancellation_reason = \\$2, cancelled_at = NOW\\(\\), updated_at = NOW\\(\\), version = version \\+ 1 " +
		"WHERE id = \\$3 AND status IN \\(\\$4,\\$5\\) AND locked_at IS NULL"

	t.Run("unpaid booking", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewRepository(db)

		mock.ExpectExec(cancelQuery).
			WithArgs(domain.StatusCancelledByUser, "sick", int64(1), "pending", "confirmed").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Cancel(context.Background(), 1, domain.StatusCancelledByUser, "sick"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("locked by payment meanwhile", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewRepository(db)

		mock.ExpectExec(cancelQuery).
			WithArgs(domain.StatusCancelledByUser, "", int64(1), "pending", "confirmed").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT 1 FROM bookings WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		err := repo.Cancel(context.Background(), 1, domain.StatusCancelledByUser, "")
		assert.ErrorIs(t, err, ErrBookingNotCancellable)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing booking", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewRepository(db)

		mock.ExpectExec(cancelQuery).
			WithArgs(domain.StatusCancelledByClinic, "", int64(9), "pending", "confirmed").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT 1 FROM bookings WHERE id = \\$1").
			WithArgs(int64(9)).
			WillReturnError(sql.ErrNoRows)

		err := repo.Cancel(context.Background(), 9, domain.StatusCancelledByClinic, "")
		assert.ErrorIs(t, err, ErrBookingNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
