package promo

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
)

var resultColumns = []string{
	"id", "name", "discount_type", "discount_value", "start_date", "end_date",
	"is_active", "is_global", "created_at", "updated_at", "treatment_ids",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestListActive_FiltersByWindowAndTreatment(t *testing.T) {
	db, mock := newMock(t)
	at := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(
		"SELECT (.+) FROM promos p LEFT JOIN promo_treatments pt ON pt.promo_id = p.id " +
			"WHERE p.is_active = \\$1 " +
			"AND \\(p.start_date IS NULL OR p.start_date <= \\$2\\) " +
			"AND \\(p.end_date IS NULL OR p.end_date >= \\$3\\) " +
			"AND \\(p.is_global = \\$4 OR EXISTS (.+) x.treatment_id = \\$5\\)\\) " +
			"GROUP BY p.id ORDER BY p.id",
	).
		WithArgs(true, at, at, true, int64(42)).
		WillReturnRows(sqlmock.NewRows(resultColumns).
			AddRow(int64(1), "Global 10", "percentage", "10", nil, nil, true, true, at, at, "{}").
			AddRow(int64(2), "Facial week", "fixed", "50000", at, nil, true, false, at, at, "{42,43}"))

	got, err := NewRepository(db).ListActive(context.Background(), 42, at)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.DiscountPercentage, got[0].DiscountType)
	assert.True(t, got[0].DiscountValue.Equal(decimal.NewFromInt(10)))
	assert.Empty(t, got[0].ApplicableTreatments)

	assert.Equal(t, []int64{42, 43}, got[1].ApplicableTreatments)
	require.NotNil(t, got[1].StartDate)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_InsertsTreatmentLinks(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO promos").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))
	mock.ExpectExec("INSERT INTO promo_treatments \\(promo_id,treatment_id\\) VALUES \\(\\$1,\\$2\\),\\(\\$3,\\$4\\) ON CONFLICT DO NOTHING").
		WithArgs(int64(5), int64(42), int64(5), int64(43)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	promo := &domain.Promo{
		Name:                 "Facial week",
		DiscountType:         domain.DiscountFixed,
		DiscountValue:        decimal.NewFromInt(50000),
		IsActive:             true,
		ApplicableTreatments: []int64{42, 43},
	}

	got, err := NewRepository(db).Create(context.Background(), promo)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UnknownTreatment(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO promos").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))
	mock.ExpectExec("INSERT INTO promo_treatments").
		WillReturnError(&pq.Error{Code: foreignKeyViolationCode})

	_, err := NewRepository(db).Create(context.Background(), &domain.Promo{
		Name:                 "Broken",
		DiscountType:         domain.DiscountFixed,
		DiscountValue:        decimal.NewFromInt(1),
		ApplicableTreatments: []int64{999},
	})
	assert.ErrorIs(t, err, ErrUnknownTreatment)
}

func TestSetActive_NotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec("UPDATE promos SET is_active = \\$1").
		WithArgs(false, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewRepository(db).SetActive(context.Background(), 9, false)
	assert.ErrorIs(t, err, ErrPromoNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
