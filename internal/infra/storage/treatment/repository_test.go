package treatment

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM treatments WHERE id = \\$1").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(42), "Facial", int64(200000), 60, nil, false, true, now, now))

	repo := NewRepository(db)
	got, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, "Facial", got.Name)
	assert.Equal(t, int64(200000), got.BasePrice)
	assert.Nil(t, got.CategoryID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM treatments").WillReturnError(sql.ErrNoRows)

	_, err = NewRepository(db).GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrTreatmentNotFound)
}

func TestRepository_List_ActiveOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM treatments WHERE is_active = \\$1 AND id IN \\(\\$2,\\$3\\) ORDER BY name, id").
		WithArgs(true, int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := NewRepository(db).List(context.Background(), domain.TreatmentsFilter{
		ActiveOnly: true,
		IDs:        []int64{1, 2},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
