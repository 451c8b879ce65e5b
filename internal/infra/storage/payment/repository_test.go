package payment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
)

func TestRepository_CreateDuplicateOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO payments").WillReturnError(&pq.Error{Code: uniqueViolationCode})

	_, err = NewRepository(db).Create(context.Background(), &domain.Payment{
		BookingID: 1,
		OrderID:   "BK-1-1",
		Method:    domain.MethodGateway,
		Provider:  domain.ProviderMidtrans,
		Amount:    150000,
		Status:    domain.PaymentPending,
	})
	assert.ErrorIs(t, err, ErrDuplicateOrderID)
}

func TestRepository_GetByOrderIDLocksInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM payments WHERE order_id = \\$1 FOR UPDATE").
		WithArgs("BK-1-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(3), int64(1), "BK-1-1", "gateway", "midtrans", int64(150000), "pending", nil, nil, now, now))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	got, err := NewRepository(db).GetByOrderID(dbmetrics.WithTx(context.Background(), tx), "BK-1-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, got.Status)
	assert.Equal(t, domain.ProviderMidtrans, got.Provider)
	assert.Nil(t, got.PaidAt)

	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatusSetsPaidAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	paidAt := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	cashier := int64(99)

	mock.ExpectExec("UPDATE payments SET status = \\$1, updated_at = NOW\\(\\), paid_at = \\$2, confirmed_by = \\$3 WHERE id = \\$4").
		WithArgs("paid", paidAt, cashier, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewRepository(db).UpdateStatus(context.Background(), 3, domain.PaymentPaid, &paidAt, &cashier)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM payments WHERE id = \\$1$").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err = NewRepository(db).GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
