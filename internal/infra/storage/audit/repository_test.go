package audit

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

func TestRepository_InsertAndList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	treatmentID := int64(42)
	name := "Facial"
	qty := 2
	price := int64(150000)

	mock.ExpectQuery("INSERT INTO booking_audit_log").
		WithArgs(int64(1), int64(7), "add_treatment", sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), int64(0), int64(300000)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

	mock.ExpectQuery("SELECT (.+) FROM booking_audit_log WHERE booking_id = \\$1 ORDER BY id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), int64(1), int64(7), "add_treatment", treatmentID, name, qty, price, int64(0), int64(300000), now).
			AddRow(int64(2), int64(1), int64(0), "lock", nil, nil, nil, nil, int64(300000), int64(300000), now))

	repo := NewRepository(db)
	_, err = repo.Insert(context.Background(), &domain.AuditEntry{
		BookingID:     1,
		ActorID:       7,
		Action:        domain.AuditAddTreatment,
		TreatmentID:   &treatmentID,
		TreatmentName: &name,
		Quantity:      &qty,
		Price:         &price,
		NewTotal:      300000,
	})
	require.NoError(t, err)

	entries, err := repo.ListByBooking(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.AuditAddTreatment, entries[0].Action)
	assert.Equal(t, 2, *entries[0].Quantity)
	assert.Equal(t, domain.AuditLock, entries[1].Action)
	assert.Nil(t, entries[1].TreatmentID)

	require.NoError(t, mock.ExpectationsWereMet())
}
