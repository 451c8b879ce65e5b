package receipts

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/booking"
)

type stubBookings map[int64]*domain.Booking

func (s stubBookings) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := s[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

type stubPayments []*domain.Payment

func (s stubPayments) ListByBooking(context.Context, int64) ([]*domain.Payment, error) {
	return s, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestGenerate(t *testing.T) {
	original := int64(200000)
	paidAt := time.Date(2025, 10, 15, 11, 0, 0, 0, time.UTC)
	lockedAt := paidAt

	bookings := stubBookings{
		7: {
			ID:          7,
			UserID:      10,
			Type:        domain.TypeTreatment,
			Status:      domain.StatusConfirmed,
			ScheduledAt: time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC),
			TotalAmount: 240000,
			LockedAt:    &lockedAt,
			LineItems: []domain.BookingLineItem{
				{TreatmentID: 42, TreatmentName: "Facial", Quantity: 1, Price: 150000, OriginalPrice: &original,
					PromoApplied: &domain.PromoSnapshot{PromoID: 2, Name: "Facial week", DiscountType: domain.DiscountFixed, DiscountValue: decimal.NewFromInt(50000)}},
				{TreatmentID: 43, TreatmentName: "Massage", Quantity: 1, Price: 90000},
			},
		},
	}
	payments := stubPayments{
		{ID: 1, BookingID: 7, OrderID: "BK-7-1", Provider: domain.ProviderMidtrans, Amount: 240000, Status: domain.PaymentPaid, PaidAt: &paidAt},
	}

	svc := NewService(bookings, payments, "SMC Clinic", nopLogger{})

	data, name, err := svc.Generate(context.Background(), 7, domain.Actor{UserID: 10, Role: domain.RoleCustomer})
	require.NoError(t, err)
	assert.Equal(t, "receipt-7.pdf", name)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	_, _, err = svc.Generate(context.Background(), 7, domain.Actor{UserID: 11, Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, _, err = svc.Generate(context.Background(), 8, domain.Actor{UserID: 1, Role: domain.RoleStaff})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestPromoNote(t *testing.T) {
	original := int64(200000)
	item := &domain.BookingLineItem{Price: 150000, OriginalPrice: &original, PromoApplied: &domain.PromoSnapshot{Name: "Facial week"}}

	assert.Equal(t, "  Promo: Facial week (base 200.000, saved 50.000 per unit)", promoNote(item))
	assert.Empty(t, promoNote(&domain.BookingLineItem{Price: 100}))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", formatAmount(0))
	assert.Equal(t, "999", formatAmount(999))
	assert.Equal(t, "1.000", formatAmount(1000))
	assert.Equal(t, "1.250.000", formatAmount(1250000))
	assert.Equal(t, "-50.000", formatAmount(-50000))
}
