package treatments

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	treatmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/treatment"
)

type stubTreatments struct{ items []*domain.Treatment }

func (s stubTreatments) GetByID(_ context.Context, id int64) (*domain.Treatment, error) {
	for _, t := range s.items {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, treatmentRepo.ErrTreatmentNotFound
}

func (s stubTreatments) List(context.Context, domain.TreatmentsFilter) ([]*domain.Treatment, error) {
	return s.items, nil
}

type stubPromos struct {
	promos []*domain.Promo
	calls  int
}

func (s *stubPromos) List(context.Context, domain.PromosFilter) ([]*domain.Promo, error) {
	s.calls++
	return s.promos, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newService() (*Service, *stubPromos) {
	treatments := stubTreatments{items: []*domain.Treatment{
		{ID: 42, Name: "Facial", BasePrice: 200000, IsActive: true},
		{ID: 43, Name: "Massage", BasePrice: 100000, IsActive: true},
	}}
	promos := &stubPromos{promos: []*domain.Promo{
		{ID: 1, Name: "Global 10", DiscountType: domain.DiscountPercentage, DiscountValue: decimal.NewFromInt(10), IsActive: true, IsGlobal: true},
		{ID: 2, Name: "Facial week", DiscountType: domain.DiscountFixed, DiscountValue: decimal.NewFromInt(50000), IsActive: true, ApplicableTreatments: []int64{42}},
	}}

	svc := NewService(treatments, promos, nopLogger{})
	svc.now = func() time.Time { return time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC) }
	return svc, promos
}

func TestListWithPrices(t *testing.T) {
	svc, promos := newService()

	resp, err := svc.ListWithPrices(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, resp.Treatments, 2)

	assert.Equal(t, int64(150000), resp.Treatments[0].FinalPrice)
	assert.Equal(t, int64(50000), resp.Treatments[0].Discount)
	assert.Equal(t, int64(2), resp.Treatments[0].AppliedPromo.PromoID)

	assert.Equal(t, int64(90000), resp.Treatments[1].FinalPrice)
	assert.Equal(t, int64(1), resp.Treatments[1].AppliedPromo.PromoID)

	assert.Equal(t, 1, promos.calls)
}

func TestGetPrice(t *testing.T) {
	svc, _ := newService()

	resp, err := svc.GetPrice(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), resp.BasePrice)
	assert.Equal(t, int64(150000), resp.FinalPrice)

	_, err = svc.GetPrice(context.Background(), 7)
	assert.ErrorIs(t, err, ErrTreatmentNotFound)
}
