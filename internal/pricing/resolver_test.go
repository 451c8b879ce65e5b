package pricing

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

var now = time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

func percent(id int64, v int64, global bool, treatments ...int64) *domain.Promo {
	return &domain.Promo{
		ID:                   id,
		Name:                 fmt.Sprintf("promo-%d", id),
		DiscountType:         domain.DiscountPercentage,
		DiscountValue:        decimal.NewFromInt(v),
		IsActive:             true,
		IsGlobal:             global,
		ApplicableTreatments: treatments,
	}
}

func fixed(id int64, v int64, global bool, treatments ...int64) *domain.Promo {
	p := percent(id, v, global, treatments...)
	p.DiscountType = domain.DiscountFixed
	return p
}

func treatment(id, price int64) *domain.Treatment {
	return &domain.Treatment{ID: id, Name: "Facial", BasePrice: price, IsActive: true}
}

func TestResolveBestPrice_FixedBeatsGlobalPercentage(t *testing.T) {
	global10 := percent(1, 10, true)
	fixed50k := fixed(2, 50000, false, 42)

	got, err := ResolveBestPrice(treatment(42, 200000), []*domain.Promo{global10, fixed50k}, now)
	require.NoError(t, err)

	assert.Equal(t, int64(150000), got.FinalPrice)
	require.NotNil(t, got.AppliedPromo)
	assert.Equal(t, int64(2), got.AppliedPromo.PromoID)
	assert.Equal(t, domain.DiscountFixed, got.AppliedPromo.DiscountType)
	assert.Equal(t, int64(50000), got.Discount())
}

func TestResolveBestPrice_NoApplicablePromo(t *testing.T) {
	other := fixed(1, 10000, false, 7)

	got, err := ResolveBestPrice(treatment(42, 200000), []*domain.Promo{other}, now)
	require.NoError(t, err)

	assert.Equal(t, int64(200000), got.FinalPrice)
	assert.Nil(t, got.AppliedPromo)
}

func TestResolveBestPrice_FloorsAtZero(t *testing.T) {
	tests := []struct {
		name  string
		promo *domain.Promo
	}{
		{"percentage 100", percent(1, 100, true)},
		{"percentage above 100", percent(1, 150, true)},
		{"fixed equal to base", fixed(1, 80000, true)},
		{"fixed above base", fixed(1, 1000000, true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBestPrice(treatment(1, 80000), []*domain.Promo{tt.promo}, now)
			require.NoError(t, err)
			assert.Equal(t, int64(0), got.FinalPrice)
			assert.NotNil(t, got.AppliedPromo)
		})
	}
}

func TestResolveBestPrice_PercentageRounding(t *testing.T) {
	p := &domain.Promo{
		ID:            1,
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: decimal.RequireFromString("12.5"),
		IsActive:      true,
		IsGlobal:      true,
	}

	// 99999 * 0.875 = 87499.125 -> 87499
	got, err := ResolveBestPrice(treatment(1, 99999), []*domain.Promo{p}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(87499), got.FinalPrice)

	// 3 * 0.5 = 1.5 -> 2
	half := percent(2, 50, true)
	got, err = ResolveBestPrice(treatment(1, 3), []*domain.Promo{half}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.FinalPrice)
}

func TestResolveBestPrice_InactivePromosAreIgnored(t *testing.T) {
	past := now.Add(-48 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	expired := fixed(1, 190000, true)
	expired.StartDate, expired.EndDate = &past, &yesterday

	notStarted := fixed(2, 190000, true)
	notStarted.StartDate = &tomorrow

	disabled := fixed(3, 190000, true)
	disabled.IsActive = false

	valid := percent(4, 10, true)

	got, err := ResolveBestPrice(treatment(1, 200000), []*domain.Promo{expired, notStarted, disabled, valid}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(180000), got.FinalPrice)
	assert.Equal(t, int64(4), got.AppliedPromo.PromoID)
}

func TestResolveBestPrice_ExpiredPromoDoesNotChangeResult(t *testing.T) {
	yesterday := now.Add(-24 * time.Hour)
	expired := fixed(99, 199999, true)
	expired.EndDate = &yesterday

	base := []*domain.Promo{percent(1, 10, true), fixed(2, 30000, false, 1)}

	without, err := ResolveBestPrice(treatment(1, 200000), base, now)
	require.NoError(t, err)
	with, err := ResolveBestPrice(treatment(1, 200000), append(base, expired), now)
	require.NoError(t, err)

	assert.Equal(t, without, with)
}

func TestResolveBestPrice_TieBreak(t *testing.T) {
	// Обе акции дают 180000
	global := percent(1, 10, true)
	specific := fixed(5, 20000, false, 1)

	got, err := ResolveBestPrice(treatment(1, 200000), []*domain.Promo{global, specific}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.AppliedPromo.PromoID, "treatment-specific promo wins a tie")

	// Две глобальные с одинаковой ценой: меньший ID, независимо от порядка
	a := percent(8, 10, true)
	b := fixed(3, 20000, true)
	got1, err := ResolveBestPrice(treatment(1, 200000), []*domain.Promo{a, b}, now)
	require.NoError(t, err)
	got2, err := ResolveBestPrice(treatment(1, 200000), []*domain.Promo{b, a}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got1.AppliedPromo.PromoID)
	assert.Equal(t, got1, got2)
}

func TestResolveBestPrice_ZeroDiscountIsNotApplied(t *testing.T) {
	got, err := ResolveBestPrice(treatment(1, 200000), []*domain.Promo{percent(1, 0, true)}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), got.FinalPrice)
	assert.Nil(t, got.AppliedPromo)
}

func TestResolveBestPrice_InvalidDiscount(t *testing.T) {
	broken := percent(1, 10, true)
	broken.DiscountType = ""

	_, err := ResolveBestPrice(treatment(1, 200000), []*domain.Promo{broken}, now)
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	negative := fixed(2, -5, true)
	_, err = ResolveBestPrice(treatment(1, 200000), []*domain.Promo{negative}, now)
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	// Сломанная, но неактивная акция не мешает расчёту
	broken.IsActive = false
	_, err = ResolveBestPrice(treatment(1, 200000), []*domain.Promo{broken}, now)
	assert.NoError(t, err)
}

func TestResolveBestPrice_InvalidTreatment(t *testing.T) {
	_, err := ResolveBestPrice(nil, nil, now)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ResolveBestPrice(treatment(1, -1), nil, now)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResolveBestPrice_SnapshotIsDetached(t *testing.T) {
	p := fixed(1, 50000, true)

	got, err := ResolveBestPrice(treatment(1, 200000), []*domain.Promo{p}, now)
	require.NoError(t, err)

	p.Name = "renamed"
	p.DiscountValue = decimal.NewFromInt(1)

	assert.Equal(t, "promo-1", got.AppliedPromo.Name)
	assert.True(t, got.AppliedPromo.DiscountValue.Equal(decimal.NewFromInt(50000)))
}

func TestResolveBestPrice_BoundsProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		base := rng.Int63n(1000000)
		tr := treatment(int64(rng.Intn(5)+1), base)

		n := rng.Intn(6)
		promos := make([]*domain.Promo, 0, n)
		for j := 0; j < n; j++ {
			id := int64(j + 1)
			global := rng.Intn(2) == 0
			target := int64(rng.Intn(5) + 1)
			if rng.Intn(2) == 0 {
				promos = append(promos, percent(id, rng.Int63n(150), global, target))
			} else {
				promos = append(promos, fixed(id, rng.Int63n(1200000), global, target))
			}
		}

		got, err := ResolveBestPrice(tr, promos, now)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.FinalPrice, int64(0))
		assert.LessOrEqual(t, got.FinalPrice, base)

		if got.AppliedPromo != nil {
			var winner *domain.Promo
			for _, p := range promos {
				if p.ID == got.AppliedPromo.PromoID {
					winner = p
				}
			}
			require.NotNil(t, winner)
			assert.True(t, winner.AppliesTo(tr.ID), "selected promo must apply to the treatment")
		}
	}
}

func TestResolveBestPrice_Concurrent(t *testing.T) {
	promos := []*domain.Promo{percent(1, 10, true), fixed(2, 50000, false, 42)}
	tr := treatment(42, 200000)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := ResolveBestPrice(tr, promos, now)
			assert.NoError(t, err)
			assert.Equal(t, int64(150000), got.FinalPrice)
		}()
	}
	wg.Wait()
}
