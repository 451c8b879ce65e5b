package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// candidate цена, которую дает одна акция
type candidate struct {
	promo    *domain.Promo
	price    int64
	specific bool // акция привязана к процедуре явно
	position int
}

// ResolveBestPrice выбирает минимальную цену процедуры среди применимых акций
//
// Акции фильтруются по активности на момент now (флаг и окно дат) и по применимости
// к процедуре, даже если вызывающий код уже их отфильтровал.
// При равной цене побеждает акция, привязанная к процедуре, затем акция с меньшим ID,
// затем акция, стоящая раньше в candidates.
//
// Функция чистая и безопасна для конкурентного вызова.
func ResolveBestPrice(treatment *domain.Treatment, candidates []*domain.Promo, now time.Time) (*domain.EffectivePrice, error) {
	if treatment == nil {
		return nil, fmt.Errorf("%w: treatment is required", ErrInvalidInput)
	}
	if treatment.BasePrice < 0 {
		return nil, fmt.Errorf("%w: treatment id=%d has negative base price %d",
			ErrInvalidInput, treatment.ID, treatment.BasePrice)
	}

	result := &domain.EffectivePrice{
		BasePrice:  treatment.BasePrice,
		FinalPrice: treatment.BasePrice,
	}

	var best *candidate
	for i, promo := range candidates {
		if promo == nil || !promo.IsCurrentlyActive(now) || !promo.AppliesTo(treatment.ID) {
			continue
		}

		price, err := ApplyDiscount(treatment.BasePrice, promo.DiscountType, promo.DiscountValue)
		if err != nil {
			return nil, fmt.Errorf("%w: promo id=%d", err, promo.ID)
		}

		c := &candidate{
			promo:    promo,
			price:    price,
			specific: promo.IsTreatmentSpecific(treatment.ID),
			position: i,
		}
		if best == nil || c.beats(best) {
			best = c
		}
	}

	// Акция, не снижающая цену, не считается применённой
	if best == nil || best.price >= treatment.BasePrice {
		return result, nil
	}

	result.FinalPrice = best.price
	result.AppliedPromo = best.promo.Snapshot()
	return result, nil
}

// beats сравнивает два кандидата: меньшая цена, затем привязка к процедуре, затем ID, затем позиция
func (c *candidate) beats(other *candidate) bool {
	if c.price != other.price {
		return c.price < other.price
	}
	if c.specific != other.specific {
		return c.specific
	}
	if c.promo.ID != other.promo.ID {
		return c.promo.ID < other.promo.ID
	}
	return c.position < other.position
}

// ApplyDiscount считает цену за единицу после скидки
//   - percentage: round(base * (100 - value) / 100), округление до целого половиной от нуля
//   - fixed: base - round(value)
//
// Результат никогда не бывает отрицательным
func ApplyDiscount(basePrice int64, discountType domain.DiscountType, value decimal.Decimal) (int64, error) {
	if value.IsNegative() {
		return 0, fmt.Errorf("%w: negative discount value %s", ErrInvalidDiscount, value.String())
	}

	base := decimal.NewFromInt(basePrice)

	var price decimal.Decimal
	switch discountType {
	case domain.DiscountPercentage:
		price = base.Mul(hundred.Sub(value)).Div(hundred).Round(0)
	case domain.DiscountFixed:
		price = base.Sub(value.Round(0))
	default:
		return 0, fmt.Errorf("%w: unknown discount type %q", ErrInvalidDiscount, discountType)
	}

	if price.IsNegative() {
		return 0, nil
	}
	return price.IntPart(), nil
}
