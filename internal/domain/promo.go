package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType тип скидки промо-акции
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// IsValid возвращает true для поддерживаемых типов скидки
func (t DiscountType) IsValid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// Promo промо-акция: глобальная или привязанная к набору процедур
type Promo struct {
	ID            int64
	Name          string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal // 0-100 для percentage, сумма для fixed
	StartDate     *time.Time      // nil = без ограничения
	EndDate       *time.Time      // nil = без ограничения
	IsActive      bool
	IsGlobal      bool

	// ApplicableTreatments процедуры, к которым применяется не глобальная акция
	ApplicableTreatments []int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCurrentlyActive проверяет флаг активности и окно дат на момент now
// Границы окна включительные
func (p *Promo) IsCurrentlyActive(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartDate != nil && p.StartDate.After(now) {
		return false
	}
	if p.EndDate != nil && p.EndDate.Before(now) {
		return false
	}
	return true
}

// AppliesTo проверяет, что акция действует на процедуру
func (p *Promo) AppliesTo(treatmentID int64) bool {
	if p.IsGlobal {
		return true
	}
	return p.IsTreatmentSpecific(treatmentID)
}

// IsTreatmentSpecific возвращает true, если процедура явно указана в акции
func (p *Promo) IsTreatmentSpecific(treatmentID int64) bool {
	for _, id := range p.ApplicableTreatments {
		if id == treatmentID {
			return true
		}
	}
	return false
}

// Snapshot снимок акции на момент применения
func (p *Promo) Snapshot() *PromoSnapshot {
	return &PromoSnapshot{
		PromoID:       p.ID,
		Name:          p.Name,
		DiscountType:  p.DiscountType,
		DiscountValue: p.DiscountValue,
	}
}

// PromoSnapshot копия параметров акции, сохраняемая вместе с позицией бронирования
// Не меняется, если акцию потом отредактировали или удалили
type PromoSnapshot struct {
	PromoID       int64
	Name          string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
}

// EffectivePrice итоговая цена одной единицы процедуры после лучшей скидки
type EffectivePrice struct {
	BasePrice    int64
	FinalPrice   int64
	AppliedPromo *PromoSnapshot // nil, если скидка не применилась
}

// Discount размер скидки в единицах валюты
func (p EffectivePrice) Discount() int64 {
	return p.BasePrice - p.FinalPrice
}

// PromosFilter фильтр списка акций
type PromosFilter struct {
	ActiveAt     *time.Time // только акции, активные в этот момент
	ForTreatment *int64     // только глобальные или привязанные к процедуре
}
