package models

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// AppliedPromoResponse акция, давшая скидку
type AppliedPromoResponse struct {
	PromoID       int64           `json:"promoId"`
	Name          string          `json:"name"`
	DiscountType  string          `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
}

// TreatmentPriceResponse процедура с итоговой ценой
type TreatmentPriceResponse struct {
	ID                   int64                 `json:"id"`
	Name                 string                `json:"name"`
	DurationMinutes      int                   `json:"durationMinutes"`
	CategoryID           *int64                `json:"categoryId,omitempty"`
	RequiresConfirmation bool                  `json:"requiresConfirmation"`
	IsActive             bool                  `json:"isActive"`
	BasePrice            int64                 `json:"basePrice"`
	FinalPrice           int64                 `json:"finalPrice"`
	Discount             int64                 `json:"discount"`
	AppliedPromo         *AppliedPromoResponse `json:"appliedPromo,omitempty"`
}

// TreatmentListResponse ответ со списком процедур
type TreatmentListResponse struct {
	Treatments []TreatmentPriceResponse `json:"treatments"`
}

// FromDomain конвертирует процедуру и её цену в DTO
func FromDomain(t *domain.Treatment, price *domain.EffectivePrice) TreatmentPriceResponse {
	resp := TreatmentPriceResponse{
		ID:                   t.ID,
		Name:                 t.Name,
		DurationMinutes:      t.DurationMinutes,
		CategoryID:           t.CategoryID,
		RequiresConfirmation: t.RequiresConfirmation,
		IsActive:             t.IsActive,
		BasePrice:            price.BasePrice,
		FinalPrice:           price.FinalPrice,
		Discount:             price.Discount(),
	}

	if price.AppliedPromo != nil {
		resp.AppliedPromo = &AppliedPromoResponse{
			PromoID:       price.AppliedPromo.PromoID,
			Name:          price.AppliedPromo.Name,
			DiscountType:  string(price.AppliedPromo.DiscountType),
			DiscountValue: price.AppliedPromo.DiscountValue,
		}
	}

	return resp
}
