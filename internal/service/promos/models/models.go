package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// Request модели

// CreatePromoRequest запрос на создание акции
type CreatePromoRequest struct {
	Name                 string          `json:"name"`
	DiscountType         string          `json:"discountType"`  // percentage | fixed
	DiscountValue        decimal.Decimal `json:"discountValue"` // 0-100 для percentage
	StartDate            *time.Time      `json:"startDate,omitempty"`
	EndDate              *time.Time      `json:"endDate,omitempty"`
	IsActive             *bool           `json:"isActive,omitempty"` // по умолчанию true
	IsGlobal             bool            `json:"isGlobal"`
	ApplicableTreatments []int64         `json:"applicableTreatments,omitempty"`
}

// UpdatePromoRequest запрос на обновление акции
// Все поля опциональны - обновляются только переданные значения
type UpdatePromoRequest struct {
	Name                 *string          `json:"name,omitempty"`
	DiscountType         *string          `json:"discountType,omitempty"`
	DiscountValue        *decimal.Decimal `json:"discountValue,omitempty"`
	StartDate            *time.Time       `json:"startDate,omitempty"`
	EndDate              *time.Time       `json:"endDate,omitempty"`
	ClearStartDate       bool             `json:"clearStartDate,omitempty"`
	ClearEndDate         bool             `json:"clearEndDate,omitempty"`
	IsActive             *bool            `json:"isActive,omitempty"`
	IsGlobal             *bool            `json:"isGlobal,omitempty"`
	ApplicableTreatments *[]int64         `json:"applicableTreatments,omitempty"`
}

// Response модели

// PromoResponse ответ с данными акции
type PromoResponse struct {
	ID                   int64           `json:"id"`
	Name                 string          `json:"name"`
	DiscountType         string          `json:"discountType"`
	DiscountValue        decimal.Decimal `json:"discountValue"`
	StartDate            *time.Time      `json:"startDate,omitempty"`
	EndDate              *time.Time      `json:"endDate,omitempty"`
	IsActive             bool            `json:"isActive"`
	IsGlobal             bool            `json:"isGlobal"`
	ApplicableTreatments []int64         `json:"applicableTreatments"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// PromoListResponse ответ со списком акций
type PromoListResponse struct {
	Promos []PromoResponse `json:"promos"`
}

// Методы конвертации

// FromDomainPromo конвертирует domain модель в DTO
func FromDomainPromo(p *domain.Promo) *PromoResponse {
	if p == nil {
		return nil
	}

	treatments := p.ApplicableTreatments
	if treatments == nil {
		treatments = []int64{}
	}

	return &PromoResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		DiscountType:         string(p.DiscountType),
		DiscountValue:        p.DiscountValue,
		StartDate:            p.StartDate,
		EndDate:              p.EndDate,
		IsActive:             p.IsActive,
		IsGlobal:             p.IsGlobal,
		ApplicableTreatments: treatments,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// FromDomainPromoList конвертирует список domain моделей в DTO
func FromDomainPromoList(promos []*domain.Promo) *PromoListResponse {
	resp := &PromoListResponse{
		Promos: make([]PromoResponse, 0, len(promos)),
	}

	for _, p := range promos {
		if promoResp := FromDomainPromo(p); promoResp != nil {
			resp.Promos = append(resp.Promos, *promoResp)
		}
	}

	return resp
}

// ToDomainPromo конвертирует CreatePromoRequest в domain модель
func (r *CreatePromoRequest) ToDomainPromo() *domain.Promo {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}

	return &domain.Promo{
		Name:                 r.Name,
		DiscountType:         domain.DiscountType(r.DiscountType),
		DiscountValue:        r.DiscountValue,
		StartDate:            r.StartDate,
		EndDate:              r.EndDate,
		IsActive:             isActive,
		IsGlobal:             r.IsGlobal,
		ApplicableTreatments: r.ApplicableTreatments,
	}
}

// ApplyTo накладывает изменения на существующую акцию
func (r *UpdatePromoRequest) ApplyTo(p *domain.Promo) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.DiscountType != nil {
		p.DiscountType = domain.DiscountType(*r.DiscountType)
	}
	if r.DiscountValue != nil {
		p.DiscountValue = *r.DiscountValue
	}
	if r.StartDate != nil {
		p.StartDate = r.StartDate
	} else if r.ClearStartDate {
		p.StartDate = nil
	}
	if r.EndDate != nil {
		p.EndDate = r.EndDate
	} else if r.ClearEndDate {
		p.EndDate = nil
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	if r.IsGlobal != nil {
		p.IsGlobal = *r.IsGlobal
	}
	if r.ApplicableTreatments != nil {
		p.ApplicableTreatments = *r.ApplicableTreatments
	}
}
