package models

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// InitiatePaymentRequest запрос на создание платежа
type InitiatePaymentRequest struct {
	Actor    domain.Actor `json:"-"`
	Method   string       `json:"method"`
	Provider string       `json:"provider"`
}

// PaymentResponse ответ с данными платежа
type PaymentResponse struct {
	ID          int64      `json:"id"`
	BookingID   int64      `json:"bookingId"`
	OrderID     string     `json:"orderId"`
	Method      string     `json:"method"`
	Provider    string     `json:"provider"`
	Amount      int64      `json:"amount"`
	Status      string     `json:"status"`
	ConfirmedBy *int64     `json:"confirmedBy,omitempty"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	// BookingLocked true, если после этой операции бронирование заблокировано
	BookingLocked bool `json:"bookingLocked"`
}

// FromDomainPayment конвертирует domain модель в DTO
func FromDomainPayment(p *domain.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}

	return &PaymentResponse{
		ID:            p.ID,
		BookingID:     p.BookingID,
		OrderID:       p.OrderID,
		Method:        string(p.Method),
		Provider:      string(p.Provider),
		Amount:        p.Amount,
		Status:        string(p.Status),
		ConfirmedBy:   p.ConfirmedBy,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
		BookingLocked: p.IsSettled(),
	}
}
