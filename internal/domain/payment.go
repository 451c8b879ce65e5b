package domain

import "time"

// PaymentStatus статус платежа
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentExpired   PaymentStatus = "expired"
	PaymentCancelled PaymentStatus = "cancelled"
)

// IsTerminal returns true if the payment can no longer change status
func (s PaymentStatus) IsTerminal() bool {
	return s != PaymentPending
}

// PaymentMethod способ оплаты
type PaymentMethod string

const (
	// MethodGateway онлайн-оплата через платёжный шлюз
	MethodGateway PaymentMethod = "gateway"
	// MethodManual оплата на кассе, подтверждается кассиром
	MethodManual PaymentMethod = "manual"
)

// PaymentProvider провайдер платежа
type PaymentProvider string

const (
	ProviderMidtrans PaymentProvider = "midtrans"
	ProviderDoku     PaymentProvider = "doku"
	ProviderCash     PaymentProvider = "cash"
	ProviderTransfer PaymentProvider = "transfer"
)

// IsGateway returns true for online gateway providers
func (p PaymentProvider) IsGateway() bool {
	return p == ProviderMidtrans || p == ProviderDoku
}

// Payment платёж по бронированию
type Payment struct {
	ID          int64
	BookingID   int64
	OrderID     string // идентификатор заказа у провайдера
	Method      PaymentMethod
	Provider    PaymentProvider
	Amount      int64
	Status      PaymentStatus
	ConfirmedBy *int64 // кассир, подтвердивший ручную оплату
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsSettled returns true if the payment reached the paid state
func (p *Payment) IsSettled() bool {
	return p.Status == PaymentPaid
}
