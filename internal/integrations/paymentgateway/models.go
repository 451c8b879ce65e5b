package paymentgateway

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// Notification уведомление шлюза о смене статуса платежа
type Notification struct {
	OrderID           string                 `json:"order_id"`
	Provider          domain.PaymentProvider `json:"provider"`
	TransactionStatus string                 `json:"transaction_status"`
	GrossAmount       int64                  `json:"gross_amount"`
}

// notificationClaims полезная нагрузка подписанного токена
type notificationClaims struct {
	Notification
	jwt.RegisteredClaims
}
