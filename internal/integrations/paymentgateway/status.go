package paymentgateway

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// Статусы транзакций midtrans (нижний регистр) и doku (верхний регистр)
var transactionStatuses = map[string]domain.PaymentStatus{
	"settlement": domain.PaymentPaid,
	"capture":    domain.PaymentPaid,
	"success":    domain.PaymentPaid,
	"pending":    domain.PaymentPending,
	"expire":     domain.PaymentExpired,
	"expired":    domain.PaymentExpired,
	"deny":       domain.PaymentFailed,
	"cancel":     domain.PaymentFailed,
	"failure":    domain.PaymentFailed,
	"failed":     domain.PaymentFailed,
}

// MapStatus сопоставляет статус транзакции шлюза со статусом платежа
func MapStatus(transactionStatus string) (domain.PaymentStatus, error) {
	status, ok := transactionStatuses[strings.ToLower(strings.TrimSpace(transactionStatus))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, transactionStatus)
	}
	return status, nil
}
