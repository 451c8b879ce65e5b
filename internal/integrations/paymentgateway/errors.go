package paymentgateway

import "errors"

var (
	// ErrInvalidToken возвращается, когда подпись или срок действия уведомления некорректны
	ErrInvalidToken = errors.New("paymentgateway: invalid notification token")

	// ErrInvalidNotification возвращается, когда в уведомлении не хватает полей
	ErrInvalidNotification = errors.New("paymentgateway: invalid notification payload")

	// ErrUnknownStatus возвращается при статусе транзакции, который не удалось сопоставить
	ErrUnknownStatus = errors.New("paymentgateway: unknown transaction status")
)
