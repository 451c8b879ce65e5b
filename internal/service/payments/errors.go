package payments

import (
	"errors"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("payments: booking not found")

	// ErrPaymentNotFound возвращается, когда платёж не найден
	ErrPaymentNotFound = errors.New("payments: payment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("payments: access denied")

	// ErrInvalidMethod возвращается при неподдерживаемой паре способ/провайдер
	ErrInvalidMethod = errors.New("payments: invalid payment method or provider")

	// ErrBookingNotPayable возвращается для отменённых бронирований и бронирований с нулевой суммой
	ErrBookingNotPayable = errors.New("payments: booking cannot be paid")

	// ErrPaymentPending возвращается, если по бронированию уже есть ожидающий платёж
	ErrPaymentPending = errors.New("payments: booking already has a pending payment")

	// ErrNotManualPayment возвращается при попытке вручную подтвердить онлайн-платёж
	ErrNotManualPayment = errors.New("payments: payment is not a manual payment")

	// ErrPaymentClosed возвращается при попытке подтвердить неуспешный или просроченный платёж
	ErrPaymentClosed = errors.New("payments: payment is already closed")

	// ErrAmountMismatch возвращается, когда сумма уведомления не совпадает с суммой платежа
	ErrAmountMismatch = errors.New("payments: amount mismatch")

	// ErrStalePayment возвращается, когда позиции бронирования изменились после создания платежа
	// Платёж остаётся ожидающим, его заменяет новый Initiate
	ErrStalePayment = errors.New("payments: booking total changed since payment was initiated")

	// ErrInvalidNotification возвращается при неверной подписи или содержимом уведомления
	ErrInvalidNotification = errors.New("payments: invalid gateway notification")

	// ErrConcurrentPayment возвращается, когда то же бронирование оплачивают параллельно
	ErrConcurrentPayment = errors.New("payments: booking is being paid concurrently")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("payments: internal error")

	ErrBookingLocked = domain.ErrBookingLocked
)
