package promos

import (
	"errors"

	"github.com/m04kA/SMC-ClinicService/internal/pricing"
)

var (
	// ErrPromoNotFound возвращается, когда акция не найдена
	ErrPromoNotFound = errors.New("promo not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidDiscount возвращается при недопустимом типе или размере скидки
	ErrInvalidDiscount = pricing.ErrInvalidDiscount

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
