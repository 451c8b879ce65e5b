package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrLineItemNotFound возвращается, когда позиция не найдена
	ErrLineItemNotFound = errors.New("booking.repository: line item not found")

	// ErrLineItemExists возвращается при нарушении уникальности (booking_id, treatment_id)
	ErrLineItemExists = errors.New("booking.repository: line item already exists")

	// ErrVersionConflict возвращается, когда бронирование изменили параллельно
	// (не совпала ожидаемая версия)
	ErrVersionConflict = errors.New("booking.repository: version conflict")

	// ErrBookingNotCancellable возвращается, когда бронирование уже оплачено или вышло из pending/confirmed
	ErrBookingNotCancellable = errors.New("booking.repository: booking cannot be cancelled")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
