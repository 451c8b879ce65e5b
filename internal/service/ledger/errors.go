package ledger

import (
	"errors"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ClinicService/internal/pricing"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("ledger: booking not found")

	// ErrTreatmentNotFound возвращается, когда процедура не найдена
	ErrTreatmentNotFound = errors.New("ledger: treatment not found")

	// ErrTreatmentInactive возвращается при добавлении снятой с продажи процедуры
	ErrTreatmentInactive = errors.New("ledger: treatment is not active")

	// ErrInvalidPrice возвращается при отрицательной ручной цене
	ErrInvalidPrice = errors.New("ledger: unit price must not be negative")

	// ErrConcurrentUpdate возвращается, когда бронирование меняли параллельно дольше, чем длились повторы
	ErrConcurrentUpdate = errors.New("ledger: booking is being modified concurrently")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("ledger: internal error")

	ErrBookingLocked       = domain.ErrBookingLocked
	ErrBookingClosed       = domain.ErrBookingClosed
	ErrConsultationBooking = domain.ErrConsultationBooking
	ErrLineItemNotFound    = domain.ErrLineItemNotFound
	ErrLineItemExists      = domain.ErrLineItemExists
	ErrInvalidQuantity     = domain.ErrInvalidQuantity
	ErrInvalidDiscount     = pricing.ErrInvalidDiscount

	// ErrVersionConflict внутренняя ошибка: версия бронирования изменилась между чтением и записью
	ErrVersionConflict = bookingRepo.ErrVersionConflict
)
