package domain

import "errors"

var (
	// ErrBookingLocked возвращается при попытке изменить позиции оплаченного бронирования
	ErrBookingLocked = errors.New("booking is locked by a settled payment")

	// ErrBookingClosed возвращается при попытке изменить позиции завершённого, отменённого или пропущенного бронирования
	ErrBookingClosed = errors.New("booking is closed for edits")

	// ErrConsultationBooking возвращается при попытке изменить позиции консультации
	ErrConsultationBooking = errors.New("consultation booking has no line items")

	// ErrLineItemNotFound возвращается, когда процедуры нет в бронировании
	ErrLineItemNotFound = errors.New("line item not found")

	// ErrLineItemExists возвращается при повторном добавлении той же процедуры
	ErrLineItemExists = errors.New("treatment is already in the booking")

	// ErrInvalidQuantity возвращается при неположительном количестве
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)
