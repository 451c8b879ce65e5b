package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending           BookingStatus = "pending"
	StatusConfirmed         BookingStatus = "confirmed"
	StatusInProgress        BookingStatus = "in_progress"
	StatusCompleted         BookingStatus = "completed"
	StatusCancelledByUser   BookingStatus = "cancelled_by_user"
	StatusCancelledByClinic BookingStatus = "cancelled_by_clinic"
	StatusNoShow            BookingStatus = "no_show"
)

// BookingType тип бронирования
type BookingType string

const (
	// TypeTreatment бронирование процедур, сумма складывается из позиций
	TypeTreatment BookingType = "treatment"
	// TypeConsultation консультация с фиксированной стоимостью без позиций
	TypeConsultation BookingType = "consultation"
)

// Booking represents a clinic booking with its line items
type Booking struct {
	ID              int64
	UserID          int64
	Type            BookingType
	Status          BookingStatus
	ScheduledAt     time.Time
	IsWalkIn        bool
	TotalAmount     int64
	ConsultationFee int64 // только для TypeConsultation
	Notes           *string

	// LockedAt время оплаты; после него позиции менять нельзя
	LockedAt *time.Time
	// Version счётчик изменений для compare-and-swap при записи total_amount
	Version int64

	LineItems []BookingLineItem

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingLineItem позиция бронирования: процедура, количество и цена за единицу,
// зафиксированная в момент добавления
type BookingLineItem struct {
	ID            int64
	BookingID     int64
	TreatmentID   int64
	TreatmentName string
	Quantity      int
	Price         int64  // фактическая цена за единицу
	OriginalPrice *int64 // базовая цена процедуры на момент добавления
	PromoApplied  *PromoSnapshot
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Subtotal сумма позиции
func (i *BookingLineItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// IsActive returns true if the booking is in an active state
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelledByUser &&
		b.Status != StatusCancelledByClinic &&
		b.Status != StatusNoShow
}

// CanBeCancelled returns true if the booking can be cancelled
// Оплаченное бронирование отменить нельзя: возвраты вне этого сервиса
func (b *Booking) CanBeCancelled() bool {
	return (b.Status == StatusPending || b.Status == StatusConfirmed) && !b.IsLocked()
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByUser || b.Status == StatusCancelledByClinic
}

// IsConsultation returns true for flat-fee consultation bookings
func (b *Booking) IsConsultation() bool {
	return b.Type == TypeConsultation
}

// IsLocked returns true once a payment for the booking has settled
func (b *Booking) IsLocked() bool {
	return b.LockedAt != nil
}

// FindLineItem возвращает позицию по процедуре
func (b *Booking) FindLineItem(treatmentID int64) (*BookingLineItem, bool) {
	for i := range b.LineItems {
		if b.LineItems[i].TreatmentID == treatmentID {
			return &b.LineItems[i], true
		}
	}
	return nil, false
}

// ExpectedTotal пересчитывает сумму с нуля по текущим позициям
func (b *Booking) ExpectedTotal() int64 {
	if b.IsConsultation() {
		return b.ConsultationFee
	}

	var total int64
	for i := range b.LineItems {
		total += b.LineItems[i].Subtotal()
	}
	return total
}

// BookingsFilter фильтр для списка бронирований (для персонала)
type BookingsFilter struct {
	UserID          *int64
	Status          *BookingStatus
	Type            *BookingType
	StartDate       *time.Time
	EndDate         *time.Time
	IncludeInactive bool
}
