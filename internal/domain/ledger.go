package domain

import "time"

// LedgerChange результат изменения позиций бронирования в памяти
// Сервис сохраняет его в БД одной транзакцией
type LedgerChange struct {
	Item          BookingLineItem
	PreviousTotal int64
	NewTotal      int64
	// Clamped true, если сумма ушла бы в минус и была обнулена
	Clamped bool
}

// CheckEditable проверяет, что позиции бронирования можно менять
// Менять можно до оплаты и пока бронирование в pending, confirmed или in_progress
func (b *Booking) CheckEditable() error {
	if b.IsLocked() {
		return ErrBookingLocked
	}
	if b.IsConsultation() {
		return ErrConsultationBooking
	}
	switch b.Status {
	case StatusPending, StatusConfirmed, StatusInProgress:
		return nil
	default:
		return ErrBookingClosed
	}
}

// AddLineItem добавляет позицию и увеличивает сумму на price * quantity
func (b *Booking) AddLineItem(item BookingLineItem) (*LedgerChange, error) {
	if err := b.CheckEditable(); err != nil {
		return nil, err
	}
	if item.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if _, exists := b.FindLineItem(item.TreatmentID); exists {
		return nil, ErrLineItemExists
	}

	item.BookingID = b.ID
	prev := b.TotalAmount
	b.TotalAmount = prev + item.Subtotal()
	b.LineItems = append(b.LineItems, item)

	return &LedgerChange{Item: item, PreviousTotal: prev, NewTotal: b.TotalAmount}, nil
}

// RemoveLineItem удаляет позицию процедуры и уменьшает сумму
// Отрицательная сумма обнуляется и помечается в Clamped
func (b *Booking) RemoveLineItem(treatmentID int64) (*LedgerChange, error) {
	if err := b.CheckEditable(); err != nil {
		return nil, err
	}

	idx := -1
	for i := range b.LineItems {
		if b.LineItems[i].TreatmentID == treatmentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrLineItemNotFound
	}

	removed := b.LineItems[idx]
	prev := b.TotalAmount
	next := prev - removed.Subtotal()
	clamped := false
	if next < 0 {
		next = 0
		clamped = true
	}

	b.TotalAmount = next
	b.LineItems = append(b.LineItems[:idx:idx], b.LineItems[idx+1:]...)

	return &LedgerChange{Item: removed, PreviousTotal: prev, NewTotal: next, Clamped: clamped}, nil
}

// UpdateLineItemQuantity меняет количество, сохраняя цену за единицу
func (b *Booking) UpdateLineItemQuantity(treatmentID int64, quantity int) (*LedgerChange, error) {
	if err := b.CheckEditable(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, ok := b.FindLineItem(treatmentID)
	if !ok {
		return nil, ErrLineItemNotFound
	}

	prev := b.TotalAmount
	next := prev - item.Subtotal() + item.Price*int64(quantity)
	clamped := false
	if next < 0 {
		next = 0
		clamped = true
	}

	item.Quantity = quantity
	b.TotalAmount = next

	return &LedgerChange{Item: *item, PreviousTotal: prev, NewTotal: next, Clamped: clamped}, nil
}

// Lock переводит бронирование в состояние Locked
// Возвращает false, если оно уже было заблокировано
func (b *Booking) Lock(at time.Time) bool {
	if b.IsLocked() {
		return false
	}
	b.LockedAt = &at
	return true
}
