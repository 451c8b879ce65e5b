package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidType возвращается при некорректном типе бронирования
	ErrInvalidType = errors.New("invalid booking type")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Actor              domain.Actor `json:"-"`
	CancellationReason string       `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Actor  domain.Actor `json:"-"`
	Status string       `json:"status"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	Actor  domain.Actor `json:"-"`
	UserID int64        `json:"userId"`
	Status *string      `json:"status,omitempty"`
}

// ListBookingsRequest запрос списка бронирований для персонала
type ListBookingsRequest struct {
	Actor           domain.Actor `json:"-"`
	UserID          *int64       `json:"userId,omitempty"`
	Type            *string      `json:"type,omitempty"`
	StartDate       *time.Time   `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate         *time.Time   `json:"endDate,omitempty"`   // Конец периода, не включая (опционально)
	Status          *string      `json:"status,omitempty"`
	IncludeInactive bool         `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		UserID:          r.UserID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if r.Type != nil {
		bookingType, err := ToDomainBookingType(*r.Type)
		if err != nil {
			return filter, err
		}
		filter.Type = &bookingType
	}

	return filter, nil
}

// Response модели

// PromoSnapshotResponse акция, применённая к позиции на момент добавления
type PromoSnapshotResponse struct {
	PromoID       int64           `json:"promoId"`
	Name          string          `json:"name"`
	DiscountType  string          `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
}

// LineItemResponse позиция бронирования
type LineItemResponse struct {
	ID            int64                  `json:"id"`
	TreatmentID   int64                  `json:"treatmentId"`
	TreatmentName string                 `json:"treatmentName"`
	Quantity      int                    `json:"quantity"`
	Price         int64                  `json:"price"`
	OriginalPrice *int64                 `json:"originalPrice,omitempty"`
	Subtotal      int64                  `json:"subtotal"`
	PromoApplied  *PromoSnapshotResponse `json:"promoApplied,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64              `json:"id"`
	UserID          int64              `json:"userId"`
	Type            string             `json:"type"`
	Status          string             `json:"status"`
	ScheduledAt     time.Time          `json:"scheduledAt"`
	IsWalkIn        bool               `json:"isWalkIn"`
	TotalAmount     int64              `json:"totalAmount"`
	ConsultationFee int64              `json:"consultationFee,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	IsLocked        bool               `json:"isLocked"`
	LockedAt        *string            `json:"lockedAt,omitempty"` // ISO 8601 format
	LineItems       []LineItemResponse `json:"lineItems"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// AuditEntryResponse запись журнала изменений
type AuditEntryResponse struct {
	ID            int64     `json:"id"`
	ActorID       int64     `json:"actorId"`
	Action        string    `json:"action"`
	TreatmentID   *int64    `json:"treatmentId,omitempty"`
	TreatmentName *string   `json:"treatmentName,omitempty"`
	Quantity      *int      `json:"quantity,omitempty"`
	Price         *int64    `json:"price,omitempty"`
	PreviousTotal int64     `json:"previousTotal"`
	NewTotal      int64     `json:"newTotal"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AuditListResponse журнал изменений бронирования
type AuditListResponse struct {
	BookingID int64                `json:"bookingId"`
	Entries   []AuditEntryResponse `json:"entries"`
}

// LedgerChangeResponse ответ на изменение позиций бронирования
type LedgerChangeResponse struct {
	Booking  *BookingResponse    `json:"booking"`
	LineItem *LineItemResponse   `json:"lineItem,omitempty"`
	Audit    *AuditEntryResponse `json:"audit,omitempty"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		UserID:             b.UserID,
		Type:               string(b.Type),
		Status:             string(b.Status),
		ScheduledAt:        b.ScheduledAt,
		IsWalkIn:           b.IsWalkIn,
		TotalAmount:        b.TotalAmount,
		ConsultationFee:    b.ConsultationFee,
		Notes:              b.Notes,
		IsLocked:           b.IsLocked(),
		LineItems:          make([]LineItemResponse, 0, len(b.LineItems)),
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	for i := range b.LineItems {
		resp.LineItems = append(resp.LineItems, *FromDomainLineItem(&b.LineItems[i]))
	}

	// Конвертируем даты в строку ISO 8601
	if b.LockedAt != nil {
		lockedStr := b.LockedAt.Format(time.RFC3339)
		resp.LockedAt = &lockedStr
	}
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainLineItem конвертирует позицию в DTO
func FromDomainLineItem(item *domain.BookingLineItem) *LineItemResponse {
	if item == nil {
		return nil
	}

	resp := &LineItemResponse{
		ID:            item.ID,
		TreatmentID:   item.TreatmentID,
		TreatmentName: item.TreatmentName,
		Quantity:      item.Quantity,
		Price:         item.Price,
		OriginalPrice: item.OriginalPrice,
		Subtotal:      item.Subtotal(),
	}

	if item.PromoApplied != nil {
		resp.PromoApplied = &PromoSnapshotResponse{
			PromoID:       item.PromoApplied.PromoID,
			Name:          item.PromoApplied.Name,
			DiscountType:  string(item.PromoApplied.DiscountType),
			DiscountValue: item.PromoApplied.DiscountValue,
		}
	}

	return resp
}

// FromDomainAuditEntry конвертирует запись журнала в DTO
func FromDomainAuditEntry(e *domain.AuditEntry) *AuditEntryResponse {
	if e == nil {
		return nil
	}

	return &AuditEntryResponse{
		ID:            e.ID,
		ActorID:       e.ActorID,
		Action:        string(e.Action),
		TreatmentID:   e.TreatmentID,
		TreatmentName: e.TreatmentName,
		Quantity:      e.Quantity,
		Price:         e.Price,
		PreviousTotal: e.PreviousTotal,
		NewTotal:      e.NewTotal,
		CreatedAt:     e.CreatedAt,
	}
}

// FromLedgerChange собирает ответ на изменение позиций
func FromLedgerChange(b *domain.Booking, item *domain.BookingLineItem, audit *domain.AuditEntry) *LedgerChangeResponse {
	return &LedgerChangeResponse{
		Booking:  FromDomainBooking(b),
		LineItem: FromDomainLineItem(item),
		Audit:    FromDomainAuditEntry(audit),
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainAuditList конвертирует журнал бронирования в DTO
func FromDomainAuditList(bookingID int64, entries []*domain.AuditEntry) *AuditListResponse {
	resp := &AuditListResponse{
		BookingID: bookingID,
		Entries:   make([]AuditEntryResponse, 0, len(entries)),
	}

	for _, e := range entries {
		resp.Entries = append(resp.Entries, *FromDomainAuditEntry(e))
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	for _, valid := range domain.ActiveStatuses {
		if s == valid {
			return s, nil
		}
	}
	for _, valid := range domain.InactiveStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}

// ToDomainBookingType конвертирует строку в domain.BookingType с валидацией
func ToDomainBookingType(bookingType string) (domain.BookingType, error) {
	switch t := domain.BookingType(bookingType); t {
	case domain.TypeTreatment, domain.TypeConsultation:
		return t, nil
	default:
		return "", ErrInvalidType
	}
}
