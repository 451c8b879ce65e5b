package get_booking

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/service/bookings/models"
)

// Причины, по которым позиции бронирования менять нельзя
const (
	editBlockedLocked       = "locked"
	editBlockedConsultation = "consultation"
	editBlockedClosed       = "closed"
)

// BookingDetailsResponse бронирование вместе со сводкой по позициям
type BookingDetailsResponse struct {
	*models.BookingResponse

	Editable          bool   `json:"editable"`
	EditBlockedReason string `json:"editBlockedReason,omitempty"`
	ItemsCount        int    `json:"itemsCount"`
	// PromoSavings сколько сэкономлено по акциям относительно базовых цен
	PromoSavings int64 `json:"promoSavings"`
}

// FromServiceResponse дополняет ответ сервиса признаком редактируемости и экономией по акциям
func FromServiceResponse(b *models.BookingResponse) *BookingDetailsResponse {
	resp := &BookingDetailsResponse{BookingResponse: b}

	for _, item := range b.LineItems {
		resp.ItemsCount += item.Quantity
		if item.PromoApplied != nil && item.OriginalPrice != nil && *item.OriginalPrice > item.Price {
			resp.PromoSavings += (*item.OriginalPrice - item.Price) * int64(item.Quantity)
		}
	}

	resp.EditBlockedReason = editBlockedReason(b)
	resp.Editable = resp.EditBlockedReason == ""
	return resp
}

// editBlockedReason применяет к ответу те же правила, что ledger применяет к бронированию
func editBlockedReason(b *models.BookingResponse) string {
	booking := domain.Booking{
		Type:   domain.BookingType(b.Type),
		Status: domain.BookingStatus(b.Status),
	}
	if b.IsLocked {
		var lockedAt time.Time
		booking.LockedAt = &lockedAt
	}

	err := booking.CheckEditable()
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrBookingLocked):
		return editBlockedLocked
	case errors.Is(err, domain.ErrConsultationBooking):
		return editBlockedConsultation
	default:
		return editBlockedClosed
	}
}
