package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-ClinicService/internal/usecase/create_booking"
)

// ItemRequest процедура в теле запроса
type ItemRequest struct {
	TreatmentID       int64  `json:"treatmentId"`
	Quantity          *int   `json:"quantity,omitempty"`
	UnitPriceOverride *int64 `json:"unitPriceOverride,omitempty"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	UserID          int64         `json:"userId,omitempty"` // только для персонала
	Type            string        `json:"type"`             // treatment | consultation
	ScheduledAt     *time.Time    `json:"scheduledAt,omitempty"`
	IsWalkIn        bool          `json:"isWalkIn,omitempty"`
	Items           []ItemRequest `json:"items,omitempty"`
	ConsultationFee *int64        `json:"consultationFee,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) *createBooking.Request {
	req := &createBooking.Request{
		Actor:           actor,
		UserID:          r.UserID,
		Type:            domain.BookingType(r.Type),
		IsWalkIn:        r.IsWalkIn,
		Items:           make([]createBooking.Item, 0, len(r.Items)),
		ConsultationFee: r.ConsultationFee,
		Notes:           r.Notes,
	}
	if r.ScheduledAt != nil {
		req.ScheduledAt = *r.ScheduledAt
	}

	for _, item := range r.Items {
		req.Items = append(req.Items, createBooking.Item{
			TreatmentID:       item.TreatmentID,
			Quantity:          item.Quantity,
			UnitPriceOverride: item.UnitPriceOverride,
		})
	}

	return req
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *models.BookingResponse {
	return models.FromDomainBooking(resp.Booking)
}
