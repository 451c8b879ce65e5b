package create_booking

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// validateRequest валидирует входные данные запроса и права actor
func validateRequest(req *Request) error {
	if req.Actor.UserID <= 0 {
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}
	if req.UserID < 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	isStaff := req.Actor.Role.IsStaff()
	if req.UserID != 0 && req.UserID != req.Actor.UserID && !isStaff {
		return fmt.Errorf("%w: only staff can book for another user", ErrAccessDenied)
	}
	if req.IsWalkIn && !isStaff {
		return fmt.Errorf("%w: walk-in bookings are registered by staff", ErrAccessDenied)
	}

	if !req.IsWalkIn && req.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduledAt is required", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	switch req.Type {
	case domain.TypeTreatment:
		return validateItems(req.Items, isStaff)
	case domain.TypeConsultation:
		if len(req.Items) > 0 {
			return fmt.Errorf("%w: consultation booking has no treatments", ErrInvalidInput)
		}
		if req.ConsultationFee != nil {
			if !isStaff {
				return fmt.Errorf("%w: only staff can set the consultation fee", ErrAccessDenied)
			}
			if *req.ConsultationFee < 0 {
				return fmt.Errorf("%w: consultation fee must not be negative", ErrInvalidInput)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown booking type %q", ErrInvalidInput, req.Type)
	}
}

// validateItems проверяет список процедур: хотя бы одна, без повторов
func validateItems(items []Item, isStaff bool) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one treatment is required", ErrInvalidInput)
	}

	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if item.TreatmentID <= 0 {
			return fmt.Errorf("%w: treatmentID must be positive", ErrInvalidInput)
		}
		if _, ok := seen[item.TreatmentID]; ok {
			return fmt.Errorf("%w: treatment id=%d is listed twice, use quantity", ErrInvalidInput, item.TreatmentID)
		}
		seen[item.TreatmentID] = struct{}{}

		if item.UnitPriceOverride != nil && !isStaff {
			return fmt.Errorf("%w: only staff can override the unit price", ErrAccessDenied)
		}
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(scheduledAt time.Time, now time.Time, advanceBookingDays int) error {
	// Проверяем, что время не в прошлом
	if scheduledAt.Before(now) {
		return ErrInvalidDate
	}

	// Если advanceBookingDays = 0, нет ограничений на дату
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, advanceBookingDays+1)

	if !scheduledAt.Before(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateBookingTime проверяет, что бронирование не нарушает minBookingNoticeMinutes
func validateBookingTime(scheduledAt time.Time, now time.Time, minBookingNoticeMinutes int) error {
	minAllowed := now.Add(time.Duration(minBookingNoticeMinutes) * time.Minute)
	if scheduledAt.Before(minAllowed) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minBookingNoticeMinutes)
	}
	return nil
}
