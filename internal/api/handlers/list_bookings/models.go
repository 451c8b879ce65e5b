package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// date задаёт один день; from/to - произвольный период, to не включается
func ToServiceRequest(actor domain.Actor, query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		Actor:           actor,
		IncludeInactive: false, // По умолчанию только активные
	}

	if userIDStr := query.Get("userId"); userIDStr != "" {
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid userId value: %w", err)
		}
		req.UserID = &userID
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	if bookingType := query.Get("type"); bookingType != "" {
		req.Type = &bookingType
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		next := date.AddDate(0, 0, 1)
		req.StartDate = &date
		req.EndDate = &next
	}

	if fromStr := query.Get("from"); fromStr != "" {
		from, err := parseBound(fromStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &from
	}
	if toStr := query.Get("to"); toStr != "" {
		to, err := parseBound(toStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &to
	}

	if includeInactiveStr := query.Get("includeInactive"); includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}

// parseBound принимает RFC3339 или дату YYYY-MM-DD
func parseBound(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(domain.DateFormat, s)
}
