package domain

import "time"

// Treatment процедура или консультация, которую можно забронировать
type Treatment struct {
	ID                   int64
	Name                 string
	BasePrice            int64 // цена до скидок, в целых единицах валюты
	DurationMinutes      int
	CategoryID           *int64
	RequiresConfirmation bool
	IsActive             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TreatmentsFilter фильтр списка процедур
type TreatmentsFilter struct {
	ActiveOnly bool
	CategoryID *int64
	IDs        []int64
}
