package domain

import "time"

// AuditAction тип изменения бронирования
type AuditAction string

const (
	AuditAddTreatment    AuditAction = "add_treatment"
	AuditRemoveTreatment AuditAction = "remove_treatment"
	AuditUpdateQuantity  AuditAction = "update_quantity"
	AuditLock            AuditAction = "lock"
)

// AuditEntry запись журнала изменений бронирования
type AuditEntry struct {
	ID            int64
	BookingID     int64
	ActorID       int64 // 0 = системное действие (например, уведомление шлюза)
	Action        AuditAction
	TreatmentID   *int64
	TreatmentName *string
	Quantity      *int
	Price         *int64
	PreviousTotal int64
	NewTotal      int64
	CreatedAt     time.Time
}
