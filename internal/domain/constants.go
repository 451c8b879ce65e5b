package domain

// Default values
const (
	DefaultQuantity        = 1
	DefaultConsultationFee = 150000
)

// Business validation constants
const (
	MaxQuantity                 = 100
	MaxPercentageDiscount       = 100
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxPromoNameLength          = 200
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов неактивных бронирований
var InactiveStatuses = []BookingStatus{
	StatusCancelledByUser,
	StatusCancelledByClinic,
	StatusNoShow,
}

// ActiveStatuses список статусов активных бронирований
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}

// Role роль пользователя, передаётся шлюзом в X-User-Role
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleCashier  Role = "cashier"
	RoleAdmin    Role = "admin"
)

// IsStaff returns true for clinic employees
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleCashier || r == RoleAdmin
}

// CanTakePayments returns true for roles allowed to confirm manual payments
func (r Role) CanTakePayments() bool {
	return r == RoleCashier || r == RoleAdmin
}

// Actor пользователь, выполняющий действие
type Actor struct {
	UserID int64
	Role   Role
}
