package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/service/ledger"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	ledger       Ledger
	txManager    TransactionManager
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	ledger Ledger,
	txManager TransactionManager,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.ConsultationFee <= 0 {
		settings.ConsultationFee = domain.DefaultConsultationFee
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		ledger:       ledger,
		txManager:    txManager,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Бронирование и все его позиции создаются в одной сериализуемой транзакции:
// если хотя бы одну процедуру добавить нельзя, бронирование не создаётся
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: actor=%d, user=%d, type=%s, scheduledAt=%s, walkIn=%t, items=%d",
		req.Actor.UserID, req.UserID, req.Type, req.ScheduledAt.Format("2006-01-02 15:04"), req.IsWalkIn, len(req.Items))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем время приёма (walk-in - прямо сейчас)
	now := uc.timeProvider.Now()
	scheduledAt := req.ScheduledAt
	if req.IsWalkIn {
		if scheduledAt.IsZero() {
			scheduledAt = now
		}
	} else {
		if err := validateDate(scheduledAt, now, uc.settings.AdvanceBookingDays); err != nil {
			uc.logger.Warn("CreateBooking: date validation failed: %v", err)
			return nil, err
		}
		if err := validateBookingTime(scheduledAt, now, uc.settings.MinBookingNoticeMinutes); err != nil {
			uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
			return nil, err
		}
	}

	userID := req.UserID
	if userID == 0 {
		userID = req.Actor.UserID
	}

	booking := &domain.Booking{
		UserID:      userID,
		Type:        req.Type,
		Status:      domain.StatusPending,
		ScheduledAt: scheduledAt.UTC(),
		IsWalkIn:    req.IsWalkIn,
		Notes:       req.Notes,
	}
	if req.IsWalkIn {
		booking.Status = domain.StatusConfirmed
	}
	if req.Type == domain.TypeConsultation {
		booking.ConsultationFee = uc.settings.ConsultationFee
		if req.ConsultationFee != nil {
			booking.ConsultationFee = *req.ConsultationFee
		}
		booking.TotalAmount = booking.ConsultationFee
	}

	var result *domain.Booking

	// 3. Создаём бронирование и позиции в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		result = created

		for _, item := range req.Items {
			added, err := uc.ledger.AddTreatment(txCtx, created.ID, item.TreatmentID, item.Quantity, item.UnitPriceOverride, req.Actor.UserID)
			if err != nil {
				return mapLedgerError(item.TreatmentID, err)
			}
			result = added.Booking
		}

		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInternal):
			uc.logger.Error("CreateBooking: %v", err)
		default:
			uc.logger.Warn("CreateBooking: %v", err)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, type=%s, total=%d",
		result.ID, result.Type, result.TotalAmount)

	return &Response{Booking: result}, nil
}

// mapLedgerError переводит ошибки ledger в ошибки use case
func mapLedgerError(treatmentID int64, err error) error {
	switch {
	case errors.Is(err, ledger.ErrTreatmentNotFound):
		return fmt.Errorf("%w: id=%d", ErrTreatmentNotFound, treatmentID)
	case errors.Is(err, ledger.ErrTreatmentInactive):
		return fmt.Errorf("%w: id=%d", ErrTreatmentInactive, treatmentID)
	case errors.Is(err, ledger.ErrInvalidQuantity),
		errors.Is(err, ledger.ErrInvalidPrice),
		errors.Is(err, ledger.ErrLineItemExists):
		return fmt.Errorf("%w: treatment id=%d: %v", ErrInvalidInput, treatmentID, err)
	default:
		return fmt.Errorf("%w: failed to add treatment id=%d: %v", ErrInternal, treatmentID, err)
	}
}
