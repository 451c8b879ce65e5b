package bookings

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ClinicService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
// Позиции и сумма здесь не меняются, это делает ledger
type Service struct {
	bookingRepo BookingRepository
	auditRepo   AuditRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	auditRepo AuditRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		auditRepo:   auditRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - пользователь может видеть только своё бронирование,
// персонал клиники видит любое
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(booking, actor); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	if req.Actor.UserID != req.UserID && !req.Actor.Role.IsStaff() {
		s.logger.Warn("GetUserBookings: user=%d cannot read bookings of user=%d", req.Actor.UserID, req.UserID)
		return nil, ErrAccessDenied
	}

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// ListBookings получает бронирования клиники с фильтрацией
// Доступно только персоналу
//
// Примеры использования:
// - Все активные бронирования: ListBookings(ctx, &ListBookingsRequest{Actor: staff})
// - Бронирования на дату: StartDate - начало дня, EndDate - начало следующего
// - Только консультации: Type = "consultation"
// - Включая отменённые: IncludeInactive = true
func (s *Service) ListBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("ListBookings: fetching bookings for staff user=%d", req.Actor.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if !req.Actor.Role.IsStaff() {
		s.logger.Warn("ListBookings: user=%d with role=%s is not staff", req.Actor.UserID, req.Actor.Role)
		return nil, ErrAccessDenied
	}

	if req.StartDate != nil && req.EndDate != nil && !req.EndDate.After(*req.StartDate) {
		return nil, ErrInvalidTimeRange
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Пользователь может отменить только своё бронирование (cancelled_by_user)
// Персонал может отменить любое бронирование (cancelled_by_clinic)
// Оплаченное бронирование отменить нельзя
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.Actor.UserID)

	if utf8.RuneCountInString(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return err
	}

	// Определяем статус отмены в зависимости от прав доступа
	var cancelStatus domain.BookingStatus
	switch {
	case booking.UserID == req.Actor.UserID:
		cancelStatus = domain.StatusCancelledByUser
	case req.Actor.Role.IsStaff():
		cancelStatus = domain.StatusCancelledByClinic
	default:
		s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.Actor.UserID, bookingID)
		return ErrAccessDenied
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s, locked=%t",
			bookingID, booking.Status, booking.IsLocked())
		return ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, cancelStatus, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return ErrBookingNotFound
		}
		if errors.Is(err, bookingRepo.ErrBookingNotCancellable) {
			s.logger.Warn("Cancel: booking id=%d was paid or changed status during cancellation", bookingID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d with status=%s", bookingID, cancelStatus)
	return nil
}

// UpdateStatus обновляет статус бронирования
// Доступно только персоналу. Для отмены используется Cancel
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.Actor.UserID)

	if !req.Actor.Role.IsStaff() {
		s.logger.Warn("UpdateStatus: user=%d with role=%s is not staff", req.Actor.UserID, req.Actor.Role)
		return ErrAccessDenied
	}

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil || newStatus == domain.StatusCancelledByUser || newStatus == domain.StatusCancelledByClinic {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return ErrInvalidStatus
	}

	booking, err := s.getBooking(ctx, "UpdateStatus", bookingID)
	if err != nil {
		return err
	}
	if booking.IsCancelled() {
		s.logger.Warn("UpdateStatus: booking id=%d is already cancelled", bookingID)
		return ErrInvalidStatus
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found during update", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// GetAudit возвращает журнал изменений бронирования
// Права доступа те же, что и на чтение бронирования
func (s *Service) GetAudit(ctx context.Context, bookingID int64, actor domain.Actor) (*models.AuditListResponse, error) {
	s.logger.Info("GetAudit: fetching audit for booking id=%d by user=%d", bookingID, actor.UserID)

	booking, err := s.getBooking(ctx, "GetAudit", bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkUserAccess(booking, actor); err != nil {
		return nil, err
	}

	entries, err := s.auditRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("GetAudit: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetAudit - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAuditList(bookingID, entries), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkUserAccess проверяет, что пользователь имеет доступ к бронированию
// Пользователь может видеть своё бронирование, персонал - любое
func (s *Service) checkUserAccess(booking *domain.Booking, actor domain.Actor) error {
	if booking.UserID == actor.UserID || actor.Role.IsStaff() {
		return nil
	}
	return ErrAccessDenied
}
