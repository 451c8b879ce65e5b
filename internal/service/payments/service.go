package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-ClinicService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-ClinicService/internal/service/ledger"
	"github.com/m04kA/SMC-ClinicService/internal/service/payments/models"
	"github.com/m04kA/SMC-ClinicService/pkg/txmanager"
)

// Service сервис платежей
// Успешная оплата блокирует бронирование в той же транзакции
type Service struct {
	txManager   TransactionManager
	paymentRepo PaymentRepository
	bookingRepo BookingRepository
	ledger      Ledger
	verifier    NotificationVerifier
	metrics     Metrics
	logger      Logger
	now         func() time.Time
}

// NewService создает новый экземпляр сервиса платежей
func NewService(
	txManager TransactionManager,
	paymentRepo PaymentRepository,
	bookingRepo BookingRepository,
	ledger Ledger,
	verifier NotificationVerifier,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		txManager:   txManager,
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		ledger:      ledger,
		verifier:    verifier,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// Initiate создает ожидающий платёж на текущую сумму бронирования
// Ожидающий платёж на другую сумму (позиции менялись) отменяется и заменяется новым
func (s *Service) Initiate(ctx context.Context, bookingID int64, req *models.InitiatePaymentRequest) (*models.PaymentResponse, error) {
	s.logger.Info("Initiate: booking id=%d method=%s provider=%s by user=%d",
		bookingID, req.Method, req.Provider, req.Actor.UserID)

	method, provider, err := parseMethod(req.Method, req.Provider)
	if err != nil {
		s.logger.Warn("Initiate: %v", err)
		return nil, err
	}

	var created *domain.Payment
	var replaced []*domain.Payment

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		if booking.UserID != req.Actor.UserID && !req.Actor.Role.IsStaff() {
			return ErrAccessDenied
		}
		if booking.IsLocked() {
			return ErrBookingLocked
		}
		if !booking.IsActive() || booking.TotalAmount <= 0 {
			return ErrBookingNotPayable
		}

		existing, err := s.paymentRepo.ListByBooking(ctx, bookingID)
		if err != nil {
			return err
		}

		for _, p := range existing {
			if p.Status != domain.PaymentPending {
				continue
			}
			if p.Amount == booking.TotalAmount {
				return ErrPaymentPending
			}
			if err := s.paymentRepo.UpdateStatus(ctx, p.ID, domain.PaymentCancelled, nil, nil); err != nil {
				return err
			}
			p.Status = domain.PaymentCancelled
			replaced = append(replaced, p)
		}

		created, err = s.paymentRepo.Create(ctx, &domain.Payment{
			BookingID: bookingID,
			OrderID:   orderID(bookingID, len(existing)+1),
			Method:    method,
			Provider:  provider,
			Amount:    booking.TotalAmount,
			Status:    domain.PaymentPending,
		})
		return err
	})
	if err != nil {
		return nil, s.mapError("Initiate", err)
	}

	for _, p := range replaced {
		s.logger.Info("Initiate: payment order=%s cancelled, amount %d is stale", p.OrderID, p.Amount)
		s.recordTransition(p)
	}
	s.recordTransition(created)

	s.logger.Info("Initiate: payment order=%s created for booking id=%d, amount=%d", created.OrderID, bookingID, created.Amount)
	return models.FromDomainPayment(created), nil
}

// ConfirmManual подтверждает оплату на кассе и блокирует бронирование
// Повторное подтверждение оплаченного платежа ничего не меняет
func (s *Service) ConfirmManual(ctx context.Context, paymentID int64, actor domain.Actor) (*models.PaymentResponse, error) {
	s.logger.Info("ConfirmManual: payment id=%d by user=%d", paymentID, actor.UserID)

	if !actor.Role.CanTakePayments() {
		s.logger.Warn("ConfirmManual: user=%d with role=%s cannot take payments", actor.UserID, actor.Role)
		return nil, ErrAccessDenied
	}

	var payment *domain.Payment
	changed := false

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.paymentRepo.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}

		if payment.Method != domain.MethodManual {
			return ErrNotManualPayment
		}
		if payment.IsSettled() {
			return nil
		}
		if payment.Status.IsTerminal() {
			return ErrPaymentClosed
		}

		if err := s.checkBookingTotal(ctx, payment); err != nil {
			return err
		}

		paidAt := s.now().UTC()
		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentPaid, &paidAt, &actor.UserID); err != nil {
			return err
		}
		payment.Status = domain.PaymentPaid
		payment.PaidAt = &paidAt
		payment.ConfirmedBy = &actor.UserID
		changed = true

		return s.lockBooking(ctx, "ConfirmManual", payment)
	})
	if err != nil {
		return nil, s.mapError("ConfirmManual", err)
	}

	if changed {
		s.recordTransition(payment)
		s.logger.Info("ConfirmManual: payment order=%s paid, booking id=%d locked", payment.OrderID, payment.BookingID)
	} else {
		s.logger.Info("ConfirmManual: payment order=%s already paid", payment.OrderID)
	}

	return models.FromDomainPayment(payment), nil
}

// HandleNotification обрабатывает подписанное уведомление платёжного шлюза
// Повторные уведомления и уведомления по закрытым платежам не меняют состояние
func (s *Service) HandleNotification(ctx context.Context, token string) (*models.PaymentResponse, error) {
	notification, err := s.verifier.Verify(token)
	if err != nil {
		s.logger.Warn("HandleNotification: rejected notification: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}

	status, err := paymentgateway.MapStatus(notification.TransactionStatus)
	if err != nil {
		s.logger.Warn("HandleNotification: order=%s: %v", notification.OrderID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}

	s.logger.Info("HandleNotification: order=%s provider=%s transaction_status=%s -> %s",
		notification.OrderID, notification.Provider, notification.TransactionStatus, status)

	var payment *domain.Payment
	changed := false

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.paymentRepo.GetByOrderID(ctx, notification.OrderID)
		if err != nil {
			return err
		}

		if payment.Provider != notification.Provider {
			return fmt.Errorf("%w: provider %s does not match payment provider %s",
				ErrInvalidNotification, notification.Provider, payment.Provider)
		}
		if payment.Status == status || payment.Status.IsTerminal() || status == domain.PaymentPending {
			return nil
		}

		var paidAt *time.Time
		if status == domain.PaymentPaid {
			if notification.GrossAmount != payment.Amount {
				return fmt.Errorf("%w: notified %d, expected %d", ErrAmountMismatch, notification.GrossAmount, payment.Amount)
			}
			if err := s.checkBookingTotal(ctx, payment); err != nil {
				return err
			}
			at := s.now().UTC()
			paidAt = &at
		}

		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, status, paidAt, nil); err != nil {
			return err
		}
		payment.Status = status
		payment.PaidAt = paidAt
		changed = true

		if status != domain.PaymentPaid {
			return nil
		}
		return s.lockBooking(ctx, "HandleNotification", payment)
	})
	if err != nil {
		return nil, s.mapError("HandleNotification", err)
	}

	if changed {
		s.recordTransition(payment)
		s.logger.Info("HandleNotification: payment order=%s is now %s", payment.OrderID, payment.Status)
	} else {
		s.logger.Info("HandleNotification: payment order=%s unchanged, status=%s", payment.OrderID, payment.Status)
	}

	return models.FromDomainPayment(payment), nil
}

// checkBookingTotal сверяет сумму платежа с текущей суммой бронирования
// Строка бронирования блокируется до конца транзакции, чтобы позиции не поменялись до lockBooking
func (s *Service) checkBookingTotal(ctx context.Context, payment *domain.Payment) error {
	booking, err := s.bookingRepo.GetByIDForUpdate(ctx, payment.BookingID)
	if err != nil {
		return err
	}

	if booking.TotalAmount != payment.Amount {
		return fmt.Errorf("%w: booking id=%d total=%d, payment order=%s amount=%d",
			ErrStalePayment, booking.ID, booking.TotalAmount, payment.OrderID, payment.Amount)
	}
	return nil
}

// lockBooking блокирует бронирование внутри текущей транзакции
func (s *Service) lockBooking(ctx context.Context, op string, payment *domain.Payment) error {
	result, err := s.ledger.LockOnPayment(ctx, payment.BookingID)
	if err != nil {
		return err
	}

	s.logger.Info("%s: booking id=%d locked with total=%d", op, payment.BookingID, result.Booking.TotalAmount)
	return nil
}

func (s *Service) recordTransition(p *domain.Payment) {
	if s.metrics != nil {
		s.metrics.PaymentTransition(string(p.Provider), string(p.Status))
	}
}

// mapError переводит ошибки репозиториев и ledger в ошибки сервиса
func (s *Service) mapError(op string, err error) error {
	switch {
	case errors.Is(err, ErrAccessDenied),
		errors.Is(err, ErrBookingLocked),
		errors.Is(err, ErrBookingNotPayable),
		errors.Is(err, ErrPaymentPending),
		errors.Is(err, ErrNotManualPayment),
		errors.Is(err, ErrPaymentClosed),
		errors.Is(err, ErrAmountMismatch),
		errors.Is(err, ErrStalePayment),
		errors.Is(err, ErrInvalidNotification):
		s.logger.Warn("%s: %v", op, err)
		return err
	case errors.Is(err, bookingRepo.ErrBookingNotFound), errors.Is(err, ledger.ErrBookingNotFound):
		s.logger.Warn("%s: booking not found", op)
		return ErrBookingNotFound
	case errors.Is(err, paymentRepo.ErrPaymentNotFound):
		s.logger.Warn("%s: payment not found", op)
		return ErrPaymentNotFound
	case errors.Is(err, paymentRepo.ErrDuplicateOrderID),
		errors.Is(err, ledger.ErrVersionConflict),
		errors.Is(err, ledger.ErrConcurrentUpdate),
		txmanager.IsSerializationFailure(err):
		s.logger.Warn("%s: concurrent payment: %v", op, err)
		return ErrConcurrentPayment
	default:
		s.logger.Error("%s: %v", op, err)
		return fmt.Errorf("%w: %s - %v", ErrInternal, op, err)
	}
}

// parseMethod проверяет пару способ/провайдер
// Онлайн-оплата только через шлюзы, ручная - наличными или переводом
func parseMethod(method, provider string) (domain.PaymentMethod, domain.PaymentProvider, error) {
	m := domain.PaymentMethod(method)
	p := domain.PaymentProvider(provider)

	switch m {
	case domain.MethodGateway:
		if p.IsGateway() {
			return m, p, nil
		}
	case domain.MethodManual:
		if p == domain.ProviderCash || p == domain.ProviderTransfer {
			return m, p, nil
		}
	}

	return "", "", fmt.Errorf("%w: method=%q provider=%q", ErrInvalidMethod, method, provider)
}

// orderID идентификатор заказа у провайдера: BK-<booking>-<попытка>
func orderID(bookingID int64, attempt int) string {
	return fmt.Sprintf("BK-%d-%d", bookingID, attempt)
}
