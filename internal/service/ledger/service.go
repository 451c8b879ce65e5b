package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/booking"
	treatmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/treatment"
	"github.com/m04kA/SMC-ClinicService/internal/pricing"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicService/pkg/txmanager"
)

// MaxConflictRetries сколько раз операция перезапускается после конфликта версий
const MaxConflictRetries = 5

const (
	actionAdd            = "add_treatment"
	actionRemove         = "remove_treatment"
	actionUpdateQuantity = "update_quantity"
	actionLock           = "lock"
)

// Result результат операции над позициями бронирования
type Result struct {
	Booking  *domain.Booking
	LineItem *domain.BookingLineItem // добавленная, изменённая или удалённая позиция
	Audit    *domain.AuditEntry      // nil для повторной блокировки
}

// Service ledger бронирования: единственное место, где меняются позиции и total_amount
type Service struct {
	txManager     TransactionManager
	bookingRepo   BookingRepository
	treatmentRepo TreatmentRepository
	promoRepo     PromoRepository
	auditRepo     AuditRepository
	metrics       Metrics
	logger        Logger
	now           func() time.Time
}

// NewService создает новый экземпляр ledger
func NewService(
	txManager TransactionManager,
	bookingRepo BookingRepository,
	treatmentRepo TreatmentRepository,
	promoRepo PromoRepository,
	auditRepo AuditRepository,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		txManager:     txManager,
		bookingRepo:   bookingRepo,
		treatmentRepo: treatmentRepo,
		promoRepo:     promoRepo,
		auditRepo:     auditRepo,
		metrics:       metrics,
		logger:        logger,
		now:           time.Now,
	}
}

// AddTreatment добавляет процедуру в бронирование
// quantity == nil означает одну единицу. Цена за единицу берётся из unitPriceOverride,
// иначе считается по лучшей активной акции и больше не пересчитывается.
func (s *Service) AddTreatment(
	ctx context.Context,
	bookingID, treatmentID int64,
	quantity *int,
	unitPriceOverride *int64,
	actorID int64,
) (*Result, error) {
	qty := domain.DefaultQuantity
	if quantity != nil {
		qty = *quantity
	}
	if err := validateQuantity(qty); err != nil {
		s.logger.Warn("AddTreatment: invalid quantity=%d for booking id=%d", qty, bookingID)
		return nil, err
	}
	if unitPriceOverride != nil && *unitPriceOverride < 0 {
		s.logger.Warn("AddTreatment: negative price override=%d for booking id=%d", *unitPriceOverride, bookingID)
		return nil, ErrInvalidPrice
	}

	s.logger.Info("AddTreatment: booking id=%d, treatment id=%d, quantity=%d, actor=%d",
		bookingID, treatmentID, qty, actorID)

	return s.withRetry(ctx, actionAdd, func(ctx context.Context) (*Result, error) {
		booking, err := s.loadBooking(ctx, "AddTreatment", bookingID)
		if err != nil {
			return nil, err
		}
		if err := booking.CheckEditable(); err != nil {
			return nil, err
		}
		if _, exists := booking.FindLineItem(treatmentID); exists {
			return nil, ErrLineItemExists
		}

		treatment, err := s.treatmentRepo.GetByID(ctx, treatmentID)
		if err != nil {
			if errors.Is(err, treatmentRepo.ErrTreatmentNotFound) {
				return nil, ErrTreatmentNotFound
			}
			return nil, fmt.Errorf("%w: AddTreatment - get treatment: %v", ErrInternal, err)
		}
		if !treatment.IsActive {
			return nil, ErrTreatmentInactive
		}

		price, err := s.unitPrice(ctx, treatment, unitPriceOverride)
		if err != nil {
			return nil, err
		}

		originalPrice := treatment.BasePrice
		change, err := booking.AddLineItem(domain.BookingLineItem{
			TreatmentID:   treatment.ID,
			TreatmentName: treatment.Name,
			Quantity:      qty,
			Price:         price.FinalPrice,
			OriginalPrice: &originalPrice,
			PromoApplied:  price.AppliedPromo,
		})
		if err != nil {
			return nil, err
		}

		if err := s.saveTotal(ctx, booking, change.NewTotal); err != nil {
			return nil, err
		}

		item, err := s.bookingRepo.InsertLineItem(ctx, &change.Item)
		if err != nil {
			return nil, mapRepoError("AddTreatment", err)
		}
		booking.LineItems[len(booking.LineItems)-1] = *item

		audit, err := s.writeAudit(ctx, booking.ID, actorID, domain.AuditAddTreatment, item, change)
		if err != nil {
			return nil, err
		}

		s.logger.Info("AddTreatment: booking id=%d total %d -> %d, unit price=%d",
			booking.ID, change.PreviousTotal, change.NewTotal, item.Price)
		return &Result{Booking: booking, LineItem: item, Audit: audit}, nil
	})
}

// RemoveTreatment удаляет процедуру из бронирования
// Если сумма ушла бы в минус, она обнуляется, а нарушение пишется в лог и метрику
func (s *Service) RemoveTreatment(ctx context.Context, bookingID, treatmentID int64, actorID int64) (*Result, error) {
	s.logger.Info("RemoveTreatment: booking id=%d, treatment id=%d, actor=%d", bookingID, treatmentID, actorID)

	return s.withRetry(ctx, actionRemove, func(ctx context.Context) (*Result, error) {
		booking, err := s.loadBooking(ctx, "RemoveTreatment", bookingID)
		if err != nil {
			return nil, err
		}

		change, err := booking.RemoveLineItem(treatmentID)
		if err != nil {
			return nil, err
		}
		if change.Clamped {
			s.reportClamp(actionRemove, booking.ID, change)
		}

		if err := s.saveTotal(ctx, booking, change.NewTotal); err != nil {
			return nil, err
		}

		if err := s.bookingRepo.DeleteLineItem(ctx, booking.ID, treatmentID); err != nil {
			return nil, mapRepoError("RemoveTreatment", err)
		}

		removed := change.Item
		audit, err := s.writeAudit(ctx, booking.ID, actorID, domain.AuditRemoveTreatment, &removed, change)
		if err != nil {
			return nil, err
		}

		s.logger.Info("RemoveTreatment: booking id=%d total %d -> %d", booking.ID, change.PreviousTotal, change.NewTotal)
		return &Result{Booking: booking, LineItem: &removed, Audit: audit}, nil
	})
}

// UpdateQuantity меняет количество процедуры в бронировании, цена за единицу остаётся прежней
func (s *Service) UpdateQuantity(ctx context.Context, bookingID, treatmentID int64, quantity int, actorID int64) (*Result, error) {
	if err := validateQuantity(quantity); err != nil {
		s.logger.Warn("UpdateQuantity: invalid quantity=%d for booking id=%d", quantity, bookingID)
		return nil, err
	}

	s.logger.Info("UpdateQuantity: booking id=%d, treatment id=%d, quantity=%d, actor=%d",
		bookingID, treatmentID, quantity, actorID)

	return s.withRetry(ctx, actionUpdateQuantity, func(ctx context.Context) (*Result, error) {
		booking, err := s.loadBooking(ctx, "UpdateQuantity", bookingID)
		if err != nil {
			return nil, err
		}

		change, err := booking.UpdateLineItemQuantity(treatmentID, quantity)
		if err != nil {
			return nil, err
		}
		if change.Clamped {
			s.reportClamp(actionUpdateQuantity, booking.ID, change)
		}

		if err := s.saveTotal(ctx, booking, change.NewTotal); err != nil {
			return nil, err
		}

		if err := s.bookingRepo.UpdateLineItemQuantity(ctx, booking.ID, treatmentID, quantity); err != nil {
			return nil, mapRepoError("UpdateQuantity", err)
		}

		item := change.Item
		audit, err := s.writeAudit(ctx, booking.ID, actorID, domain.AuditUpdateQuantity, &item, change)
		if err != nil {
			return nil, err
		}

		s.logger.Info("UpdateQuantity: booking id=%d total %d -> %d", booking.ID, change.PreviousTotal, change.NewTotal)
		return &Result{Booking: booking, LineItem: &item, Audit: audit}, nil
	})
}

// LockOnPayment переводит бронирование в Locked после оплаты
// Повторный вызов для уже заблокированного бронирования ничего не меняет
func (s *Service) LockOnPayment(ctx context.Context, bookingID int64) (*Result, error) {
	s.logger.Info("LockOnPayment: booking id=%d", bookingID)

	return s.withRetry(ctx, actionLock, func(ctx context.Context) (*Result, error) {
		booking, err := s.loadBooking(ctx, "LockOnPayment", bookingID)
		if err != nil {
			return nil, err
		}

		at := s.now().UTC()
		if !booking.Lock(at) {
			s.logger.Info("LockOnPayment: booking id=%d already locked at %s", booking.ID, booking.LockedAt.Format(time.RFC3339))
			return &Result{Booking: booking}, nil
		}

		version, err := s.bookingRepo.Lock(ctx, booking.ID, at, booking.Version)
		if err != nil {
			return nil, mapRepoError("LockOnPayment", err)
		}
		booking.Version = version

		audit, err := s.auditRepo.Insert(ctx, &domain.AuditEntry{
			BookingID:     booking.ID,
			Action:        domain.AuditLock,
			PreviousTotal: booking.TotalAmount,
			NewTotal:      booking.TotalAmount,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: LockOnPayment - write audit: %v", ErrInternal, err)
		}

		s.logger.Info("LockOnPayment: booking id=%d locked with total=%d", booking.ID, booking.TotalAmount)
		return &Result{Booking: booking, Audit: audit}, nil
	})
}

// withRetry выполняет операцию в SERIALIZABLE транзакции и перезапускает её при конфликте версий
// Внутри чужой транзакции повтор невозможен, конфликт возвращается вызывающему коду
func (s *Service) withRetry(ctx context.Context, action string, op func(ctx context.Context) (*Result, error)) (*Result, error) {
	var lastErr error

	for attempt := 1; attempt <= MaxConflictRetries; attempt++ {
		var result *Result
		err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			r, err := op(txCtx)
			if err != nil {
				return err
			}
			result = r
			return nil
		})

		if err == nil {
			s.recordOperation(action, "ok")
			return result, nil
		}

		if !isConflict(err) || dbmetrics.IsInTransaction(ctx) {
			s.recordOperation(action, resultLabel(err))
			return nil, err
		}

		lastErr = err
		if s.metrics != nil {
			s.metrics.LedgerConflictRetry(action)
		}
		s.logger.Warn("%s: concurrent modification detected, attempt %d/%d: %v", action, attempt, MaxConflictRetries, err)
	}

	s.recordOperation(action, "conflict")
	s.logger.Error("%s: giving up after %d attempts: %v", action, MaxConflictRetries, lastErr)
	return nil, fmt.Errorf("%w: %s after %d attempts: %v", ErrConcurrentUpdate, action, MaxConflictRetries, lastErr)
}

func (s *Service) loadBooking(ctx context.Context, op string, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByIDForUpdate(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - get booking: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// unitPrice цена за единицу: ручная или лучшая по активным акциям на текущий момент
func (s *Service) unitPrice(ctx context.Context, treatment *domain.Treatment, override *int64) (*domain.EffectivePrice, error) {
	if override != nil {
		return &domain.EffectivePrice{BasePrice: treatment.BasePrice, FinalPrice: *override}, nil
	}

	now := s.now()
	promos, err := s.promoRepo.ListActive(ctx, treatment.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: AddTreatment - list promos: %v", ErrInternal, err)
	}

	price, err := pricing.ResolveBestPrice(treatment, promos, now)
	if err != nil {
		s.logger.Error("AddTreatment: cannot price treatment id=%d: %v", treatment.ID, err)
		return nil, err
	}
	return price, nil
}

// saveTotal записывает сумму с проверкой версии, прочитанной в этой же транзакции
func (s *Service) saveTotal(ctx context.Context, booking *domain.Booking, total int64) error {
	version, err := s.bookingRepo.UpdateTotal(ctx, booking.ID, total, booking.Version)
	if err != nil {
		return mapRepoError("saveTotal", err)
	}
	booking.Version = version
	return nil
}

func (s *Service) writeAudit(
	ctx context.Context,
	bookingID, actorID int64,
	action domain.AuditAction,
	item *domain.BookingLineItem,
	change *domain.LedgerChange,
) (*domain.AuditEntry, error) {
	treatmentID := item.TreatmentID
	treatmentName := item.TreatmentName
	quantity := item.Quantity
	price := item.Price

	entry, err := s.auditRepo.Insert(ctx, &domain.AuditEntry{
		BookingID:     bookingID,
		ActorID:       actorID,
		Action:        action,
		TreatmentID:   &treatmentID,
		TreatmentName: &treatmentName,
		Quantity:      &quantity,
		Price:         &price,
		PreviousTotal: change.PreviousTotal,
		NewTotal:      change.NewTotal,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s - write audit: %v", ErrInternal, action, err)
	}
	return entry, nil
}

func (s *Service) reportClamp(action string, bookingID int64, change *domain.LedgerChange) {
	s.logger.Error("%s: invariant violation for booking id=%d: total %d minus subtotal %d is negative, clamped to 0",
		action, bookingID, change.PreviousTotal, change.Item.Subtotal())
	if s.metrics != nil {
		s.metrics.LedgerInvariantViolation(action)
	}
}

func (s *Service) recordOperation(action, result string) {
	if s.metrics != nil {
		s.metrics.LedgerOperation(action, result)
	}
}

func validateQuantity(quantity int) error {
	if quantity <= 0 || quantity > domain.MaxQuantity {
		return ErrInvalidQuantity
	}
	return nil
}

func isConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict) || txmanager.IsSerializationFailure(err)
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrInternal):
		return "error"
	case isConflict(err):
		return "conflict"
	default:
		return "rejected"
	}
}

// mapRepoError переводит ошибки репозитория бронирований в ошибки ledger
// Конфликт версий пробрасывается как есть, чтобы withRetry мог повторить операцию
func mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrVersionConflict):
		return err
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		return ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrLineItemNotFound):
		return ErrLineItemNotFound
	case errors.Is(err, bookingRepo.ErrLineItemExists):
		return ErrLineItemExists
	default:
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
