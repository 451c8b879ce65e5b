package promos

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	promoRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/promo"
	"github.com/m04kA/SMC-ClinicService/internal/service/promos/models"
)

var maxPercentage = decimal.NewFromInt(domain.MaxPercentageDiscount)

// Service сервис управления промо-акциями
type Service struct {
	promoRepo     PromoRepository
	treatmentRepo TreatmentRepository
	txManager     TransactionManager
	logger        Logger
	now           func() time.Time
}

// NewService создает новый экземпляр сервиса акций
func NewService(
	promoRepo PromoRepository,
	treatmentRepo TreatmentRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		promoRepo:     promoRepo,
		treatmentRepo: treatmentRepo,
		txManager:     txManager,
		logger:        logger,
		now:           time.Now,
	}
}

// Create создает новую акцию
// Доступно только администратору
func (s *Service) Create(ctx context.Context, actor domain.Actor, req *models.CreatePromoRequest) (*models.PromoResponse, error) {
	s.logger.Info("Create: creating promo name=%q type=%s by user=%d", req.Name, req.DiscountType, actor.UserID)

	if actor.Role != domain.RoleAdmin {
		s.logger.Warn("Create: user=%d with role=%s is not allowed to manage promos", actor.UserID, actor.Role)
		return nil, ErrAccessDenied
	}

	promo := req.ToDomainPromo()

	var created *domain.Promo
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, promo); err != nil {
			return err
		}

		var err error
		created, err = s.promoRepo.Create(ctx, promo)
		return err
	})
	if err != nil {
		return nil, s.mapError("Create", err)
	}

	s.logger.Info("Create: successfully created promo id=%d", created.ID)
	return models.FromDomainPromo(created), nil
}

// GetByID получает акцию по ID
// Доступно персоналу клиники
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id int64) (*models.PromoResponse, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrAccessDenied
	}

	promo, err := s.promoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError("GetByID", err)
	}

	return models.FromDomainPromo(promo), nil
}

// List получает список акций
// activeOnly оставляет только акции, действующие прямо сейчас
func (s *Service) List(ctx context.Context, actor domain.Actor, activeOnly bool) (*models.PromoListResponse, error) {
	s.logger.Info("List: fetching promos activeOnly=%t for user=%d", activeOnly, actor.UserID)

	if !actor.Role.IsStaff() {
		s.logger.Warn("List: user=%d with role=%s is not staff", actor.UserID, actor.Role)
		return nil, ErrAccessDenied
	}

	var filter domain.PromosFilter
	if activeOnly {
		now := s.now()
		filter.ActiveAt = &now
	}

	promos, err := s.promoRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d promos", len(promos))
	return models.FromDomainPromoList(promos), nil
}

// Update обновляет акцию
// Уже добавленные в бронирования позиции не пересчитываются: в них хранится снимок акции
func (s *Service) Update(ctx context.Context, actor domain.Actor, id int64, req *models.UpdatePromoRequest) (*models.PromoResponse, error) {
	s.logger.Info("Update: updating promo id=%d by user=%d", id, actor.UserID)

	if actor.Role != domain.RoleAdmin {
		s.logger.Warn("Update: user=%d with role=%s is not allowed to manage promos", actor.UserID, actor.Role)
		return nil, ErrAccessDenied
	}

	var updated *domain.Promo
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		promo, err := s.promoRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		req.ApplyTo(promo)
		if err := s.validate(ctx, promo); err != nil {
			return err
		}

		updated, err = s.promoRepo.Update(ctx, promo)
		return err
	})
	if err != nil {
		return nil, s.mapError("Update", err)
	}

	s.logger.Info("Update: successfully updated promo id=%d", id)
	return models.FromDomainPromo(updated), nil
}

// Deactivate выключает акцию
func (s *Service) Deactivate(ctx context.Context, actor domain.Actor, id int64) error {
	s.logger.Info("Deactivate: deactivating promo id=%d by user=%d", id, actor.UserID)

	if actor.Role != domain.RoleAdmin {
		return ErrAccessDenied
	}

	if err := s.promoRepo.SetActive(ctx, id, false); err != nil {
		return s.mapError("Deactivate", err)
	}

	s.logger.Info("Deactivate: promo id=%d deactivated", id)
	return nil
}

// validate проверяет параметры акции
func (s *Service) validate(ctx context.Context, p *domain.Promo) error {
	if p.Name == "" || utf8.RuneCountInString(p.Name) > domain.MaxPromoNameLength {
		return fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, domain.MaxPromoNameLength)
	}

	if !p.DiscountType.IsValid() {
		return fmt.Errorf("%w: unknown discount type %q", ErrInvalidDiscount, p.DiscountType)
	}
	if p.DiscountValue.IsNegative() {
		return fmt.Errorf("%w: discount value must not be negative", ErrInvalidDiscount)
	}
	if p.DiscountType == domain.DiscountPercentage && p.DiscountValue.GreaterThan(maxPercentage) {
		return fmt.Errorf("%w: percentage discount must not exceed %d", ErrInvalidDiscount, domain.MaxPercentageDiscount)
	}

	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	p.ApplicableTreatments = uniqueIDs(p.ApplicableTreatments)
	if p.IsGlobal {
		return nil
	}
	if len(p.ApplicableTreatments) == 0 {
		return fmt.Errorf("%w: non-global promo needs at least one treatment", ErrInvalidInput)
	}

	treatments, err := s.treatmentRepo.List(ctx, domain.TreatmentsFilter{IDs: p.ApplicableTreatments})
	if err != nil {
		return fmt.Errorf("%w: validate - list treatments: %v", ErrInternal, err)
	}
	if len(treatments) != len(p.ApplicableTreatments) {
		return fmt.Errorf("%w: some applicable treatments do not exist", ErrInvalidInput)
	}

	return nil
}

func (s *Service) mapError(op string, err error) error {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidDiscount):
		s.logger.Warn("%s: validation failed: %v", op, err)
		return err
	case errors.Is(err, promoRepo.ErrPromoNotFound):
		s.logger.Warn("%s: promo not found", op)
		return ErrPromoNotFound
	case errors.Is(err, promoRepo.ErrUnknownTreatment):
		s.logger.Warn("%s: %v", op, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, ErrInternal):
		s.logger.Error("%s: %v", op, err)
		return err
	default:
		s.logger.Error("%s: repository error: %v", op, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
