package treatments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	treatmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/treatment"
	"github.com/m04kA/SMC-ClinicService/internal/pricing"
	"github.com/m04kA/SMC-ClinicService/internal/service/treatments/models"
)

// Service каталог процедур с ценами после скидок
type Service struct {
	treatmentRepo TreatmentRepository
	promoRepo     PromoRepository
	logger        Logger
	now           func() time.Time
}

// NewService создает новый экземпляр сервиса процедур
func NewService(treatmentRepo TreatmentRepository, promoRepo PromoRepository, logger Logger) *Service {
	return &Service{
		treatmentRepo: treatmentRepo,
		promoRepo:     promoRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// ListWithPrices возвращает процедуры с текущей ценой каждой
// Активные акции читаются один раз и переиспользуются для всех процедур
func (s *Service) ListWithPrices(ctx context.Context, activeOnly bool) (*models.TreatmentListResponse, error) {
	s.logger.Info("ListWithPrices: fetching treatments activeOnly=%t", activeOnly)

	treatments, err := s.treatmentRepo.List(ctx, domain.TreatmentsFilter{ActiveOnly: activeOnly})
	if err != nil {
		s.logger.Error("ListWithPrices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListWithPrices - list treatments: %v", ErrInternal, err)
	}

	now := s.now()
	promos, err := s.promoRepo.List(ctx, domain.PromosFilter{ActiveAt: &now})
	if err != nil {
		s.logger.Error("ListWithPrices: failed to list promos: %v", err)
		return nil, fmt.Errorf("%w: ListWithPrices - list promos: %v", ErrInternal, err)
	}

	resp := &models.TreatmentListResponse{
		Treatments: make([]models.TreatmentPriceResponse, 0, len(treatments)),
	}
	for _, t := range treatments {
		price, err := pricing.ResolveBestPrice(t, promos, now)
		if err != nil {
			s.logger.Error("ListWithPrices: cannot price treatment id=%d: %v", t.ID, err)
			return nil, fmt.Errorf("%w: ListWithPrices - price treatment id=%d: %v", ErrInternal, t.ID, err)
		}
		resp.Treatments = append(resp.Treatments, models.FromDomain(t, price))
	}

	s.logger.Info("ListWithPrices: successfully priced %d treatments", len(resp.Treatments))
	return resp, nil
}

// GetPrice возвращает текущую цену процедуры
func (s *Service) GetPrice(ctx context.Context, treatmentID int64) (*models.TreatmentPriceResponse, error) {
	treatment, err := s.treatmentRepo.GetByID(ctx, treatmentID)
	if err != nil {
		if errors.Is(err, treatmentRepo.ErrTreatmentNotFound) {
			s.logger.Warn("GetPrice: treatment id=%d not found", treatmentID)
			return nil, ErrTreatmentNotFound
		}
		s.logger.Error("GetPrice: repository error for treatment id=%d: %v", treatmentID, err)
		return nil, fmt.Errorf("%w: GetPrice - repository error: %v", ErrInternal, err)
	}

	now := s.now()
	promos, err := s.promoRepo.List(ctx, domain.PromosFilter{ActiveAt: &now, ForTreatment: &treatmentID})
	if err != nil {
		s.logger.Error("GetPrice: failed to list promos: %v", err)
		return nil, fmt.Errorf("%w: GetPrice - list promos: %v", ErrInternal, err)
	}

	price, err := pricing.ResolveBestPrice(treatment, promos, now)
	if err != nil {
		s.logger.Error("GetPrice: cannot price treatment id=%d: %v", treatmentID, err)
		return nil, fmt.Errorf("%w: GetPrice - resolve price: %v", ErrInternal, err)
	}

	resp := models.FromDomain(treatment, price)
	return &resp, nil
}
