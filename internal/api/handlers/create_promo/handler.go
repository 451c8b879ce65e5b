package create_promo

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicService/internal/service/promos"
	"github.com/m04kA/SMC-ClinicService/internal/service/promos/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "управлять акциями может только администратор"
	msgInvalidDiscount    = "некорректный тип или размер скидки"
	msgInvalidInput       = "некорректные данные акции"
)

type Handler struct {
	service PromoService
	logger  Logger
}

func NewHandler(service PromoService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/promos
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /promos - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreatePromoRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /promos - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	promo, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, promos.ErrAccessDenied):
			h.logger.Warn("POST /promos - Access denied: user_id=%d, role=%s", actor.UserID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, promos.ErrInvalidDiscount):
			h.logger.Warn("POST /promos - Invalid discount: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDiscount)

		case errors.Is(err, promos.ErrInvalidInput):
			h.logger.Warn("POST /promos - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /promos - Failed to create promo: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /promos - Promo created: promo_id=%d, user_id=%d", promo.ID, actor.UserID)
	handlers.RespondJSON(w, http.StatusCreated, promo)
}
