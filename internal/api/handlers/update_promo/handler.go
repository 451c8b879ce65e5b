package update_promo

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicService/internal/service/promos"
	"github.com/m04kA/SMC-ClinicService/internal/service/promos/models"
)

const (
	msgInvalidPromoID     = "некорректный ID акции"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "акция не найдена"
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

// Handle PUT /api/v1/promos/{promoId}
// Обновляются только переданные поля; цены уже добавленных позиций не меняются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	promoID, err := handlers.PathInt64(r, "promoId")
	if err != nil {
		h.logger.Warn("PUT /promos/{id} - Invalid promo ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPromoID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /promos/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdatePromoRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /promos/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	promo, err := h.service.Update(r.Context(), actor, promoID, &req)
	if err != nil {
		switch {
		case errors.Is(err, promos.ErrPromoNotFound):
			h.logger.Warn("PUT /promos/{id} - Promo not found: promo_id=%d", promoID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, promos.ErrAccessDenied):
			h.logger.Warn("PUT /promos/{id} - Access denied: user_id=%d, role=%s", actor.UserID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, promos.ErrInvalidDiscount):
			h.logger.Warn("PUT /promos/{id} - Invalid discount: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDiscount)

		case errors.Is(err, promos.ErrInvalidInput):
			h.logger.Warn("PUT /promos/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /promos/{id} - Failed to update promo: promo_id=%d, error=%v", promoID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /promos/{id} - Promo updated: promo_id=%d, user_id=%d", promoID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, promo)
}
