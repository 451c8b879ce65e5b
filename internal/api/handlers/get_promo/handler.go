package get_promo

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicService/internal/service/promos"
)

const (
	msgInvalidPromoID = "некорректный ID акции"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgNotFound       = "акция не найдена"
	msgForbidden      = "доступ запрещен"
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

// Handle GET /api/v1/promos/{promoId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	promoID, err := handlers.PathInt64(r, "promoId")
	if err != nil {
		h.logger.Warn("GET /promos/{id} - Invalid promo ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPromoID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /promos/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	promo, err := h.service.GetByID(r.Context(), actor, promoID)
	if err != nil {
		switch {
		case errors.Is(err, promos.ErrPromoNotFound):
			h.logger.Warn("GET /promos/{id} - Promo not found: promo_id=%d", promoID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, promos.ErrAccessDenied):
			h.logger.Warn("GET /promos/{id} - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /promos/{id} - Failed to get promo: promo_id=%d, error=%v", promoID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, promo)
}
