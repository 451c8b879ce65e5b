package deactivate_promo

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
	msgForbidden      = "управлять акциями может только администратор"
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

// Handle DELETE /api/v1/promos/{promoId}
// Акция не удаляется, а снимается с действия
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	promoID, err := handlers.PathInt64(r, "promoId")
	if err != nil {
		h.logger.Warn("DELETE /promos/{id} - Invalid promo ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPromoID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("DELETE /promos/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Deactivate(r.Context(), actor, promoID); err != nil {
		switch {
		case errors.Is(err, promos.ErrPromoNotFound):
			h.logger.Warn("DELETE /promos/{id} - Promo not found: promo_id=%d", promoID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, promos.ErrAccessDenied):
			h.logger.Warn("DELETE /promos/{id} - Access denied: user_id=%d, role=%s", actor.UserID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /promos/{id} - Failed to deactivate promo: promo_id=%d, error=%v", promoID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /promos/{id} - Promo deactivated: promo_id=%d, user_id=%d", promoID, actor.UserID)
	handlers.RespondNoContent(w)
}
