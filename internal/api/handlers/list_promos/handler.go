package list_promos

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicService/internal/service/promos"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidParams = "некорректные параметры запроса"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/promos
// Query params: activeOnly (опционально, по умолчанию false)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /promos - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	activeOnly := false
	if s := r.URL.Query().Get("activeOnly"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			h.logger.Warn("GET /promos - Invalid activeOnly: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		activeOnly = v
	}

	result, err := h.service.List(r.Context(), actor, activeOnly)
	if err != nil {
		switch {
		case errors.Is(err, promos.ErrAccessDenied):
			h.logger.Warn("GET /promos - Access denied: user_id=%d, role=%s", actor.UserID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /promos - Failed to list promos: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /promos - Promos retrieved: count=%d", len(result.Promos))
	handlers.RespondJSON(w, http.StatusOK, result.Promos)
}
