package list_treatments

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
)

const msgInvalidParams = "некорректные параметры запроса"

type Handler struct {
	service TreatmentService
	logger  Logger
}

func NewHandler(service TreatmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/treatments
// Query params: includeInactive (только для персонала)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	activeOnly := true
	if s := r.URL.Query().Get("includeInactive"); s != "" {
		includeInactive, err := strconv.ParseBool(s)
		if err != nil {
			h.logger.Warn("GET /treatments - Invalid includeInactive: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		// Клиентам снятые с продажи процедуры не показываем
		actor, ok := middleware.GetActor(r.Context())
		activeOnly = !(includeInactive && ok && actor.Role.IsStaff())
	}

	result, err := h.service.ListWithPrices(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("GET /treatments - Failed to list treatments: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /treatments - Treatments retrieved: count=%d, activeOnly=%t", len(result.Treatments), activeOnly)
	handlers.RespondJSON(w, http.StatusOK, result.Treatments)
}
