package get_treatment_price

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/service/treatments"
)

const (
	msgInvalidTreatmentID = "некорректный ID процедуры"
	msgNotFound           = "процедура не найдена"
)

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

// Handle GET /api/v1/treatments/{treatmentId}/price
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	treatmentID, err := handlers.PathInt64(r, "treatmentId")
	if err != nil {
		h.logger.Warn("GET /treatments/{id}/price - Invalid treatment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTreatmentID)
		return
	}

	price, err := h.service.GetPrice(r.Context(), treatmentID)
	if err != nil {
		switch {
		case errors.Is(err, treatments.ErrTreatmentNotFound):
			h.logger.Warn("GET /treatments/{id}/price - Treatment not found: treatment_id=%d", treatmentID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /treatments/{id}/price - Failed to get price: treatment_id=%d, error=%v", treatmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /treatments/{id}/price - Price retrieved: treatment_id=%d, final=%d", treatmentID, price.FinalPrice)
	handlers.RespondJSON(w, http.StatusOK, price)
}
