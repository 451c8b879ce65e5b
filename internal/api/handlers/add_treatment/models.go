package add_treatment

// AddTreatmentRequest HTTP request model
type AddTreatmentRequest struct {
	TreatmentID       int64  `json:"treatmentId"`
	Quantity          *int   `json:"quantity,omitempty"`          // по умолчанию 1
	UnitPriceOverride *int64 `json:"unitPriceOverride,omitempty"` // ручная цена за единицу
}
