package add_treatment

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/service/ledger"
)

type Ledger interface {
	AddTreatment(ctx context.Context, bookingID, treatmentID int64, quantity *int, unitPriceOverride *int64, actorID int64) (*ledger.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
