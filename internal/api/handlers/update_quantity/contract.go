package update_quantity

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/service/ledger"
)

type Ledger interface {
	UpdateQuantity(ctx context.Context, bookingID, treatmentID int64, quantity int, actorID int64) (*ledger.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
