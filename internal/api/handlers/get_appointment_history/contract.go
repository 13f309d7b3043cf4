package get_appointment_history

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

type HistoryReader interface {
	History(ctx context.Context, id uuid.UUID) ([]*domain.Transition, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
