package update_working_hours

import (
	"context"

	"github.com/m04kA/SMC-InkBookingService/internal/service/resources/models"
)

type ResourceService interface {
	UpdateWorkingHours(ctx context.Context, id int64, req *models.UpdateWorkingHoursRequest) (*models.ResourceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
