package get_resource_appointments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// ResourceAppointmentsResponse HTTP response model
type ResourceAppointmentsResponse struct {
	ResourceID   int64                           `json:"resourceId"`
	Appointments []*handlers.AppointmentResponse `json:"appointments"`
	Total        int                             `json:"total"`
}

// ToFilter формирует фильтр из query параметров
func ToFilter(resourceID int64, fromStr, toStr, statusStr, includeInactiveStr string) (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{ResourceID: resourceID}

	if fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return filter, fmt.Errorf("from: %w", err)
		}
		filter.From = &from
	}

	if toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return filter, fmt.Errorf("to: %w", err)
		}
		filter.To = &to
	}

	if statusStr != "" {
		status, err := domain.ParseAppointmentStatus(statusStr)
		if err != nil {
			return filter, fmt.Errorf("status: %w", err)
		}
		filter.Status = &status
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return filter, fmt.Errorf("includeInactive: %w", err)
		}
		filter.IncludeInactive = includeInactive
	}

	return filter, nil
}

// FromDomain конвертирует список записей в HTTP ответ
func FromDomain(resourceID int64, list []*domain.Appointment) *ResourceAppointmentsResponse {
	return &ResourceAppointmentsResponse{
		ResourceID:   resourceID,
		Appointments: handlers.FromDomainAppointments(list),
		Total:        len(list),
	}
}
