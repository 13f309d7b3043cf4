package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes < 0 || req.DurationMinutes > domain.MaxAppointmentDuration {
		return fmt.Errorf("%w: durationMinutes must be between 1 and %d", ErrInvalidInput, domain.MaxAppointmentDuration)
	}

	// Без явной длительности нужен профиль для оценки
	if req.DurationMinutes == 0 && (req.Size == "" || req.Placement == "") {
		return fmt.Errorf("%w: either durationMinutes or size and placement are required", ErrInvalidInput)
	}

	if req.StepMinutes != 0 && (req.StepMinutes < domain.MinSlotStepMinutes || req.StepMinutes > domain.MaxSlotStepMinutes) {
		return fmt.Errorf("%w: stepMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и не дальше окна записи
func validateDate(day time.Time, now time.Time, maxWindowDays int) error {
	today := startOfDay(now.In(day.Location()))

	if day.Before(today) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, day.Format(domain.DateFormat))
	}

	if maxWindowDays > 0 && day.After(today.AddDate(0, 0, maxWindowDays)) {
		return fmt.Errorf("%w: can only look %d days ahead", ErrDateTooFarInFuture, maxWindowDays)
	}

	return nil
}
