package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// WithinWorkingHours проверяет, что [start, end) целиком лежит в одном
// рабочем окне мастера (в его часовом поясе) и не задевает перерыв.
// Переход через полночь не допускается: рабочее окно всегда в пределах одних суток.
func WithinWorkingHours(resource *domain.Resource, start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidInterval
	}

	loc := resource.Location()
	localStart := start.In(loc)
	localEnd := end.In(loc)

	schedule := resource.WorkingHours.ForDay(localStart.Weekday())
	if !schedule.IsOpen {
		return fmt.Errorf("%w: closed on %s", ErrOutsideWorkingHours, localStart.Weekday())
	}

	open := schedule.OpenTime.On(localStart, loc)
	closing := schedule.CloseTime.On(localStart, loc)

	if localStart.Before(open) || localEnd.After(closing) {
		return fmt.Errorf("%w: %s-%s not within %s-%s on %s",
			ErrOutsideWorkingHours,
			localStart.Format(domain.TimeFormat), localEnd.Format(domain.TimeFormat),
			schedule.OpenTime, schedule.CloseTime, localStart.Weekday())
	}

	if schedule.HasBreak() {
		breakStart := schedule.BreakStart.On(localStart, loc)
		breakEnd := schedule.BreakEnd.On(localStart, loc)
		// Полуоткрытые интервалы: запись может закончиться ровно к началу перерыва
		if localStart.Before(breakEnd) && localEnd.After(breakStart) {
			return fmt.Errorf("%w: overlaps break %s-%s",
				ErrOutsideWorkingHours, *schedule.BreakStart, *schedule.BreakEnd)
		}
	}

	return nil
}

// ValidateDaySchedule проверяет согласованность расписания на день
func ValidateDaySchedule(day domain.DaySchedule) error {
	if !day.IsOpen {
		return nil
	}
	if err := day.OpenTime.Validate(); err != nil {
		return fmt.Errorf("open time %q: %w", day.OpenTime, err)
	}
	if err := day.CloseTime.Validate(); err != nil {
		return fmt.Errorf("close time %q: %w", day.CloseTime, err)
	}
	if !day.OpenTime.IsBefore(day.CloseTime) {
		return fmt.Errorf("open time %s must be before close time %s", day.OpenTime, day.CloseTime)
	}

	if day.BreakStart == nil && day.BreakEnd == nil {
		return nil
	}
	if day.BreakStart == nil || day.BreakEnd == nil {
		return fmt.Errorf("break requires both start and end")
	}
	if err := day.BreakStart.Validate(); err != nil {
		return fmt.Errorf("break start %q: %w", *day.BreakStart, err)
	}
	if err := day.BreakEnd.Validate(); err != nil {
		return fmt.Errorf("break end %q: %w", *day.BreakEnd, err)
	}
	if !day.BreakStart.IsBefore(*day.BreakEnd) {
		return fmt.Errorf("break start %s must be before break end %s", *day.BreakStart, *day.BreakEnd)
	}
	if day.BreakStart.IsBefore(day.OpenTime) || day.BreakEnd.IsAfter(day.CloseTime) {
		return fmt.Errorf("break %s-%s must be within %s-%s", *day.BreakStart, *day.BreakEnd, day.OpenTime, day.CloseTime)
	}
	return nil
}
