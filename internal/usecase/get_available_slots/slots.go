package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// generateCandidates генерирует начала сеансов на день.
// Слоты идут от открытия с шагом step, сеанс длиной duration должен закончиться
// до закрытия и не задевать перерыв. Слоты раньше earliest отбрасываются.
func generateCandidates(
	schedule domain.DaySchedule,
	day time.Time,
	duration time.Duration,
	step time.Duration,
	earliest time.Time,
) []Slot {
	if !schedule.IsOpen {
		return []Slot{}
	}

	loc := day.Location()
	open := schedule.OpenTime.On(day, loc)
	closing := schedule.CloseTime.On(day, loc)

	var breakStart, breakEnd time.Time
	hasBreak := schedule.HasBreak()
	if hasBreak {
		breakStart = schedule.BreakStart.On(day, loc)
		breakEnd = schedule.BreakEnd.On(day, loc)
	}

	slots := make([]Slot, 0)
	for start := open; !start.Add(duration).After(closing); start = start.Add(step) {
		end := start.Add(duration)

		if start.Before(earliest) {
			continue
		}

		// Полуоткрытые интервалы: сеанс может закончиться ровно к началу перерыва
		if hasBreak && start.Before(breakEnd) && end.After(breakStart) {
			continue
		}

		slots = append(slots, Slot{Start: start.UTC(), End: end.UTC()})
	}

	return slots
}

// startOfDay возвращает полночь того же дня в часовом поясе t
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
