package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InkBookingService/pkg/types"
)

// DaySchedule is the working window of an artist for one weekday.
// BreakStart/BreakEnd are optional and must lie inside [OpenTime, CloseTime).
type DaySchedule struct {
	IsOpen     bool
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	BreakStart *types.TimeString
	BreakEnd   *types.TimeString
}

// HasBreak returns true if both break bounds are set
func (d DaySchedule) HasBreak() bool {
	return d.BreakStart != nil && d.BreakEnd != nil &&
		!d.BreakStart.IsZero() && !d.BreakEnd.IsZero()
}

// WorkingHours is the weekly calendar of an artist
type WorkingHours struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// ForDay returns the schedule for the given weekday
func (w WorkingHours) ForDay(day time.Weekday) DaySchedule {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{}
	}
}

// Set replaces the schedule for the given weekday
func (w *WorkingHours) Set(day time.Weekday, schedule DaySchedule) {
	switch day {
	case time.Monday:
		w.Monday = schedule
	case time.Tuesday:
		w.Tuesday = schedule
	case time.Wednesday:
		w.Wednesday = schedule
	case time.Thursday:
		w.Thursday = schedule
	case time.Friday:
		w.Friday = schedule
	case time.Saturday:
		w.Saturday = schedule
	case time.Sunday:
		w.Sunday = schedule
	}
}

// Resource represents a bookable artist
type Resource struct {
	ID           int64
	Name         string
	Timezone     string // IANA name, empty means UTC
	WorkingHours WorkingHours
	HourlyRate   *decimal.Decimal // artist's own rate; nil means the studio base rate
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Location returns the artist's time zone, falling back to UTC
func (r *Resource) Location() *time.Location {
	if r.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ScheduleOn returns the working window for the local day containing t
func (r *Resource) ScheduleOn(t time.Time) DaySchedule {
	return r.WorkingHours.ForDay(t.In(r.Location()).Weekday())
}

// Clone returns a deep copy safe to mutate
func (r *Resource) Clone() *Resource {
	if r == nil {
		return nil
	}
	c := *r
	if r.HourlyRate != nil {
		rate := *r.HourlyRate
		c.HourlyRate = &rate
	}
	for _, day := range []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	} {
		schedule := c.WorkingHours.ForDay(day)
		if schedule.BreakStart != nil {
			v := *schedule.BreakStart
			schedule.BreakStart = &v
		}
		if schedule.BreakEnd != nil {
			v := *schedule.BreakEnd
			schedule.BreakEnd = &v
		}
		c.WorkingHours.Set(day, schedule)
	}
	return &c
}
