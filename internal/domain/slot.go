package domain

import "time"

// AvailableSlot represents a free [Start, End) interval an artist can take
type AvailableSlot struct {
	Start time.Time
	End   time.Time
}

// DurationMinutes returns the slot length in whole minutes
func (s AvailableSlot) DurationMinutes() int {
	return int(s.End.Sub(s.Start) / time.Minute)
}

// Contains returns true if t falls within the slot
func (s AvailableSlot) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}
