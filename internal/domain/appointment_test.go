package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{StatusScheduled, StatusConfirmed, true},
		{StatusConfirmed, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusScheduled, StatusNoShow, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusInProgress, StatusNoShow, true},

		{StatusScheduled, StatusInProgress, false},
		{StatusScheduled, StatusCompleted, false},
		{StatusInProgress, StatusCancelled, false},
		{StatusConfirmed, StatusScheduled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusScheduled, false},
		{StatusNoShow, StatusConfirmed, false},
		{StatusScheduled, StatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	all := append(append([]AppointmentStatus{}, HoldingStatuses...), InactiveStatuses...)
	for _, from := range InactiveStatuses {
		assert.True(t, from.IsTerminal())
		for _, to := range all {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestParseAppointmentStatus(t *testing.T) {
	status, err := ParseAppointmentStatus(" In_Progress ")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, status)

	_, err = ParseAppointmentStatus("pending")
	assert.Error(t, err)
}

func TestAppointment_Overlaps_HalfOpen(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	appt := &Appointment{
		StartTime: day.Add(12 * time.Hour),
		EndTime:   day.Add(14 * time.Hour),
	}

	assert.False(t, appt.Overlaps(day.Add(14*time.Hour), day.Add(15*time.Hour)))
	assert.True(t, appt.Overlaps(day.Add(13*time.Hour+59*time.Minute), day.Add(15*time.Hour)))
	assert.False(t, appt.Overlaps(day.Add(10*time.Hour), day.Add(12*time.Hour)))
}

func TestAppointment_CloneIsDeep(t *testing.T) {
	notes := "sleeve"
	original := &Appointment{Notes: &notes}
	clone := original.Clone()
	*clone.Notes = "changed"
	assert.Equal(t, "sleeve", *original.Notes)
}

func TestResource_ScheduleOnUsesTimezone(t *testing.T) {
	open := DaySchedule{IsOpen: true, OpenTime: "09:00", CloseTime: "17:00"}
	r := &Resource{Timezone: "America/New_York"}
	r.WorkingHours.Set(time.Monday, open)

	// Tuesday 02:00 UTC is still Monday evening in New York
	at := time.Date(2026, 3, 3, 2, 0, 0, 0, time.UTC)
	assert.True(t, r.ScheduleOn(at).IsOpen)

	r.Timezone = ""
	assert.False(t, r.ScheduleOn(at).IsOpen)
}
