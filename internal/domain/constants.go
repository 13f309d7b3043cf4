package domain

// Default configuration values
const (
	DefaultDepositPercentage       = "0.20"
	DefaultMinComplexity           = 1
	DefaultMaxComplexity           = 5
	DefaultSlotStepMinutes         = 30
	DefaultMinBookingNoticeMinutes = 60 // 1 hour
)

// Business validation constants
const (
	MinSlotStepMinutes        = 5
	MaxSlotStepMinutes        = 240
	MaxAppointmentDuration    = 12 * 60 // minutes
	MaxNotesLength            = 500
	MaxReasonCodeLength       = 64
	MaxBookingNoticeMinutes   = 10080 // 1 week
	MaxAvailabilityWindowDays = 31
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// HoldingStatuses статусы, при которых запись занимает слот мастера.
// Используется индексом доступности и exclusion constraint в БД.
var HoldingStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
}

// InactiveStatuses статусы, при которых слот свободен
var InactiveStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
