package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// allowedTransitions is the appointment state machine.
// Anything not listed here is an invalid transition.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled:  {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusNoShow},
}

// CanTransition reports whether the state machine allows from -> to
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseAppointmentStatus converts a raw string into a known status
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	status := AppointmentStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return status, nil
	}
	return "", fmt.Errorf("unknown appointment status %q", raw)
}

// HoldsSlot returns true if the status reserves calendar time
func (s AppointmentStatus) HoldsSlot() bool {
	return s == StatusScheduled || s == StatusConfirmed || s == StatusInProgress
}

// IsTerminal returns true if no further transitions are possible
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// Appointment represents a tattoo session booked with an artist
type Appointment struct {
	ID         uuid.UUID
	ResourceID int64 // artist
	CustomerID int64
	StartTime  time.Time // UTC
	EndTime    time.Time // UTC, always after StartTime
	Status     AppointmentStatus

	DepositPaid    bool
	Price          decimal.Decimal
	DepositAmount  decimal.Decimal
	EstimatedHours decimal.Decimal

	// Pricing inputs, kept so a reschedule can re-run the estimate
	Size            string
	Placement       string
	ComplexityLevel int
	Notes           *string

	CancelledAt            *time.Time
	CancellationReasonCode *string
	CancellationFee        *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HoldsSlot returns true if the appointment currently reserves its interval
func (a *Appointment) HoldsSlot() bool {
	return a.Status.HoldsSlot()
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// IsTerminal returns true for completed, cancelled and no-show appointments
func (a *Appointment) IsTerminal() bool {
	return a.Status.IsTerminal()
}

// Duration returns the length of the booked interval
func (a *Appointment) Duration() time.Duration {
	return a.EndTime.Sub(a.StartTime)
}

// Overlaps uses half-open semantics: touching intervals do not overlap
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && a.EndTime.After(start)
}

// Clone returns a deep copy safe to mutate
func (a *Appointment) Clone() *Appointment {
	if a == nil {
		return nil
	}
	c := *a
	if a.Notes != nil {
		notes := *a.Notes
		c.Notes = &notes
	}
	if a.CancelledAt != nil {
		at := *a.CancelledAt
		c.CancelledAt = &at
	}
	if a.CancellationReasonCode != nil {
		code := *a.CancellationReasonCode
		c.CancellationReasonCode = &code
	}
	if a.CancellationFee != nil {
		fee := *a.CancellationFee
		c.CancellationFee = &fee
	}
	return &c
}

// AppointmentsFilter фильтр для получения записей мастера
type AppointmentsFilter struct {
	ResourceID      int64              // Обязательный параметр
	From            *time.Time         // Начало периода (по start_time), опционально
	To              *time.Time         // Конец периода (по start_time), опционально
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли записи, не занимающие слот
}

// Transition is an append-only audit record of a status change
type Transition struct {
	ID            int64
	AppointmentID uuid.UUID
	From          *AppointmentStatus // nil for creation
	To            AppointmentStatus
	ActorID       *int64
	Reason        *string
	OccurredAt    time.Time
}
