package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a committed appointment change
type EventType string

const (
	EventAppointmentCreated     EventType = "appointment.created"
	EventAppointmentRescheduled EventType = "appointment.rescheduled"
	EventAppointmentConfirmed   EventType = "appointment.confirmed"
	EventAppointmentStarted     EventType = "appointment.started"
	EventAppointmentCompleted   EventType = "appointment.completed"
	EventAppointmentCancelled   EventType = "appointment.cancelled"
	EventAppointmentNoShow      EventType = "appointment.no_show"
)

// EventForStatus returns the event emitted when an appointment enters status
func EventForStatus(status AppointmentStatus) EventType {
	switch status {
	case StatusConfirmed:
		return EventAppointmentConfirmed
	case StatusInProgress:
		return EventAppointmentStarted
	case StatusCompleted:
		return EventAppointmentCompleted
	case StatusCancelled:
		return EventAppointmentCancelled
	case StatusNoShow:
		return EventAppointmentNoShow
	default:
		return EventAppointmentCreated
	}
}

// Event is handed to the notification hook after a state change commits
type Event struct {
	ID            uuid.UUID      `json:"id"`
	Type          EventType      `json:"type"`
	AppointmentID uuid.UUID      `json:"appointment_id"`
	ResourceID    int64          `json:"resource_id"`
	CustomerID    int64          `json:"customer_id"`
	OccurredAt    time.Time      `json:"occurred_at"`
	Payload       map[string]any `json:"payload,omitempty"`
}

// NewEvent builds an event for the given appointment
func NewEvent(eventType EventType, appt *Appointment, at time.Time, payload map[string]any) Event {
	return Event{
		ID:            uuid.New(),
		Type:          eventType,
		AppointmentID: appt.ID,
		ResourceID:    appt.ResourceID,
		CustomerID:    appt.CustomerID,
		OccurredAt:    at.UTC(),
		Payload:       payload,
	}
}
