package events

import (
	"time"

	"github.com/spec-kit/appointment-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAppointmentRequested     EventType = "appointment_requested"
	EventAppointmentStatusChanged EventType = "appointment_status_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	Type          EventType `json:"type"`
	AppointmentID string    `json:"appointment_id"`
	Actor         Actor     `json:"actor"`
	Timestamp     time.Time `json:"timestamp"`
	Payload       any       `json:"payload"`
}

// AppointmentRequestedPayload payload.
type AppointmentRequestedPayload struct {
	DoctorEmail string    `json:"doctor_email"`
	Date        time.Time `json:"date"`
}

// AppointmentStatusChangedPayload payload.
type AppointmentStatusChangedPayload struct {
	OldStatus domain.AppointmentStatus `json:"old_status"`
	NewStatus domain.AppointmentStatus `json:"new_status"`
}
