package domain

import (
	"fmt"
	"strings"
	"time"
)

// AppointmentStatus enumerates lifecycle states for appointments.
type AppointmentStatus string

const (
	AppointmentStatusPending  AppointmentStatus = "pending"
	AppointmentStatusApproved AppointmentStatus = "approved"
	AppointmentStatusRejected AppointmentStatus = "rejected"
)

// ParseAppointmentStatus validates an externally supplied status string.
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	switch AppointmentStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case AppointmentStatusPending:
		return AppointmentStatusPending, nil
	case AppointmentStatusApproved:
		return AppointmentStatusApproved, nil
	case AppointmentStatusRejected:
		return AppointmentStatusRejected, nil
	default:
		return "", fmt.Errorf("unknown appointment status %q", raw)
	}
}

// IsValidTransition reports whether an appointment may move from one status to
// another. Pending moves to approved or rejected; both are terminal.
func IsValidTransition(from, to AppointmentStatus) bool {
	if from != AppointmentStatusPending {
		return false
	}
	return to == AppointmentStatusApproved || to == AppointmentStatusRejected
}

// Appointment is the aggregate for booking requests between a patient and a doctor.
type Appointment struct {
	ID           string
	PatientEmail string
	DoctorEmail  string
	Date         time.Time
	Status       AppointmentStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
