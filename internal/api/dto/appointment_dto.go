package dto

import (
	"time"

	"github.com/spec-kit/appointment-service/internal/domain"
)

// CreateAppointmentRequest payload. Date accepts RFC3339 or a bare
// YYYY-MM-DD day.
type CreateAppointmentRequest struct {
	DoctorEmail string `json:"doctorEmail"`
	Date        string `json:"date"`
}

// UpdateAppointmentStatusRequest payload.
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status"`
}

// AppointmentResponse mirrors the wire shape consumed by the frontend.
type AppointmentResponse struct {
	ID           string    `json:"id"`
	PatientEmail string    `json:"patientEmail"`
	DoctorEmail  string    `json:"doctorEmail"`
	Date         time.Time `json:"date"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewAppointmentResponse maps a domain appointment to its wire shape.
func NewAppointmentResponse(appointment *domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:           appointment.ID,
		PatientEmail: appointment.PatientEmail,
		DoctorEmail:  appointment.DoctorEmail,
		Date:         appointment.Date,
		Status:       string(appointment.Status),
		CreatedAt:    appointment.CreatedAt,
		UpdatedAt:    appointment.UpdatedAt,
	}
}

// NewAppointmentResponses maps a slice of appointments.
func NewAppointmentResponses(appointments []domain.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		out = append(out, NewAppointmentResponse(&appointments[i]))
	}
	return out
}
