package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/events"
	"github.com/spec-kit/appointment-service/internal/repository"
	apperrors "github.com/spec-kit/appointment-service/pkg/util"
)

// AppointmentService coordinates appointment workflows scoped to the caller.
type AppointmentService struct {
	appointments repository.AppointmentRepository
	dispatcher   events.Dispatcher
}

// NewAppointmentService constructs the service.
func NewAppointmentService(appointments repository.AppointmentRepository, dispatcher events.Dispatcher) *AppointmentService {
	return &AppointmentService{appointments: appointments, dispatcher: dispatcher}
}

// Create books an appointment with the given doctor. The patient is always
// the caller and the status always starts pending. The doctor email is not
// checked against existing accounts and no conflict detection happens.
func (s *AppointmentService) Create(ctx context.Context, caller *auth.Principal, doctorEmail string, date time.Time) (*domain.Appointment, error) {
	if caller.Role != domain.RolePatient {
		return nil, apperrors.NewForbidden("patient role required")
	}

	appointment := &domain.Appointment{
		PatientEmail: caller.Email,
		DoctorEmail:  doctorEmail,
		Date:         date,
		Status:       domain.AppointmentStatusPending,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:          events.EventAppointmentRequested,
		AppointmentID: appointment.ID,
		Actor:         events.Actor{Email: caller.Email, Role: caller.Role},
		Payload: events.AppointmentRequestedPayload{
			DoctorEmail: appointment.DoctorEmail,
			Date:        appointment.Date,
		},
	})
	return appointment, nil
}

// ListForPatient returns the caller's appointments as patient.
func (s *AppointmentService) ListForPatient(ctx context.Context, caller *auth.Principal) ([]domain.Appointment, error) {
	return s.appointments.ListByPatientEmail(ctx, caller.Email)
}

// ListForDoctor returns the appointments assigned to the caller as doctor.
func (s *AppointmentService) ListForDoctor(ctx context.Context, caller *auth.Principal) ([]domain.Appointment, error) {
	if caller.Role != domain.RoleDoctor {
		return nil, apperrors.NewForbidden("doctor role required")
	}
	return s.appointments.ListByDoctorEmail(ctx, caller.Email)
}

// UpdateStatus approves or rejects a pending appointment. Only the assigned
// doctor may do so, and both outcomes are terminal.
func (s *AppointmentService) UpdateStatus(ctx context.Context, caller *auth.Principal, appointmentID string, newStatus domain.AppointmentStatus) (*domain.Appointment, error) {
	if caller.Role != domain.RoleDoctor {
		return nil, apperrors.NewForbidden("doctor role required")
	}

	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("appointment")
		}
		return nil, err
	}
	if appointment.DoctorEmail != caller.Email {
		return nil, apperrors.NewForbidden("not the assigned doctor")
	}
	if !domain.IsValidTransition(appointment.Status, newStatus) {
		return nil, apperrors.NewValidationError("invalid status transition")
	}

	oldStatus := appointment.Status
	updated, err := s.appointments.UpdateStatus(ctx, appointment.ID, newStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("appointment")
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:          events.EventAppointmentStatusChanged,
		AppointmentID: updated.ID,
		Actor:         events.Actor{Email: caller.Email, Role: caller.Role},
		Payload: events.AppointmentStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: updated.Status,
		},
	})
	return updated, nil
}

func (s *AppointmentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
