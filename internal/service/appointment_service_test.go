package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/events"
	"github.com/spec-kit/appointment-service/internal/service"
	apperrors "github.com/spec-kit/appointment-service/pkg/util"
)

type memAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[string]*domain.Appointment
	next         int
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{appointments: make(map[string]*domain.Appointment)}
}

func (r *memAppointmentRepo) Create(_ context.Context, appointment *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	appointment.ID = fmt.Sprintf("appt-%d", r.next)
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt
	stored := *appointment
	r.appointments[appointment.ID] = &stored
	return nil
}

func (r *memAppointmentRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *appointment
	return &copied, nil
}

func (r *memAppointmentRepo) ListByPatientEmail(_ context.Context, email string) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Appointment
	for _, a := range r.appointments {
		if a.PatientEmail == email {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) ListByDoctorEmail(_ context.Context, email string) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Appointment
	for _, a := range r.appointments {
		if a.DoctorEmail == email {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) UpdateStatus(_ context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	appointment.Status = status
	appointment.UpdatedAt = time.Now()
	copied := *appointment
	return &copied, nil
}

var (
	patientCaller = &auth.Principal{UserID: "u1", Email: "a@x.com", Role: domain.RolePatient}
	doctorCaller  = &auth.Principal{UserID: "u2", Email: "doc@x.com", Role: domain.RoleDoctor}
	otherDoctor   = &auth.Principal{UserID: "u3", Email: "other@x.com", Role: domain.RoleDoctor}
)

func newAppointmentService() (*service.AppointmentService, *memAppointmentRepo, events.Dispatcher) {
	repo := newMemAppointmentRepo()
	dispatcher := events.NewInMemoryDispatcher()
	return service.NewAppointmentService(repo, dispatcher), repo, dispatcher
}

func mustCreate(t *testing.T, svc *service.AppointmentService) *domain.Appointment {
	t.Helper()
	date, _ := time.Parse("2006-01-02", "2025-01-01")
	appointment, err := svc.Create(context.Background(), patientCaller, doctorCaller.Email, date)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return appointment
}

func TestCreateAppointmentAlwaysPending(t *testing.T) {
	svc, _, _ := newAppointmentService()

	appointment := mustCreate(t, svc)
	if appointment.Status != domain.AppointmentStatusPending {
		t.Errorf("status: got %q, want pending", appointment.Status)
	}
	if appointment.PatientEmail != patientCaller.Email {
		t.Errorf("patient email: got %q, want caller's email", appointment.PatientEmail)
	}
	if appointment.DoctorEmail != doctorCaller.Email {
		t.Errorf("doctor email: got %q", appointment.DoctorEmail)
	}
}

func TestCreateAppointmentRequiresPatient(t *testing.T) {
	svc, _, _ := newAppointmentService()

	_, err := svc.Create(context.Background(), doctorCaller, "doc2@x.com", time.Now())
	if err == nil {
		t.Fatal("expected error for doctor caller")
	}
	assertStatus(t, err, http.StatusForbidden)
}

func TestListScoping(t *testing.T) {
	svc, _, _ := newAppointmentService()
	mustCreate(t, svc)

	otherPatient := &auth.Principal{UserID: "u9", Email: "b@x.com", Role: domain.RolePatient}
	date, _ := time.Parse("2006-01-02", "2025-02-01")
	if _, err := svc.Create(context.Background(), otherPatient, otherDoctor.Email, date); err != nil {
		t.Fatalf("create: %v", err)
	}

	forPatient, err := svc.ListForPatient(context.Background(), patientCaller)
	if err != nil {
		t.Fatalf("list for patient: %v", err)
	}
	if len(forPatient) != 1 {
		t.Fatalf("expected 1 appointment for patient, got %d", len(forPatient))
	}
	if forPatient[0].PatientEmail != patientCaller.Email {
		t.Errorf("patient scoping leaked: %q", forPatient[0].PatientEmail)
	}

	forDoctor, err := svc.ListForDoctor(context.Background(), doctorCaller)
	if err != nil {
		t.Fatalf("list for doctor: %v", err)
	}
	if len(forDoctor) != 1 {
		t.Fatalf("expected 1 appointment for doctor, got %d", len(forDoctor))
	}
	if forDoctor[0].DoctorEmail != doctorCaller.Email {
		t.Errorf("doctor scoping leaked: %q", forDoctor[0].DoctorEmail)
	}
}

func TestListForDoctorRequiresDoctor(t *testing.T) {
	svc, _, _ := newAppointmentService()

	_, err := svc.ListForDoctor(context.Background(), patientCaller)
	if err == nil {
		t.Fatal("expected error for patient caller")
	}
	assertStatus(t, err, http.StatusForbidden)
}

func TestUpdateStatusApprove(t *testing.T) {
	svc, _, _ := newAppointmentService()
	appointment := mustCreate(t, svc)

	updated, err := svc.UpdateStatus(context.Background(), doctorCaller, appointment.ID, domain.AppointmentStatusApproved)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.AppointmentStatusApproved {
		t.Errorf("status: got %q, want approved", updated.Status)
	}

	forPatient, err := svc.ListForPatient(context.Background(), patientCaller)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(forPatient) != 1 || forPatient[0].Status != domain.AppointmentStatusApproved {
		t.Errorf("patient does not see approved status: %+v", forPatient)
	}
}

func TestUpdateStatusDeniedForPatient(t *testing.T) {
	svc, _, _ := newAppointmentService()
	appointment := mustCreate(t, svc)

	_, err := svc.UpdateStatus(context.Background(), patientCaller, appointment.ID, domain.AppointmentStatusApproved)
	if err == nil {
		t.Fatal("expected error for patient caller")
	}
	assertStatus(t, err, http.StatusForbidden)
}

func TestUpdateStatusDeniedForOtherDoctor(t *testing.T) {
	svc, _, _ := newAppointmentService()
	appointment := mustCreate(t, svc)

	_, err := svc.UpdateStatus(context.Background(), otherDoctor, appointment.ID, domain.AppointmentStatusRejected)
	if err == nil {
		t.Fatal("expected error for unassigned doctor")
	}
	assertStatus(t, err, http.StatusForbidden)
}

func TestUpdateStatusUnknownID(t *testing.T) {
	svc, _, _ := newAppointmentService()

	_, err := svc.UpdateStatus(context.Background(), doctorCaller, "missing", domain.AppointmentStatusApproved)
	if err == nil {
		t.Fatal("expected error for unknown id")
	}
	assertStatus(t, err, http.StatusNotFound)
}

func TestUpdateStatusTerminal(t *testing.T) {
	svc, _, _ := newAppointmentService()
	appointment := mustCreate(t, svc)

	if _, err := svc.UpdateStatus(context.Background(), doctorCaller, appointment.ID, domain.AppointmentStatusApproved); err != nil {
		t.Fatalf("first update: %v", err)
	}

	_, err := svc.UpdateStatus(context.Background(), doctorCaller, appointment.ID, domain.AppointmentStatusRejected)
	if err == nil {
		t.Fatal("expected error for second transition")
	}
	assertStatus(t, err, http.StatusBadRequest)
}

func TestAppointmentEventsPublished(t *testing.T) {
	svc, _, dispatcher := newAppointmentService()

	var mu sync.Mutex
	seen := map[events.EventType]int{}
	record := func(_ context.Context, event events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen[event.Type]++
		return nil
	}
	dispatcher.Subscribe(events.EventAppointmentRequested, record)
	dispatcher.Subscribe(events.EventAppointmentStatusChanged, record)

	appointment := mustCreate(t, svc)
	if _, err := svc.UpdateStatus(context.Background(), doctorCaller, appointment.ID, domain.AppointmentStatusApproved); err != nil {
		t.Fatalf("update: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if seen[events.EventAppointmentRequested] != 1 {
		t.Errorf("requested events: got %d, want 1", seen[events.EventAppointmentRequested])
	}
	if seen[events.EventAppointmentStatusChanged] != 1 {
		t.Errorf("status changed events: got %d, want 1", seen[events.EventAppointmentStatusChanged])
	}
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	if de.HTTPStatus != want {
		t.Errorf("status: got %d, want %d", de.HTTPStatus, want)
	}
}
