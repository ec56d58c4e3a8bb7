package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/appointment-service/internal/api/dto"
	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/service"
	apperrors "github.com/spec-kit/appointment-service/pkg/util"
)

// AppointmentsHandler manages appointment endpoints.
type AppointmentsHandler struct {
	service *service.AppointmentService
}

// NewAppointmentsHandler constructs handler.
func NewAppointmentsHandler(appointmentService *service.AppointmentService) *AppointmentsHandler {
	return &AppointmentsHandler{service: appointmentService}
}

// Create POST /appointments.
func (h *AppointmentsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("No token provided")
	}
	var req dto.CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	doctorEmail := strings.ToLower(strings.TrimSpace(req.DoctorEmail))
	if doctorEmail == "" || !strings.Contains(doctorEmail, "@") {
		return apperrors.NewValidationError("valid doctorEmail required")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return apperrors.NewValidationError("date must be RFC3339 or YYYY-MM-DD")
	}

	appointment, err := h.service.Create(c.UserContext(), principal, doctorEmail, date)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewAppointmentResponse(appointment))
}

// ListForPatient GET /appointments.
func (h *AppointmentsHandler) ListForPatient(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("No token provided")
	}
	appointments, err := h.service.ListForPatient(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAppointmentResponses(appointments))
}

// ListForDoctor GET /appointments/doctor.
func (h *AppointmentsHandler) ListForDoctor(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("No token provided")
	}
	appointments, err := h.service.ListForDoctor(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAppointmentResponses(appointments))
}

// UpdateStatus PATCH /appointments/:id.
func (h *AppointmentsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("No token provided")
	}
	var req dto.UpdateAppointmentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	status, err := domain.ParseAppointmentStatus(req.Status)
	if err != nil || status == domain.AppointmentStatusPending {
		return apperrors.NewValidationError("status must be approved or rejected")
	}

	appointment, err := h.service.UpdateStatus(c.UserContext(), principal, c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAppointmentResponse(appointment))
}

// parseDate accepts RFC3339 timestamps and bare dates, matching what the
// booking form sends.
func parseDate(val string) (time.Time, error) {
	val = strings.TrimSpace(val)
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", val)
}
