package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/appointment-service/internal/domain"
)

// AppointmentRepository encapsulates appointment persistence.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	ListByPatientEmail(ctx context.Context, email string) ([]domain.Appointment, error)
	ListByDoctorEmail(ctx context.Context, email string) ([]domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error)
}

type appointmentRepository struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepository instantiates repository.
func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) error {
	const query = `
        INSERT INTO appointments (patient_email, doctor_email, date, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		appointment.PatientEmail,
		appointment.DoctorEmail,
		appointment.Date,
		appointment.Status,
	).Scan(&appointment.ID, &appointment.CreatedAt, &appointment.UpdatedAt)
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	const query = `
        SELECT id, patient_email, doctor_email, date, status, created_at, updated_at
        FROM appointments WHERE id=$1`

	var appointment domain.Appointment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&appointment.ID,
		&appointment.PatientEmail,
		&appointment.DoctorEmail,
		&appointment.Date,
		&appointment.Status,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) ListByPatientEmail(ctx context.Context, email string) ([]domain.Appointment, error) {
	const query = `
        SELECT id, patient_email, doctor_email, date, status, created_at, updated_at
        FROM appointments WHERE patient_email=$1 ORDER BY date`
	return r.list(ctx, query, email)
}

func (r *appointmentRepository) ListByDoctorEmail(ctx context.Context, email string) ([]domain.Appointment, error) {
	const query = `
        SELECT id, patient_email, doctor_email, date, status, created_at, updated_at
        FROM appointments WHERE doctor_email=$1 ORDER BY date`
	return r.list(ctx, query, email)
}

func (r *appointmentRepository) list(ctx context.Context, query, email string) ([]domain.Appointment, error) {
	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	const query = `
        UPDATE appointments SET status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING id, patient_email, doctor_email, date, status, created_at, updated_at`

	var appointment domain.Appointment
	if err := r.pool.QueryRow(ctx, query, status, id).Scan(
		&appointment.ID,
		&appointment.PatientEmail,
		&appointment.DoctorEmail,
		&appointment.Date,
		&appointment.Status,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &appointment, nil
}

func scanAppointments(rows pgx.Rows) ([]domain.Appointment, error) {
	var result []domain.Appointment
	for rows.Next() {
		var appointment domain.Appointment
		if err := rows.Scan(
			&appointment.ID,
			&appointment.PatientEmail,
			&appointment.DoctorEmail,
			&appointment.Date,
			&appointment.Status,
			&appointment.CreatedAt,
			&appointment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, appointment)
	}
	return result, rows.Err()
}
