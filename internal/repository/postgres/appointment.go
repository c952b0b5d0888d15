package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
)

// slotConstraint is the partial unique index over SCHEDULED appointments.
// Losing an insert race on it is the authoritative "slot taken" signal.
const slotConstraint = "appointments_scheduled_slot_key"

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, tenant_id, patient_id, doctor_id,
			date, time, reason, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.TenantID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.Date,
		appointment.Time,
		appointment.Reason,
		appointment.Status,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, slotConstraint) {
			return repository.ErrSlotTaken
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, tenant_id, patient_id, doctor_id,
		       date, time, reason, status,
		       created_at, updated_at
		FROM appointments
		WHERE id = $1 AND tenant_id = $2
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET patient_id = $1, doctor_id = $2, date = $3, time = $4,
		    reason = $5, status = $6, updated_at = $7
		WHERE id = $8 AND tenant_id = $9
	`
	result, err := r.db.ExecContext(ctx, query,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.Date,
		appointment.Time,
		appointment.Reason,
		appointment.Status,
		appointment.UpdatedAt,
		appointment.ID,
		appointment.TenantID,
	)
	if err != nil {
		if isUniqueViolation(err, slotConstraint) {
			return repository.ErrSlotTaken
		}
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `
		DELETE FROM appointments
		WHERE id = $1 AND tenant_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *appointmentRepository) List(ctx context.Context, tenantID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, tenant_id, patient_id, doctor_id,
		       date, time, reason, status,
		       created_at, updated_at
		FROM appointments
		WHERE tenant_id = $1
	`
	args := []interface{}{tenantID}
	argCount := 2

	if filters != nil {
		if filters.DoctorID != nil {
			query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
			args = append(args, *filters.DoctorID)
			argCount++
		}

		if filters.Status != nil {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, *filters.Status)
			argCount++
		}

		if filters.Date != nil {
			query += fmt.Sprintf(" AND date = $%d", argCount)
			args = append(args, model.DateOnly(*filters.Date))
			argCount++
		}

		if filters.DateFrom != nil {
			query += fmt.Sprintf(" AND date >= $%d", argCount)
			args = append(args, model.DateOnly(*filters.DateFrom))
			argCount++
		}

		if filters.DateTo != nil {
			query += fmt.Sprintf(" AND date <= $%d", argCount)
			args = append(args, model.DateOnly(*filters.DateTo))
			argCount++
		}
	}

	query += " ORDER BY date ASC, time ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, tenantID, doctorID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT id, tenant_id, patient_id, doctor_id,
		       date, time, reason, status,
		       created_at, updated_at
		FROM appointments
		WHERE tenant_id = $1 AND doctor_id = $2
		ORDER BY date ASC, time ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, tenantID, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) SlotTaken(ctx context.Context, tenantID, doctorID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE tenant_id = $1
			AND doctor_id = $2
			AND date = $3
			AND time = $4
			AND status = $5
	`
	args := []interface{}{tenantID, doctorID, model.DateOnly(date), slot, model.AppointmentStatusScheduled}

	if excludeID != nil {
		query += " AND id != $6"
		args = append(args, *excludeID)
	}

	query += ")"

	var taken bool
	err := r.db.GetContext(ctx, &taken, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return taken, nil
}
