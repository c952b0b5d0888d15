package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
)

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, tenant_id, uid, name, email, phone, gender,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.TenantID,
		patient.UID,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.Gender,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT id, tenant_id, uid, name, email, phone, gender,
		       created_at, updated_at
		FROM patients
		WHERE id = $1 AND tenant_id = $2
	`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*model.Patient, error) {
	query := `
		SELECT id, tenant_id, uid, name, email, phone, gender,
		       created_at, updated_at
		FROM patients
		WHERE tenant_id = $1
		ORDER BY name ASC
	`
	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
