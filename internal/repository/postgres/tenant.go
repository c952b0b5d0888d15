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

const licenseConstraint = "tenants_license_number_key"

func (r *tenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	query := `
		INSERT INTO tenants (
			id, name, email, phone, address, license_number, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		tenant.ID,
		tenant.Name,
		tenant.Email,
		tenant.Phone,
		tenant.Address,
		tenant.LicenseNumber,
		tenant.Status,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, licenseConstraint) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

func (r *tenantRepository) Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	query := `
		SELECT id, name, email, phone, address, license_number, status,
		       created_at, updated_at
		FROM tenants
		WHERE id = $1
	`
	var tenant model.Tenant
	err := r.db.GetContext(ctx, &tenant, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &tenant, nil
}

func (r *tenantRepository) List(ctx context.Context) ([]*model.Tenant, error) {
	query := `
		SELECT id, name, email, phone, address, license_number, status,
		       created_at, updated_at
		FROM tenants
		ORDER BY created_at DESC
	`
	var tenants []*model.Tenant
	if err := r.db.SelectContext(ctx, &tenants, query); err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}
