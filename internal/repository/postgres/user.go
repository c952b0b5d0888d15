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

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, tenant_id, name, email, roles, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.TenantID,
		user.Name,
		user.Email,
		user.Roles,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, tenant_id, name, email, roles, status,
		       created_at, updated_at
		FROM users
		WHERE id = $1 AND tenant_id = $2
	`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) ListByRole(ctx context.Context, tenantID uuid.UUID, role string) ([]*model.User, error) {
	query := `
		SELECT id, tenant_id, name, email, roles, status,
		       created_at, updated_at
		FROM users
		WHERE tenant_id = $1 AND $2 = ANY(roles)
		ORDER BY name ASC
	`
	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, tenantID, role); err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return users, nil
}
