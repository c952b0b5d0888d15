package tenant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
	apperrors "github.com/carelink/hospital-api/pkg/errors"
)

type Service struct {
	repo repository.TenantRepository
}

func NewService(repo repository.TenantRepository) *Service {
	return &Service{repo: repo}
}

// Register onboards a tenant. The license number is globally unique; the
// tenant record is immutable afterwards.
func (s *Service) Register(ctx context.Context, req *model.CreateTenantRequest) (*model.Tenant, error) {
	now := time.Now()
	tenant := &model.Tenant{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		LicenseNumber: req.LicenseNumber,
		Status:        model.TenantStatusActive,
	}
	tenant.ID = uuid.New()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now

	if err := s.repo.Create(ctx, tenant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("license number is already registered")
		}
		return nil, fmt.Errorf("failed to register tenant: %w", err)
	}
	return tenant, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	tenant, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("tenant")
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenant, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Tenant, error) {
	tenants, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}
