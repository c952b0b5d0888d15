package staff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
	apperrors "github.com/carelink/hospital-api/pkg/errors"
)

// Service is the read side of the staff directory: doctor lookups for
// scheduling validation and doctor listings for booking UIs. Doctor listings
// are cached briefly per tenant; they change rarely and every booking screen
// asks for them.
type Service struct {
	repo  repository.UserRepository
	cache *gocache.Cache
}

func NewService(repo repository.UserRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(30*time.Second, 5*time.Minute),
	}
}

func (s *Service) GetDoctor(ctx context.Context, tenantID, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	if !user.HasRole(model.RoleDoctor) {
		return nil, apperrors.NotFound("doctor")
	}
	return user, nil
}

func (s *Service) ListDoctors(ctx context.Context, tenantID uuid.UUID) ([]*model.User, error) {
	key := "doctors:" + tenantID.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.User), nil
	}

	doctors, err := s.repo.ListByRole(ctx, tenantID, model.RoleDoctor)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	s.cache.SetDefault(key, doctors)
	return doctors, nil
}
