package staff

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
)

type fakeUserRepo struct {
	users     map[uuid.UUID]*model.User
	listCalls int
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, tenantID, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok || u.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) ListByRole(_ context.Context, tenantID uuid.UUID, role string) ([]*model.User, error) {
	r.listCalls++
	var out []*model.User
	for _, u := range r.users {
		if u.TenantID == tenantID && u.HasRole(role) {
			out = append(out, u)
		}
	}
	return out, nil
}

func seedUser(repo *fakeUserRepo, tenantID uuid.UUID, roles ...string) *model.User {
	u := &model.User{TenantID: tenantID, Roles: roles}
	u.ID = uuid.New()
	repo.users[u.ID] = u
	return u
}

func TestGetDoctor(t *testing.T) {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	tenantID := uuid.New()
	doctor := seedUser(repo, tenantID, model.RoleDoctor)
	nurse := seedUser(repo, tenantID, model.RoleNurse)
	svc := NewService(repo)
	ctx := context.Background()

	got, err := svc.GetDoctor(ctx, tenantID, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, doctor.ID, got.ID)

	// Staff without the doctor role are not visible through this lookup.
	_, err = svc.GetDoctor(ctx, tenantID, nurse.ID)
	assert.EqualError(t, err, "doctor not found")

	// Neither are doctors owned by another tenant.
	_, err = svc.GetDoctor(ctx, uuid.New(), doctor.ID)
	assert.EqualError(t, err, "doctor not found")
}

func TestListDoctorsCached(t *testing.T) {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	tenantID := uuid.New()
	seedUser(repo, tenantID, model.RoleDoctor)
	seedUser(repo, tenantID, model.RoleDoctor, model.RoleAdmin)
	seedUser(repo, tenantID, model.RoleReceptionist)
	svc := NewService(repo)
	ctx := context.Background()

	doctors, err := svc.ListDoctors(ctx, tenantID)
	require.NoError(t, err)
	assert.Len(t, doctors, 2)
	assert.Equal(t, 1, repo.listCalls)

	// Second read within the TTL is served from cache.
	doctors, err = svc.ListDoctors(ctx, tenantID)
	require.NoError(t, err)
	assert.Len(t, doctors, 2)
	assert.Equal(t, 1, repo.listCalls)

	// A different tenant has its own cache entry.
	other, err := svc.ListDoctors(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
	assert.Equal(t, 2, repo.listCalls)
}
