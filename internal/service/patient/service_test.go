package patient

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
)

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (r *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	r.patients[p.ID] = p
	return nil
}

func (r *fakePatientRepo) Get(_ context.Context, tenantID, id uuid.UUID) (*model.Patient, error) {
	p, ok := r.patients[id]
	if !ok || p.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *fakePatientRepo) List(_ context.Context, tenantID uuid.UUID) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range r.patients {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestCreatePatient(t *testing.T) {
	svc := NewService(&fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)})
	tenantID := uuid.New()

	patient, err := svc.Create(context.Background(), tenantID, &model.CreatePatientRequest{
		Name:   "Jordan Reyes",
		Email:  "jordan@example.com",
		Gender: "F",
	})
	require.NoError(t, err)
	assert.Equal(t, tenantID, patient.TenantID)
	assert.Regexp(t, `^P-\d{8}-\d{4}$`, patient.UID)
}

func TestGetPatientTenantScoped(t *testing.T) {
	svc := NewService(&fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)})
	tenantID := uuid.New()

	patient, err := svc.Create(context.Background(), tenantID, &model.CreatePatientRequest{Name: "Jordan Reyes"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), tenantID, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, got.ID)

	_, err = svc.Get(context.Background(), uuid.New(), patient.ID)
	assert.EqualError(t, err, "patient not found")
}

func TestNewPatientUID(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	assert.Regexp(t, `^P-20260828-\d{4}$`, newPatientUID(now))
}
