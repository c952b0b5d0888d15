package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/hospital-api/internal/middleware"
	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/pkg/auth"
	apperrors "github.com/carelink/hospital-api/pkg/errors"
)

// stubService records the tenant it was called with and returns canned
// results.
type stubService struct {
	tenantID    uuid.UUID
	filters     *model.AppointmentFilters
	appointment *model.Appointment
	list        []*model.Appointment
	err         error
}

func (s *stubService) CreateAppointment(_ context.Context, tenantID uuid.UUID, _ *model.CreateAppointmentRequest) (*model.Appointment, error) {
	s.tenantID = tenantID
	return s.appointment, s.err
}

func (s *stubService) UpdateAppointment(_ context.Context, tenantID, _ uuid.UUID, _ *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	s.tenantID = tenantID
	return s.appointment, s.err
}

func (s *stubService) UpdateStatus(_ context.Context, tenantID, _ uuid.UUID, _ model.AppointmentStatus) (*model.Appointment, error) {
	s.tenantID = tenantID
	return s.appointment, s.err
}

func (s *stubService) DeleteAppointment(_ context.Context, tenantID, _ uuid.UUID) error {
	s.tenantID = tenantID
	return s.err
}

func (s *stubService) GetAppointment(_ context.Context, tenantID, _ uuid.UUID) (*model.Appointment, error) {
	s.tenantID = tenantID
	return s.appointment, s.err
}

func (s *stubService) ListAppointments(_ context.Context, tenantID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	s.tenantID = tenantID
	s.filters = filters
	return s.list, s.err
}

func (s *stubService) ListDoctorAppointments(_ context.Context, tenantID, _ uuid.UUID) ([]*model.Appointment, error) {
	s.tenantID = tenantID
	return s.list, s.err
}

func setupRouter(svc Service, tenantID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextIdentity, &auth.Claims{UserID: uuid.New(), TenantID: tenantID})
	})
	NewHandler(svc).RegisterRoutes(&r.RouterGroup)
	return r
}

func TestCreateAppointmentHandler(t *testing.T) {
	tenantID := uuid.New()
	apt := &model.Appointment{
		TenantID: tenantID,
		Date:     time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		Time:     "09:00",
		Status:   model.AppointmentStatusScheduled,
	}
	apt.ID = uuid.New()
	svc := &stubService{appointment: apt}
	r := setupRouter(svc, tenantID)

	body, _ := json.Marshal(gin.H{
		"patient_id": uuid.New(),
		"doctor_id":  uuid.New(),
		"date":       "2026-03-11",
		"time":       "09:00",
	})
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	// The tenant comes from the authenticated identity, not the payload.
	assert.Equal(t, tenantID, svc.tenantID)
}

func TestCreateAppointmentHandlerValidation(t *testing.T) {
	r := setupRouter(&stubService{}, uuid.New())

	// Missing doctor_id and a malformed slot time fail binding before the
	// service is reached.
	body, _ := json.Marshal(gin.H{
		"patient_id": uuid.New(),
		"date":       "2026-03-11",
		"time":       "9am",
	})
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppointmentHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", apperrors.NotFound("appointment"), http.StatusNotFound},
		{"slot conflict", apperrors.Conflict("doctor is unavailable for this time slot"), http.StatusConflict},
		{"temporal rejection", apperrors.Validation("cannot book an appointment for a past date"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(&stubService{err: tt.err}, uuid.New())

			req := httptest.NewRequest(http.MethodGet, "/appointments/"+uuid.NewString(), nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.err.Error(), resp.Message)
		})
	}
}

func TestListAppointmentsHandlerFilters(t *testing.T) {
	svc := &stubService{}
	r := setupRouter(svc, uuid.New())

	doctorID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/appointments?status=SCHEDULED&doctor_id="+doctorID.String()+"&upcoming=true", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.filters)
	require.NotNil(t, svc.filters.Status)
	assert.Equal(t, model.AppointmentStatusScheduled, *svc.filters.Status)
	require.NotNil(t, svc.filters.DoctorID)
	assert.Equal(t, doctorID, *svc.filters.DoctorID)
	assert.True(t, svc.filters.Upcoming)
	assert.False(t, svc.filters.Today)
}

func TestListAppointmentsHandlerRejectsBadQuery(t *testing.T) {
	r := setupRouter(&stubService{}, uuid.New())

	for _, query := range []string{"?status=BOGUS", "?date=11-03-2026", "?doctor_id=abc"} {
		req := httptest.NewRequest(http.MethodGet, "/appointments"+query, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestDeleteAppointmentHandler(t *testing.T) {
	svc := &stubService{}
	r := setupRouter(svc, uuid.New())

	req := httptest.NewRequest(http.MethodDelete, "/appointments/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "success")
}

func TestAppointmentHandlerRejectsBadID(t *testing.T) {
	r := setupRouter(&stubService{}, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/appointments/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
