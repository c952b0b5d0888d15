package appointment

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/handler"
	"github.com/carelink/hospital-api/internal/middleware"
	"github.com/carelink/hospital-api/internal/model"
)

// Service is what the handler needs from the appointment lifecycle manager.
type Service interface {
	CreateAppointment(ctx context.Context, tenantID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, tenantID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, tenantID, id uuid.UUID) error
	GetAppointment(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error)
	ListAppointments(ctx context.Context, tenantID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	ListDoctorAppointments(ctx context.Context, tenantID, doctorID uuid.UUID) ([]*model.Appointment, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.PATCH("/:id/status", h.UpdateStatus)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
	r.GET("/doctors/:id/appointments", h.ListDoctorAppointments)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	claims := middleware.Identity(c)
	apt, err := h.service.CreateAppointment(c.Request.Context(), claims.TenantID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	handler.Created(c, apt)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment ID")
		return
	}

	claims := middleware.Identity(c)
	apt, err := h.service.GetAppointment(c.Request.Context(), claims.TenantID, id)
	if err != nil {
		c.Error(err)
		return
	}

	handler.OK(c, apt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{}

	if d := c.Query("date"); d != "" {
		date, err := time.Parse("2006-01-02", d)
		if err != nil {
			handler.BadRequest(c, "invalid date format")
			return
		}
		filters.Date = &date
	}

	if s := c.Query("status"); s != "" {
		status := model.AppointmentStatus(s)
		if !status.Valid() {
			handler.BadRequest(c, "invalid status")
			return
		}
		filters.Status = &status
	}

	if d := c.Query("doctor_id"); d != "" {
		doctorID, err := uuid.Parse(d)
		if err != nil {
			handler.BadRequest(c, "invalid doctor ID")
			return
		}
		filters.DoctorID = &doctorID
	}

	filters.Today = c.Query("today") == "true"
	filters.Upcoming = c.Query("upcoming") == "true"

	claims := middleware.Identity(c)
	appointments, err := h.service.ListAppointments(c.Request.Context(), claims.TenantID, filters)
	if err != nil {
		c.Error(err)
		return
	}

	handler.OK(c, appointments)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment ID")
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	claims := middleware.Identity(c)
	apt, err := h.service.UpdateAppointment(c.Request.Context(), claims.TenantID, id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	handler.OK(c, apt)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment ID")
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	claims := middleware.Identity(c)
	apt, err := h.service.UpdateStatus(c.Request.Context(), claims.TenantID, id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}

	handler.OK(c, apt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment ID")
		return
	}

	claims := middleware.Identity(c)
	if err := h.service.DeleteAppointment(c.Request.Context(), claims.TenantID, id); err != nil {
		c.Error(err)
		return
	}

	handler.NoContent(c)
}

func (h *Handler) ListDoctorAppointments(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid doctor ID")
		return
	}

	claims := middleware.Identity(c)
	appointments, err := h.service.ListDoctorAppointments(c.Request.Context(), claims.TenantID, doctorID)
	if err != nil {
		c.Error(err)
		return
	}

	handler.OK(c, appointments)
}
