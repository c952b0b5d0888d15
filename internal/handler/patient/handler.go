package patient

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/handler"
	"github.com/carelink/hospital-api/internal/middleware"
	"github.com/carelink/hospital-api/internal/model"
)

type Service interface {
	Create(ctx context.Context, tenantID uuid.UUID, req *model.CreatePatientRequest) (*model.Patient, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*model.Patient, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	claims := middleware.Identity(c)
	patient, err := h.service.Create(c.Request.Context(), claims.TenantID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	handler.Created(c, patient)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid patient ID")
		return
	}

	claims := middleware.Identity(c)
	patient, err := h.service.Get(c.Request.Context(), claims.TenantID, id)
	if err != nil {
		c.Error(err)
		return
	}

	handler.OK(c, patient)
}

func (h *Handler) ListPatients(c *gin.Context) {
	claims := middleware.Identity(c)
	patients, err := h.service.List(c.Request.Context(), claims.TenantID)
	if err != nil {
		c.Error(err)
		return
	}

	handler.OK(c, patients)
}
