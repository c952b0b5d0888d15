package staff

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/handler"
	"github.com/carelink/hospital-api/internal/middleware"
	"github.com/carelink/hospital-api/internal/model"
)

type Service interface {
	GetDoctor(ctx context.Context, tenantID, id uuid.UUID) (*model.User, error)
	ListDoctors(ctx context.Context, tenantID uuid.UUID) ([]*model.User, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)
	}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	claims := middleware.Identity(c)
	doctors, err := h.service.ListDoctors(c.Request.Context(), claims.TenantID)
	if err != nil {
		c.Error(err)
		return
	}

	handler.OK(c, doctors)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid doctor ID")
		return
	}

	claims := middleware.Identity(c)
	doctor, err := h.service.GetDoctor(c.Request.Context(), claims.TenantID, id)
	if err != nil {
		c.Error(err)
		return
	}

	handler.OK(c, doctor)
}
