package tenant

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/handler"
	"github.com/carelink/hospital-api/internal/model"
)

type Service interface {
	Register(ctx context.Context, req *model.CreateTenantRequest) (*model.Tenant, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
	List(ctx context.Context) ([]*model.Tenant, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes wires the onboarding endpoint. Registration happens
// before a tenant identity exists, so it sits outside the authenticated
// group.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/tenants", h.RegisterTenant)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	tenants := r.Group("/tenants")
	{
		tenants.GET("", h.ListTenants)
		tenants.GET("/:id", h.GetTenant)
	}
}

func (h *Handler) RegisterTenant(c *gin.Context) {
	var req model.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	tenant, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	handler.Created(c, tenant)
}

func (h *Handler) GetTenant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid tenant ID")
		return
	}

	tenant, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	handler.OK(c, tenant)
}

func (h *Handler) ListTenants(c *gin.Context) {
	tenants, err := h.service.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	handler.OK(c, tenants)
}
