package billing

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/handler"
	"github.com/carelink/hospital-api/internal/middleware"
	"github.com/carelink/hospital-api/internal/model"
)

type Service interface {
	CreateBill(ctx context.Context, tenantID uuid.UUID, req *model.CreateBillRequest) (*model.Bill, error)
	AddPayment(ctx context.Context, tenantID, billID uuid.UUID, amount int64) (*model.Bill, error)
	GetBill(ctx context.Context, tenantID, id uuid.UUID) (*model.Bill, error)
	ListBills(ctx context.Context, tenantID uuid.UUID) ([]*model.Bill, error)
	ListPatientBills(ctx context.Context, tenantID, patientID uuid.UUID) ([]*model.Bill, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	bills := r.Group("/bills")
	{
		bills.POST("", h.CreateBill)
		bills.GET("", h.ListBills)
		bills.GET("/:id", h.GetBill)
		bills.POST("/:id/payments", h.AddPayment)
	}
	r.GET("/patients/:id/bills", h.ListPatientBills)
}

func (h *Handler) CreateBill(c *gin.Context) {
	var req model.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	claims := middleware.Identity(c)
	bill, err := h.service.CreateBill(c.Request.Context(), claims.TenantID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	handler.Created(c, bill)
}

func (h *Handler) AddPayment(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid bill ID")
		return
	}

	var req model.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	claims := middleware.Identity(c)
	bill, err := h.service.AddPayment(c.Request.Context(), claims.TenantID, billID, req.Amount)
	if err != nil {
		c.Error(err)
		return
	}

	handler.OK(c, bill)
}

func (h *Handler) GetBill(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid bill ID")
		return
	}

	claims := middleware.Identity(c)
	bill, err := h.service.GetBill(c.Request.Context(), claims.TenantID, id)
	if err != nil {
		c.Error(err)
		return
	}

	handler.OK(c, bill)
}

func (h *Handler) ListBills(c *gin.Context) {
	claims := middleware.Identity(c)
	bills, err := h.service.ListBills(c.Request.Context(), claims.TenantID)
	if err != nil {
		c.Error(err)
		return
	}

	handler.OK(c, bills)
}

func (h *Handler) ListPatientBills(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid patient ID")
		return
	}

	claims := middleware.Identity(c)
	bills, err := h.service.ListPatientBills(c.Request.Context(), claims.TenantID, patientID)
	if err != nil {
		c.Error(err)
		return
	}

	handler.OK(c, bills)
}
