package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/httpresp"
	"github.com/salontid/salontid-api/internal/infra/repository"
	"github.com/salontid/salontid-api/internal/models"
	"github.com/salontid/salontid-api/internal/pos"
)

type POSHandler struct {
	db   *gorm.DB
	pos  *pos.Service
	repo *repository.POSGormRepository
}

func NewPOSHandler(db *gorm.DB, p *pos.Service, repo *repository.POSGormRepository) *POSHandler {
	return &POSHandler{db: db, pos: p, repo: repo}
}

func (h *POSHandler) CreateOrder(c *gin.Context) {
	var req pos.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var tenant models.Tenant
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ?", tenantID(c)).
		First(&tenant).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	order, err := h.pos.CreateOrder(c.Request.Context(), tenantID(c), tenant.VatRate, req)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *POSHandler) GetOrder(c *gin.Context) {
	order, err := h.repo.GetOrder(c.Request.Context(), tenantID(c), uintParam(c, "id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	items, err := h.repo.ListOrderItems(c.Request.Context(), tenantID(c), order.ID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	payments, err := h.repo.ListPaymentsForOrder(c.Request.Context(), tenantID(c), order.ID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"order":    order,
		"items":    items,
		"payments": payments,
	})
}

func (h *POSHandler) ListOrders(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	orders, err := h.repo.ListOrders(c.Request.Context(), tenantID(c), limit)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, orders)
}

func (h *POSHandler) VoidOrder(c *gin.Context) {
	if err := h.pos.VoidOrder(c.Request.Context(), tenantID(c), uintParam(c, "id")); err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *POSHandler) TakePayment(c *gin.Context) {
	var req pos.PaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	payment, err := h.pos.TakePayment(c.Request.Context(), tenantID(c), uintParam(c, "id"), req)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

func (h *POSHandler) PaySplit(c *gin.Context) {
	var req struct {
		Splits []pos.SplitInput `json:"splits" binding:"required,min=2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	rows, err := h.pos.PaySplit(c.Request.Context(), tenantID(c), uintParam(c, "id"), req.Splits)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"splits": rows})
}

func (h *POSHandler) Refund(c *gin.Context) {
	var req pos.RefundInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	refund, err := h.pos.RefundPayment(c.Request.Context(), tenantID(c), uintParam(c, "id"), req)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, refund)
}
