package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/httpresp"
	"github.com/salontid/salontid-api/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

type ServiceRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=5"`
	Price           float64 `json:"price" binding:"required"`
	IsActive        *bool   `json:"is_active"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ?", tenantID(c)).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	svc := models.Service{
		TenantID:        tenantID(c),
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        true,
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	var svc models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND tenant_id = ?", uintParam(c, "id"), tenantID(c)).
		First(&svc).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	svc.Name = req.Name
	svc.Description = req.Description
	svc.DurationMinutes = req.DurationMinutes
	svc.Price = req.Price
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&svc).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND tenant_id = ?", uintParam(c, "id"), tenantID(c)).
		Delete(&models.Service{})

	if res.Error != nil {
		httperr.FromError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "not_found", "Ikke funnet.")
		return
	}
	c.Status(http.StatusNoContent)
}
