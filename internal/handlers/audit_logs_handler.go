package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/httpresp"
	"github.com/salontid/salontid-api/internal/models"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	limit := intQuery(c, "limit", 100)
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []models.AuditLog
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ?", tenantID(c)).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, logs)
}
