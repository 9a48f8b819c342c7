package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/httpresp"
	"github.com/salontid/salontid-api/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Tenant").
		Where("id = ?", currentUserID(c)).
		First(&user).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"user":   userPayload(&user),
		"tenant": tenantPayload(&user.Tenant),
	})
}
