package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/auth"
	"github.com/salontid/salontid-api/internal/backup"
	"github.com/salontid/salontid-api/internal/config"
	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/httpresp"
	"github.com/salontid/salontid-api/internal/models"
	"github.com/salontid/salontid-api/internal/saasadmin"
)

// SaaSAdminHandler is the platform back office. Routes using it sit behind
// RequireRole(platform_owner).
type SaaSAdminHandler struct {
	db      *gorm.DB
	config  *config.Config
	admin   *saasadmin.Service
	backups *backup.Service
}

func NewSaaSAdminHandler(
	db *gorm.DB,
	cfg *config.Config,
	admin *saasadmin.Service,
	backups *backup.Service,
) *SaaSAdminHandler {
	return &SaaSAdminHandler{db: db, config: cfg, admin: admin, backups: backups}
}

func (h *SaaSAdminHandler) ListTenants(c *gin.Context) {
	tenants, err := h.admin.ListTenants(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, tenants)
}

func (h *SaaSAdminHandler) Suspend(c *gin.Context) {
	h.setStatus(c, models.TenantSuspended)
}

func (h *SaaSAdminHandler) Reactivate(c *gin.Context) {
	h.setStatus(c, models.TenantActive)
}

func (h *SaaSAdminHandler) Cancel(c *gin.Context) {
	h.setStatus(c, models.TenantCanceled)
}

func (h *SaaSAdminHandler) setStatus(c *gin.Context, status models.TenantStatus) {
	if err := h.admin.SetStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"status": string(status)})
}

func (h *SaaSAdminHandler) ExtendTrial(c *gin.Context) {
	var req struct {
		Days int `json:"days" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if err := h.admin.ExtendTrial(c.Request.Context(), c.Param("id"), req.Days); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"message": "trial_extended"})
}

func (h *SaaSAdminHandler) PermanentDelete(c *gin.Context) {
	if err := h.admin.PermanentDelete(c.Request.Context(), c.Param("id")); err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Impersonate mints a session token scoped to the target tenant. The admin's
// own identity stays in the token; only the effective tenant changes.
func (h *SaaSAdminHandler) Impersonate(c *gin.Context) {
	targetTenantID := c.Param("id")

	var tenant models.Tenant
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ?", targetTenantID).
		First(&tenant).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	var admin models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ?", currentUserID(c)).
		First(&admin).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	token, err := auth.GenerateSessionToken(h.config, &admin, targetTenantID)
	if err != nil {
		httperr.Internal(c, "internal_error", "Noe gikk galt. Prøv igjen senere.")
		return
	}

	httpresp.OK(c, gin.H{
		"token":  token,
		"tenant": tenantPayload(&tenant),
	})
}

func (h *SaaSAdminHandler) RevokeTenantTokens(c *gin.Context) {
	count, err := h.admin.RevokeTenantTokens(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"message": "tenant_tokens_revoked", "revoked": count})
}

// BackupTenant is the manual trigger; the nightly cron covers everyone.
func (h *SaaSAdminHandler) BackupTenant(c *gin.Context) {
	if err := h.backups.BackupTenant(c.Request.Context(), c.Param("id")); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"message": "backup_completed"})
}
