package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/auth"
	"github.com/salontid/salontid-api/internal/config"
	"github.com/salontid/salontid-api/internal/middleware"
	"github.com/salontid/salontid-api/internal/models"
)

const (
	refreshCookieName   = "refresh_token"
	refreshCookieMaxAge = 90 * 24 * 3600
	trialDays           = 14
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	tokens *auth.RefreshTokenService
	log    *zap.Logger
}

func NewAuthHandler(
	db *gorm.DB,
	cfg *config.Config,
	tokens *auth.RefreshTokenService,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, tokens: tokens, log: log}
}

// --------- Requests ---------

type RegisterRequest struct {
	SalonName      string `json:"salon_name" binding:"required"`
	SalonSubdomain string `json:"salon_subdomain" binding:"required"`
	SalonPhone     string `json:"salon_phone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register creates the tenant on a 14-day trial together with its owner
// user, then signs the pair in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	subdomain := strings.ToLower(strings.TrimSpace(req.SalonSubdomain))

	var count int64
	h.db.Model(&models.Tenant{}).Where("subdomain = ?", subdomain).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subdomain_already_exists"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email_already_exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	trialEnd := time.Now().AddDate(0, 0, trialDays)

	tenant := models.Tenant{
		ID:          uuid.NewString(),
		Name:        req.SalonName,
		Subdomain:   subdomain,
		Status:      string(models.TenantTrial),
		TrialEndsAt: &trialEnd,
		Phone:       req.SalonPhone,
		Email:       email,
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "owner",
		IsActive:     true,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		user.TenantID = tenant.ID
		return tx.Create(&user).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration_failed"})
		return
	}

	token, err := auth.GenerateSessionToken(h.config, &user, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	h.issueRefreshCookie(c, &user)

	h.log.Info("tenant registered",
		zap.String("tenant_id", tenant.ID),
		zap.String("subdomain", tenant.Subdomain),
	)

	c.JSON(http.StatusCreated, gin.H{
		"user":   userPayload(&user),
		"tenant": tenantPayload(&tenant),
		"token":  token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Preload("Tenant").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	if user.Tenant.Status == string(models.TenantSuspended) ||
		user.Tenant.Status == string(models.TenantCanceled) {
		c.JSON(http.StatusForbidden, gin.H{"error": "tenant_suspended"})
		return
	}

	token, err := auth.GenerateSessionToken(h.config, &user, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	h.issueRefreshCookie(c, &user)

	c.JSON(http.StatusOK, gin.H{
		"user":   userPayload(&user),
		"tenant": tenantPayload(&user.Tenant),
		"token":  token,
	})
}

// Refresh exchanges the refresh cookie for a fresh session JWT.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_refresh_token"})
		return
	}

	user, err := h.tokens.GetUserFromRefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	if user == nil {
		clearRefreshCookie(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_refresh_token"})
		return
	}

	token, err := auth.GenerateSessionToken(h.config, user, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userPayload(user),
		"token": token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if refreshToken, err := c.Cookie(refreshCookieName); err == nil && refreshToken != "" {
		if _, err := h.tokens.RevokeRefreshToken(c.Request.Context(), refreshToken, "User logout"); err != nil {
			h.log.Error("logout revocation failed", zap.Error(err))
		}
	}

	clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged_out"})
}

// LogoutAll revokes every device's refresh token. Requires a live session.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	count, err := h.tokens.RevokeAllUserTokens(c.Request.Context(), userID, "Logout from all devices")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged_out", "revoked": count})
}

// ForgotPassword always answers success so email addresses cannot be
// enumerated.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err == nil {
		h.log.Info("password reset requested", zap.Uint("user_id", user.ID))
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Hvis e-postadressen finnes hos oss, har vi sendt en lenke for tilbakestilling.",
	})
}

// Sessions lists the caller's active refresh tokens.
func (h *AuthHandler) Sessions(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	tokens, err := h.tokens.ListUserActiveTokens(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	type session struct {
		ID         uint       `json:"id"`
		IPAddress  string     `json:"ip_address"`
		UserAgent  string     `json:"user_agent"`
		LastUsedAt *time.Time `json:"last_used_at"`
		CreatedAt  time.Time  `json:"created_at"`
	}

	out := make([]session, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, session{
			ID:         t.ID,
			IPAddress:  t.IPAddress,
			UserAgent:  t.UserAgent,
			LastUsedAt: t.LastUsedAt,
			CreatedAt:  t.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

// --------- Helpers ---------

// issueRefreshCookie is best effort: a failure is logged but never blocks
// the login itself.
func (h *AuthHandler) issueRefreshCookie(c *gin.Context, user *models.User) {
	token, err := h.tokens.CreateRefreshToken(
		c.Request.Context(),
		user.ID,
		user.TenantID,
		c.ClientIP(),
		c.Request.UserAgent(),
	)
	if err != nil {
		h.log.Error("refresh token issuance failed",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, token, refreshCookieMaxAge, "/", "", true, true)
}

func clearRefreshCookie(c *gin.Context) {
	c.SetCookie(refreshCookieName, "", -1, "/", "", true, true)
}

func userPayload(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"phone":     u.Phone,
		"role":      u.Role,
		"tenant_id": u.TenantID,
	}
}

func tenantPayload(t *models.Tenant) gin.H {
	return gin.H{
		"id":            t.ID,
		"name":          t.Name,
		"subdomain":     t.Subdomain,
		"status":        t.Status,
		"trial_ends_at": t.TrialEndsAt,
		"timezone":      t.Timezone,
		"currency":      t.Currency,
	}
}
