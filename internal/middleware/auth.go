package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/salontid/salontid-api/internal/auth"
	"github.com/salontid/salontid-api/internal/config"
)

const (
	ContextUserID   = "userID"
	ContextTenantID = "tenantID"
	ContextUserRole = "userRole"
	ContextUserName = "userName"

	// RolePlatformOwner is the SaaS back-office role. It never belongs to a
	// salon tenant and is the only role allowed to impersonate one.
	RolePlatformOwner = "platform_owner"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		claims, err := auth.ParseSessionToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		// Every downstream query keys on the effective tenant, so an
		// impersonating platform owner sees exactly what the salon sees.
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextTenantID, claims.EffectiveTenantID())
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextUserName, claims.Name)

		c.Next()
	}
}

// RequireRole gates a route group to the given roles. AuthMiddleware must
// run first.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}
