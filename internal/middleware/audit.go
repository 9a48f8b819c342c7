package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salontid/salontid-api/internal/audit"
)

// AuditTrail records every successful mutating request in the secured API.
// It runs after the handler so only committed changes land in the log.
func AuditTrail(dispatcher *audit.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Writer.Status() >= 400 {
			return
		}

		userID := c.GetUint(ContextUserID)

		dispatcher.Dispatch(audit.Event{
			TenantID: c.GetString(ContextTenantID),
			UserID:   &userID,
			Action:   c.Request.Method + " " + c.FullPath(),
			Entity:   "http_request",
			Metadata: map[string]any{
				"status": c.Writer.Status(),
				"ip":     c.ClientIP(),
			},
		})
	}
}
