package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/salontid/salontid-api/internal/middleware"
)

// tenantID pulls the effective tenant set by the auth middleware.
func tenantID(c *gin.Context) string {
	return c.GetString(middleware.ContextTenantID)
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(middleware.ContextUserID)
}

// uintParam parses a numeric path parameter; 0 means missing or malformed.
func uintParam(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

func uintQuery(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

func intQuery(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

func floatQuery(c *gin.Context, name string) float64 {
	v, err := strconv.ParseFloat(c.Query(name), 64)
	if err != nil {
		return 0
	}
	return v
}
