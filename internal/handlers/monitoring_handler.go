package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/httpresp"
	"github.com/salontid/salontid-api/internal/monitoring"
)

type MonitoringHandler struct {
	status *monitoring.StatusService
}

func NewMonitoringHandler(status *monitoring.StatusService) *MonitoringHandler {
	return &MonitoringHandler{status: status}
}

func (h *MonitoringHandler) Status(c *gin.Context) {
	st, err := h.status.Snapshot(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "internal_error", "Noe gikk galt. Prøv igjen senere.")
		return
	}
	httpresp.OK(c, st)
}
