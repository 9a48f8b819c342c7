package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/httpresp"
	"github.com/salontid/salontid-api/internal/monitoring"
	"github.com/salontid/salontid-api/internal/queue"
)

type QueueHandler struct {
	queue *queue.Service
}

func NewQueueHandler(q *queue.Service) *QueueHandler {
	return &QueueHandler{queue: q}
}

type AddToQueueRequest struct {
	CustomerName        string `json:"customer_name" binding:"required"`
	CustomerPhone       string `json:"customer_phone"`
	ServiceID           uint   `json:"service_id" binding:"required"`
	PreferredEmployeeID *uint  `json:"preferred_employee_id"`
	Priority            string `json:"priority"`
	PriorityReason      string `json:"priority_reason"`
}

func (h *QueueHandler) Add(c *gin.Context) {
	var req AddToQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	entry, err := h.queue.Add(c.Request.Context(), tenantID(c), queue.AddInput{
		CustomerName:        req.CustomerName,
		CustomerPhone:       req.CustomerPhone,
		ServiceID:           req.ServiceID,
		PreferredEmployeeID: req.PreferredEmployeeID,
		Priority:            req.Priority,
		PriorityReason:      req.PriorityReason,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.updateWaitingGauge(c)
	c.JSON(http.StatusCreated, entry)
}

func (h *QueueHandler) List(c *gin.Context) {
	entries, err := h.queue.List(c.Request.Context(), tenantID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, entries)
}

// WaitTimes is the endpoint dashboards poll every 30 seconds.
func (h *QueueHandler) WaitTimes(c *gin.Context) {
	estimates, err := h.queue.EstimateWaits(c.Request.Context(), tenantID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, estimates)
}

func (h *QueueHandler) StartService(c *gin.Context) {
	var req struct {
		EmployeeID uint `json:"employee_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	entry, err := h.queue.StartService(c.Request.Context(), tenantID(c), uintParam(c, "id"), req.EmployeeID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.updateWaitingGauge(c)
	httpresp.OK(c, entry)
}

// CompleteService hands the walk-in off to the point of sale.
func (h *QueueHandler) CompleteService(c *gin.Context) {
	handoff, err := h.queue.CompleteService(c.Request.Context(), tenantID(c), uintParam(c, "id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, handoff)
}

func (h *QueueHandler) Remove(c *gin.Context) {
	if err := h.queue.Remove(c.Request.Context(), tenantID(c), uintParam(c, "id")); err != nil {
		httperr.FromError(c, err)
		return
	}

	h.updateWaitingGauge(c)
	c.Status(http.StatusNoContent)
}

func (h *QueueHandler) UpdatePriority(c *gin.Context) {
	var req struct {
		Priority string `json:"priority" binding:"required"`
		Reason   string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	entry, err := h.queue.UpdatePriority(
		c.Request.Context(), tenantID(c), uintParam(c, "id"), req.Priority, req.Reason,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, entry)
}

func (h *QueueHandler) updateWaitingGauge(c *gin.Context) {
	entries, err := h.queue.List(c.Request.Context(), tenantID(c))
	if err != nil {
		return
	}
	waiting := 0
	for _, e := range entries {
		if e.Status == "waiting" {
			waiting++
		}
	}
	monitoring.QueueWaiting.WithLabelValues(tenantID(c)).Set(float64(waiting))
}
