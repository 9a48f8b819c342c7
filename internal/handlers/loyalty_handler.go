package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/httpresp"
	"github.com/salontid/salontid-api/internal/loyalty"
)

type LoyaltyHandler struct {
	loyalty *loyalty.Service
}

func NewLoyaltyHandler(l *loyalty.Service) *LoyaltyHandler {
	return &LoyaltyHandler{loyalty: l}
}

func (h *LoyaltyHandler) Balance(c *gin.Context) {
	points, err := h.loyalty.GetOrCreatePoints(c.Request.Context(), tenantID(c), uintParam(c, "id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, points)
}

func (h *LoyaltyHandler) Redeem(c *gin.Context) {
	var req struct {
		Points      int    `json:"points" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Description == "" {
		req.Description = "Innløst i salong"
	}

	if err := h.loyalty.Redeem(
		c.Request.Context(), tenantID(c), uintParam(c, "id"), req.Points, req.Description,
	); err != nil {
		httperr.FromError(c, err)
		return
	}

	points, err := h.loyalty.GetOrCreatePoints(c.Request.Context(), tenantID(c), uintParam(c, "id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, points)
}

func (h *LoyaltyHandler) History(c *gin.Context) {
	txs, err := h.loyalty.History(
		c.Request.Context(), tenantID(c), uintParam(c, "id"), intQuery(c, "limit", 50),
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, txs)
}
