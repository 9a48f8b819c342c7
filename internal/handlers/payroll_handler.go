package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/httpresp"
	"github.com/salontid/salontid-api/internal/payroll"
)

type PayrollHandler struct {
	payroll *payroll.Service
}

func NewPayrollHandler(p *payroll.Service) *PayrollHandler {
	return &PayrollHandler{payroll: p}
}

// ForEmployee computes one employee's payroll for a month. Tips and bonus
// are entered by the manager at review time, they are not derived.
func (h *PayrollHandler) ForEmployee(c *gin.Context) {
	year := intQuery(c, "year", 0)
	month := intQuery(c, "month", 0)
	if year == 0 || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_request", "year og month er påkrevd.")
		return
	}

	result, err := h.payroll.ComputeForEmployee(
		c.Request.Context(),
		tenantID(c),
		uintParam(c, "id"),
		month,
		year,
		floatQuery(c, "tips"),
		floatQuery(c, "bonus"),
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, result)
}
