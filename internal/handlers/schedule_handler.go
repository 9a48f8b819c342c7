package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/httpresp"
	"github.com/salontid/salontid-api/internal/models"
)

type ScheduleHandler struct {
	db *gorm.DB
}

func NewScheduleHandler(db *gorm.DB) *ScheduleHandler {
	return &ScheduleHandler{db: db}
}

// --------- Working hours ---------

type ScheduleRow struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	IsActive  bool   `json:"is_active"`
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	employeeID := uintParam(c, "id")
	if !h.employeeInTenant(c, employeeID) {
		return
	}

	var rows []models.EmployeeSchedule
	if err := h.db.WithContext(c.Request.Context()).
		Where("employee_id = ?", employeeID).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, rows)
}

// Update replaces the employee's whole weekly schedule in one shot.
func (h *ScheduleHandler) Update(c *gin.Context) {
	employeeID := uintParam(c, "id")
	if !h.employeeInTenant(c, employeeID) {
		return
	}

	var req struct {
		Schedule []ScheduleRow `json:"schedule" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	for _, row := range req.Schedule {
		if _, err := time.Parse("15:04", row.StartTime); err != nil {
			httperr.BadRequest(c, "invalid_request", "Ugyldig starttid, bruk TT:MM.")
			return
		}
		if _, err := time.Parse("15:04", row.EndTime); err != nil {
			httperr.BadRequest(c, "invalid_request", "Ugyldig sluttid, bruk TT:MM.")
			return
		}
		if row.StartTime >= row.EndTime {
			httperr.BadRequest(c, "invalid_request", "Starttid må være før sluttid.")
			return
		}
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", employeeID).
			Delete(&models.EmployeeSchedule{}).Error; err != nil {
			return err
		}
		for _, row := range req.Schedule {
			if err := tx.Create(&models.EmployeeSchedule{
				EmployeeID: employeeID,
				Weekday:    row.Weekday,
				StartTime:  row.StartTime,
				EndTime:    row.EndTime,
				IsActive:   row.IsActive,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.Get(c)
}

// --------- Leave ---------

type LeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required"` // paid, unpaid, sick
	StartDate string `json:"start_date" binding:"required"` // "2006-01-02"
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

func (h *ScheduleHandler) RequestLeave(c *gin.Context) {
	employeeID := uintParam(c, "id")
	if !h.employeeInTenant(c, employeeID) {
		return
	}

	var req LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Ugyldig startdato.")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil || end.Before(start) {
		httperr.BadRequest(c, "invalid_request", "Ugyldig sluttdato.")
		return
	}

	switch req.LeaveType {
	case "paid", "unpaid", "sick":
	default:
		httperr.BadRequest(c, "invalid_request", "Ugyldig fraværstype.")
		return
	}

	leave := models.EmployeeLeave{
		TenantID:   tenantID(c),
		EmployeeID: employeeID,
		LeaveType:  req.LeaveType,
		StartDate:  start,
		EndDate:    end,
		Status:     "pending",
		Reason:     req.Reason,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&leave).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, leave)
}

func (h *ScheduleHandler) SetLeaveStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"` // approved, rejected
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if req.Status != "approved" && req.Status != "rejected" {
		httperr.BadRequest(c, "invalid_request", "Status må være approved eller rejected.")
		return
	}

	var leave models.EmployeeLeave
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND tenant_id = ?", uintParam(c, "leaveId"), tenantID(c)).
		First(&leave).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	leave.Status = req.Status
	if err := h.db.WithContext(c.Request.Context()).Save(&leave).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, leave)
}

func (h *ScheduleHandler) ListLeave(c *gin.Context) {
	var leaves []models.EmployeeLeave
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ?", tenantID(c)).
		Order("start_date DESC").
		Find(&leaves).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, leaves)
}

// employeeInTenant keeps schedule routes inside the caller's tenant; the
// schedule table itself has no tenant column.
func (h *ScheduleHandler) employeeInTenant(c *gin.Context, employeeID uint) bool {
	var count int64
	h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("id = ? AND tenant_id = ?", employeeID, tenantID(c)).
		Count(&count)

	if count == 0 {
		httperr.NotFound(c, "not_found", "Ikke funnet.")
		return false
	}
	return true
}
