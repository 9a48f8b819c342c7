package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/httpresp"
	"github.com/salontid/salontid-api/internal/models"
	"github.com/salontid/salontid-api/internal/monitoring"
	ucAppointment "github.com/salontid/salontid-api/internal/usecase/appointment"
)

type AppointmentHandler struct {
	db *gorm.DB

	createUC     *ucAppointment.CreateAppointment
	confirmUC    *ucAppointment.ConfirmAppointment
	cancelUC     *ucAppointment.CancelAppointment
	completeUC   *ucAppointment.CompleteAppointment
	rescheduleUC *ucAppointment.RescheduleAppointment
	listUC       *ucAppointment.ListAppointments
}

func NewAppointmentHandler(
	db *gorm.DB,
	createUC *ucAppointment.CreateAppointment,
	confirmUC *ucAppointment.ConfirmAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	completeUC *ucAppointment.CompleteAppointment,
	rescheduleUC *ucAppointment.RescheduleAppointment,
	listUC *ucAppointment.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:           db,
		createUC:     createUC,
		confirmUC:    confirmUC,
		cancelUC:     cancelUC,
		completeUC:   completeUC,
		rescheduleUC: rescheduleUC,
		listUC:       listUC,
	}
}

// --------- Requests ---------

type CreateAppointmentRequest struct {
	CustomerID uint   `json:"customer_id" binding:"required"`
	EmployeeID uint   `json:"employee_id" binding:"required"`
	ServiceIDs []uint `json:"service_ids" binding:"required,min=1"`
	Date       string `json:"date" binding:"required"` // "2006-01-02"
	Time       string `json:"time" binding:"required"` // "15:04"
	Notes      string `json:"notes"`
}

type RescheduleRequest struct {
	CustomerID uint   `json:"customer_id" binding:"required"`
	NewDate    string `json:"new_date" binding:"required"`
	NewTime    string `json:"new_time" binding:"required"`
}

// --------- Handlers ---------

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateInput{
		TenantID:   tenantID(c),
		CustomerID: req.CustomerID,
		EmployeeID: req.EmployeeID,
		ServiceIDs: req.ServiceIDs,
		Date:       req.Date,
		Time:       req.Time,
		Notes:      req.Notes,
		Channel:    "admin",
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	ap, err := h.confirmUC.Execute(c.Request.Context(), ucAppointment.ConfirmInput{
		TenantID:      tenantID(c),
		AppointmentID: uintParam(c, "id"),
		ActorID:       currentUserID(c),
		Channel:       "admin",
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	ap, err := h.cancelUC.Execute(c.Request.Context(), ucAppointment.CancelInput{
		TenantID:      tenantID(c),
		AppointmentID: uintParam(c, "id"),
		ActorID:       currentUserID(c),
		Channel:       "admin",
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	ap, err := h.completeUC.Execute(c.Request.Context(), ucAppointment.CompleteInput{
		TenantID:      tenantID(c),
		AppointmentID: uintParam(c, "id"),
		ActorID:       currentUserID(c),
		Channel:       "admin",
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.rescheduleUC.Execute(c.Request.Context(), ucAppointment.RescheduleInput{
		TenantID:      tenantID(c),
		AppointmentID: uintParam(c, "id"),
		CustomerID:    req.CustomerID,
		NewDate:       req.NewDate,
		NewTime:       req.NewTime,
		Channel:       "admin",
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	monitoring.AppointmentsRescheduled.Inc()
	httpresp.OK(c, ap)
}

// ReschedulePublic is the customer self-service path: the appointment is
// addressed by its management token, not by id, so no session is needed.
func (h *AppointmentHandler) ReschedulePublic(c *gin.Context) {
	var req struct {
		NewDate string `json:"new_date" binding:"required"`
		NewTime string `json:"new_time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var ap models.Appointment
	if err := h.db.WithContext(c.Request.Context()).
		Where("management_token = ?", c.Param("token")).
		First(&ap).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Avtalen ble ikke funnet.")
		return
	}

	updated, err := h.rescheduleUC.Execute(c.Request.Context(), ucAppointment.RescheduleInput{
		TenantID:      ap.TenantID,
		AppointmentID: ap.ID,
		CustomerID:    ap.CustomerID,
		NewDate:       req.NewDate,
		NewTime:       req.NewTime,
		Channel:       "web",
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	monitoring.AppointmentsRescheduled.Inc()
	httpresp.OK(c, updated)
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "invalid_request", "date er påkrevd (YYYY-MM-DD).")
		return
	}

	aps, err := h.listUC.ByDate(c.Request.Context(), tenantID(c), uintQuery(c, "employee_id"), date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, aps)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	year := intQuery(c, "year", 0)
	month := intQuery(c, "month", 0)
	if year == 0 || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_request", "year og month er påkrevd.")
		return
	}

	aps, err := h.listUC.ByMonth(c.Request.Context(), tenantID(c), uintQuery(c, "employee_id"), year, month)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, aps)
}

// History returns the appointment's change log, oldest first.
func (h *AppointmentHandler) History(c *gin.Context) {
	var rows []models.AppointmentHistory
	if err := h.db.WithContext(c.Request.Context()).
		Where("appointment_id = ? AND tenant_id = ?", uintParam(c, "id"), tenantID(c)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, rows)
}
