package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/httpresp"
	"github.com/salontid/salontid-api/internal/models"
)

type EmployeeHandler struct {
	db *gorm.DB
}

func NewEmployeeHandler(db *gorm.DB) *EmployeeHandler {
	return &EmployeeHandler{db: db}
}

type CreateEmployeeRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`

	CommissionType string  `json:"commission_type"` // percentage, fixed
	CommissionRate float64 `json:"commission_rate"`
	BaseSalary     float64 `json:"base_salary"`
}

type UpdateEmployeeRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`

	IsActive       *bool   `json:"is_active"`
	CommissionType string  `json:"commission_type"`
	CommissionRate float64 `json:"commission_rate"`
	BaseSalary     float64 `json:"base_salary"`
}

func (h *EmployeeHandler) List(c *gin.Context) {
	var employees []models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ?", tenantID(c)).
		Order("name ASC").
		Find(&employees).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, employees)
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "invalid_request", "E-postadressen er allerede i bruk.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "internal_error", "Noe gikk galt. Prøv igjen senere.")
		return
	}

	commissionType := req.CommissionType
	if commissionType != "fixed" {
		commissionType = "percentage"
	}

	employee := models.User{
		TenantID:       tenantID(c),
		Name:           req.Name,
		Email:          email,
		PasswordHash:   string(hashed),
		Phone:          req.Phone,
		Role:           "employee",
		IsActive:       true,
		CommissionType: commissionType,
		CommissionRate: req.CommissionRate,
		BaseSalary:     req.BaseSalary,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&employee).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	var employee models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND tenant_id = ?", uintParam(c, "id"), tenantID(c)).
		First(&employee).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	employee.Name = req.Name
	employee.Phone = req.Phone
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}
	if req.CommissionType == "percentage" || req.CommissionType == "fixed" {
		employee.CommissionType = req.CommissionType
	}
	employee.CommissionRate = req.CommissionRate
	employee.BaseSalary = req.BaseSalary

	if err := h.db.WithContext(c.Request.Context()).Save(&employee).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, employee)
}
