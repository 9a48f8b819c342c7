package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/httpresp"
	"github.com/salontid/salontid-api/internal/models"
)

type CustomerHandler struct {
	db *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

type CustomerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
}

func (h *CustomerHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ?", tenantID(c)).
		Order("first_name ASC")

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR phone LIKE ?",
			like, like, "%"+search+"%",
		)
	}

	var customers []models.Customer
	if err := q.Find(&customers).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, customers)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	var customer models.Customer
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND tenant_id = ?", uintParam(c, "id"), tenantID(c)).
		First(&customer).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, customer)
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var count int64
	h.db.Model(&models.Customer{}).
		Where("tenant_id = ? AND phone = ?", tenantID(c), req.Phone).
		Count(&count)
	if count > 0 {
		httperr.FromError(c, httperr.ErrBusiness("phone_already_exists"))
		return
	}

	customer := models.Customer{
		TenantID:  tenantID(c),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Notes:     req.Notes,
		Source:    "manual",
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&customer).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	var customer models.Customer
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND tenant_id = ?", uintParam(c, "id"), tenantID(c)).
		First(&customer).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	// A phone change must not collide with another customer in the tenant.
	if req.Phone != customer.Phone {
		var count int64
		h.db.Model(&models.Customer{}).
			Where("tenant_id = ? AND phone = ? AND id <> ?", tenantID(c), req.Phone, customer.ID).
			Count(&count)
		if count > 0 {
			httperr.FromError(c, httperr.ErrBusiness("phone_already_exists"))
			return
		}
	}

	customer.FirstName = req.FirstName
	customer.LastName = req.LastName
	customer.Phone = req.Phone
	customer.Email = strings.ToLower(strings.TrimSpace(req.Email))
	customer.Notes = req.Notes

	if err := h.db.WithContext(c.Request.Context()).Save(&customer).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, customer)
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND tenant_id = ?", uintParam(c, "id"), tenantID(c)).
		Delete(&models.Customer{})

	if res.Error != nil {
		httperr.FromError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "customer_not_found", "Kunden ble ikke funnet.")
		return
	}
	c.Status(http.StatusNoContent)
}
