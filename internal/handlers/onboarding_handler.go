package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/httpresp"
	"github.com/salontid/salontid-api/internal/models"
)

type OnboardingHandler struct {
	db *gorm.DB
}

func NewOnboardingHandler(db *gorm.DB) *OnboardingHandler {
	return &OnboardingHandler{db: db}
}

// defaultServices is the starter catalogue a fresh salon gets.
var defaultServices = []models.Service{
	{Name: "Klipp dame", DurationMinutes: 45, Price: 595, IsActive: true},
	{Name: "Klipp herre", DurationMinutes: 30, Price: 445, IsActive: true},
	{Name: "Farge", DurationMinutes: 90, Price: 1295, IsActive: true},
	{Name: "Striper", DurationMinutes: 120, Price: 1695, IsActive: true},
	{Name: "Føn og styling", DurationMinutes: 30, Price: 395, IsActive: true},
}

// Complete seeds the tenant's starter data: the default service catalogue
// and Monday-to-Friday 09-17 schedules for every employee, then marks the
// tenant onboarded. Running it twice only fills in what is missing.
func (h *OnboardingHandler) Complete(c *gin.Context) {
	ctx := c.Request.Context()
	tid := tenantID(c)

	var tenant models.Tenant
	if err := h.db.WithContext(ctx).Where("id = ?", tid).First(&tenant).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var serviceCount int64
		if err := tx.Model(&models.Service{}).
			Where("tenant_id = ?", tid).
			Count(&serviceCount).Error; err != nil {
			return err
		}

		if serviceCount == 0 {
			for _, svc := range defaultServices {
				svc.TenantID = tid
				if err := tx.Create(&svc).Error; err != nil {
					return err
				}
			}
		}

		var employees []models.User
		if err := tx.Where("tenant_id = ?", tid).Find(&employees).Error; err != nil {
			return err
		}

		for _, emp := range employees {
			var schedCount int64
			if err := tx.Model(&models.EmployeeSchedule{}).
				Where("employee_id = ?", emp.ID).
				Count(&schedCount).Error; err != nil {
				return err
			}
			if schedCount > 0 {
				continue
			}

			// Monday (1) through Friday (5), 09:00 to 17:00.
			for weekday := 1; weekday <= 5; weekday++ {
				if err := tx.Create(&models.EmployeeSchedule{
					EmployeeID: emp.ID,
					Weekday:    weekday,
					StartTime:  "09:00",
					EndTime:    "17:00",
					IsActive:   true,
				}).Error; err != nil {
					return err
				}
			}
		}

		return tx.Model(&tenant).Update("onboarding_completed", true).Error
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "onboarding_completed"})
}
