package payroll

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/models"
	"github.com/salontid/salontid-api/internal/timezone"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type EmployeePayroll struct {
	EmployeeID   uint   `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Month        int    `json:"month"`
	Year         int    `json:"year"`

	Leave LeaveSummary `json:"leave"`
	Result
}

// ComputeForEmployee pulls the month's completed-appointment revenue and
// leave days and runs the arithmetic.
func (s *Service) ComputeForEmployee(
	ctx context.Context,
	tenantID string,
	employeeID uint,
	month int,
	year int,
	tips float64,
	bonus float64,
) (*EmployeePayroll, error) {

	var employee models.User
	if err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", employeeID, tenantID).
		First(&employee).Error; err != nil {
		return nil, err
	}

	var tenant models.Tenant
	if err := s.db.WithContext(ctx).
		Where("id = ?", tenantID).
		First(&tenant).Error; err != nil {
		return nil, err
	}

	loc := timezone.Location(tenant.Timezone)
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var revenue float64
	var completed int64

	if err := s.db.WithContext(ctx).
		Model(&models.AppointmentService{}).
		Joins("JOIN appointments ON appointments.id = appointment_services.appointment_id").
		Where(
			"appointments.tenant_id = ? AND appointments.employee_id = ? AND appointments.status = ? AND appointments.date >= ? AND appointments.date < ?",
			tenantID, employeeID, "completed", monthStart, monthEnd,
		).
		Select("COALESCE(SUM(appointment_services.price), 0)").
		Scan(&revenue).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"tenant_id = ? AND employee_id = ? AND status = ? AND date >= ? AND date < ?",
			tenantID, employeeID, "completed", monthStart, monthEnd,
		).
		Count(&completed).Error; err != nil {
		return nil, err
	}

	leave, err := LeaveDaysForMonth(ctx, s.db, tenantID, employeeID, month, year, loc)
	if err != nil {
		return nil, err
	}

	result := Compute(Input{
		BaseSalary:      employee.BaseSalary,
		CommissionType:  employee.CommissionType,
		CommissionRate:  employee.CommissionRate,
		ServiceRevenue:  revenue,
		CompletedCount:  int(completed),
		Tips:            tips,
		Bonus:           bonus,
		TaxPct:          DefaultTaxPct,
		InsurancePct:    DefaultInsurancePct,
		PensionPct:      DefaultPensionPct,
		UnpaidLeaveDays: leave.UnpaidLeaveDays,
	})

	return &EmployeePayroll{
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		Month:        month,
		Year:         year,
		Leave:        leave,
		Result:       result,
	}, nil
}
