package payroll

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/models"
)

// LeaveSummary tallies approved leave days that overlap the target month.
type LeaveSummary struct {
	PaidLeaveDays   int `json:"paid_leave_days"`
	SickLeaveDays   int `json:"sick_leave_days"`
	UnpaidLeaveDays int `json:"unpaid_leave_days"`
	TotalLeaveDays  int `json:"total_leave_days"`
}

// LeaveDaysForMonth clamps each approved leave range to the month and counts
// the overlapping days per type. Sick leave is tracked separately; unpaid
// leave feeds the payroll deduction.
func LeaveDaysForMonth(
	ctx context.Context,
	db *gorm.DB,
	tenantID string,
	employeeID uint,
	month int,
	year int,
	loc *time.Location,
) (LeaveSummary, error) {

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var leaves []models.EmployeeLeave
	if err := db.WithContext(ctx).
		Where(
			"tenant_id = ? AND employee_id = ? AND status = ? AND start_date < ? AND end_date >= ?",
			tenantID, employeeID, "approved", monthEnd, monthStart,
		).
		Find(&leaves).Error; err != nil {
		return LeaveSummary{}, err
	}

	var summary LeaveSummary
	for _, leave := range leaves {
		days := overlapDays(leave.StartDate, leave.EndDate, monthStart, monthEnd)
		if days <= 0 {
			continue
		}

		switch leave.LeaveType {
		case "unpaid":
			summary.UnpaidLeaveDays += days
		case "sick":
			summary.SickLeaveDays += days
		default: // paid
			summary.PaidLeaveDays += days
		}
		summary.TotalLeaveDays += days
	}

	return summary, nil
}

// overlapDays counts calendar days of [start, end] (inclusive) that fall in
// [windowStart, windowEnd).
func overlapDays(start, end, windowStart, windowEnd time.Time) int {
	if start.Before(windowStart) {
		start = windowStart
	}
	// Leave end dates are inclusive.
	endExclusive := end.AddDate(0, 0, 1)
	if endExclusive.After(windowEnd) {
		endExclusive = windowEnd
	}
	if !endExclusive.After(start) {
		return 0
	}
	return int(endExclusive.Sub(start).Hours() / 24)
}
