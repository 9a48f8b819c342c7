package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/glebarez/sqlite"

	dbpkg "github.com/salontid/salontid-api/internal/db"
	"github.com/salontid/salontid-api/internal/models"
)

func TestCompute_PercentageCommission(t *testing.T) {
	res := Compute(Input{
		BaseSalary:     22000,
		CommissionType: CommissionPercentage,
		CommissionRate: 10,
		ServiceRevenue: 50000,
		Tips:           1000,
		Bonus:          500,
		TaxPct:         DefaultTaxPct,
		InsurancePct:   DefaultInsurancePct,
		PensionPct:     DefaultPensionPct,
	})

	assert.InDelta(t, 5000, res.Commission, 0.001)
	assert.InDelta(t, 28500, res.Gross, 0.001)

	// 25% + 2% + 2% of gross.
	assert.InDelta(t, 7125, res.TaxDeduction, 0.001)
	assert.InDelta(t, 570, res.InsuranceDeduction, 0.001)
	assert.InDelta(t, 570, res.PensionDeduction, 0.001)
	assert.InDelta(t, 8265, res.TotalDeductions, 0.001)
	assert.InDelta(t, 20235, res.Net, 0.001)
}

func TestCompute_FixedCommission(t *testing.T) {
	res := Compute(Input{
		BaseSalary:     20000,
		CommissionType: CommissionFixed,
		CommissionRate: 150,
		ServiceRevenue: 99999, // irrelevant for fixed
		CompletedCount: 40,
	})

	assert.InDelta(t, 6000, res.Commission, 0.001)
	assert.InDelta(t, 26000, res.Gross, 0.001)
}

func TestCompute_UnpaidLeaveDeduction(t *testing.T) {
	res := Compute(Input{
		BaseSalary:      22000,
		CommissionType:  CommissionPercentage,
		UnpaidLeaveDays: 3,
	})

	assert.InDelta(t, 1000, res.DailyRate, 0.001, "base over 22 working days")
	assert.InDelta(t, 3000, res.UnpaidLeaveDeduction, 0.001)
	assert.InDelta(t, 19000, res.Net, 0.001)
}

func TestLeaveDaysForMonth(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(gdb))

	loc := time.UTC
	day := func(d int) time.Time { return time.Date(2026, 6, d, 0, 0, 0, 0, loc) }

	leaves := []models.EmployeeLeave{
		// Fully inside June, approved unpaid: 3 days.
		{TenantID: "t1", EmployeeID: 1, LeaveType: "unpaid", Status: "approved", StartDate: day(10), EndDate: day(12)},
		// Straddles into July: only June 29-30 count.
		{TenantID: "t1", EmployeeID: 1, LeaveType: "sick", Status: "approved", StartDate: day(29), EndDate: time.Date(2026, 7, 3, 0, 0, 0, 0, loc)},
		// Pending leave is ignored.
		{TenantID: "t1", EmployeeID: 1, LeaveType: "unpaid", Status: "pending", StartDate: day(1), EndDate: day(5)},
		// Another employee's leave is ignored.
		{TenantID: "t1", EmployeeID: 2, LeaveType: "paid", Status: "approved", StartDate: day(1), EndDate: day(5)},
		// Paid leave, single day.
		{TenantID: "t1", EmployeeID: 1, LeaveType: "paid", Status: "approved", StartDate: day(15), EndDate: day(15)},
	}
	for i := range leaves {
		require.NoError(t, gdb.Create(&leaves[i]).Error)
	}

	summary, err := LeaveDaysForMonth(context.Background(), gdb, "t1", 1, 6, 2026, loc)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.UnpaidLeaveDays)
	assert.Equal(t, 2, summary.SickLeaveDays)
	assert.Equal(t, 1, summary.PaidLeaveDays)
	assert.Equal(t, 6, summary.TotalLeaveDays)
}

func TestOverlapDays(t *testing.T) {
	loc := time.UTC
	windowStart := time.Date(2026, 6, 1, 0, 0, 0, 0, loc)
	windowEnd := windowStart.AddDate(0, 1, 0)
	day := func(d int) time.Time { return time.Date(2026, 6, d, 0, 0, 0, 0, loc) }

	assert.Equal(t, 1, overlapDays(day(10), day(10), windowStart, windowEnd), "end date is inclusive")
	assert.Equal(t, 3, overlapDays(day(10), day(12), windowStart, windowEnd))
	assert.Equal(t, 2, overlapDays(day(29), time.Date(2026, 7, 3, 0, 0, 0, 0, loc), windowStart, windowEnd))
	assert.Equal(t, 0, overlapDays(time.Date(2026, 7, 1, 0, 0, 0, 0, loc), time.Date(2026, 7, 2, 0, 0, 0, 0, loc), windowStart, windowEnd))
}
