package payroll

// Default deduction percentages applied when the tenant has not configured
// its own rates.
const (
	DefaultTaxPct       = 25.0
	DefaultInsurancePct = 2.0
	DefaultPensionPct   = 2.0

	// WorkingDaysPerMonth is the divisor for the daily rate used by the
	// unpaid-leave deduction.
	WorkingDaysPerMonth = 22
)

const (
	CommissionPercentage = "percentage"
	CommissionFixed      = "fixed"
)

// Input gathers everything the computation needs; the Service fills it from
// queries, tests fill it directly.
type Input struct {
	BaseSalary     float64
	CommissionType string
	CommissionRate float64

	// Revenue of the employee's completed appointments in the period.
	ServiceRevenue float64
	// Number of completed appointments (used by fixed commission).
	CompletedCount int

	Tips  float64
	Bonus float64

	TaxPct       float64
	InsurancePct float64
	PensionPct   float64

	UnpaidLeaveDays int
}

type Result struct {
	Commission float64 `json:"commission"`
	Gross      float64 `json:"gross"`

	DailyRate            float64 `json:"daily_rate"`
	UnpaidLeaveDeduction float64 `json:"unpaid_leave_deduction"`
	TaxDeduction         float64 `json:"tax_deduction"`
	InsuranceDeduction   float64 `json:"insurance_deduction"`
	PensionDeduction     float64 `json:"pension_deduction"`
	TotalDeductions      float64 `json:"total_deductions"`

	Net float64 `json:"net"`
}

// Compute is plain arithmetic over already-fetched figures. Commission is a
// percentage of completed service revenue, or a fixed amount per completed
// appointment.
func Compute(in Input) Result {
	var commission float64
	switch in.CommissionType {
	case CommissionFixed:
		commission = in.CommissionRate * float64(in.CompletedCount)
	default:
		commission = in.ServiceRevenue * in.CommissionRate / 100
	}

	gross := in.BaseSalary + commission + in.Tips + in.Bonus

	dailyRate := in.BaseSalary / WorkingDaysPerMonth
	unpaidDeduction := dailyRate * float64(in.UnpaidLeaveDays)

	tax := gross * in.TaxPct / 100
	insurance := gross * in.InsurancePct / 100
	pension := gross * in.PensionPct / 100

	total := tax + insurance + pension + unpaidDeduction

	return Result{
		Commission:           commission,
		Gross:                gross,
		DailyRate:            dailyRate,
		UnpaidLeaveDeduction: unpaidDeduction,
		TaxDeduction:         tax,
		InsuranceDeduction:   insurance,
		PensionDeduction:     pension,
		TotalDeductions:      total,
		Net:                  gross - total,
	}
}
