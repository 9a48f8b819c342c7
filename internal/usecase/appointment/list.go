package appointment

import (
	"context"
	"time"

	domain "github.com/salontid/salontid-api/internal/domain/appointment"
	"github.com/salontid/salontid-api/internal/models"
	"github.com/salontid/salontid-api/internal/timezone"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// ByDate returns one day's appointments, optionally filtered by employee.
func (uc *ListAppointments) ByDate(
	ctx context.Context,
	tenantID string,
	employeeID uint,
	dateStr string,
) ([]models.Appointment, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(tenant.Timezone)
	day, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return nil, err
	}

	return uc.repo.ListAppointmentsForPeriod(
		ctx, tenantID, employeeID, day, day.AddDate(0, 0, 1),
	)
}

// ByMonth returns a whole month for the calendar view.
func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	tenantID string,
	employeeID uint,
	year int,
	month int,
) ([]models.Appointment, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(tenant.Timezone)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)

	return uc.repo.ListAppointmentsForPeriod(
		ctx, tenantID, employeeID, start, start.AddDate(0, 1, 0),
	)
}
