package appointment

import (
	"context"
	"time"

	"github.com/salontid/salontid-api/internal/models"
)

type Repository interface {
	// -------- Tenant --------
	GetTenantByID(
		ctx context.Context,
		id string,
	) (*models.Tenant, error)

	// -------- Customer --------
	GetCustomer(
		ctx context.Context,
		tenantID string,
		customerID uint,
	) (*models.Customer, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		tenantID string,
		serviceID uint,
	) (*models.Service, error)

	// -------- Appointment --------
	GetAppointment(
		ctx context.Context,
		tenantID string,
		appointmentID uint,
	) (*models.Appointment, error)

	// GetAppointmentForUpdate locks the row for the duration of the
	// surrounding transaction.
	GetAppointmentForUpdate(
		ctx context.Context,
		tenantID string,
		appointmentID uint,
	) (*models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	AssertNoTimeConflict(
		ctx context.Context,
		employeeID uint,
		date time.Time,
		startHM string,
		endHM string,
		excludeAppointmentID uint,
	) error

	ListAppointmentServices(
		ctx context.Context,
		appointmentID uint,
	) ([]models.AppointmentService, error)

	AddAppointmentService(
		ctx context.Context,
		as *models.AppointmentService,
	) error

	ListAppointmentsForPeriod(
		ctx context.Context,
		tenantID string,
		employeeID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Working hours --------
	GetSchedule(
		ctx context.Context,
		employeeID uint,
		weekday int,
	) (*models.EmployeeSchedule, error)

	// -------- History --------
	AddHistory(
		ctx context.Context,
		h *models.AppointmentHistory,
	) error

	// -------- Transaction --------
	// Transaction runs fn against a repository bound to a database
	// transaction; returning an error rolls everything back.
	Transaction(
		ctx context.Context,
		fn func(Repository) error,
	) error
}
