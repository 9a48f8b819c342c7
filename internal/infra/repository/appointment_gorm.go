package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/salontid/salontid-api/internal/domain/appointment"
	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *AppointmentGormRepository) GetTenantByID(
	ctx context.Context,
	id string,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *AppointmentGormRepository) GetCustomer(
	ctx context.Context,
	tenantID string,
	customerID uint,
) (*models.Customer, error) {

	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", customerID, tenantID).
		First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	tenantID string,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", serviceID, tenantID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	tenantID string,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", appointmentID, tenantID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentForUpdate(
	ctx context.Context,
	tenantID string,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND tenant_id = ?", appointmentID, tenantID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) AssertNoTimeConflict(
	ctx context.Context,
	employeeID uint,
	date time.Time,
	startHM string,
	endHM string,
	excludeAppointmentID uint,
) error {

	var count int64
	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"employee_id = ? AND date = ? AND status IN ('pending', 'confirmed') AND start_time < ? AND end_time > ?",
			employeeID,
			date,
			endHM,
			startHM,
		)

	if excludeAppointmentID != 0 {
		q = q.Where("id <> ?", excludeAppointmentID)
	}

	if err := q.Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return httperr.ErrBusiness("time_conflict")
	}

	return nil
}

func (r *AppointmentGormRepository) ListAppointmentServices(
	ctx context.Context,
	appointmentID uint,
) ([]models.AppointmentService, error) {

	var services []models.AppointmentService
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("appointment_id = ?", appointmentID).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *AppointmentGormRepository) AddAppointmentService(
	ctx context.Context,
	as *models.AppointmentService,
) error {
	return r.db.WithContext(ctx).Create(as).Error
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	tenantID string,
	employeeID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Where(
			"tenant_id = ? AND date >= ? AND date < ?",
			tenantID, start, end,
		)

	if employeeID != 0 {
		q = q.Where("employee_id = ?", employeeID)
	}

	if err := q.
		Order("date ASC, start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *AppointmentGormRepository) GetSchedule(
	ctx context.Context,
	employeeID uint,
	weekday int,
) (*models.EmployeeSchedule, error) {

	var sched models.EmployeeSchedule
	if err := r.db.WithContext(ctx).
		Where("employee_id = ? AND weekday = ?", employeeID, weekday).
		First(&sched).Error; err != nil {
		return nil, err
	}
	return &sched, nil
}

// --------------------------------------------------
// History
// --------------------------------------------------

func (r *AppointmentGormRepository) AddHistory(
	ctx context.Context,
	h *models.AppointmentHistory,
) error {
	return r.db.WithContext(ctx).Create(h).Error
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
