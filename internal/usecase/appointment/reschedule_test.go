package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/salontid/salontid-api/internal/domain/appointment"
	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/models"
)

// fakeRepo is an in-memory domain.Repository. Row locking is a no-op here;
// the locking behavior itself lives in the gorm repository.
type fakeRepo struct {
	tenant      *models.Tenant
	customers   map[uint]*models.Customer
	services    map[uint]*models.Service
	appointment *models.Appointment
	schedules   map[int]*models.EmployeeSchedule
	conflictErr error
	history     []models.AppointmentHistory
	apServices  []models.AppointmentService
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tenant: &models.Tenant{
			ID:                      "tenant-1",
			Name:                    "Salong Nord",
			Timezone:                "Europe/Oslo",
			CancellationWindowHours: 24,
		},
		customers: map[uint]*models.Customer{
			1: {ID: 1, TenantID: "tenant-1", FirstName: "Kari", Phone: "+4791234567"},
		},
		services: map[uint]*models.Service{},
		schedules: map[int]*models.EmployeeSchedule{
			// Every weekday, so tests control time without weekday surprises.
			0: allDay(0), 1: allDay(1), 2: allDay(2), 3: allDay(3),
			4: allDay(4), 5: allDay(5), 6: allDay(6),
		},
	}
}

func allDay(weekday int) *models.EmployeeSchedule {
	return &models.EmployeeSchedule{
		Weekday:   weekday,
		StartTime: "08:00",
		EndTime:   "20:00",
		IsActive:  true,
	}
}

func (f *fakeRepo) GetTenantByID(_ context.Context, id string) (*models.Tenant, error) {
	if f.tenant != nil && f.tenant.ID == id {
		return f.tenant, nil
	}
	return nil, httperr.ErrBusiness("invalid_request")
}

func (f *fakeRepo) GetCustomer(_ context.Context, tenantID string, id uint) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok || c.TenantID != tenantID {
		return nil, httperr.ErrBusinessMsg("customer_not_found", "Customer not found")
	}
	return c, nil
}

func (f *fakeRepo) GetService(_ context.Context, tenantID string, id uint) (*models.Service, error) {
	s, ok := f.services[id]
	if !ok || s.TenantID != tenantID {
		return nil, httperr.ErrBusiness("invalid_request")
	}
	return s, nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, tenantID string, id uint) (*models.Appointment, error) {
	if f.appointment == nil || f.appointment.ID != id || f.appointment.TenantID != tenantID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return f.appointment, nil
}

func (f *fakeRepo) GetAppointmentForUpdate(ctx context.Context, tenantID string, id uint) (*models.Appointment, error) {
	return f.GetAppointment(ctx, tenantID, id)
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = 1
	f.appointment = ap
	return nil
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	f.appointment = ap
	return nil
}

func (f *fakeRepo) AssertNoTimeConflict(context.Context, uint, time.Time, string, string, uint) error {
	return f.conflictErr
}

func (f *fakeRepo) ListAppointmentServices(context.Context, uint) ([]models.AppointmentService, error) {
	return f.apServices, nil
}

func (f *fakeRepo) AddAppointmentService(_ context.Context, as *models.AppointmentService) error {
	f.apServices = append(f.apServices, *as)
	return nil
}

func (f *fakeRepo) ListAppointmentsForPeriod(context.Context, string, uint, time.Time, time.Time) ([]models.Appointment, error) {
	if f.appointment == nil {
		return nil, nil
	}
	return []models.Appointment{*f.appointment}, nil
}

func (f *fakeRepo) GetSchedule(_ context.Context, _ uint, weekday int) (*models.EmployeeSchedule, error) {
	s, ok := f.schedules[weekday]
	if !ok {
		return nil, httperr.ErrBusiness("invalid_request")
	}
	return s, nil
}

func (f *fakeRepo) AddHistory(_ context.Context, h *models.AppointmentHistory) error {
	f.history = append(f.history, *h)
	return nil
}

func (f *fakeRepo) Transaction(_ context.Context, fn func(domain.Repository) error) error {
	return fn(f)
}

var _ domain.Repository = (*fakeRepo)(nil)

// --------------------------------------------------

func futureAppointment(daysAhead int) *models.Appointment {
	day := time.Now().AddDate(0, 0, daysAhead)
	return &models.Appointment{
		ID:         10,
		TenantID:   "tenant-1",
		CustomerID: 1,
		EmployeeID: 2,
		Date:       time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00",
		EndTime:    "10:45",
		Status:     "confirmed",
	}
}

func rescheduleInput(daysAhead int, hm string) RescheduleInput {
	return RescheduleInput{
		TenantID:      "tenant-1",
		AppointmentID: 10,
		CustomerID:    1,
		NewDate:       time.Now().AddDate(0, 0, daysAhead).Format("2006-01-02"),
		NewTime:       hm,
		Channel:       "web",
	}
}

func TestReschedule_HappyPath(t *testing.T) {
	repo := newFakeRepo()
	repo.appointment = futureAppointment(7)
	uc := NewRescheduleAppointment(repo, nil, zap.NewNop())

	ap, err := uc.Execute(context.Background(), rescheduleInput(9, "14:00"))
	require.NoError(t, err)

	assert.Equal(t, "14:00", ap.StartTime)
	assert.Equal(t, "14:45", ap.EndTime, "original 45 minute duration is kept")
	assert.Equal(t, 1, ap.RescheduleCount)

	require.Len(t, repo.history, 1)
	assert.Equal(t, "rescheduled", repo.history[0].Action)
	assert.Equal(t, "web", repo.history[0].Channel)
	assert.Contains(t, repo.history[0].NewValue, "14:00")
}

func TestReschedule_PastTimeRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.appointment = futureAppointment(7)
	uc := NewRescheduleAppointment(repo, nil, zap.NewNop())

	_, err := uc.Execute(context.Background(), rescheduleInput(-1, "14:00"))
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "past_time"))
	assert.Equal(t, 0, repo.appointment.RescheduleCount)
}

func TestReschedule_WithinCancellationWindow(t *testing.T) {
	repo := newFakeRepo()
	ap := futureAppointment(0)
	// Starts in a few hours, well inside the 24 hour window.
	ap.Date = time.Now().Add(3 * time.Hour)
	ap.StartTime = time.Now().Add(3 * time.Hour).Format("15:04")
	repo.appointment = ap
	uc := NewRescheduleAppointment(repo, nil, zap.NewNop())

	_, err := uc.Execute(context.Background(), rescheduleInput(9, "14:00"))
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "within_cancellation_window"))
}

func TestReschedule_OutsideWorkingHours(t *testing.T) {
	repo := newFakeRepo()
	repo.appointment = futureAppointment(7)
	uc := NewRescheduleAppointment(repo, nil, zap.NewNop())

	_, err := uc.Execute(context.Background(), rescheduleInput(9, "21:00"))
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"))
}

func TestReschedule_TimeConflict(t *testing.T) {
	repo := newFakeRepo()
	repo.appointment = futureAppointment(7)
	repo.conflictErr = httperr.ErrBusiness("time_conflict")
	uc := NewRescheduleAppointment(repo, nil, zap.NewNop())

	_, err := uc.Execute(context.Background(), rescheduleInput(9, "14:00"))
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))
}

func TestReschedule_CapEnforced(t *testing.T) {
	repo := newFakeRepo()
	repo.appointment = futureAppointment(7)
	uc := NewRescheduleAppointment(repo, nil, zap.NewNop())

	_, err := uc.Execute(context.Background(), rescheduleInput(9, "11:00"))
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), rescheduleInput(10, "12:00"))
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), rescheduleInput(11, "13:00"))
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "reschedule_limit_reached"))
	assert.Equal(t, 2, repo.appointment.RescheduleCount)
}

func TestReschedule_CanceledAppointment(t *testing.T) {
	repo := newFakeRepo()
	ap := futureAppointment(7)
	ap.Status = "canceled"
	repo.appointment = ap
	uc := NewRescheduleAppointment(repo, nil, zap.NewNop())

	_, err := uc.Execute(context.Background(), rescheduleInput(9, "14:00"))
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
	assert.Contains(t, err.Error(), "Cannot reschedule a canceled appointment")
}

func TestReschedule_UnknownCustomer(t *testing.T) {
	repo := newFakeRepo()
	repo.appointment = futureAppointment(7)
	uc := NewRescheduleAppointment(repo, nil, zap.NewNop())

	in := rescheduleInput(9, "14:00")
	in.CustomerID = 99

	_, err := uc.Execute(context.Background(), in)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "customer_not_found"))
	assert.Contains(t, err.Error(), "Customer not found")
}

func TestReschedule_ForeignCustomerSeesNotFound(t *testing.T) {
	repo := newFakeRepo()
	repo.appointment = futureAppointment(7)
	// Customer 2 exists in the tenant but does not own the appointment.
	repo.customers[2] = &models.Customer{ID: 2, TenantID: "tenant-1", FirstName: "Ola"}
	uc := NewRescheduleAppointment(repo, nil, zap.NewNop())

	in := rescheduleInput(9, "14:00")
	in.CustomerID = 2

	_, err := uc.Execute(context.Background(), in)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}
