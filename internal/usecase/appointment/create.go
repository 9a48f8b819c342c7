package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/salontid/salontid-api/internal/domain/appointment"
	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/models"
	"github.com/salontid/salontid-api/internal/notify"
	"github.com/salontid/salontid-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	TenantID   string
	CustomerID uint
	EmployeeID uint
	ServiceIDs []uint

	Date string // "2006-01-02"
	Time string // "15:04"

	Notes   string
	Channel string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	notifier *notify.Dispatcher
	log      *zap.Logger
}

func NewCreateAppointment(
	repo domain.Repository,
	notifier *notify.Dispatcher,
	log *zap.Logger,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateInput,
) (*models.Appointment, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(tenant.Timezone)
	now := timezone.NowIn(tenant.Timezone)

	customer, err := uc.repo.GetCustomer(ctx, in.TenantID, in.CustomerID)
	if err != nil {
		return nil, httperr.ErrBusinessMsg("customer_not_found", "Customer not found")
	}

	if len(in.ServiceIDs) == 0 {
		return nil, httperr.ErrBusiness("invalid_request")
	}

	var picked []*models.Service
	var durationMin int
	for _, id := range in.ServiceIDs {
		svc, err := uc.repo.GetService(ctx, in.TenantID, id)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_request")
		}
		picked = append(picked, svc)
		durationMin += svc.DurationMinutes
	}

	date, err := time.ParseInLocation("2006-01-02", in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_request")
	}
	if _, err := time.Parse("15:04", in.Time); err != nil {
		return nil, httperr.ErrBusiness("invalid_request")
	}

	start := domain.CombineDateTime(date, in.Time, loc)
	if err := domain.ValidateFuture(start, now); err != nil {
		return nil, err
	}

	endHM := domain.AddMinutes(in.Time, durationMin)

	sched, err := uc.repo.GetSchedule(ctx, in.EmployeeID, int(start.Weekday()))
	if err != nil {
		sched = nil
	}
	if err := domain.WithinSchedule(sched, in.Time, endHM); err != nil {
		return nil, err
	}

	var ap *models.Appointment

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {

		if err := tx.AssertNoTimeConflict(
			ctx, in.EmployeeID, date, in.Time, endHM, 0,
		); err != nil {
			return err
		}

		ap = &models.Appointment{
			TenantID:        in.TenantID,
			CustomerID:      customer.ID,
			EmployeeID:      in.EmployeeID,
			Date:            date,
			StartTime:       in.Time,
			EndTime:         endHM,
			Status:          string(domain.InitialStatus()),
			RescheduleCount: 0,
			ManagementToken: uuid.NewString(),
			Notes:           in.Notes,
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		for _, svc := range picked {
			if err := tx.AddAppointmentService(ctx, &models.AppointmentService{
				AppointmentID: ap.ID,
				ServiceID:     svc.ID,
				Price:         svc.Price,
			}); err != nil {
				return err
			}
		}

		return tx.AddHistory(ctx, &models.AppointmentHistory{
			TenantID:      in.TenantID,
			AppointmentID: ap.ID,
			ChangedBy:     customer.ID,
			Action:        "created",
			NewValue:      fmt.Sprintf("%s %s", in.Date, in.Time),
			Channel:       in.Channel,
		})
	})
	if err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		uc.notifier.Dispatch(notify.Message{
			TenantID: in.TenantID,
			Phone:    customer.Phone,
			Email:    customer.Email,
			Subject:  fmt.Sprintf("Timebekreftelse fra %s", tenant.Name),
			Body: fmt.Sprintf(
				"Hei %s! Timen din hos %s er booket %s kl. %s.",
				customer.FirstName, tenant.Name, in.Date, in.Time,
			),
		})
	}

	uc.log.Info("appointment created",
		zap.String("tenant_id", in.TenantID),
		zap.Uint("appointment_id", ap.ID),
	)

	return ap, nil
}
