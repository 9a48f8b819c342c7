package appointment

import (
	"context"
	"fmt"
	"time"

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

type RescheduleInput struct {
	TenantID      string
	AppointmentID uint
	CustomerID    uint

	NewDate string // "2006-01-02"
	NewTime string // "15:04"
	Channel string // "web", "sms", "admin"
}

// ======================================================
// USE CASE
// ======================================================

type RescheduleAppointment struct {
	repo     domain.Repository
	notifier *notify.Dispatcher
	log      *zap.Logger
}

func NewRescheduleAppointment(
	repo domain.Repository,
	notifier *notify.Dispatcher,
	log *zap.Logger,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

// Execute moves an appointment to a new date/time. The constraint re-check
// and the write run inside one transaction with the appointment row locked,
// so two concurrent reschedules cannot both pass validation.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
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

	var ap *models.Appointment

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {

		ap, err = tx.GetAppointmentForUpdate(ctx, in.TenantID, in.AppointmentID)
		if err != nil {
			return httperr.ErrBusiness("appointment_not_found")
		}

		if ap.CustomerID != customer.ID {
			return httperr.ErrBusiness("appointment_not_found")
		}

		if err := domain.CanReschedule(domain.Status(ap.Status), ap.RescheduleCount); err != nil {
			return err
		}

		newDate, err := time.ParseInLocation("2006-01-02", in.NewDate, loc)
		if err != nil {
			return httperr.ErrBusiness("invalid_request")
		}
		if _, err := time.Parse("15:04", in.NewTime); err != nil {
			return httperr.ErrBusiness("invalid_request")
		}

		newStart := domain.CombineDateTime(newDate, in.NewTime, loc)
		if err := domain.ValidateFuture(newStart, now); err != nil {
			return err
		}

		currentStart := domain.StartAt(ap, loc)
		if err := domain.ValidateCancellationWindow(
			currentStart,
			now,
			tenant.CancellationWindowHours,
		); err != nil {
			return err
		}

		// Keep the original duration.
		durationMin := durationMinutes(ap.StartTime, ap.EndTime)
		newEndHM := domain.AddMinutes(in.NewTime, durationMin)

		sched, err := tx.GetSchedule(ctx, ap.EmployeeID, int(newStart.Weekday()))
		if err != nil {
			sched = nil // no schedule row means not working that day
		}
		if err := domain.WithinSchedule(sched, in.NewTime, newEndHM); err != nil {
			return err
		}

		if err := tx.AssertNoTimeConflict(
			ctx,
			ap.EmployeeID,
			newDate,
			in.NewTime,
			newEndHM,
			ap.ID,
		); err != nil {
			return err
		}

		oldValue := fmt.Sprintf("%s %s", ap.Date.Format("2006-01-02"), ap.StartTime)
		newValue := fmt.Sprintf("%s %s", in.NewDate, in.NewTime)

		ap.Date = newDate
		ap.StartTime = in.NewTime
		ap.EndTime = newEndHM
		ap.RescheduleCount++

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		return tx.AddHistory(ctx, &models.AppointmentHistory{
			TenantID:      in.TenantID,
			AppointmentID: ap.ID,
			ChangedBy:     customer.ID,
			Action:        "rescheduled",
			OldValue:      oldValue,
			NewValue:      newValue,
			Channel:       in.Channel,
		})
	})
	if err != nil {
		return nil, err
	}

	// Best effort: a failed notification must never fail the reschedule.
	if uc.notifier != nil {
		uc.notifier.Dispatch(notify.Message{
			TenantID: in.TenantID,
			Phone:    customer.Phone,
			Email:    customer.Email,
			Subject:  fmt.Sprintf("Timen din hos %s er flyttet", tenant.Name),
			Body: fmt.Sprintf(
				"Hei %s! Timen din hos %s er flyttet til %s kl. %s.",
				customer.FirstName, tenant.Name, in.NewDate, in.NewTime,
			),
		})
	}

	uc.log.Info("appointment rescheduled",
		zap.String("tenant_id", in.TenantID),
		zap.Uint("appointment_id", ap.ID),
		zap.Int("reschedule_count", ap.RescheduleCount),
	)

	return ap, nil
}

func durationMinutes(startHM, endHM string) int {
	s, err1 := time.Parse("15:04", startHM)
	e, err2 := time.Parse("15:04", endHM)
	if err1 != nil || err2 != nil || !e.After(s) {
		return 30
	}
	return int(e.Sub(s) / time.Minute)
}
