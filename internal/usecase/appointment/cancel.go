package appointment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/salontid/salontid-api/internal/domain/appointment"
	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/models"
	"github.com/salontid/salontid-api/internal/notify"
	"github.com/salontid/salontid-api/internal/timezone"
)

type CancelInput struct {
	TenantID      string
	AppointmentID uint
	ActorID       uint
	Channel       string
}

type CancelAppointment struct {
	repo     domain.Repository
	notifier *notify.Dispatcher
	log      *zap.Logger
}

func NewCancelAppointment(
	repo domain.Repository,
	notifier *notify.Dispatcher,
	log *zap.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelInput,
) (*models.Appointment, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(tenant.Timezone)
	now := timezone.NowIn(tenant.Timezone)

	var ap *models.Appointment

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {

		ap, err = tx.GetAppointmentForUpdate(ctx, in.TenantID, in.AppointmentID)
		if err != nil {
			return httperr.ErrBusiness("appointment_not_found")
		}

		if err := domain.ValidateCancellationWindow(
			domain.StartAt(ap, loc),
			now,
			tenant.CancellationWindowHours,
		); err != nil {
			return err
		}

		oldStatus := ap.Status
		if err := domain.Cancel(ap, now); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		return tx.AddHistory(ctx, &models.AppointmentHistory{
			TenantID:      in.TenantID,
			AppointmentID: ap.ID,
			ChangedBy:     in.ActorID,
			Action:        "canceled",
			OldValue:      oldStatus,
			NewValue:      string(domain.StatusCanceled),
			Channel:       in.Channel,
		})
	})
	if err != nil {
		return nil, err
	}

	if customer, cerr := uc.repo.GetCustomer(ctx, in.TenantID, ap.CustomerID); cerr == nil && uc.notifier != nil {
		uc.notifier.Dispatch(notify.Message{
			TenantID: in.TenantID,
			Phone:    customer.Phone,
			Email:    customer.Email,
			Subject:  fmt.Sprintf("Timen din hos %s er avlyst", tenant.Name),
			Body: fmt.Sprintf(
				"Hei %s! Timen din hos %s den %s kl. %s er avlyst.",
				customer.FirstName, tenant.Name, ap.Date.Format("2006-01-02"), ap.StartTime,
			),
		})
	}

	uc.log.Info("appointment canceled",
		zap.String("tenant_id", in.TenantID),
		zap.Uint("appointment_id", ap.ID),
	)

	return ap, nil
}
