package appointment

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/salontid/salontid-api/internal/domain/appointment"
	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/models"
)

type ConfirmInput struct {
	TenantID      string
	AppointmentID uint
	ActorID       uint
	Channel       string
}

type ConfirmAppointment struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewConfirmAppointment(repo domain.Repository, log *zap.Logger) *ConfirmAppointment {
	return &ConfirmAppointment{repo: repo, log: log}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	in ConfirmInput,
) (*models.Appointment, error) {

	var ap *models.Appointment
	var err error

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {

		ap, err = tx.GetAppointmentForUpdate(ctx, in.TenantID, in.AppointmentID)
		if err != nil {
			return httperr.ErrBusiness("appointment_not_found")
		}

		oldStatus := ap.Status
		if err := domain.Confirm(ap); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		return tx.AddHistory(ctx, &models.AppointmentHistory{
			TenantID:      in.TenantID,
			AppointmentID: ap.ID,
			ChangedBy:     in.ActorID,
			Action:        "confirmed",
			OldValue:      oldStatus,
			NewValue:      string(domain.StatusConfirmed),
			Channel:       in.Channel,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("appointment confirmed",
		zap.String("tenant_id", in.TenantID),
		zap.Uint("appointment_id", ap.ID),
	)

	return ap, nil
}
