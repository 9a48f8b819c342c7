package appointment

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/salontid/salontid-api/internal/domain/appointment"
	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/models"
	"github.com/salontid/salontid-api/internal/timezone"
)

// LoyaltyAccruer credits points when an appointment completes.
type LoyaltyAccruer interface {
	AccrueForAppointment(
		ctx context.Context,
		tenantID string,
		customerID uint,
		appointmentID uint,
		amount float64,
	) error
}

type CompleteInput struct {
	TenantID      string
	AppointmentID uint
	ActorID       uint
	Channel       string
}

type CompleteAppointment struct {
	repo    domain.Repository
	loyalty LoyaltyAccruer
	log     *zap.Logger
}

func NewCompleteAppointment(
	repo domain.Repository,
	loyalty LoyaltyAccruer,
	log *zap.Logger,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:    repo,
		loyalty: loyalty,
		log:     log,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	in CompleteInput,
) (*models.Appointment, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(tenant.Timezone)

	var ap *models.Appointment

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {

		ap, err = tx.GetAppointmentForUpdate(ctx, in.TenantID, in.AppointmentID)
		if err != nil {
			return httperr.ErrBusiness("appointment_not_found")
		}

		oldStatus := ap.Status
		if err := domain.Complete(ap, now); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		return tx.AddHistory(ctx, &models.AppointmentHistory{
			TenantID:      in.TenantID,
			AppointmentID: ap.ID,
			ChangedBy:     in.ActorID,
			Action:        "completed",
			OldValue:      oldStatus,
			NewValue:      string(domain.StatusCompleted),
			Channel:       in.Channel,
		})
	})
	if err != nil {
		return nil, err
	}

	// Loyalty accrual is a side effect; its failure never undoes the
	// completion.
	if uc.loyalty != nil {
		services, serr := uc.repo.ListAppointmentServices(ctx, ap.ID)
		if serr == nil {
			var total float64
			for _, s := range services {
				total += s.Price
			}
			if aerr := uc.loyalty.AccrueForAppointment(
				ctx, in.TenantID, ap.CustomerID, ap.ID, total,
			); aerr != nil {
				uc.log.Error("loyalty accrual failed",
					zap.String("tenant_id", in.TenantID),
					zap.Uint("appointment_id", ap.ID),
					zap.Error(aerr),
				)
			}
		}
	}

	uc.log.Info("appointment completed",
		zap.String("tenant_id", in.TenantID),
		zap.Uint("appointment_id", ap.ID),
	)

	return ap, nil
}
