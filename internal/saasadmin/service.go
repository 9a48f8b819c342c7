package saasadmin

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/auth"
	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/models"
)

// Service is the platform back office: tenant lifecycle, trial handling,
// impersonation and the permanent-delete cascade.
type Service struct {
	db     *gorm.DB
	tokens *auth.RefreshTokenService
	log    *zap.Logger
}

func NewService(db *gorm.DB, tokens *auth.RefreshTokenService, log *zap.Logger) *Service {
	return &Service{db: db, tokens: tokens, log: log}
}

func (s *Service) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// SetStatus handles suspend / reactivate / cancel. Suspension also revokes
// every refresh token the tenant's users hold.
func (s *Service) SetStatus(ctx context.Context, tenantID string, status models.TenantStatus) error {
	switch status {
	case models.TenantActive, models.TenantSuspended, models.TenantCanceled:
	default:
		return httperr.ErrBusiness("invalid_request")
	}

	res := s.db.WithContext(ctx).
		Model(&models.Tenant{}).
		Where("id = ?", tenantID).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if status == models.TenantSuspended || status == models.TenantCanceled {
		if _, err := s.tokens.RevokeAllTenantTokens(ctx, tenantID, "Tenant "+string(status)); err != nil {
			s.log.Error("revoking tenant tokens failed",
				zap.String("tenant_id", tenantID),
				zap.Error(err),
			)
		}
	}

	s.log.Info("tenant status changed",
		zap.String("tenant_id", tenantID),
		zap.String("status", string(status)),
	)

	return nil
}

func (s *Service) ExtendTrial(ctx context.Context, tenantID string, days int) error {
	if days <= 0 || days > 90 {
		return httperr.ErrBusiness("invalid_request")
	}

	var tenant models.Tenant
	if err := s.db.WithContext(ctx).Where("id = ?", tenantID).First(&tenant).Error; err != nil {
		return err
	}

	base := time.Now()
	if tenant.TrialEndsAt != nil && tenant.TrialEndsAt.After(base) {
		base = *tenant.TrialEndsAt
	}
	newEnd := base.AddDate(0, 0, days)

	return s.db.WithContext(ctx).
		Model(&tenant).
		Updates(map[string]any{
			"trial_ends_at": newEnd,
			"status":        string(models.TenantTrial),
		}).Error
}

// RevokeTenantTokens forces every user in the tenant to sign in again
// without touching the tenant's status.
func (s *Service) RevokeTenantTokens(ctx context.Context, tenantID string) (int64, error) {
	var tenant models.Tenant
	if err := s.db.WithContext(ctx).Where("id = ?", tenantID).First(&tenant).Error; err != nil {
		return 0, err
	}
	return s.tokens.RevokeAllTenantTokens(ctx, tenantID, "Tenant security action")
}

// PermanentDelete hard-deletes every row the tenant owns, children first so
// foreign keys hold throughout.
func (s *Service) PermanentDelete(ctx context.Context, tenantID string) error {
	var tenant models.Tenant
	if err := s.db.WithContext(ctx).Where("id = ?", tenantID).First(&tenant).Error; err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := func(model any) error {
			return tx.Where("tenant_id = ?", tenantID).Delete(model).Error
		}

		// Appointment children hang off appointment ids, not tenant ids.
		if err := tx.Where(
			"appointment_id IN (?)",
			tx.Model(&models.Appointment{}).Select("id").Where("tenant_id = ?", tenantID),
		).Delete(&models.AppointmentService{}).Error; err != nil {
			return err
		}

		for _, model := range []any{
			&models.AppointmentHistory{},
			&models.Refund{},
			&models.SplitPayment{},
			&models.Payment{},
			&models.OrderItem{},
			&models.Order{},
			&models.Appointment{},
			&models.WalkInQueueEntry{},
			&models.LoyaltyTransaction{},
			&models.LoyaltyPoints{},
			&models.EmployeeLeave{},
			&models.DataImport{},
			&models.RefreshToken{},
			&models.AuditLog{},
			&models.Customer{},
			&models.Service{},
		} {
			if err := scoped(model); err != nil {
				return err
			}
		}

		// Employee schedules are keyed by employee, not tenant.
		if err := tx.Where(
			"employee_id IN (?)",
			tx.Model(&models.User{}).Select("id").Where("tenant_id = ?", tenantID),
		).Delete(&models.EmployeeSchedule{}).Error; err != nil {
			return err
		}

		if err := scoped(&models.User{}); err != nil {
			return err
		}

		return tx.Where("id = ?", tenantID).Delete(&models.Tenant{}).Error
	})
	if err != nil {
		return err
	}

	s.log.Warn("tenant permanently deleted", zap.String("tenant_id", tenantID))
	return nil
}
