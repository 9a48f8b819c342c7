package loyalty

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/models"
)

// PointsPerTenNOK: customers earn one point per 10 NOK of completed service
// revenue.
const PointsPerTenNOK = 10

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// GetOrCreatePoints returns the customer's balance row, creating a zeroed
// one on first touch.
func (s *Service) GetOrCreatePoints(
	ctx context.Context,
	tenantID string,
	customerID uint,
) (*models.LoyaltyPoints, error) {

	var points models.LoyaltyPoints
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		First(&points).Error

	if err == nil {
		return &points, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	points = models.LoyaltyPoints{
		TenantID:   tenantID,
		CustomerID: customerID,
	}
	if err := s.db.WithContext(ctx).Create(&points).Error; err != nil {
		return nil, err
	}
	return &points, nil
}

// AccrueForAppointment credits points when an appointment completes.
func (s *Service) AccrueForAppointment(
	ctx context.Context,
	tenantID string,
	customerID uint,
	appointmentID uint,
	amount float64,
) error {

	earned := int(amount) / PointsPerTenNOK
	if earned <= 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		points, err := s.getOrCreateTx(ctx, tx, tenantID, customerID)
		if err != nil {
			return err
		}

		points.CurrentPoints += earned
		points.LifetimePoints += earned
		if err := tx.Save(points).Error; err != nil {
			return err
		}

		return tx.Create(&models.LoyaltyTransaction{
			TenantID:      tenantID,
			CustomerID:    customerID,
			Type:          "earned",
			Points:        earned,
			AppointmentID: &appointmentID,
			Description:   "Opptjent ved fullført time",
		}).Error
	})
}

// Redeem deducts points against a reward or discount.
func (s *Service) Redeem(
	ctx context.Context,
	tenantID string,
	customerID uint,
	points int,
	description string,
) error {

	if points <= 0 {
		return httperr.ErrBusiness("invalid_request")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := s.getOrCreateTx(ctx, tx, tenantID, customerID)
		if err != nil {
			return err
		}

		if balance.CurrentPoints < points {
			return httperr.ErrBusinessMsg("insufficient_points", "Insufficient points")
		}

		balance.CurrentPoints -= points
		if err := tx.Save(balance).Error; err != nil {
			return err
		}

		return tx.Create(&models.LoyaltyTransaction{
			TenantID:    tenantID,
			CustomerID:  customerID,
			Type:        "redeemed",
			Points:      -points,
			Description: description,
		}).Error
	})
}

// History returns the ledger, newest first.
func (s *Service) History(
	ctx context.Context,
	tenantID string,
	customerID uint,
	limit int,
) ([]models.LoyaltyTransaction, error) {

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var txs []models.LoyaltyTransaction
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *Service) getOrCreateTx(
	ctx context.Context,
	tx *gorm.DB,
	tenantID string,
	customerID uint,
) (*models.LoyaltyPoints, error) {

	var points models.LoyaltyPoints
	err := tx.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		First(&points).Error

	if err == gorm.ErrRecordNotFound {
		points = models.LoyaltyPoints{TenantID: tenantID, CustomerID: customerID}
		if cerr := tx.WithContext(ctx).Create(&points).Error; cerr != nil {
			return nil, cerr
		}
		return &points, nil
	}
	if err != nil {
		return nil, err
	}
	return &points, nil
}
