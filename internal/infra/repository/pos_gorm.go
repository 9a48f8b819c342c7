package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/models"
)

// POSGormRepository covers the point-of-sale financial records. Every read
// filters on tenant_id in addition to the row id; a row owned by another
// tenant is indistinguishable from a missing one.
type POSGormRepository struct {
	db *gorm.DB
}

func NewPOSGormRepository(db *gorm.DB) *POSGormRepository {
	return &POSGormRepository{db: db}
}

// --------------------------------------------------
// Orders
// --------------------------------------------------

func (r *POSGormRepository) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *POSGormRepository) GetOrder(
	ctx context.Context,
	tenantID string,
	orderID uint,
) (*models.Order, error) {

	var order models.Order
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", orderID, tenantID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *POSGormRepository) UpdateOrder(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *POSGormRepository) ListOrders(
	ctx context.Context,
	tenantID string,
	limit int,
) ([]models.Order, error) {

	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// --------------------------------------------------
// Order items
// --------------------------------------------------

func (r *POSGormRepository) CreateOrderItem(ctx context.Context, it *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *POSGormRepository) GetOrderItem(
	ctx context.Context,
	tenantID string,
	itemID uint,
) (*models.OrderItem, error) {

	var item models.OrderItem
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", itemID, tenantID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *POSGormRepository) ListOrderItems(
	ctx context.Context,
	tenantID string,
	orderID uint,
) ([]models.OrderItem, error) {

	var items []models.OrderItem
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND tenant_id = ?", orderID, tenantID).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --------------------------------------------------
// Payments
// --------------------------------------------------

func (r *POSGormRepository) CreatePayment(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *POSGormRepository) GetPayment(
	ctx context.Context,
	tenantID string,
	paymentID uint,
) (*models.Payment, error) {

	var payment models.Payment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", paymentID, tenantID).
		First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *POSGormRepository) ListPaymentsForOrder(
	ctx context.Context,
	tenantID string,
	orderID uint,
) ([]models.Payment, error) {

	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND tenant_id = ?", orderID, tenantID).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// --------------------------------------------------
// Refunds
// --------------------------------------------------

func (r *POSGormRepository) CreateRefund(ctx context.Context, rf *models.Refund) error {
	return r.db.WithContext(ctx).Create(rf).Error
}

func (r *POSGormRepository) GetRefund(
	ctx context.Context,
	tenantID string,
	refundID uint,
) (*models.Refund, error) {

	var refund models.Refund
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", refundID, tenantID).
		First(&refund).Error; err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *POSGormRepository) SumRefundsForPayment(
	ctx context.Context,
	tenantID string,
	paymentID uint,
) (float64, error) {

	var total float64
	if err := r.db.WithContext(ctx).
		Model(&models.Refund{}).
		Where("payment_id = ? AND tenant_id = ?", paymentID, tenantID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// --------------------------------------------------
// Split payments
// --------------------------------------------------

func (r *POSGormRepository) CreateSplitPayment(ctx context.Context, sp *models.SplitPayment) error {
	return r.db.WithContext(ctx).Create(sp).Error
}

func (r *POSGormRepository) GetSplitPayment(
	ctx context.Context,
	tenantID string,
	splitID uint,
) (*models.SplitPayment, error) {

	var split models.SplitPayment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", splitID, tenantID).
		First(&split).Error; err != nil {
		return nil, err
	}
	return &split, nil
}

func (r *POSGormRepository) ListSplitPayments(
	ctx context.Context,
	tenantID string,
	orderID uint,
) ([]models.SplitPayment, error) {

	var splits []models.SplitPayment
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND tenant_id = ?", orderID, tenantID).
		Find(&splits).Error; err != nil {
		return nil, err
	}
	return splits, nil
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *POSGormRepository) Transaction(
	ctx context.Context,
	fn func(*POSGormRepository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&POSGormRepository{db: tx})
	})
}
