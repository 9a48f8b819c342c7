package pos

import (
	"context"
	"math"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	stripeRefund "github.com/stripe/stripe-go/v79/refund"
	"go.uber.org/zap"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/infra/repository"
	"github.com/salontid/salontid-api/internal/models"
)

// Service is the point of sale: orders, payments, splits and refunds.
// Card payments go through Stripe; cash and vipps are recorded as-is.
type Service struct {
	repo      *repository.POSGormRepository
	stripeKey string
	log       *zap.Logger
}

func NewService(repo *repository.POSGormRepository, stripeKey string, log *zap.Logger) *Service {
	if stripeKey != "" {
		stripe.Key = stripeKey
	}
	return &Service{repo: repo, stripeKey: stripeKey, log: log}
}

// ======================================================
// ORDERS
// ======================================================

type OrderItemInput struct {
	ServiceID *uint   `json:"service_id"`
	Name      string  `json:"name" binding:"required"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price" binding:"required"`
}

type CreateOrderInput struct {
	CustomerID    *uint            `json:"customer_id"`
	AppointmentID *uint            `json:"appointment_id"`
	EmployeeID    uint             `json:"employee_id" binding:"required"`
	TipAmount     float64          `json:"tip_amount"`
	Items         []OrderItemInput `json:"items" binding:"required,min=1"`
}

// CreateOrder builds the order and its line items in one transaction.
// VAT is derived from the tenant's rate; prices are VAT-inclusive, so the
// VAT amount is carved out of the subtotal rather than added on top.
func (s *Service) CreateOrder(
	ctx context.Context,
	tenantID string,
	vatRate float64,
	in CreateOrderInput,
) (*models.Order, error) {

	if len(in.Items) == 0 {
		return nil, httperr.ErrBusiness("invalid_request")
	}

	var subtotal float64
	for _, it := range in.Items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		subtotal += float64(qty) * it.UnitPrice
	}

	vatAmount := round2(subtotal * vatRate / (100 + vatRate))
	total := round2(subtotal + in.TipAmount)

	order := &models.Order{
		TenantID:      tenantID,
		CustomerID:    in.CustomerID,
		AppointmentID: in.AppointmentID,
		EmployeeID:    in.EmployeeID,
		Subtotal:      subtotal,
		VatAmount:     vatAmount,
		Total:         total,
		TipAmount:     in.TipAmount,
		Status:        "open",
	}

	err := s.repo.Transaction(ctx, func(tx *repository.POSGormRepository) error {
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		for _, it := range in.Items {
			qty := it.Quantity
			if qty <= 0 {
				qty = 1
			}
			if err := tx.CreateOrderItem(ctx, &models.OrderItem{
				TenantID:  tenantID,
				OrderID:   order.ID,
				ServiceID: it.ServiceID,
				Name:      it.Name,
				Quantity:  qty,
				UnitPrice: it.UnitPrice,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("tenant_id", tenantID),
		zap.Uint("order_id", order.ID),
		zap.Float64("total", order.Total),
	)

	return order, nil
}

func (s *Service) VoidOrder(ctx context.Context, tenantID string, orderID uint) error {
	order, err := s.repo.GetOrder(ctx, tenantID, orderID)
	if err != nil {
		return httperr.ErrBusiness("order_not_found")
	}
	if order.Status == "paid" {
		return httperr.ErrBusiness("invalid_state")
	}

	order.Status = "void"
	return s.repo.UpdateOrder(ctx, order)
}

// ======================================================
// PAYMENTS
// ======================================================

type PaymentInput struct {
	Method string  `json:"method" binding:"required"` // cash, card, vipps
	Amount float64 `json:"amount" binding:"required"`

	// For vipps the caller supplies the external order reference.
	ExternalRef string `json:"external_ref"`
}

// TakePayment records a payment against an open order. Card payments create
// a Stripe payment intent in NOK; its id becomes the external reference.
func (s *Service) TakePayment(
	ctx context.Context,
	tenantID string,
	orderID uint,
	in PaymentInput,
) (*models.Payment, error) {

	order, err := s.repo.GetOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, httperr.ErrBusiness("order_not_found")
	}
	if order.Status != "open" {
		return nil, httperr.ErrBusiness("invalid_state")
	}
	if in.Amount <= 0 {
		return nil, httperr.ErrBusiness("invalid_request")
	}

	externalRef := in.ExternalRef

	switch in.Method {
	case "cash", "vipps":
	case "card":
		pi, err := paymentintent.New(&stripe.PaymentIntentParams{
			Amount:   stripe.Int64(toOre(in.Amount)),
			Currency: stripe.String(string(stripe.CurrencyNOK)),
			Metadata: map[string]string{
				"tenant_id": tenantID,
			},
		})
		if err != nil {
			s.log.Error("stripe payment intent failed",
				zap.String("tenant_id", tenantID),
				zap.Uint("order_id", orderID),
				zap.Error(err),
			)
			return nil, httperr.ErrBusiness("payment_failed")
		}
		externalRef = pi.ID
	default:
		return nil, httperr.ErrBusiness("invalid_request")
	}

	payment := &models.Payment{
		TenantID:    tenantID,
		OrderID:     orderID,
		Method:      in.Method,
		Amount:      in.Amount,
		Status:      "completed",
		ExternalRef: externalRef,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.POSGormRepository) error {
		if err := tx.CreatePayment(ctx, payment); err != nil {
			return err
		}

		paid, err := s.sumPayments(ctx, tx, tenantID, orderID)
		if err != nil {
			return err
		}
		if paid >= order.Total {
			order.Status = "paid"
			return tx.UpdateOrder(ctx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// SplitInput is one leg of a split payment.
type SplitInput struct {
	Method string  `json:"method" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

// PaySplit settles an order with several payment methods at once. The legs
// must sum to exactly the order total.
func (s *Service) PaySplit(
	ctx context.Context,
	tenantID string,
	orderID uint,
	splits []SplitInput,
) ([]models.SplitPayment, error) {

	if len(splits) < 2 {
		return nil, httperr.ErrBusiness("invalid_request")
	}

	order, err := s.repo.GetOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, httperr.ErrBusiness("order_not_found")
	}
	if order.Status != "open" {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	var sum float64
	for _, sp := range splits {
		if sp.Amount <= 0 {
			return nil, httperr.ErrBusiness("invalid_request")
		}
		sum += sp.Amount
	}
	if math.Abs(sum-order.Total) > 0.01 {
		return nil, httperr.ErrBusinessMsg(
			"split_total_mismatch",
			"Split payments must sum to the order total",
		)
	}

	var rows []models.SplitPayment

	err = s.repo.Transaction(ctx, func(tx *repository.POSGormRepository) error {
		for _, sp := range splits {
			row := models.SplitPayment{
				TenantID: tenantID,
				OrderID:  orderID,
				Method:   sp.Method,
				Amount:   sp.Amount,
			}
			if err := tx.CreateSplitPayment(ctx, &row); err != nil {
				return err
			}
			rows = append(rows, row)
		}

		order.Status = "paid"
		return tx.UpdateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// ======================================================
// REFUNDS
// ======================================================

type RefundInput struct {
	Amount float64 `json:"amount" binding:"required"`
	Reason string  `json:"reason"`
}

// RefundPayment issues a full or partial refund. The refundable remainder is
// the payment amount minus everything already refunded; exceeding it fails.
func (s *Service) RefundPayment(
	ctx context.Context,
	tenantID string,
	paymentID uint,
	in RefundInput,
) (*models.Refund, error) {

	if in.Amount <= 0 {
		return nil, httperr.ErrBusiness("invalid_request")
	}

	payment, err := s.repo.GetPayment(ctx, tenantID, paymentID)
	if err != nil {
		return nil, httperr.ErrBusiness("payment_not_found")
	}

	refunded, err := s.repo.SumRefundsForPayment(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	if in.Amount > payment.Amount-refunded+0.001 {
		return nil, httperr.ErrBusinessMsg(
			"refund_exceeds_payment",
			"Refund exceeds the refundable amount",
		)
	}

	if payment.Method == "card" && payment.ExternalRef != "" {
		_, err := stripeRefund.New(&stripe.RefundParams{
			PaymentIntent: stripe.String(payment.ExternalRef),
			Amount:        stripe.Int64(toOre(in.Amount)),
		})
		if err != nil {
			s.log.Error("stripe refund failed",
				zap.String("tenant_id", tenantID),
				zap.Uint("payment_id", paymentID),
				zap.Error(err),
			)
			return nil, httperr.ErrBusiness("payment_failed")
		}
	}

	refund := &models.Refund{
		TenantID:  tenantID,
		PaymentID: paymentID,
		Amount:    in.Amount,
		Reason:    in.Reason,
	}
	if err := s.repo.CreateRefund(ctx, refund); err != nil {
		return nil, err
	}

	s.log.Info("payment refunded",
		zap.String("tenant_id", tenantID),
		zap.Uint("payment_id", paymentID),
		zap.Float64("amount", in.Amount),
	)

	return refund, nil
}

// ======================================================
// HELPERS
// ======================================================

func (s *Service) sumPayments(
	ctx context.Context,
	tx *repository.POSGormRepository,
	tenantID string,
	orderID uint,
) (float64, error) {

	payments, err := tx.ListPaymentsForOrder(ctx, tenantID, orderID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, p := range payments {
		if p.Status == "completed" {
			total += p.Amount
		}
	}
	return total, nil
}

// toOre converts NOK to the integer minor unit Stripe expects.
func toOre(nok float64) int64 {
	return int64(math.Round(nok * 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
