package pos

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	dbpkg "github.com/salontid/salontid-api/internal/db"
	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/infra/repository"
	"github.com/salontid/salontid-api/internal/models"
)

// Tests stay on cash and vipps so nothing reaches Stripe.

func newTestService(t *testing.T) *Service {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(gdb))
	return NewService(repository.NewPOSGormRepository(gdb), "", zap.NewNop())
}

func openOrder(t *testing.T, svc *Service, tip float64) *models.Order {
	t.Helper()
	order, err := svc.CreateOrder(context.Background(), "t1", 25, CreateOrderInput{
		EmployeeID: 1,
		TipAmount:  tip,
		Items: []OrderItemInput{
			{Name: "Klipp dame", Quantity: 1, UnitPrice: 595},
			{Name: "Voks", Quantity: 2, UnitPrice: 150},
		},
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrderVAT(t *testing.T) {
	svc := newTestService(t)

	order := openOrder(t, svc, 50)

	assert.InDelta(t, 895, order.Subtotal, 0.001)
	// Prices are VAT-inclusive: 895 * 25 / 125.
	assert.InDelta(t, 179, order.VatAmount, 0.001)
	assert.InDelta(t, 945, order.Total, 0.001)
	assert.Equal(t, "open", order.Status)
}

func TestTakePaymentCash(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	order := openOrder(t, svc, 0)

	// A partial payment leaves the order open.
	payment, err := svc.TakePayment(ctx, "t1", order.ID, PaymentInput{Method: "cash", Amount: 400})
	require.NoError(t, err)
	assert.Equal(t, "completed", payment.Status)

	got, err := svc.repo.GetOrder(ctx, "t1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, "open", got.Status)

	// Paying the remainder flips it to paid.
	_, err = svc.TakePayment(ctx, "t1", order.ID, PaymentInput{Method: "vipps", Amount: 495, ExternalRef: "vipps-123"})
	require.NoError(t, err)

	got, err = svc.repo.GetOrder(ctx, "t1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", got.Status)

	// No further payments once paid.
	_, err = svc.TakePayment(ctx, "t1", order.ID, PaymentInput{Method: "cash", Amount: 10})
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestTakePaymentValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	order := openOrder(t, svc, 0)

	_, err := svc.TakePayment(ctx, "t1", order.ID, PaymentInput{Method: "bitcoin", Amount: 100})
	assert.True(t, httperr.IsBusiness(err, "invalid_request"))

	_, err = svc.TakePayment(ctx, "t1", order.ID, PaymentInput{Method: "cash", Amount: -5})
	assert.True(t, httperr.IsBusiness(err, "invalid_request"))

	_, err = svc.TakePayment(ctx, "t2", order.ID, PaymentInput{Method: "cash", Amount: 100})
	assert.True(t, httperr.IsBusiness(err, "order_not_found"), "other tenants never see the order")
}

func TestVoidOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	order := openOrder(t, svc, 0)
	require.NoError(t, svc.VoidOrder(ctx, "t1", order.ID))

	got, err := svc.repo.GetOrder(ctx, "t1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, "void", got.Status)

	// A paid order cannot be voided.
	paid := openOrder(t, svc, 0)
	_, err = svc.TakePayment(ctx, "t1", paid.ID, PaymentInput{Method: "cash", Amount: paid.Total})
	require.NoError(t, err)
	err = svc.VoidOrder(ctx, "t1", paid.ID)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestPaySplit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	order := openOrder(t, svc, 0) // total 895

	t.Run("legs must sum to the total", func(t *testing.T) {
		_, err := svc.PaySplit(ctx, "t1", order.ID, []SplitInput{
			{Method: "cash", Amount: 400},
			{Method: "card", Amount: 400},
		})
		require.Error(t, err)
		assert.True(t, httperr.IsBusiness(err, "split_total_mismatch"))
		assert.Contains(t, err.Error(), "Split payments must sum to the order total")
	})

	t.Run("a single leg is not a split", func(t *testing.T) {
		_, err := svc.PaySplit(ctx, "t1", order.ID, []SplitInput{
			{Method: "cash", Amount: 895},
		})
		assert.True(t, httperr.IsBusiness(err, "invalid_request"))
	})

	rows, err := svc.PaySplit(ctx, "t1", order.ID, []SplitInput{
		{Method: "cash", Amount: 500},
		{Method: "vipps", Amount: 395},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	got, err := svc.repo.GetOrder(ctx, "t1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", got.Status)
}

func TestRefundPayment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	order := openOrder(t, svc, 0)
	payment, err := svc.TakePayment(ctx, "t1", order.ID, PaymentInput{Method: "cash", Amount: order.Total})
	require.NoError(t, err)

	refund, err := svc.RefundPayment(ctx, "t1", payment.ID, RefundInput{Amount: 300, Reason: "misfornøyd"})
	require.NoError(t, err)
	assert.InDelta(t, 300, refund.Amount, 0.001)

	// The remaining 595 is still refundable; one øre more is not.
	_, err = svc.RefundPayment(ctx, "t1", payment.ID, RefundInput{Amount: 600})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "refund_exceeds_payment"))

	_, err = svc.RefundPayment(ctx, "t1", payment.ID, RefundInput{Amount: 595})
	require.NoError(t, err)

	_, err = svc.RefundPayment(ctx, "t1", payment.ID, RefundInput{Amount: 1})
	assert.True(t, httperr.IsBusiness(err, "refund_exceeds_payment"))
}
