package loyalty

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
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(gdb))
	return NewService(gdb, zap.NewNop())
}

func TestAccrueForAppointment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	apID := uint(7)

	// 595 NOK earns 59 points.
	require.NoError(t, svc.AccrueForAppointment(ctx, "t1", 1, apID, 595))

	points, err := svc.GetOrCreatePoints(ctx, "t1", 1)
	require.NoError(t, err)
	assert.Equal(t, 59, points.CurrentPoints)
	assert.Equal(t, 59, points.LifetimePoints)

	history, err := svc.History(ctx, "t1", 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "earned", history[0].Type)
	assert.Equal(t, 59, history[0].Points)
	require.NotNil(t, history[0].AppointmentID)
	assert.Equal(t, apID, *history[0].AppointmentID)

	// Below 10 NOK earns nothing and writes no ledger row.
	require.NoError(t, svc.AccrueForAppointment(ctx, "t1", 1, apID, 9))
	history, err = svc.History(ctx, "t1", 1, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRedeem(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AccrueForAppointment(ctx, "t1", 1, 1, 1000)) // 100 points

	require.NoError(t, svc.Redeem(ctx, "t1", 1, 40, "Rabatt"))

	points, err := svc.GetOrCreatePoints(ctx, "t1", 1)
	require.NoError(t, err)
	assert.Equal(t, 60, points.CurrentPoints)
	assert.Equal(t, 100, points.LifetimePoints, "lifetime is never reduced")

	t.Run("insufficient balance", func(t *testing.T) {
		err := svc.Redeem(ctx, "t1", 1, 61, "For mye")
		require.Error(t, err)
		assert.True(t, httperr.IsBusiness(err, "insufficient_points"))
		assert.Contains(t, err.Error(), "Insufficient points")
	})

	t.Run("non-positive redemption", func(t *testing.T) {
		assert.Error(t, svc.Redeem(ctx, "t1", 1, 0, "Null"))
		assert.Error(t, svc.Redeem(ctx, "t1", 1, -5, "Negativ"))
	})
}

func TestLoyaltyTenantIsolation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AccrueForAppointment(ctx, "t1", 1, 1, 500))

	// Same customer id under another tenant starts from zero.
	points, err := svc.GetOrCreatePoints(ctx, "t2", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, points.CurrentPoints)

	err = svc.Redeem(ctx, "t2", 1, 10, "Rabatt")
	assert.True(t, httperr.IsBusiness(err, "insufficient_points"))

	// The ledger stays per tenant too.
	history, err := svc.History(ctx, "t2", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}
