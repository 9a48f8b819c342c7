package queue

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
	"github.com/salontid/salontid-api/internal/models"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(gdb))
	return NewService(gdb, zap.NewNop()), gdb
}

func seedQueueFixtures(t *testing.T, gdb *gorm.DB, tenantID string) *models.Service {
	t.Helper()
	require.NoError(t, gdb.Create(&models.Tenant{
		ID: tenantID, Name: "Salong", Subdomain: tenantID, Status: "active",
	}).Error)

	svc := models.Service{
		TenantID: tenantID, Name: "Klipp", DurationMinutes: 30, Price: 445, IsActive: true,
	}
	require.NoError(t, gdb.Create(&svc).Error)
	return &svc
}

func add(t *testing.T, q *Service, tenantID string, name, priority, reason string, serviceID uint) *models.WalkInQueueEntry {
	t.Helper()
	entry, err := q.Add(context.Background(), tenantID, AddInput{
		CustomerName:   name,
		ServiceID:      serviceID,
		Priority:       priority,
		PriorityReason: reason,
	})
	require.NoError(t, err)
	return entry
}

func TestQueueOrdering(t *testing.T) {
	q, gdb := newTestService(t)
	svc := seedQueueFixtures(t, gdb, "t1")
	ctx := context.Background()

	add(t, q, "t1", "Normal 1", "normal", "", svc.ID)
	add(t, q, "t1", "Normal 2", "normal", "", svc.ID)
	add(t, q, "t1", "Hastekunde", "urgent", "smerter", svc.ID)
	// The VIP arrives last but sorts first.
	add(t, q, "t1", "Stamkunde", "vip", "gullkunde", svc.ID)

	entries, err := q.List(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, "Stamkunde", entries[0].CustomerName)
	assert.Equal(t, "Hastekunde", entries[1].CustomerName)
	assert.Equal(t, "Normal 1", entries[2].CustomerName, "same priority keeps FIFO order")
	assert.Equal(t, "Normal 2", entries[3].CustomerName)

	// Positions are a plain arrival counter.
	assert.Equal(t, 4, entries[0].Position)
	assert.Equal(t, 1, entries[2].Position)
}

func TestQueuePriorityReasonRequired(t *testing.T) {
	q, gdb := newTestService(t)
	svc := seedQueueFixtures(t, gdb, "t1")

	_, err := q.Add(context.Background(), "t1", AddInput{
		CustomerName: "Kunde",
		ServiceID:    svc.ID,
		Priority:     "vip",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "priority_reason_required"))

	// Unknown priorities fall back to normal, no reason needed.
	entry := add(t, q, "t1", "Kunde", "whatever", "", svc.ID)
	assert.Equal(t, "normal", entry.Priority)
}

func TestQueueLifecycle(t *testing.T) {
	q, gdb := newTestService(t)
	svc := seedQueueFixtures(t, gdb, "t1")
	ctx := context.Background()

	entry := add(t, q, "t1", "Kari", "normal", "", svc.ID)
	entry.CustomerPhone = "+4791234567"
	require.NoError(t, gdb.Save(entry).Error)

	t.Run("complete before start is invalid", func(t *testing.T) {
		_, err := q.CompleteService(ctx, "t1", entry.ID)
		require.Error(t, err)
		assert.True(t, httperr.IsBusiness(err, "invalid_state"))
	})

	started, err := q.StartService(ctx, "t1", entry.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, "in_service", started.Status)
	require.NotNil(t, started.EmployeeID)
	assert.EqualValues(t, 7, *started.EmployeeID)
	assert.NotNil(t, started.ServiceStartedAt)

	t.Run("starting twice is invalid", func(t *testing.T) {
		_, err := q.StartService(ctx, "t1", entry.ID, 7)
		require.Error(t, err)
		assert.True(t, httperr.IsBusiness(err, "invalid_state"))
	})

	handoff, err := q.CompleteService(ctx, "t1", entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kari", handoff.CustomerName)
	assert.Equal(t, "+4791234567", handoff.CustomerPhone)
	assert.Equal(t, svc.ID, handoff.ServiceID)

	// The entry is gone once handed off.
	entries, err := q.List(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestQueueTenantIsolation(t *testing.T) {
	q, gdb := newTestService(t)
	svcA := seedQueueFixtures(t, gdb, "t1")
	seedQueueFixtures(t, gdb, "t2")
	ctx := context.Background()

	entry := add(t, q, "t1", "Kari", "normal", "", svcA.ID)

	// Tenant t2 cannot see or act on t1's entry.
	entries, err := q.List(ctx, "t2")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = q.StartService(ctx, "t2", entry.ID, 7)
	assert.True(t, httperr.IsBusiness(err, "queue_entry_not_found"))

	err = q.Remove(ctx, "t2", entry.ID)
	assert.True(t, httperr.IsBusiness(err, "queue_entry_not_found"))
}

func TestWaitColor(t *testing.T) {
	assert.Equal(t, "green", WaitColor(0))
	assert.Equal(t, "green", WaitColor(14))
	assert.Equal(t, "yellow", WaitColor(15))
	assert.Equal(t, "yellow", WaitColor(29))
	assert.Equal(t, "orange", WaitColor(30))
	assert.Equal(t, "orange", WaitColor(44))
	assert.Equal(t, "red", WaitColor(45))
	assert.Equal(t, "red", WaitColor(120))
}

func TestEstimateWaits(t *testing.T) {
	q, gdb := newTestService(t)
	svc := seedQueueFixtures(t, gdb, "t1")
	ctx := context.Background()

	// Two working employees.
	for i := 0; i < 2; i++ {
		require.NoError(t, gdb.Create(&models.User{
			TenantID: "t1", Name: "Frisør", Email: string(rune('a'+i)) + "@salong.no",
			PasswordHash: "x", Role: "employee", IsActive: true,
		}).Error)
	}

	first := add(t, q, "t1", "Første", "normal", "", svc.ID)
	add(t, q, "t1", "Andre", "normal", "", svc.ID)

	estimates, err := q.EstimateWaits(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, estimates, 2)

	// First in line: no work ahead, half the 30 minute service as slack.
	assert.Equal(t, first.ID, estimates[0].QueueID)
	assert.Equal(t, 15, estimates[0].EstimatedWaitMinutes)
	assert.Equal(t, "yellow", estimates[0].Color)

	// Second: 30 minutes ahead over 2 employees plus slack.
	assert.Equal(t, 30, estimates[1].EstimatedWaitMinutes)
	assert.Equal(t, "orange", estimates[1].Color)
}
