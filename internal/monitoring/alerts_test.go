package monitoring

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAlerter(t *testing.T) (*Alerter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewAlerter(rdb, zap.NewNop()), mr
}

func TestAlertCooldown(t *testing.T) {
	alerter, mr := newTestAlerter(t)
	ctx := context.Background()

	sent, err := alerter.Alert(ctx, "database_down", "critical", "ping failed")
	require.NoError(t, err)
	assert.True(t, sent)

	// A repeat within the window is suppressed.
	sent, err = alerter.Alert(ctx, "database_down", "critical", "ping failed")
	require.NoError(t, err)
	assert.False(t, sent)

	// A different alert name fires on its own cooldown.
	sent, err = alerter.Alert(ctx, "redis_down", "warning", "ping failed")
	require.NoError(t, err)
	assert.True(t, sent)

	// Once the window passes, the alert fires again.
	mr.FastForward(16 * time.Minute)
	sent, err = alerter.Alert(ctx, "database_down", "critical", "ping failed")
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestAlertCooldownTTLPerSeverity(t *testing.T) {
	alerter, mr := newTestAlerter(t)
	ctx := context.Background()

	cases := []struct {
		severity string
		ttl      time.Duration
	}{
		{"critical", 15 * time.Minute},
		{"warning", 60 * time.Minute},
		{"info", 240 * time.Minute},
		{"bogus", 240 * time.Minute}, // unknown severities fall back to info
	}
	for _, tc := range cases {
		sent, err := alerter.Alert(ctx, "check", tc.severity, "m")
		require.NoError(t, err)
		require.True(t, sent)
		assert.Equal(t, tc.ttl, mr.TTL("alert:cooldown:check:"+tc.severity), tc.severity)
	}
}
