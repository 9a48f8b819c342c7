package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Cooldown per severity. Stored in redis with TTL so multiple instances
// share the same suppression window.
var cooldowns = map[string]time.Duration{
	"critical": 15 * time.Minute,
	"warning":  60 * time.Minute,
	"info":     240 * time.Minute,
}

type Alerter struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewAlerter(rdb *redis.Client, log *zap.Logger) *Alerter {
	return &Alerter{rdb: rdb, log: log}
}

// Alert logs the event and applies the cooldown; a duplicate alert within
// the window is suppressed. Returns whether the alert was actually sent.
func (a *Alerter) Alert(ctx context.Context, name, severity, message string) (bool, error) {
	ttl, ok := cooldowns[severity]
	if !ok {
		ttl = cooldowns["info"]
	}

	key := fmt.Sprintf("alert:cooldown:%s:%s", name, severity)

	// SetNX both checks and arms the cooldown in one round trip.
	set, err := a.rdb.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, err
	}
	if !set {
		return false, nil
	}

	a.log.Warn("monitoring alert",
		zap.String("alert", name),
		zap.String("severity", severity),
		zap.String("message", message),
	)

	return true, nil
}
