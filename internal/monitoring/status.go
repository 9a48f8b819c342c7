package monitoring

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	statusCacheKey = "monitoring:status"
	statusCacheTTL = 30 * time.Second
)

type Status struct {
	Database  string    `json:"database"`
	Redis     string    `json:"redis"`
	UptimeSec int64     `json:"uptime_sec"`
	CheckedAt time.Time `json:"checked_at"`
}

type StatusService struct {
	db        *gorm.DB
	rdb       *redis.Client
	log       *zap.Logger
	startedAt time.Time
}

func NewStatusService(db *gorm.DB, rdb *redis.Client, log *zap.Logger) *StatusService {
	return &StatusService{
		db:        db,
		rdb:       rdb,
		log:       log,
		startedAt: time.Now(),
	}
}

// Snapshot pings the backing services. Results are cached in redis for 30
// seconds so a dashboard polling loop does not hammer the database.
func (s *StatusService) Snapshot(ctx context.Context) (*Status, error) {
	if cached, err := s.rdb.Get(ctx, statusCacheKey).Result(); err == nil {
		var st Status
		if json.Unmarshal([]byte(cached), &st) == nil {
			return &st, nil
		}
	}

	st := Status{
		Database:  "ok",
		Redis:     "ok",
		UptimeSec: int64(time.Since(s.startedAt).Seconds()),
		CheckedAt: time.Now(),
	}

	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		st.Database = "down"
	}
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		st.Redis = "down"
	}

	if b, err := json.Marshal(st); err == nil {
		s.rdb.Set(ctx, statusCacheKey, b, statusCacheTTL)
	}

	return &st, nil
}
