package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/salontid/salontid-api/internal/auth"
	"github.com/salontid/salontid-api/internal/backup"
	"github.com/salontid/salontid-api/internal/config"
	dbpkg "github.com/salontid/salontid-api/internal/db"
	"github.com/salontid/salontid-api/internal/logger"
	"github.com/salontid/salontid-api/internal/monitoring"
	"github.com/salontid/salontid-api/internal/routes"
	"github.com/salontid/salontid-api/internal/scheduler"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.New(cfg.LogFile)
	defer log.Sync()

	db := dbpkg.NewDB(cfg, log)

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// Background jobs: nightly backups, token cleanup, health checks.
	tokenService := auth.NewRefreshTokenService(db, log)
	backupService := backup.NewService(db, cfg, log)
	statusService := monitoring.NewStatusService(db, rdb, log)
	alerter := monitoring.NewAlerter(rdb, log)

	jobs := scheduler.New(tokenService, backupService, statusService, alerter, log)
	jobs.Start()
	defer jobs.Stop()

	r := gin.Default()
	routes.RegisterRoutes(r, db, rdb, cfg, log)

	log.Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
