package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/config"
	"github.com/salontid/salontid-api/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	db.Exec(`
        UPDATE tenants
        SET timezone = 'Europe/Oslo'
        WHERE timezone IS NULL OR timezone = ''
    `)

	return db
}

// Migrate runs AutoMigrate for every model. Exported so tests can run the
// same schema against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Customer{},
		&models.Service{},
		&models.EmployeeSchedule{},
		&models.EmployeeLeave{},
		&models.Appointment{},
		&models.AppointmentService{},
		&models.AppointmentHistory{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Refund{},
		&models.SplitPayment{},
		&models.WalkInQueueEntry{},
		&models.LoyaltyPoints{},
		&models.LoyaltyTransaction{},
		&models.RefreshToken{},
		&models.DataImport{},
		&models.AuditLog{},
	)
}
