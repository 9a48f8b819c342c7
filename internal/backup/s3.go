package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/config"
	"github.com/salontid/salontid-api/internal/models"
)

type Service struct {
	db     *gorm.DB
	client *s3.Client
	bucket string
	log    *zap.Logger
}

func NewService(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Service {
	client := s3.New(s3.Options{
		Region: cfg.S3Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		),
	})

	return &Service{
		db:     db,
		client: client,
		bucket: cfg.S3Bucket,
		log:    log,
	}
}

type tenantSnapshot struct {
	Tenant       models.Tenant        `json:"tenant"`
	Users        []models.User        `json:"users"`
	Customers    []models.Customer    `json:"customers"`
	Services     []models.Service     `json:"services"`
	Appointments []models.Appointment `json:"appointments"`
	Orders       []models.Order       `json:"orders"`
	Payments     []models.Payment     `json:"payments"`
}

// BackupTenant serializes the tenant's core tables and uploads them to S3
// under tenants/<id>/backup-<date>.json.
func (s *Service) BackupTenant(ctx context.Context, tenantID string) error {
	var snap tenantSnapshot

	if err := s.db.WithContext(ctx).Where("id = ?", tenantID).First(&snap.Tenant).Error; err != nil {
		return err
	}

	scoped := func(dest any) error {
		return s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Find(dest).Error
	}

	if err := scoped(&snap.Users); err != nil {
		return err
	}
	if err := scoped(&snap.Customers); err != nil {
		return err
	}
	if err := scoped(&snap.Services); err != nil {
		return err
	}
	if err := scoped(&snap.Appointments); err != nil {
		return err
	}
	if err := scoped(&snap.Orders); err != nil {
		return err
	}
	if err := scoped(&snap.Payments); err != nil {
		return err
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("tenants/%s/backup-%s.json", tenantID, time.Now().Format("2006-01-02"))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return err
	}

	s.log.Info("tenant backup uploaded",
		zap.String("tenant_id", tenantID),
		zap.String("key", key),
		zap.Int("bytes", len(body)),
	)

	return nil
}

// BackupAll runs a backup for every tenant that is not canceled. Failures
// are logged per tenant so one bad tenant does not stop the nightly run.
func (s *Service) BackupAll(ctx context.Context) {
	var tenants []models.Tenant
	if err := s.db.WithContext(ctx).
		Where("status <> ?", "canceled").
		Find(&tenants).Error; err != nil {
		s.log.Error("backup: listing tenants failed", zap.Error(err))
		return
	}

	for _, t := range tenants {
		if err := s.BackupTenant(ctx, t.ID); err != nil {
			s.log.Error("tenant backup failed",
				zap.String("tenant_id", t.ID),
				zap.Error(err),
			)
		}
	}
}
