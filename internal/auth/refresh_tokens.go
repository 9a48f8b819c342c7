package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/models"
)

const (
	refreshTokenExpiryDays  = 90
	revokedRetentionDays    = 30
	refreshTokenRandomBytes = 32 // hex-encoded to 64 characters
)

// RefreshTokenData is what a successful validation hands back.
type RefreshTokenData struct {
	Token     string
	UserID    uint
	TenantID  string
	ExpiresAt time.Time
}

type RefreshTokenService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRefreshTokenService(db *gorm.DB, log *zap.Logger) *RefreshTokenService {
	return &RefreshTokenService{db: db, log: log}
}

// CreateRefreshToken issues a new 64-character opaque token with a 90-day
// expiry.
func (s *RefreshTokenService) CreateRefreshToken(
	ctx context.Context,
	userID uint,
	tenantID string,
	ipAddress string,
	userAgent string,
) (string, error) {

	buf := make([]byte, refreshTokenRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	row := models.RefreshToken{
		Token:     token,
		UserID:    userID,
		TenantID:  tenantID,
		ExpiresAt: time.Now().AddDate(0, 0, refreshTokenExpiryDays),
		Revoked:   false,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}

	s.log.Info("refresh token created",
		zap.Uint("user_id", userID),
		zap.String("tenant_id", tenantID),
		zap.Time("expires_at", row.ExpiresAt),
	)

	return token, nil
}

// ValidateRefreshToken returns token data only when the token exists, is not
// revoked and has not expired. LastUsedAt is touched as a side effect; it is
// advisory telemetry, not a security boundary, so the read-then-write is not
// atomic.
func (s *RefreshTokenService) ValidateRefreshToken(
	ctx context.Context,
	token string,
) (*RefreshTokenData, error) {

	var row models.RefreshToken
	if err := s.db.WithContext(ctx).
		Where("token = ?", token).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	if row.Revoked {
		s.log.Warn("attempted use of revoked refresh token",
			zap.Uint("user_id", row.UserID),
			zap.String("tenant_id", row.TenantID),
			zap.String("revoked_reason", row.RevokedReason),
		)
		return nil, nil
	}

	if row.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}

	now := time.Now()
	s.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("id = ?", row.ID).
		Update("last_used_at", now)

	return &RefreshTokenData{
		Token:     row.Token,
		UserID:    row.UserID,
		TenantID:  row.TenantID,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

// RevokeRefreshToken marks a single token revoked.
func (s *RefreshTokenService) RevokeRefreshToken(
	ctx context.Context,
	token string,
	reason string,
) (bool, error) {

	if reason == "" {
		reason = "User logout"
	}

	now := time.Now()
	res := s.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token = ? AND revoked = ?", token, false).
		Updates(map[string]any{
			"revoked":        true,
			"revoked_at":     now,
			"revoked_reason": reason,
		})

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RevokeAllUserTokens is the "logout from all devices" path.
func (s *RefreshTokenService) RevokeAllUserTokens(
	ctx context.Context,
	userID uint,
	reason string,
) (int64, error) {

	if reason == "" {
		reason = "Logout from all devices"
	}

	now := time.Now()
	res := s.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Updates(map[string]any{
			"revoked":        true,
			"revoked_at":     now,
			"revoked_reason": reason,
		})

	if res.Error != nil {
		return 0, res.Error
	}

	s.log.Info("all user refresh tokens revoked",
		zap.Uint("user_id", userID),
		zap.Int64("count", res.RowsAffected),
	)

	return res.RowsAffected, nil
}

// RevokeAllTenantTokens exists for security incidents and tenant suspension.
func (s *RefreshTokenService) RevokeAllTenantTokens(
	ctx context.Context,
	tenantID string,
	reason string,
) (int64, error) {

	if reason == "" {
		reason = "Tenant security action"
	}

	now := time.Now()
	res := s.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("tenant_id = ? AND revoked = ?", tenantID, false).
		Updates(map[string]any{
			"revoked":        true,
			"revoked_at":     now,
			"revoked_reason": reason,
		})

	if res.Error != nil {
		return 0, res.Error
	}

	s.log.Warn("all tenant refresh tokens revoked",
		zap.String("tenant_id", tenantID),
		zap.Int64("count", res.RowsAffected),
	)

	return res.RowsAffected, nil
}

// GetUserFromRefreshToken is the session-renewal path: valid token plus an
// active user in the token's tenant. Returns nil when either side fails.
func (s *RefreshTokenService) GetUserFromRefreshToken(
	ctx context.Context,
	token string,
) (*models.User, error) {

	data, err := s.ValidateRefreshToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var user models.User
	if err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ? AND is_active = ?", data.UserID, data.TenantID, true).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			s.log.Warn("user not found or inactive for valid refresh token",
				zap.Uint("user_id", data.UserID),
				zap.String("tenant_id", data.TenantID),
			)
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// CleanupExpiredTokens deletes expired tokens and revoked tokens older than
// 30 days. Runs from the daily cron job.
func (s *RefreshTokenService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	now := time.Now()
	cutoff := now.AddDate(0, 0, -revokedRetentionDays)

	res := s.db.WithContext(ctx).
		Where("expires_at < ? OR (revoked = ? AND revoked_at < ?)", now, true, cutoff).
		Delete(&models.RefreshToken{})

	if res.Error != nil {
		return 0, res.Error
	}

	s.log.Info("expired refresh tokens cleaned up", zap.Int64("count", res.RowsAffected))
	return res.RowsAffected, nil
}

// ListUserActiveTokens backs the "active sessions" view.
func (s *RefreshTokenService) ListUserActiveTokens(
	ctx context.Context,
	userID uint,
) ([]models.RefreshToken, error) {

	var tokens []models.RefreshToken
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND revoked = ? AND expires_at > ?", userID, false, time.Now()).
		Order("last_used_at DESC").
		Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}
