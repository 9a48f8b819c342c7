package auth

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	dbpkg "github.com/salontid/salontid-api/internal/db"
	"github.com/salontid/salontid-api/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(gdb))
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, tenantID string, active bool) *models.User {
	t.Helper()
	tenant := models.Tenant{ID: tenantID, Name: "Salong", Subdomain: tenantID, Status: "active"}
	require.NoError(t, gdb.FirstOrCreate(&tenant, "id = ?", tenantID).Error)

	user := models.User{
		TenantID:     tenantID,
		Name:         "Test Bruker",
		Email:        tenantID + "-user@example.no",
		PasswordHash: "x",
		Role:         "employee",
		IsActive:     active,
	}
	require.NoError(t, gdb.Create(&user).Error)
	if !active {
		// GORM skips zero-valued fields that carry a default tag, so force
		// is_active=false with an explicit update.
		require.NoError(t, gdb.Model(&user).Update("is_active", false).Error)
		user.IsActive = false
	}
	return &user
}

func TestCreateAndValidateRefreshToken(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRefreshTokenService(gdb, zap.NewNop())
	user := seedUser(t, gdb, "t1", true)
	ctx := context.Background()

	token, err := svc.CreateRefreshToken(ctx, user.ID, "t1", "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Len(t, token, 64)

	data, err := svc.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, user.ID, data.UserID)
	assert.Equal(t, "t1", data.TenantID)

	// Expiry is 90 days out.
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 90), data.ExpiresAt, time.Minute)

	// Validation touches last_used_at.
	var row models.RefreshToken
	require.NoError(t, gdb.Where("token = ?", token).First(&row).Error)
	assert.NotNil(t, row.LastUsedAt)
}

func TestValidateRefreshToken_MissingRevokedExpired(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRefreshTokenService(gdb, zap.NewNop())
	user := seedUser(t, gdb, "t1", true)
	ctx := context.Background()

	t.Run("unknown token", func(t *testing.T) {
		data, err := svc.ValidateRefreshToken(ctx, "deadbeef")
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("revoked token", func(t *testing.T) {
		token, err := svc.CreateRefreshToken(ctx, user.ID, "t1", "", "")
		require.NoError(t, err)

		ok, err := svc.RevokeRefreshToken(ctx, token, "")
		require.NoError(t, err)
		assert.True(t, ok)

		data, err := svc.ValidateRefreshToken(ctx, token)
		require.NoError(t, err)
		assert.Nil(t, data)

		// Revoking twice is a no-op.
		ok, err = svc.RevokeRefreshToken(ctx, token, "")
		require.NoError(t, err)
		assert.False(t, ok)

		var row models.RefreshToken
		require.NoError(t, gdb.Where("token = ?", token).First(&row).Error)
		assert.Equal(t, "User logout", row.RevokedReason)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.CreateRefreshToken(ctx, user.ID, "t1", "", "")
		require.NoError(t, err)

		gdb.Model(&models.RefreshToken{}).
			Where("token = ?", token).
			Update("expires_at", time.Now().Add(-time.Hour))

		data, err := svc.ValidateRefreshToken(ctx, token)
		require.NoError(t, err)
		assert.Nil(t, data)
	})
}

func TestRevokeAllUserTokens(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRefreshTokenService(gdb, zap.NewNop())
	user := seedUser(t, gdb, "t1", true)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateRefreshToken(ctx, user.ID, "t1", "", "")
		require.NoError(t, err)
	}

	count, err := svc.RevokeAllUserTokens(ctx, user.ID, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	tokens, err := svc.ListUserActiveTokens(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestRevokeAllTenantTokens(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRefreshTokenService(gdb, zap.NewNop())
	a := seedUser(t, gdb, "t1", true)
	b := seedUser(t, gdb, "t2", true)
	ctx := context.Background()

	_, err := svc.CreateRefreshToken(ctx, a.ID, "t1", "", "")
	require.NoError(t, err)
	tokenB, err := svc.CreateRefreshToken(ctx, b.ID, "t2", "", "")
	require.NoError(t, err)

	count, err := svc.RevokeAllTenantTokens(ctx, "t1", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// The other tenant's token is untouched.
	data, err := svc.ValidateRefreshToken(ctx, tokenB)
	require.NoError(t, err)
	assert.NotNil(t, data)
}

func TestGetUserFromRefreshToken(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRefreshTokenService(gdb, zap.NewNop())
	ctx := context.Background()

	t.Run("active user", func(t *testing.T) {
		user := seedUser(t, gdb, "t1", true)
		token, err := svc.CreateRefreshToken(ctx, user.ID, "t1", "", "")
		require.NoError(t, err)

		got, err := svc.GetUserFromRefreshToken(ctx, token)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("deactivated user gets nothing", func(t *testing.T) {
		user := seedUser(t, gdb, "t2", false)
		token, err := svc.CreateRefreshToken(ctx, user.ID, "t2", "", "")
		require.NoError(t, err)

		got, err := svc.GetUserFromRefreshToken(ctx, token)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestCleanupExpiredTokens(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRefreshTokenService(gdb, zap.NewNop())
	user := seedUser(t, gdb, "t1", true)
	ctx := context.Background()

	expired, err := svc.CreateRefreshToken(ctx, user.ID, "t1", "", "")
	require.NoError(t, err)
	gdb.Model(&models.RefreshToken{}).
		Where("token = ?", expired).
		Update("expires_at", time.Now().Add(-time.Hour))

	oldRevoked, err := svc.CreateRefreshToken(ctx, user.ID, "t1", "", "")
	require.NoError(t, err)
	_, err = svc.RevokeRefreshToken(ctx, oldRevoked, "test")
	require.NoError(t, err)
	gdb.Model(&models.RefreshToken{}).
		Where("token = ?", oldRevoked).
		Update("revoked_at", time.Now().AddDate(0, 0, -45))

	freshRevoked, err := svc.CreateRefreshToken(ctx, user.ID, "t1", "", "")
	require.NoError(t, err)
	_, err = svc.RevokeRefreshToken(ctx, freshRevoked, "test")
	require.NoError(t, err)

	active, err := svc.CreateRefreshToken(ctx, user.ID, "t1", "", "")
	require.NoError(t, err)

	deleted, err := svc.CleanupExpiredTokens(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	var remaining []models.RefreshToken
	require.NoError(t, gdb.Find(&remaining).Error)
	require.Len(t, remaining, 2)

	tokens := []string{remaining[0].Token, remaining[1].Token}
	assert.Contains(t, tokens, active)
	assert.Contains(t, tokens, freshRevoked, "recently revoked tokens are kept for the audit window")
}
