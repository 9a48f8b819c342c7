package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/salontid/salontid-api/internal/config"
	"github.com/salontid/salontid-api/internal/models"
)

// SessionClaims is what middleware extracts from a parsed session token.
type SessionClaims struct {
	UserID               uint
	TenantID             string
	Role                 string
	Name                 string
	Email                string
	ImpersonatedTenantID string
}

// EffectiveTenantID resolves the tenant the request acts on. Impersonation
// is a platform-owner escape hatch; for everyone else the claim is empty.
func (c SessionClaims) EffectiveTenantID() string {
	if c.ImpersonatedTenantID != "" {
		return c.ImpersonatedTenantID
	}
	return c.TenantID
}

// GenerateSessionToken mints the short-lived signed session JWT.
func GenerateSessionToken(
	cfg *config.Config,
	user *models.User,
	impersonatedTenantID string,
) (string, error) {

	claims := jwt.MapClaims{
		"sub":      user.ID,
		"tenantId": user.TenantID,
		"role":     user.Role,
		"name":     user.Name,
		"email":    user.Email,
		"exp":      time.Now().Add(time.Duration(cfg.SessionTTLHours) * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	if impersonatedTenantID != "" {
		claims["impersonatedTenantId"] = impersonatedTenantID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseSessionToken verifies the signature and extracts the claims.
func ParseSessionToken(cfg *config.Config, tokenString string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	userID, ok1 := claims["sub"].(float64)
	tenantID, ok2 := claims["tenantId"].(string)
	if !ok1 || !ok2 {
		return nil, jwt.ErrTokenInvalidClaims
	}

	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	impersonated, _ := claims["impersonatedTenantId"].(string)

	return &SessionClaims{
		UserID:               uint(userID),
		TenantID:             tenantID,
		Role:                 role,
		Name:                 name,
		Email:                email,
		ImpersonatedTenantID: impersonated,
	}, nil
}
