package models

import "time"

type RefreshToken struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Token    string `gorm:"size:64;uniqueIndex;not null" json:"-"`
	UserID   uint   `gorm:"index" json:"user_id"`
	TenantID string `gorm:"size:36;index;not null" json:"tenant_id"`

	ExpiresAt time.Time `json:"expires_at"`

	Revoked       bool       `gorm:"default:false" json:"revoked"`
	RevokedAt     *time.Time `json:"revoked_at"`
	RevokedReason string     `gorm:"size:100" json:"revoked_reason"`

	LastUsedAt *time.Time `json:"last_used_at"`
	IPAddress  string     `gorm:"size:45" json:"ip_address"`
	UserAgent  string     `gorm:"size:255" json:"user_agent"`

	CreatedAt time.Time `json:"created_at"`
}
