package models

import "time"

type LoyaltyPoints struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TenantID   string `gorm:"size:36;index;not null" json:"tenant_id"`
	CustomerID uint   `gorm:"index" json:"customer_id"`

	CurrentPoints  int `gorm:"default:0" json:"current_points"`
	LifetimePoints int `gorm:"default:0" json:"lifetime_points"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LoyaltyTransaction struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TenantID   string `gorm:"size:36;index;not null" json:"tenant_id"`
	CustomerID uint   `gorm:"index" json:"customer_id"`

	Type          string `gorm:"size:20;not null" json:"type"`
	Points        int    `json:"points"`
	AppointmentID *uint  `json:"appointment_id"`
	Description   string `gorm:"size:255" json:"description"`

	CreatedAt time.Time `json:"created_at"`
}
