package models

import "time"

type Customer struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID string `gorm:"size:36;index;not null" json:"tenant_id"`

	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100" json:"last_name"`
	Phone     string `gorm:"size:20;index" json:"phone"`
	Email     string `gorm:"size:100" json:"email"`
	Notes     string `gorm:"size:500" json:"notes"`
	Source    string `gorm:"size:20;default:'manual'" json:"source"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
