package models

import "time"

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID string `gorm:"size:36;index;not null" json:"tenant_id"`
	Tenant   Tenant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'employee'" json:"role"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	// Payroll configuration
	CommissionType string  `gorm:"size:20;default:'percentage'" json:"commission_type"`
	CommissionRate float64 `gorm:"default:0" json:"commission_rate"`
	BaseSalary     float64 `gorm:"default:0" json:"base_salary"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
