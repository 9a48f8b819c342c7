package models

import "time"

type WalkInQueueEntry struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID string `gorm:"size:36;index;not null" json:"tenant_id"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	PreferredEmployeeID *uint `json:"preferred_employee_id"`

	Priority       string `gorm:"size:10;default:'normal'" json:"priority"`
	PriorityReason string `gorm:"size:255" json:"priority_reason"`
	Position       int    `json:"position"`

	Status           string     `gorm:"size:20;default:'waiting'" json:"status"`
	EmployeeID       *uint      `json:"employee_id"`
	JoinedAt         time.Time  `json:"joined_at"`
	ServiceStartedAt *time.Time `json:"service_started_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
