package models

import "time"

// EmployeeSchedule is the per-employee, per-weekday working-hours table.
// Weekday follows time.Weekday (0 = Sunday).
type EmployeeSchedule struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	EmployeeID uint `gorm:"index" json:"employee_id"`

	Weekday   int    `json:"weekday"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EmployeeLeave struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TenantID   string `gorm:"size:36;index;not null" json:"tenant_id"`
	EmployeeID uint   `gorm:"index" json:"employee_id"`

	LeaveType string    `gorm:"size:20;not null" json:"leave_type"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `gorm:"size:20;default:'pending'" json:"status"`
	Reason    string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
