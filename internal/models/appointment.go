package models

import "time"

type Appointment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID string `gorm:"size:36;index;not null" json:"tenant_id"`

	CustomerID uint     `json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	EmployeeID uint `json:"employee_id"`
	Employee   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"employee"`

	Date      time.Time `gorm:"index" json:"date"`
	StartTime string    `gorm:"size:5" json:"start_time"`
	EndTime   string    `gorm:"size:5" json:"end_time"`

	Status          string `gorm:"size:20;default:'pending'" json:"status"`
	RescheduleCount int    `gorm:"default:0" json:"reschedule_count"`
	ManagementToken string `gorm:"size:36;index" json:"-"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CanceledAt  *time.Time `json:"canceled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppointmentService captures the price of a service at booking time so
// later price changes do not rewrite history.
type AppointmentService struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"index" json:"appointment_id"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`
	Price     float64 `json:"price"`

	CreatedAt time.Time `json:"created_at"`
}

// AppointmentHistory is the audit row written on every lifecycle change.
type AppointmentHistory struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TenantID      string `gorm:"size:36;index;not null" json:"tenant_id"`
	AppointmentID uint   `gorm:"index" json:"appointment_id"`

	ChangedBy uint   `json:"changed_by"`
	Action    string `gorm:"size:50;not null" json:"action"`
	OldValue  string `gorm:"size:255" json:"old_value"`
	NewValue  string `gorm:"size:255" json:"new_value"`
	Channel   string `gorm:"size:20" json:"channel"`

	CreatedAt time.Time `json:"created_at"`
}
