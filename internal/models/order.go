package models

import "time"

type Order struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID string `gorm:"size:36;index;not null" json:"tenant_id"`

	CustomerID    *uint `json:"customer_id"`
	AppointmentID *uint `json:"appointment_id"`
	EmployeeID    uint  `json:"employee_id"`

	Subtotal  float64 `json:"subtotal"`
	VatAmount float64 `json:"vat_amount"`
	Total     float64 `json:"total"`
	TipAmount float64 `json:"tip_amount"`

	Status string `gorm:"size:20;default:'open'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID string `gorm:"size:36;index;not null" json:"tenant_id"`
	OrderID  uint   `gorm:"index" json:"order_id"`

	ServiceID *uint   `json:"service_id"`
	Name      string  `gorm:"size:100" json:"name"`
	Quantity  int     `gorm:"default:1" json:"quantity"`
	UnitPrice float64 `json:"unit_price"`

	CreatedAt time.Time `json:"created_at"`
}

type Payment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID string `gorm:"size:36;index;not null" json:"tenant_id"`
	OrderID  uint   `gorm:"index" json:"order_id"`

	Method string  `gorm:"size:20;not null" json:"method"`
	Amount float64 `json:"amount"`
	Status string  `gorm:"size:20;default:'completed'" json:"status"`

	// External reference (Stripe payment intent, Vipps order id).
	ExternalRef string `gorm:"size:100" json:"external_ref"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Refund struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	TenantID  string `gorm:"size:36;index;not null" json:"tenant_id"`
	PaymentID uint   `gorm:"index" json:"payment_id"`

	Amount float64 `json:"amount"`
	Reason string  `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}

type SplitPayment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID string `gorm:"size:36;index;not null" json:"tenant_id"`
	OrderID  uint   `gorm:"index" json:"order_id"`

	Method string  `gorm:"size:20;not null" json:"method"`
	Amount float64 `json:"amount"`

	CreatedAt time.Time `json:"created_at"`
}
