package models

import "time"

type TenantStatus string

const (
	TenantTrial     TenantStatus = "trial"
	TenantActive    TenantStatus = "active"
	TenantSuspended TenantStatus = "suspended"
	TenantCanceled  TenantStatus = "canceled"
)

type Tenant struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Name      string `gorm:"size:100;not null" json:"name"`
	Subdomain string `gorm:"size:100;uniqueIndex;not null" json:"subdomain"`

	Status     string     `gorm:"size:20;default:'trial'" json:"status"`
	TrialEndsAt *time.Time `json:"trial_ends_at"`

	Phone    string `gorm:"size:20" json:"phone"`
	Email    string `gorm:"size:100" json:"email"`
	Timezone string `gorm:"size:50;default:'Europe/Oslo'" json:"timezone"`
	Currency string `gorm:"size:3;default:'NOK'" json:"currency"`
	VatRate  float64 `gorm:"default:25" json:"vat_rate"`

	CancellationWindowHours int `gorm:"default:24" json:"cancellation_window_hours"`

	OnboardingCompleted bool `gorm:"default:false" json:"onboarding_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
