package models

import "time"

type DataImport struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID string `gorm:"size:36;index;not null" json:"tenant_id"`

	ImportType string `gorm:"size:20;not null" json:"import_type"`
	FileName   string `gorm:"size:255" json:"file_name"`
	FileSize   int    `json:"file_size"`

	ImportedCount int    `gorm:"default:0" json:"imported_count"`
	FailedCount   int    `gorm:"default:0" json:"failed_count"`
	Errors        string `gorm:"type:text" json:"errors"`

	Status     string `gorm:"size:30;default:'in_progress'" json:"status"`
	ImportedBy uint   `json:"imported_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
