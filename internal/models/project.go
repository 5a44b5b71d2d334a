package models

import (
	"time"
)

// Project is the company workspace that owns receivables and anticipation requests
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	CompanyName string    `gorm:"not null" json:"company_name"`
	Document    string    `gorm:"size:18;index" json:"document"` // CNPJ
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}
