package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receivable is a trade receivable uploaded by a company
type Receivable struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ProjectID   uint            `gorm:"not null;index" json:"project_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	DueDate     time.Time       `gorm:"type:date;not null" json:"due_date"`
	PayerName   string          `json:"payer_name"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Receivable
func (Receivable) TableName() string {
	return "receivables"
}
