package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Index is a named monetary reference rate (IPCA, IGP-M, CDI...)
type Index struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Index
func (Index) TableName() string {
	return "indexes"
}

// IndexMonthlyUpdate is the percentage adjustment of an index for one calendar month
type IndexMonthlyUpdate struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	IndexID    uint            `gorm:"not null;uniqueIndex:idx_index_month" json:"index_id"`
	Month      time.Time       `gorm:"type:date;not null;uniqueIndex:idx_index_month" json:"month"` // first day of month
	Percentage decimal.Decimal `gorm:"type:decimal(9,6);not null" json:"percentage"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName specifies the table name for IndexMonthlyUpdate
func (IndexMonthlyUpdate) TableName() string {
	return "index_monthly_updates"
}
