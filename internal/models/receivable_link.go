package models

import (
	"time"
)

// ReceivableLink allocates one receivable to one installment for billing
type ReceivableLink struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	InstallmentID    uint      `gorm:"not null;index" json:"installment_id"`
	ReceivableID     uint      `gorm:"not null;uniqueIndex" json:"receivable_id"` // at most one installment per receivable
	EffectiveDueDate time.Time `gorm:"column:nova_data_vencimento;type:date;not null" json:"nova_data_vencimento"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Associations
	Receivable  Receivable  `gorm:"foreignKey:ReceivableID" json:"receivable,omitempty"`
	Installment Installment `gorm:"foreignKey:InstallmentID" json:"-"`
}

// TableName specifies the table name for ReceivableLink
func (ReceivableLink) TableName() string {
	return "receivable_links"
}

// BillingDocument is an artifact issued by the billing provider for a link (e.g. boleto)
type BillingDocument struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	LinkID        uint       `gorm:"not null;index" json:"link_id"`
	ExternalID    string     `gorm:"index" json:"external_id"`
	DocumentType  string     `gorm:"default:boleto;not null" json:"document_type"`
	DigitableLine *string    `json:"digitable_line"`
	IssuedAt      *time.Time `json:"issued_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for BillingDocument
func (BillingDocument) TableName() string {
	return "billing_documents"
}

// ReceivableLinkResponse is the JSON response format for links
type ReceivableLinkResponse struct {
	ID               uint      `json:"id"`
	InstallmentID    uint      `json:"installment_id"`
	ReceivableID     uint      `json:"receivable_id"`
	EffectiveDueDate time.Time `json:"nova_data_vencimento"`
	OriginalDueDate  time.Time `json:"data_vencimento_original"`
	Amount           string    `json:"valor"`
	PayerName        string    `json:"payer_name,omitempty"`
}

// ToResponse converts ReceivableLink to ReceivableLinkResponse
func (l *ReceivableLink) ToResponse() ReceivableLinkResponse {
	return ReceivableLinkResponse{
		ID:               l.ID,
		InstallmentID:    l.InstallmentID,
		ReceivableID:     l.ReceivableID,
		EffectiveDueDate: l.EffectiveDueDate,
		OriginalDueDate:  l.Receivable.DueDate,
		Amount:           l.Receivable.Amount.StringFixed(2),
		PayerName:        l.Receivable.PayerName,
	}
}
