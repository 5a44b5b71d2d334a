package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentPlan holds the settings of the repayment schedule of one approved anticipation
type PaymentPlan struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	GUID                  string          `gorm:"column:guid;size:36;uniqueIndex;not null" json:"guid"`
	AnticipationRequestID uint            `gorm:"not null;uniqueIndex" json:"anticipation_request_id"`
	ProjectID             uint            `gorm:"not null;index" json:"project_id"`
	BillingDay            int             `gorm:"not null" json:"billing_day"`
	ReserveCeiling        decimal.Decimal `gorm:"column:teto_fundo_reserva;type:decimal(15,2);not null" json:"teto_fundo_reserva"`
	IndexID               *uint           `gorm:"index" json:"index_id"`
	IndexBaseDate         *time.Time      `gorm:"type:date" json:"index_base_date"`
	LastRecalculatedAt    *time.Time      `json:"last_recalculated_at"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`

	// Associations
	AnticipationRequest *AnticipationRequest `gorm:"foreignKey:AnticipationRequestID" json:"-"`
	Installments        []Installment        `gorm:"foreignKey:PlanID" json:"installments,omitempty"`
}

// TableName specifies the table name for PaymentPlan
func (PaymentPlan) TableName() string {
	return "payment_plans"
}

// HasIndex returns true if the plan is configured for monetary correction
func (p *PaymentPlan) HasIndex() bool {
	return p.IndexID != nil && p.IndexBaseDate != nil
}

// Installment is one repayment period of a payment plan
type Installment struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	PlanID         uint                `gorm:"not null;uniqueIndex:idx_installment_plan_number" json:"plan_id"`
	Number         int                 `gorm:"column:numero_parcela;not null;uniqueIndex:idx_installment_plan_number" json:"numero_parcela"`
	DueDate        time.Time           `gorm:"column:data_vencimento;type:date;not null" json:"data_vencimento"`
	PMT            decimal.NullDecimal `gorm:"column:pmt;type:decimal(15,2)" json:"pmt"`
	Receivables    decimal.Decimal     `gorm:"column:recebiveis;type:decimal(15,2);not null;default:0" json:"recebiveis"`
	Balance        decimal.Decimal     `gorm:"column:saldo_devedor;type:decimal(15,2);not null;default:0" json:"saldo_devedor"`
	ReserveFund    decimal.Decimal     `gorm:"column:fundo_reserva;type:decimal(15,2);not null;default:0" json:"fundo_reserva"`
	Refund         decimal.Decimal     `gorm:"column:devolucao;type:decimal(15,2);not null;default:0" json:"devolucao"`
	RecalculatedAt *time.Time          `json:"recalculated_at"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`

	// Associations
	Links []ReceivableLink `gorm:"foreignKey:InstallmentID" json:"-"`
}

// TableName specifies the table name for Installment
func (Installment) TableName() string {
	return "installments"
}

// PlanResponse is the JSON response format for a plan with its schedule
type PlanResponse struct {
	ID                    uint                  `json:"id"`
	GUID                  string                `json:"guid"`
	AnticipationRequestID uint                  `json:"anticipation_request_id"`
	ProjectID             uint                  `json:"project_id"`
	BillingDay            int                   `json:"billing_day"`
	ReserveCeiling        decimal.Decimal       `json:"teto_fundo_reserva"`
	IndexID               *uint                 `json:"index_id"`
	IndexBaseDate         *time.Time            `json:"index_base_date"`
	LastRecalculatedAt    *time.Time            `json:"last_recalculated_at"`
	TotalReceivables      decimal.Decimal       `json:"total_recebiveis"`
	TotalRefund           decimal.Decimal       `json:"total_devolucao"`
	OutstandingBalance    decimal.Decimal       `json:"saldo_devedor_atual"`
	Installments          []InstallmentResponse `json:"installments"`
}

// InstallmentResponse is the JSON response format for installments
type InstallmentResponse struct {
	ID          uint                `json:"id"`
	Number      int                 `json:"numero_parcela"`
	DueDate     time.Time           `json:"data_vencimento"`
	PMT         decimal.NullDecimal `json:"pmt"`
	Receivables decimal.Decimal     `json:"recebiveis"`
	Balance     decimal.Decimal     `json:"saldo_devedor"`
	ReserveFund decimal.Decimal     `json:"fundo_reserva"`
	Refund      decimal.Decimal     `json:"devolucao"`
	LinkCount   int                 `json:"receivable_count"`
}

// ToResponse converts Installment to InstallmentResponse
func (i *Installment) ToResponse() InstallmentResponse {
	return InstallmentResponse{
		ID:          i.ID,
		Number:      i.Number,
		DueDate:     i.DueDate,
		PMT:         i.PMT,
		Receivables: i.Receivables,
		Balance:     i.Balance,
		ReserveFund: i.ReserveFund,
		Refund:      i.Refund,
		LinkCount:   len(i.Links),
	}
}

// ToResponse converts PaymentPlan to PlanResponse, totalling the schedule
func (p *PaymentPlan) ToResponse() PlanResponse {
	resp := PlanResponse{
		ID:                    p.ID,
		GUID:                  p.GUID,
		AnticipationRequestID: p.AnticipationRequestID,
		ProjectID:             p.ProjectID,
		BillingDay:            p.BillingDay,
		ReserveCeiling:        p.ReserveCeiling,
		IndexID:               p.IndexID,
		IndexBaseDate:         p.IndexBaseDate,
		LastRecalculatedAt:    p.LastRecalculatedAt,
		Installments:          make([]InstallmentResponse, 0, len(p.Installments)),
	}

	for _, inst := range p.Installments {
		resp.TotalReceivables = resp.TotalReceivables.Add(inst.Receivables)
		resp.TotalRefund = resp.TotalRefund.Add(inst.Refund)
		resp.OutstandingBalance = inst.Balance
		resp.Installments = append(resp.Installments, inst.ToResponse())
	}

	return resp
}
