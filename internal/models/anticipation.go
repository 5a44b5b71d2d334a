package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AnticipationStatus is the lifecycle tag of an anticipation request
type AnticipationStatus string

// Anticipation status constants
const (
	AnticipationStatusRequested AnticipationStatus = "Solicitada"
	AnticipationStatusApproved  AnticipationStatus = "Aprovada"
	AnticipationStatusCompleted AnticipationStatus = "Concluída"
	AnticipationStatusRejected  AnticipationStatus = "Reprovada"
)

// ParseAnticipationStatus rejects any status outside the closed set
func ParseAnticipationStatus(s string) (AnticipationStatus, error) {
	switch st := AnticipationStatus(s); st {
	case AnticipationStatusRequested, AnticipationStatusApproved,
		AnticipationStatusCompleted, AnticipationStatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("status de antecipação desconhecido: %q", s)
}

// IsTerminal reports whether no further transition is possible
func (s AnticipationStatus) IsTerminal() bool {
	return s == AnticipationStatusCompleted || s == AnticipationStatusRejected
}

// AnticipationRequest is a cash advance requested against receivables
type AnticipationRequest struct {
	ID              uint               `gorm:"primaryKey" json:"id"`
	ProjectID       uint               `gorm:"not null;index" json:"project_id"`
	TotalAmount     decimal.Decimal    `gorm:"column:valor_total;type:decimal(15,2);not null" json:"valor_total"`
	NetAmount       decimal.Decimal    `gorm:"column:valor_liquido;type:decimal(15,2);not null" json:"valor_liquido"`
	ReceivableCount int                `gorm:"not null;default:0" json:"receivable_count"`
	Status          AnticipationStatus `gorm:"type:varchar(20);default:Solicitada;not null;index" json:"status"`
	RejectionReason *string            `gorm:"type:text" json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time         `json:"approved_at"`
	CompletedAt     *time.Time         `json:"completed_at"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`

	// Associations
	Project Project      `gorm:"foreignKey:ProjectID" json:"-"`
	Plan    *PaymentPlan `gorm:"foreignKey:AnticipationRequestID" json:"plan,omitempty"`
}

// TableName specifies the table name for AnticipationRequest
func (AnticipationRequest) TableName() string {
	return "anticipation_requests"
}

// MayApprove returns true if the request can be approved
func (a *AnticipationRequest) MayApprove() bool {
	return a.Status == AnticipationStatusRequested
}

// MayReject returns true if the request can be rejected
func (a *AnticipationRequest) MayReject() bool {
	return a.Status == AnticipationStatusRequested
}

// MayComplete returns true if the request can be concluded
func (a *AnticipationRequest) MayComplete() bool {
	return a.Status == AnticipationStatusApproved
}

// AnticipationResponse is the JSON response format for anticipation requests
type AnticipationResponse struct {
	ID              uint               `json:"id"`
	ProjectID       uint               `json:"project_id"`
	TotalAmount     decimal.Decimal    `json:"valor_total"`
	NetAmount       decimal.Decimal    `json:"valor_liquido"`
	ReceivableCount int                `json:"receivable_count"`
	Status          AnticipationStatus `json:"status"`
	RejectionReason *string            `json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time         `json:"approved_at"`
	CompletedAt     *time.Time         `json:"completed_at"`
	PlanID          *uint              `json:"plan_id,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// ToResponse converts AnticipationRequest to AnticipationResponse
func (a *AnticipationRequest) ToResponse() AnticipationResponse {
	resp := AnticipationResponse{
		ID:              a.ID,
		ProjectID:       a.ProjectID,
		TotalAmount:     a.TotalAmount,
		NetAmount:       a.NetAmount,
		ReceivableCount: a.ReceivableCount,
		Status:          a.Status,
		RejectionReason: a.RejectionReason,
		ApprovedAt:      a.ApprovedAt,
		CompletedAt:     a.CompletedAt,
		CreatedAt:       a.CreatedAt,
	}
	if a.Plan != nil && a.Plan.ID != 0 {
		resp.PlanID = &a.Plan.ID
	}
	return resp
}
