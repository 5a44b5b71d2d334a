package models

import (
	"time"
)

// AuditLog records every mutation of a payment plan and its ledger
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorID   uint      `gorm:"index" json:"actor_id"`          // subject of the bearer token, 0 for background jobs
	Action    string    `gorm:"size:50;not null" json:"action"` // ATTACH, DETACH, RECALCULATE, DELETE, APPROVE...
	Entity    string    `gorm:"size:50;not null" json:"entity"` // PaymentPlan, Installment, AnticipationRequest
	EntityID  uint      `gorm:"index" json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit action constants
const (
	AuditActionAttach      = "ATTACH"
	AuditActionDetach      = "DETACH"
	AuditActionRecalculate = "RECALCULATE"
	AuditActionIndex       = "INDEX_SETTINGS"
	AuditActionBootstrap   = "BOOTSTRAP"
	AuditActionDelete      = "DELETE"
	AuditActionApprove     = "APPROVE"
	AuditActionReject      = "REJECT"
	AuditActionComplete    = "COMPLETE"
)
