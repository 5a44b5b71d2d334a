package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Anticipation AnticipationRepository
	Plan         PlanRepository
	Ledger       LedgerRepository
	Receivable   ReceivableRepository
	Index        IndexRepository
	Audit        AuditRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Anticipation: NewAnticipationRepository(db),
		Plan:         NewPlanRepository(db),
		Ledger:       NewLedgerRepository(db),
		Receivable:   NewReceivableRepository(db),
		Index:        NewIndexRepository(db),
		Audit:        NewAuditRepository(db),
	}
}
