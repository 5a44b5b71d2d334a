package handlers

import (
	"github.com/sjperalta/antecipa-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Anticipation *AnticipationHandler
	Plan         *PlanHandler
	Ledger       *LedgerHandler
	Index        *IndexHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Anticipation: NewAnticipationHandler(svcs.Anticipation),
		Plan:         NewPlanHandler(svcs.Plan, svcs.Index, svcs.Audit, svcs.Export, svcs.Report),
		Ledger:       NewLedgerHandler(svcs.Ledger, svcs.Plan),
		Index:        NewIndexHandler(svcs.Index),
		Job:          NewJobHandler(svcs.Job),
	}
}
