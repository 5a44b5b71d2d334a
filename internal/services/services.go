package services

import (
	"time"

	"github.com/sjperalta/antecipa-api/internal/amortization"
	"github.com/sjperalta/antecipa-api/internal/config"
	"github.com/sjperalta/antecipa-api/internal/events"
	"github.com/sjperalta/antecipa-api/internal/jobs"
	"github.com/sjperalta/antecipa-api/internal/lock"
	"github.com/sjperalta/antecipa-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Anticipation *AnticipationService
	Plan         *PlanService
	Ledger       *LedgerService
	Index        *IndexService
	Audit        *AuditService
	Export       *ExportService
	Report       *ReportService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(
	repos *repository.Repositories,
	worker *jobs.Worker,
	locker lock.PlanLocker,
	publisher events.Publisher,
	cfg *config.Config,
) *Services {
	auditSvc := NewAuditService(repos.Audit)

	planSvc := NewPlanService(repos, locker, publisher, auditSvc, worker, PlanOptions{
		Policy:            amortization.Policy{FloorReserveAtZero: cfg.FloorReserveAtZero},
		SeedFromNetAmount: cfg.SeedFromNetAmount,
		LockTimeout:       10 * time.Second,
		RetryDelay:        cfg.RecalcRetryDelay,
		RetryAttempts:     cfg.RecalcRetryAttempts,
	})

	return &Services{
		Anticipation: NewAnticipationService(repos.Anticipation, repos.Plan, planSvc, auditSvc),
		Plan:         planSvc,
		Ledger:       NewLedgerService(repos, planSvc, publisher, auditSvc),
		Index:        NewIndexService(repos.Index, repos.Plan),
		Audit:        auditSvc,
		Export:       NewExportService(planSvc),
		Report:       NewReportService(planSvc),
		Job:          NewJobService(worker, planSvc),
	}
}
