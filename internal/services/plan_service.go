package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sjperalta/antecipa-api/internal/adjustment"
	"github.com/sjperalta/antecipa-api/internal/amortization"
	"github.com/sjperalta/antecipa-api/internal/events"
	"github.com/sjperalta/antecipa-api/internal/jobs"
	"github.com/sjperalta/antecipa-api/internal/lock"
	"github.com/sjperalta/antecipa-api/internal/models"
	"github.com/sjperalta/antecipa-api/internal/monitoring"
	"github.com/sjperalta/antecipa-api/internal/repository"
	"github.com/sjperalta/antecipa-api/pkg/logger"
)

// Recalculation triggers, used as metric labels
const (
	TriggerManual    = "manual"
	TriggerAttach    = "attach"
	TriggerDetach    = "detach"
	TriggerIndex     = "index"
	TriggerBootstrap = "bootstrap"
	TriggerRetry     = "retry"
	TriggerReconcile = "reconcile"
)

// EntityPlan is the audit entity name of payment plans
const EntityPlan = "PaymentPlan"

// PlanOptions tunes recalculation and locking
type PlanOptions struct {
	Policy            amortization.Policy
	SeedFromNetAmount bool
	LockTimeout       time.Duration
	RetryDelay        time.Duration
	RetryAttempts     int
}

// RecalculationReport summarizes one full pass over a plan
type RecalculationReport struct {
	PlanID       uint          `json:"plan_id"`
	Installments int           `json:"installments"`
	Recalculated int           `json:"recalculated"`
	Skipped      []int         `json:"skipped,omitempty"`
	Warnings     []string      `json:"warnings,omitempty"`
	Duration     time.Duration `json:"-"`
	DurationMS   int64         `json:"duration_ms"`
}

// Recalculation is attached to every mutation result. Warning is set when the
// mutation was committed but the recalculation that follows it failed.
type Recalculation struct {
	Report  *RecalculationReport `json:"recalculation,omitempty"`
	Warning string               `json:"warning,omitempty"`
}

// BootstrapInput holds the settings and PMTs of a new plan
type BootstrapInput struct {
	BillingDay     int
	ReserveCeiling decimal.Decimal
	PMTs           []decimal.NullDecimal
	FirstDueMonth  time.Time
	IndexID        *uint
	IndexBaseDate  *time.Time
}

// Validate checks the input before anything is written
func (in BootstrapInput) Validate() error {
	if in.BillingDay < 1 || in.BillingDay > 31 {
		return validationError("dia de cobrança deve estar entre 1 e 31")
	}
	if in.ReserveCeiling.IsNegative() {
		return validationError("teto do fundo de reserva não pode ser negativo")
	}
	if len(in.PMTs) == 0 {
		return validationError("o plano precisa de ao menos uma parcela")
	}
	for i, pmt := range in.PMTs {
		if pmt.Valid && pmt.Decimal.IsNegative() {
			return validationError("pmt da parcela %d não pode ser negativo", i)
		}
	}
	if in.FirstDueMonth.IsZero() {
		return validationError("mês do primeiro vencimento é obrigatório")
	}
	return validateIndexPair(in.IndexID, in.IndexBaseDate)
}

func validateIndexPair(indexID *uint, baseDate *time.Time) error {
	if (indexID == nil) != (baseDate == nil) {
		return validationError("índice e data base devem ser informados juntos")
	}
	return nil
}

// BootstrapResult is the created plan and its first recalculation
type BootstrapResult struct {
	Plan *models.PaymentPlan `json:"plan"`
	Recalculation
}

// InstallmentDueDate places installment offset months after firstMonth on the
// billing day, clamped to the last day of short months
func InstallmentDueDate(firstMonth time.Time, offset, billingDay int) time.Time {
	month := time.Date(firstMonth.Year(), firstMonth.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
	last := month.AddDate(0, 1, -1).Day()
	if billingDay > last {
		billingDay = last
	}
	return time.Date(month.Year(), month.Month(), billingDay, 0, 0, 0, 0, time.UTC)
}

type PlanService struct {
	planRepo         repository.PlanRepository
	ledgerRepo       repository.LedgerRepository
	anticipationRepo repository.AnticipationRepository
	indexRepo        repository.IndexRepository
	locker           lock.PlanLocker
	publisher        events.Publisher
	audit            *AuditService
	worker           *jobs.Worker
	opts             PlanOptions
	now              func() time.Time
}

func NewPlanService(
	repos *repository.Repositories,
	locker lock.PlanLocker,
	publisher events.Publisher,
	audit *AuditService,
	worker *jobs.Worker,
	opts PlanOptions,
) *PlanService {
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = 10 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 30 * time.Second
	}
	return &PlanService{
		planRepo:         repos.Plan,
		ledgerRepo:       repos.Ledger,
		anticipationRepo: repos.Anticipation,
		indexRepo:        repos.Index,
		locker:           locker,
		publisher:        publisher,
		audit:            audit,
		worker:           worker,
		opts:             opts,
		now:              time.Now,
	}
}

// GetPlan returns a plan with its ordered schedule and links
func (s *PlanService) GetPlan(ctx context.Context, planID uint) (*models.PaymentPlan, error) {
	plan, err := s.planRepo.FindByIDWithSchedule(ctx, planID)
	if err != nil {
		return nil, notFound(err, "plano %d", planID)
	}
	return plan, nil
}

// Bootstrap creates the plan and installments 0..N-1 of an approved
// anticipation, then runs the first recalculation
func (s *PlanService) Bootstrap(ctx context.Context, anticipationID uint, in BootstrapInput) (*BootstrapResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	anticipation, err := s.anticipationRepo.FindByID(ctx, anticipationID)
	if err != nil {
		return nil, notFound(err, "antecipação %d", anticipationID)
	}
	if anticipation.Status != models.AnticipationStatusApproved {
		return nil, fmt.Errorf("%w: antecipação %d está %s", ErrInvalidState, anticipationID, anticipation.Status)
	}
	if anticipation.Plan != nil && anticipation.Plan.ID != 0 {
		return nil, fmt.Errorf("%w: antecipação %d já possui plano", ErrInvalidState, anticipationID)
	}
	if in.IndexID != nil {
		if _, err := s.indexRepo.FindByID(ctx, *in.IndexID); err != nil {
			return nil, notFound(err, "índice %d", *in.IndexID)
		}
	}

	plan := &models.PaymentPlan{
		GUID:                  uuid.NewString(),
		AnticipationRequestID: anticipation.ID,
		ProjectID:             anticipation.ProjectID,
		BillingDay:            in.BillingDay,
		ReserveCeiling:        in.ReserveCeiling,
		IndexID:               in.IndexID,
	}
	if in.IndexBaseDate != nil {
		base := adjustment.MonthStart(*in.IndexBaseDate)
		plan.IndexBaseDate = &base
	}
	for i, pmt := range in.PMTs {
		plan.Installments = append(plan.Installments, models.Installment{
			Number:      i,
			DueDate:     InstallmentDueDate(in.FirstDueMonth, i, in.BillingDay),
			PMT:         pmt,
			Receivables: decimal.Zero,
			Balance:     decimal.Zero,
			ReserveFund: decimal.Zero,
			Refund:      decimal.Zero,
		})
	}

	if err := s.planRepo.CreateWithInstallments(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	logger.Info("Payment plan created", "plan_id", plan.ID, "anticipation_id", anticipationID, "installments", len(plan.Installments))
	s.audit.Logf(ctx, models.AuditActionBootstrap, EntityPlan, plan.ID, "antecipação %d, %d parcelas", anticipationID, len(plan.Installments))

	result := &BootstrapResult{Plan: plan}
	unlock, err := s.lockPlan(ctx, plan.ID)
	if err != nil {
		result.Warning = s.deferRecalculation(plan.ID, TriggerBootstrap, err)
		return result, nil
	}
	defer unlock()

	result.Recalculation = s.recalculateAfterMutation(ctx, plan.ID, TriggerBootstrap)
	if result.Report != nil {
		if fresh, err := s.planRepo.FindByID(ctx, plan.ID); err == nil {
			result.Plan = fresh
		}
	}
	return result, nil
}

// Recalculate runs a full pass over the plan on demand
func (s *PlanService) Recalculate(ctx context.Context, planID uint) (*RecalculationReport, error) {
	unlock, err := s.lockPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	report, err := s.recalculate(ctx, planID, TriggerManual)
	if err != nil {
		return nil, err
	}

	s.audit.Logf(ctx, models.AuditActionRecalculate, EntityPlan, planID, "%d parcelas recalculadas, %d ignoradas", report.Recalculated, len(report.Skipped))
	return report, nil
}

// UpdateIndexSettings changes the plan's monetary correction settings, the
// only setting that may change once installments exist. Passing nil for both
// clears them.
func (s *PlanService) UpdateIndexSettings(ctx context.Context, planID uint, indexID *uint, baseDate *time.Time) (*Recalculation, error) {
	if err := validateIndexPair(indexID, baseDate); err != nil {
		return nil, err
	}
	if indexID != nil {
		if _, err := s.indexRepo.FindByID(ctx, *indexID); err != nil {
			return nil, notFound(err, "índice %d", *indexID)
		}
		base := adjustment.MonthStart(*baseDate)
		baseDate = &base
	}

	unlock, err := s.lockPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.planRepo.UpdateIndexSettings(ctx, planID, indexID, baseDate); err != nil {
		return nil, notFound(err, "plano %d", planID)
	}

	details := "índice removido"
	if indexID != nil {
		details = fmt.Sprintf("índice %d, data base %s", *indexID, baseDate.Format("2006-01"))
	}
	s.audit.Log(ctx, models.AuditActionIndex, EntityPlan, planID, details)

	outcome := s.recalculateAfterMutation(ctx, planID, TriggerIndex)
	return &outcome, nil
}

// DeletePlan removes the plan with its installments, links and billing
// documents in one transaction
func (s *PlanService) DeletePlan(ctx context.Context, planID uint) error {
	unlock, err := s.lockPlan(ctx, planID)
	if err != nil {
		return err
	}
	defer unlock()

	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return notFound(err, "plano %d", planID)
	}

	if err := s.planRepo.Delete(ctx, planID); err != nil {
		return notFound(err, "plano %d", planID)
	}

	logger.Info("Payment plan deleted", "plan_id", planID, "anticipation_id", plan.AnticipationRequestID)
	s.audit.Logf(ctx, models.AuditActionDelete, EntityPlan, planID, "antecipação %d", plan.AnticipationRequestID)

	if err := s.publisher.PublishPlanDeleted(ctx, events.PlanDeletedEvent{
		PlanID:                planID,
		AnticipationRequestID: plan.AnticipationRequestID,
		Timestamp:             s.now(),
	}); err != nil {
		logger.Warn("Failed to publish plan deletion", "plan_id", planID, "error", err)
	}
	return nil
}

// ReconcileAll recalculates every plan. Run by the scheduler to heal plans
// left stale by a crash between a mutation and its recalculation.
func (s *PlanService) ReconcileAll(ctx context.Context) error {
	ids, err := s.planRepo.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}

	failed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		unlock, err := s.lockPlan(ctx, id)
		if err != nil {
			failed++
			logger.Warn("Skipping plan during reconciliation", "plan_id", id, "error", err)
			continue
		}
		_, err = s.recalculate(ctx, id, TriggerReconcile)
		unlock()

		if err != nil && !errors.Is(err, ErrNotFound) {
			failed++
			logger.Error("Plan reconciliation failed", "plan_id", id, "error", err)
			sentry.CaptureException(err)
		}
	}

	logger.Info("Plan reconciliation finished", "plans", len(ids), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%w: %d de %d planos", ErrRecalculationFailed, failed, len(ids))
	}
	return nil
}

func (s *PlanService) lockPlan(ctx context.Context, planID uint) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.opts.LockTimeout)
	defer cancel()

	unlock, err := s.locker.Lock(lockCtx, planID)
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			return nil, fmt.Errorf("plano %d: %w", planID, ErrPlanLocked)
		}
		return nil, err
	}
	return unlock, nil
}

// recalculateAfterMutation never fails the caller: the mutation is already
// committed, so a failed pass becomes a warning plus a scheduled retry
func (s *PlanService) recalculateAfterMutation(ctx context.Context, planID uint, trigger string) Recalculation {
	report, err := s.recalculate(ctx, planID, trigger)
	if err != nil {
		return Recalculation{Warning: s.deferRecalculation(planID, trigger, err)}
	}
	return Recalculation{Report: report}
}

func (s *PlanService) deferRecalculation(planID uint, trigger string, cause error) string {
	logger.Error("Recalculation failed after mutation", "plan_id", planID, "trigger", trigger, "error", cause)
	sentry.CaptureException(cause)
	s.scheduleRetry(planID, 1)
	return fmt.Sprintf("%s; uma nova tentativa foi agendada", ErrRecalculationFailed)
}

func (s *PlanService) scheduleRetry(planID uint, attempt int) {
	if s.worker == nil || attempt > s.opts.RetryAttempts {
		logger.Error("Giving up on plan recalculation, reconciliation will pick it up", "plan_id", planID, "attempts", attempt-1)
		return
	}

	monitoring.RecordRetryScheduled()
	delay := s.opts.RetryDelay * time.Duration(attempt)

	s.worker.ScheduleAt(time.Now().Add(delay), func(ctx context.Context) error {
		unlock, err := s.lockPlan(ctx, planID)
		if err != nil {
			s.scheduleRetry(planID, attempt+1)
			return err
		}
		defer unlock()

		if _, err := s.recalculate(ctx, planID, TriggerRetry); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			s.scheduleRetry(planID, attempt+1)
			return err
		}
		logger.Info("Plan recalculated on retry", "plan_id", planID, "attempt", attempt)
		return nil
	})
}

// recalculate must be called with the plan lock held
func (s *PlanService) recalculate(ctx context.Context, planID uint, trigger string) (*RecalculationReport, error) {
	start := time.Now()
	report, err := s.runRecalculation(ctx, planID)

	status := monitoring.StatusSuccess
	if err != nil {
		status = monitoring.StatusFailure
	}
	monitoring.RecordRecalculation(trigger, status, time.Since(start))

	if report != nil {
		report.Duration = time.Since(start)
		report.DurationMS = report.Duration.Milliseconds()
	}
	return report, err
}

func (s *PlanService) runRecalculation(ctx context.Context, planID uint) (*RecalculationReport, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, notFound(err, "plano %d", planID)
	}

	anticipation, err := s.anticipationRepo.FindByID(ctx, plan.AnticipationRequestID)
	if err != nil {
		return nil, fmt.Errorf("%w: antecipação %d: %w", ErrRecalculationFailed, plan.AnticipationRequestID, err)
	}

	// Live sums, never the cached recebiveis column
	collected, err := s.ledgerRepo.SumByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("%w: soma dos recebíveis: %w", ErrRecalculationFailed, err)
	}

	periods := make([]amortization.Period, 0, len(plan.Installments))
	idByNumber := make(map[int]uint, len(plan.Installments))
	for _, inst := range plan.Installments {
		periods = append(periods, amortization.Period{
			Number:    inst.Number,
			PMT:       inst.PMT,
			Collected: collected[inst.ID],
		})
		idByNumber[inst.Number] = inst.ID
	}

	result, err := amortization.Recalculate(amortization.Input{
		Principal: s.seed(anticipation),
		Ceiling:   plan.ReserveCeiling,
		Periods:   periods,
		Policy:    s.opts.Policy,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecalculationFailed, err)
	}

	figures := make([]repository.InstallmentFigures, 0, len(result.Figures))
	totalRefund := decimal.Zero
	for _, f := range result.Figures {
		figures = append(figures, repository.InstallmentFigures{
			InstallmentID: idByNumber[f.Number],
			Receivables:   f.Collected,
			Balance:       f.Balance,
			ReserveFund:   f.ReserveFund,
			Refund:        f.Refund,
		})
		totalRefund = totalRefund.Add(f.Refund)
	}

	at := s.now()
	if err := s.planRepo.SaveFigures(ctx, planID, figures, at); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecalculationFailed, err)
	}

	report := &RecalculationReport{
		PlanID:       planID,
		Installments: len(plan.Installments),
		Recalculated: len(figures),
		Skipped:      result.Skipped,
	}
	for _, n := range result.Skipped {
		report.Warnings = append(report.Warnings, fmt.Sprintf("parcela %d: %s", n, ErrMissingPricingInput))
	}
	if len(result.Skipped) > 0 {
		logger.Warn("Installments skipped for missing PMT", "plan_id", planID, "installments", result.Skipped)
	}

	event := events.PlanRecalculatedEvent{
		PlanID:       planID,
		Installments: report.Installments,
		Skipped:      result.Skipped,
		TotalRefund:  totalRefund,
		Timestamp:    at,
	}
	if n := len(result.Figures); n > 0 {
		event.FinalBalance = result.Figures[n-1].Balance
		event.FinalReserve = result.Figures[n-1].ReserveFund
	}
	if err := s.publisher.PublishPlanRecalculated(ctx, event); err != nil {
		logger.Warn("Failed to publish plan recalculation", "plan_id", planID, "error", err)
	}

	return report, nil
}

func (s *PlanService) seed(anticipation *models.AnticipationRequest) decimal.Decimal {
	if s.opts.SeedFromNetAmount {
		return anticipation.NetAmount
	}
	return anticipation.TotalAmount
}
