package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sjperalta/antecipa-api/internal/events"
	"github.com/sjperalta/antecipa-api/internal/models"
	"github.com/sjperalta/antecipa-api/internal/monitoring"
	"github.com/sjperalta/antecipa-api/internal/repository"
	"github.com/sjperalta/antecipa-api/pkg/logger"
)

const entityInstallment = "Installment"

// AttachResult reports what happened to each requested receivable
type AttachResult struct {
	Added           []uint `json:"added"`
	AlreadyLinked   []uint `json:"already_linked"`
	LinkedElsewhere []uint `json:"linked_elsewhere"`
	Missing         []uint `json:"missing"`
	Recalculation
}

// DetachResult is the receivable freed by a detach
type DetachResult struct {
	ReceivableID uint `json:"receivable_id"`
	Recalculation
}

// LedgerService allocates receivables to installments
type LedgerService struct {
	planRepo       repository.PlanRepository
	ledgerRepo     repository.LedgerRepository
	receivableRepo repository.ReceivableRepository
	plans          *PlanService
	publisher      events.Publisher
	audit          *AuditService
}

func NewLedgerService(
	repos *repository.Repositories,
	plans *PlanService,
	publisher events.Publisher,
	audit *AuditService,
) *LedgerService {
	return &LedgerService{
		planRepo:       repos.Plan,
		ledgerRepo:     repos.Ledger,
		receivableRepo: repos.Receivable,
		plans:          plans,
		publisher:      publisher,
		audit:          audit,
	}
}

// installmentOf loads an installment and checks it belongs to planID
func (s *LedgerService) installmentOf(ctx context.Context, planID, installmentID uint) (*models.Installment, error) {
	inst, err := s.planRepo.FindInstallment(ctx, installmentID)
	if err != nil {
		return nil, notFound(err, "parcela %d", installmentID)
	}
	if inst.PlanID != planID {
		return nil, fmt.Errorf("parcela %d, plano %d: %w", installmentID, planID, ErrCrossPlanViolation)
	}
	return inst, nil
}

// Attach links receivables to an installment and recalculates the plan.
// Every id is validated before anything is written.
func (s *LedgerService) Attach(ctx context.Context, planID, installmentID uint, receivableIDs []uint) (*AttachResult, error) {
	ids := uniqueIDs(receivableIDs)
	if len(ids) == 0 {
		return nil, validationError("informe ao menos um recebível")
	}

	unlock, err := s.plans.lockPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, notFound(err, "plano %d", planID)
	}
	inst, err := s.installmentOf(ctx, planID, installmentID)
	if err != nil {
		return nil, err
	}

	receivables, err := s.receivableRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load receivables: %w", err)
	}
	found := make(map[uint]bool, len(receivables))
	for _, r := range receivables {
		if r.ProjectID != plan.ProjectID {
			return nil, fmt.Errorf("recebível %d (projeto %d), plano do projeto %d: %w",
				r.ID, r.ProjectID, plan.ProjectID, ErrCrossProjectViolation)
		}
		found[r.ID] = true
	}

	existing, err := s.ledgerRepo.FindByReceivableIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load links: %w", err)
	}
	linkedTo := make(map[uint]uint, len(existing))
	for _, l := range existing {
		linkedTo[l.ReceivableID] = l.InstallmentID
	}

	result := &AttachResult{
		Added:           []uint{},
		AlreadyLinked:   []uint{},
		LinkedElsewhere: []uint{},
		Missing:         []uint{},
	}
	var toCreate []models.ReceivableLink
	for _, id := range ids {
		switch owner, linked := linkedTo[id]; {
		case !found[id]:
			result.Missing = append(result.Missing, id)
		case linked && owner == installmentID:
			result.AlreadyLinked = append(result.AlreadyLinked, id)
		case linked:
			result.LinkedElsewhere = append(result.LinkedElsewhere, id)
		default:
			toCreate = append(toCreate, models.ReceivableLink{
				InstallmentID:    installmentID,
				ReceivableID:     id,
				EffectiveDueDate: inst.DueDate,
			})
		}
	}

	inserted, err := s.ledgerRepo.CreateBatch(ctx, toCreate)
	if err != nil {
		return nil, fmt.Errorf("failed to link receivables: %w", err)
	}
	if int(inserted) == len(toCreate) {
		for _, l := range toCreate {
			result.Added = append(result.Added, l.ReceivableID)
		}
	} else if err := s.resolveConflicts(ctx, installmentID, toCreate, result); err != nil {
		return nil, err
	}

	monitoring.RecordLinks("attach", len(result.Added))
	logger.Info("Receivables attached", "plan_id", planID, "installment_id", installmentID,
		"added", len(result.Added), "already_linked", len(result.AlreadyLinked),
		"linked_elsewhere", len(result.LinkedElsewhere), "missing", len(result.Missing))

	if len(result.Added) > 0 {
		s.audit.Logf(ctx, models.AuditActionAttach, entityInstallment, installmentID, "plano %d, recebíveis %v", planID, result.Added)
		if err := s.publisher.PublishReceivableLinked(ctx, events.ReceivableLinkedEvent{
			PlanID:        planID,
			InstallmentID: installmentID,
			ReceivableIDs: result.Added,
			Timestamp:     s.plans.now(),
		}); err != nil {
			logger.Warn("Failed to publish receivable links", "installment_id", installmentID, "error", err)
		}
	}

	result.Recalculation = s.plans.recalculateAfterMutation(ctx, planID, TriggerAttach)
	return result, nil
}

// resolveConflicts classifies receivables that another request linked
// between the read and the insert
func (s *LedgerService) resolveConflicts(ctx context.Context, installmentID uint, attempted []models.ReceivableLink, result *AttachResult) error {
	ids := make([]uint, 0, len(attempted))
	for _, l := range attempted {
		ids = append(ids, l.ReceivableID)
	}
	links, err := s.ledgerRepo.FindByReceivableIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to reload links: %w", err)
	}

	owner := make(map[uint]uint, len(links))
	for _, l := range links {
		owner[l.ReceivableID] = l.InstallmentID
	}
	for _, id := range ids {
		if owner[id] == installmentID {
			result.Added = append(result.Added, id)
		} else {
			result.LinkedElsewhere = append(result.LinkedElsewhere, id)
		}
	}
	return nil
}

// Detach removes one link (and its billing documents) and recalculates the plan
func (s *LedgerService) Detach(ctx context.Context, planID, installmentID, linkID uint) (*DetachResult, error) {
	unlock, err := s.plans.lockPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.installmentOf(ctx, planID, installmentID); err != nil {
		return nil, err
	}

	link, err := s.ledgerRepo.FindByID(ctx, linkID)
	if err != nil {
		return nil, notFound(err, "vínculo %d", linkID)
	}
	if link.InstallmentID != installmentID {
		return nil, fmt.Errorf("vínculo %d na parcela %d: %w", linkID, installmentID, ErrNotFound)
	}

	if err := s.ledgerRepo.Delete(ctx, linkID); err != nil {
		return nil, notFound(err, "vínculo %d", linkID)
	}

	monitoring.RecordLinks("detach", 1)
	logger.Info("Receivable detached", "plan_id", planID, "installment_id", installmentID, "link_id", linkID, "receivable_id", link.ReceivableID)
	s.audit.Logf(ctx, models.AuditActionDetach, entityInstallment, installmentID, "plano %d, vínculo %d, recebível %d", planID, linkID, link.ReceivableID)

	if err := s.publisher.PublishReceivableUnlinked(ctx, events.ReceivableUnlinkedEvent{
		PlanID:        planID,
		InstallmentID: installmentID,
		LinkID:        linkID,
		ReceivableID:  link.ReceivableID,
		Timestamp:     s.plans.now(),
	}); err != nil {
		logger.Warn("Failed to publish receivable unlink", "link_id", linkID, "error", err)
	}

	result := &DetachResult{ReceivableID: link.ReceivableID}
	result.Recalculation = s.plans.recalculateAfterMutation(ctx, planID, TriggerDetach)
	return result, nil
}

// CollectedAmount is the live sum of the receivables linked to an installment
func (s *LedgerService) CollectedAmount(ctx context.Context, installmentID uint) (decimal.Decimal, error) {
	if _, err := s.planRepo.FindInstallment(ctx, installmentID); err != nil {
		return decimal.Zero, notFound(err, "parcela %d", installmentID)
	}
	return s.ledgerRepo.SumByInstallment(ctx, installmentID)
}

// ListLinks returns the links of an installment with their receivables
func (s *LedgerService) ListLinks(ctx context.Context, planID, installmentID uint) ([]models.ReceivableLink, error) {
	if _, err := s.installmentOf(ctx, planID, installmentID); err != nil {
		return nil, err
	}
	return s.ledgerRepo.FindByInstallment(ctx, installmentID)
}

// uniqueIDs collapses duplicates and zero ids, keeping ascending order
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
