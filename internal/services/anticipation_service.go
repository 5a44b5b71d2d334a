package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sjperalta/antecipa-api/internal/models"
	"github.com/sjperalta/antecipa-api/internal/repository"
	"github.com/sjperalta/antecipa-api/internal/statemachine"
	"github.com/sjperalta/antecipa-api/pkg/logger"
)

const entityAnticipation = "AnticipationRequest"

// ApprovalResult is the approved request with its freshly created plan
type ApprovalResult struct {
	Anticipation models.AnticipationResponse `json:"anticipation"`
	*BootstrapResult
}

type AnticipationService struct {
	anticipationRepo repository.AnticipationRepository
	planRepo         repository.PlanRepository
	plans            *PlanService
	audit            *AuditService
}

func NewAnticipationService(
	anticipationRepo repository.AnticipationRepository,
	planRepo repository.PlanRepository,
	plans *PlanService,
	audit *AuditService,
) *AnticipationService {
	return &AnticipationService{
		anticipationRepo: anticipationRepo,
		planRepo:         planRepo,
		plans:            plans,
		audit:            audit,
	}
}

func (s *AnticipationService) FindByID(ctx context.Context, id uint) (*models.AnticipationRequest, error) {
	req, err := s.anticipationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "antecipação %d", id)
	}
	return req, nil
}

func (s *AnticipationService) machine(req *models.AnticipationRequest) (*statemachine.AnticipationFSM, error) {
	m, err := statemachine.NewAnticipationFSM(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return m, nil
}

// Approve moves Solicitada → Aprovada and bootstraps the payment plan. If the
// plan cannot be created the request goes back to Solicitada.
func (s *AnticipationService) Approve(ctx context.Context, id uint, in BootstrapInput) (*ApprovalResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	req, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := s.machine(req)
	if err != nil {
		return nil, err
	}

	previous := req.Status
	if err := m.Approve(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	now := s.plans.now()
	req.ApprovedAt = &now
	if err := s.anticipationRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to approve anticipation: %w", err)
	}

	boot, err := s.plans.Bootstrap(ctx, id, in)
	if err != nil {
		req.Status = previous
		req.ApprovedAt = nil
		if rbErr := s.anticipationRepo.Update(ctx, req); rbErr != nil {
			logger.Error("Failed to revert anticipation approval", "anticipation_id", id, "error", rbErr)
		}
		return nil, err
	}

	s.audit.Logf(ctx, models.AuditActionApprove, entityAnticipation, id, "plano %d", boot.Plan.ID)
	req.Plan = boot.Plan
	return &ApprovalResult{Anticipation: req.ToResponse(), BootstrapResult: boot}, nil
}

// Reject moves Solicitada → Reprovada
func (s *AnticipationService) Reject(ctx context.Context, id uint, reason string) (*models.AnticipationRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validationError("motivo da reprovação é obrigatório")
	}

	req, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := s.machine(req)
	if err != nil {
		return nil, err
	}
	if err := m.Reject(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	req.RejectionReason = &reason
	if err := s.anticipationRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to reject anticipation: %w", err)
	}

	s.audit.Log(ctx, models.AuditActionReject, entityAnticipation, id, reason)
	return req, nil
}

// Complete moves Aprovada → Concluída once the plan is fully amortized
func (s *AnticipationService) Complete(ctx context.Context, id uint) (*models.AnticipationRequest, error) {
	req, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := s.machine(req)
	if err != nil {
		return nil, err
	}
	if !m.Can(statemachine.EventComplete) {
		return nil, fmt.Errorf("%w: antecipação %d está %s", ErrInvalidState, id, req.Status)
	}

	if req.Plan == nil || req.Plan.ID == 0 {
		return nil, fmt.Errorf("%w: antecipação %d não possui plano", ErrInvalidState, id)
	}
	plan, err := s.planRepo.FindByID(ctx, req.Plan.ID)
	if err != nil {
		return nil, notFound(err, "plano %d", req.Plan.ID)
	}
	// Installments without a PMT are skipped by the engine, so their stored
	// balance says nothing about what is still owed
	for _, inst := range plan.Installments {
		if !inst.PMT.Valid {
			return nil, fmt.Errorf("%w: parcela %d, antecipação %d não pode ser concluída", ErrMissingPricingInput, inst.Number, id)
		}
	}
	if n := len(plan.Installments); n > 0 {
		if last := plan.Installments[n-1]; !last.Balance.IsZero() {
			return nil, fmt.Errorf("%w: saldo devedor de %s na parcela %d", ErrInvalidState, last.Balance.StringFixed(2), last.Number)
		}
	}

	if err := m.Complete(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	now := s.plans.now()
	req.CompletedAt = &now
	if err := s.anticipationRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to complete anticipation: %w", err)
	}

	s.audit.Log(ctx, models.AuditActionComplete, entityAnticipation, id, "")
	return req, nil
}
