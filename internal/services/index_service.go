package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sjperalta/antecipa-api/internal/adjustment"
	"github.com/sjperalta/antecipa-api/internal/repository"
)

// ProjectedInstallment is an installment's PMT corrected to its due date
type ProjectedInstallment struct {
	InstallmentID uint                `json:"installment_id"`
	Number        int                 `json:"numero_parcela"`
	DueDate       time.Time           `json:"data_vencimento"`
	PMT           decimal.NullDecimal `json:"pmt"`
	Factor        decimal.Decimal     `json:"factor"`
	AdjustedPMT   decimal.NullDecimal `json:"pmt_corrigido"`
}

// Projection is the index-corrected schedule of a plan. Nothing is persisted.
type Projection struct {
	PlanID        uint                   `json:"plan_id"`
	IndexID       uint                   `json:"index_id"`
	IndexBaseDate time.Time              `json:"index_base_date"`
	Installments  []ProjectedInstallment `json:"installments"`
}

type IndexService struct {
	indexRepo repository.IndexRepository
	planRepo  repository.PlanRepository
}

func NewIndexService(indexRepo repository.IndexRepository, planRepo repository.PlanRepository) *IndexService {
	return &IndexService{indexRepo: indexRepo, planRepo: planRepo}
}

// CompoundAdjustment compounds the monthly percentages of an index over
// [start, end], both normalized to the first of the month
func (s *IndexService) CompoundAdjustment(ctx context.Context, indexID uint, start, end string) (*adjustment.Result, error) {
	from, to, err := adjustment.ParseRange(start, end)
	if err != nil {
		return nil, err
	}

	if _, err := s.indexRepo.FindByID(ctx, indexID); err != nil {
		return nil, notFound(err, "índice %d", indexID)
	}

	series, err := s.series(ctx, indexID, from, to)
	if err != nil {
		return nil, err
	}

	result := adjustment.Compound(series)
	return &result, nil
}

func (s *IndexService) series(ctx context.Context, indexID uint, from, to time.Time) ([]adjustment.MonthlyRate, error) {
	updates, err := s.indexRepo.MonthlyUpdates(ctx, indexID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load index series: %w", err)
	}

	series := make([]adjustment.MonthlyRate, 0, len(updates))
	for _, u := range updates {
		series = append(series, adjustment.MonthlyRate{
			Month:      adjustment.MonthStart(u.Month),
			Percentage: u.Percentage,
		})
	}
	return series, nil
}

// ProjectSchedule corrects each installment's PMT by the months elapsed
// between the plan's index base month and the month before its due date
func (s *IndexService) ProjectSchedule(ctx context.Context, planID uint) (*Projection, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, notFound(err, "plano %d", planID)
	}
	if !plan.HasIndex() {
		return nil, validationError("plano %d não possui índice configurado", planID)
	}

	base := adjustment.MonthStart(*plan.IndexBaseDate)
	projection := &Projection{
		PlanID:        plan.ID,
		IndexID:       *plan.IndexID,
		IndexBaseDate: base,
		Installments:  make([]ProjectedInstallment, 0, len(plan.Installments)),
	}
	if len(plan.Installments) == 0 {
		return projection, nil
	}

	last := adjustment.MonthStart(plan.Installments[len(plan.Installments)-1].DueDate)
	series, err := s.series(ctx, *plan.IndexID, base, last)
	if err != nil {
		return nil, err
	}

	for _, inst := range plan.Installments {
		cutoff := adjustment.MonthStart(inst.DueDate)
		var elapsed []adjustment.MonthlyRate
		for _, m := range series {
			if m.Month.Before(cutoff) {
				elapsed = append(elapsed, m)
			}
		}
		factor := adjustment.Compound(elapsed)

		p := ProjectedInstallment{
			InstallmentID: inst.ID,
			Number:        inst.Number,
			DueDate:       inst.DueDate,
			PMT:           inst.PMT,
			Factor:        factor.Factor,
		}
		if inst.PMT.Valid {
			p.AdjustedPMT = decimal.NewNullDecimal(factor.Apply(inst.PMT.Decimal))
		}
		projection.Installments = append(projection.Installments, p)
	}

	return projection, nil
}
