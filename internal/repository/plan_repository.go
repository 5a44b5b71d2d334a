package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/antecipa-api/internal/models"
	"gorm.io/gorm"
)

// InstallmentFigures are the engine-derived columns of one installment
type InstallmentFigures struct {
	InstallmentID uint
	Receivables   decimal.Decimal
	Balance       decimal.Decimal
	ReserveFund   decimal.Decimal
	Refund        decimal.Decimal
}

// PlanRepository defines the interface for payment plan and installment data access
type PlanRepository interface {
	FindByID(ctx context.Context, id uint) (*models.PaymentPlan, error)
	FindByIDWithSchedule(ctx context.Context, id uint) (*models.PaymentPlan, error)
	FindByAnticipation(ctx context.Context, anticipationID uint) (*models.PaymentPlan, error)
	FindInstallment(ctx context.Context, id uint) (*models.Installment, error)
	CreateWithInstallments(ctx context.Context, plan *models.PaymentPlan) error
	SaveFigures(ctx context.Context, planID uint, figures []InstallmentFigures, at time.Time) error
	UpdateIndexSettings(ctx context.Context, planID uint, indexID *uint, baseDate *time.Time) error
	Delete(ctx context.Context, planID uint) error
	ListIDs(ctx context.Context) ([]uint, error)
}

type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) FindByID(ctx context.Context, id uint) (*models.PaymentPlan, error) {
	var plan models.PaymentPlan
	err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("numero_parcela ASC")
		}).
		First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// FindByIDWithSchedule also loads each installment's links and receivables
func (r *planRepository) FindByIDWithSchedule(ctx context.Context, id uint) (*models.PaymentPlan, error) {
	var plan models.PaymentPlan
	err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("numero_parcela ASC")
		}).
		Preload("Installments.Links", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Installments.Links.Receivable").
		First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) FindByAnticipation(ctx context.Context, anticipationID uint) (*models.PaymentPlan, error) {
	var plan models.PaymentPlan
	err := r.db.WithContext(ctx).
		Where("anticipation_request_id = ?", anticipationID).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) FindInstallment(ctx context.Context, id uint) (*models.Installment, error) {
	var inst models.Installment
	err := r.db.WithContext(ctx).First(&inst, id).Error
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// CreateWithInstallments inserts the plan and its schedule in one transaction
func (r *planRepository) CreateWithInstallments(ctx context.Context, plan *models.PaymentPlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		installments := plan.Installments
		plan.Installments = nil

		if err := tx.Omit("AnticipationRequest").Create(plan).Error; err != nil {
			return fmt.Errorf("failed to create plan: %w", err)
		}

		for i := range installments {
			installments[i].PlanID = plan.ID
		}
		if len(installments) > 0 {
			if err := tx.Omit("Links").Create(&installments).Error; err != nil {
				return fmt.Errorf("failed to create installments: %w", err)
			}
		}

		plan.Installments = installments
		return nil
	})
}

// SaveFigures writes a whole recalculation pass atomically
func (r *planRepository) SaveFigures(ctx context.Context, planID uint, figures []InstallmentFigures, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, f := range figures {
			res := tx.Model(&models.Installment{}).
				Where("id = ? AND plan_id = ?", f.InstallmentID, planID).
				Updates(map[string]interface{}{
					"recebiveis":      f.Receivables,
					"saldo_devedor":   f.Balance,
					"fundo_reserva":   f.ReserveFund,
					"devolucao":       f.Refund,
					"recalculated_at": at,
					"updated_at":      at,
				})
			if res.Error != nil {
				return fmt.Errorf("failed to update installment %d: %w", f.InstallmentID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("installment %d: %w", f.InstallmentID, gorm.ErrRecordNotFound)
			}
		}

		return tx.Model(&models.PaymentPlan{}).
			Where("id = ?", planID).
			Updates(map[string]interface{}{
				"last_recalculated_at": at,
				"updated_at":           at,
			}).Error
	})
}

func (r *planRepository) UpdateIndexSettings(ctx context.Context, planID uint, indexID *uint, baseDate *time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.PaymentPlan{}).
		Where("id = ?", planID).
		Updates(map[string]interface{}{
			"index_id":        indexID,
			"index_base_date": baseDate,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes billing documents, links, installments and the plan in one transaction
func (r *planRepository) Delete(ctx context.Context, planID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		installmentIDs := tx.Model(&models.Installment{}).Select("id").Where("plan_id = ?", planID)
		linkIDs := tx.Model(&models.ReceivableLink{}).Select("id").Where("installment_id IN (?)", installmentIDs)

		if err := tx.Where("link_id IN (?)", linkIDs).Delete(&models.BillingDocument{}).Error; err != nil {
			return fmt.Errorf("failed to delete billing documents: %w", err)
		}
		if err := tx.Where("installment_id IN (?)", installmentIDs).Delete(&models.ReceivableLink{}).Error; err != nil {
			return fmt.Errorf("failed to delete receivable links: %w", err)
		}
		if err := tx.Where("plan_id = ?", planID).Delete(&models.Installment{}).Error; err != nil {
			return fmt.Errorf("failed to delete installments: %w", err)
		}

		res := tx.Delete(&models.PaymentPlan{}, planID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete plan: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *planRepository) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.PaymentPlan{}).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}
