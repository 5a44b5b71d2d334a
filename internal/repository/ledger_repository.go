package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/antecipa-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository defines the interface for receivable link data access
type LedgerRepository interface {
	FindByID(ctx context.Context, id uint) (*models.ReceivableLink, error)
	FindByInstallment(ctx context.Context, installmentID uint) ([]models.ReceivableLink, error)
	FindByReceivableIDs(ctx context.Context, receivableIDs []uint) ([]models.ReceivableLink, error)
	CreateBatch(ctx context.Context, links []models.ReceivableLink) (int64, error)
	Delete(ctx context.Context, id uint) error
	SumByInstallment(ctx context.Context, installmentID uint) (decimal.Decimal, error)
	SumByPlan(ctx context.Context, planID uint) (map[uint]decimal.Decimal, error)
}

// ledgerRepository handles database operations for receivable links
type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) FindByID(ctx context.Context, id uint) (*models.ReceivableLink, error) {
	var link models.ReceivableLink
	err := r.db.WithContext(ctx).
		Preload("Receivable").
		First(&link, id).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// FindByInstallment retrieves all links of an installment with their receivables
func (r *ledgerRepository) FindByInstallment(ctx context.Context, installmentID uint) ([]models.ReceivableLink, error) {
	var links []models.ReceivableLink
	err := r.db.WithContext(ctx).
		Where("installment_id = ?", installmentID).
		Preload("Receivable").
		Order("id ASC").
		Find(&links).Error
	return links, err
}

func (r *ledgerRepository) FindByReceivableIDs(ctx context.Context, receivableIDs []uint) ([]models.ReceivableLink, error) {
	var links []models.ReceivableLink
	if len(receivableIDs) == 0 {
		return links, nil
	}
	err := r.db.WithContext(ctx).
		Where("receivable_id IN ?", receivableIDs).
		Find(&links).Error
	return links, err
}

// CreateBatch inserts links, ignoring receivables that were linked concurrently.
// Returns the number of rows actually inserted.
func (r *ledgerRepository) CreateBatch(ctx context.Context, links []models.ReceivableLink) (int64, error) {
	if len(links) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Omit("Receivable", "Installment").
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "receivable_id"}}, DoNothing: true}).
		Create(&links)
	return res.RowsAffected, res.Error
}

// Delete removes a link and the billing documents issued for it
func (r *ledgerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("link_id = ?", id).Delete(&models.BillingDocument{}).Error; err != nil {
			return fmt.Errorf("failed to delete billing documents: %w", err)
		}
		res := tx.Delete(&models.ReceivableLink{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// SumByInstallment sums the amounts of the receivables linked to an installment
func (r *ledgerRepository) SumByInstallment(ctx context.Context, installmentID uint) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	err := r.db.WithContext(ctx).
		Table("receivable_links AS l").
		Select("COALESCE(SUM(r.amount), 0) AS total").
		Joins("JOIN receivables r ON r.id = l.receivable_id").
		Where("l.installment_id = ?", installmentID).
		Scan(&result).Error

	return result.Total, err
}

// SumByPlan returns the live collected amount per installment of a plan in one query.
// Installments without links are absent from the map.
func (r *ledgerRepository) SumByPlan(ctx context.Context, planID uint) (map[uint]decimal.Decimal, error) {
	var rows []struct {
		InstallmentID uint
		Total         decimal.Decimal
	}

	err := r.db.WithContext(ctx).
		Table("receivable_links AS l").
		Select("l.installment_id AS installment_id, COALESCE(SUM(r.amount), 0) AS total").
		Joins("JOIN receivables r ON r.id = l.receivable_id").
		Joins("JOIN installments i ON i.id = l.installment_id").
		Where("i.plan_id = ?", planID).
		Group("l.installment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[uint]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.InstallmentID] = row.Total
	}
	return sums, nil
}
