package repository

import (
	"context"

	"github.com/sjperalta/antecipa-api/internal/models"
	"gorm.io/gorm"
)

// ReceivableRepository defines the interface for receivable data access
type ReceivableRepository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]models.Receivable, error)
}

type receivableRepository struct {
	db *gorm.DB
}

// NewReceivableRepository creates a new receivable repository
func NewReceivableRepository(db *gorm.DB) ReceivableRepository {
	return &receivableRepository{db: db}
}

func (r *receivableRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Receivable, error) {
	var receivables []models.Receivable
	if len(ids) == 0 {
		return receivables, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&receivables).Error
	return receivables, err
}
