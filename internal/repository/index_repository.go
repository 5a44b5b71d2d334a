package repository

import (
	"context"
	"time"

	"github.com/sjperalta/antecipa-api/internal/models"
	"gorm.io/gorm"
)

// IndexRepository defines the interface for monetary index data access
type IndexRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Index, error)
	MonthlyUpdates(ctx context.Context, indexID uint, from, to time.Time) ([]models.IndexMonthlyUpdate, error)
}

type indexRepository struct {
	db *gorm.DB
}

// NewIndexRepository creates a new index repository
func NewIndexRepository(db *gorm.DB) IndexRepository {
	return &indexRepository{db: db}
}

func (r *indexRepository) FindByID(ctx context.Context, id uint) (*models.Index, error) {
	var index models.Index
	err := r.db.WithContext(ctx).First(&index, id).Error
	if err != nil {
		return nil, err
	}
	return &index, nil
}

// MonthlyUpdates returns the series in [from, to], both first-of-month dates, ascending
func (r *indexRepository) MonthlyUpdates(ctx context.Context, indexID uint, from, to time.Time) ([]models.IndexMonthlyUpdate, error) {
	var updates []models.IndexMonthlyUpdate
	err := r.db.WithContext(ctx).
		Where("index_id = ? AND month >= ? AND month <= ?", indexID, from, to).
		Order("month ASC").
		Find(&updates).Error
	return updates, err
}
