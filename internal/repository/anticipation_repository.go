package repository

import (
	"context"

	"github.com/sjperalta/antecipa-api/internal/models"
	"gorm.io/gorm"
)

// AnticipationRepository defines the interface for anticipation request data access
type AnticipationRepository interface {
	FindByID(ctx context.Context, id uint) (*models.AnticipationRequest, error)
	Update(ctx context.Context, req *models.AnticipationRequest) error
}

type anticipationRepository struct {
	db *gorm.DB
}

// NewAnticipationRepository creates a new anticipation repository
func NewAnticipationRepository(db *gorm.DB) AnticipationRepository {
	return &anticipationRepository{db: db}
}

func (r *anticipationRepository) FindByID(ctx context.Context, id uint) (*models.AnticipationRequest, error) {
	var req models.AnticipationRequest
	err := r.db.WithContext(ctx).
		Preload("Plan").
		First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *anticipationRepository) Update(ctx context.Context, req *models.AnticipationRequest) error {
	return r.db.WithContext(ctx).Omit("Plan", "Project").Save(req).Error
}
