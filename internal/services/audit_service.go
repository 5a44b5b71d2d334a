package services

import (
	"context"
	"fmt"

	"github.com/sjperalta/antecipa-api/internal/models"
	"github.com/sjperalta/antecipa-api/internal/repository"
	"github.com/sjperalta/antecipa-api/pkg/logger"
)

type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log records an audit entry. Failures are logged and never fail the caller.
func (s *AuditService) Log(ctx context.Context, action, entity string, entityID uint, details string) {
	if s == nil || s.repo == nil {
		return
	}
	entry := &models.AuditLog{
		ActorID:  ActorFrom(ctx),
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		logger.Warn("Failed to write audit log", "action", action, "entity", entity, "entity_id", entityID, "error", err)
	}
}

// Logf is Log with a formatted details string
func (s *AuditService) Logf(ctx context.Context, action, entity string, entityID uint, format string, args ...interface{}) {
	s.Log(ctx, action, entity, entityID, fmt.Sprintf(format, args...))
}

// List retrieves audit logs for an entity
func (s *AuditService) List(ctx context.Context, entity string, entityID uint, limit, offset int) ([]models.AuditLog, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.List(ctx, entity, entityID, limit, offset)
}
