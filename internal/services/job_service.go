package services

import (
	"context"

	"github.com/sjperalta/antecipa-api/internal/jobs"
	"github.com/sjperalta/antecipa-api/pkg/logger"
)

// JobService exposes the background worker to operators
type JobService struct {
	worker *jobs.Worker
	plans  *PlanService
}

func NewJobService(worker *jobs.Worker, plans *PlanService) *JobService {
	return &JobService{
		worker: worker,
		plans:  plans,
	}
}

func (s *JobService) GetStatus() map[string]interface{} {
	stats := s.worker.GetStats()
	return map[string]interface{}{
		"active_jobs":    stats.ActiveJobs,
		"completed_jobs": stats.CompletedJobs,
		"failed_jobs":    stats.FailedJobs,
		"queue_length":   stats.QueueLength,
		"max_concurrent": stats.MaxConcurrent,
		"cron_jobs":      stats.CronJobs,
	}
}

// TriggerReconcile queues an immediate reconciliation sweep outside the cron schedule
func (s *JobService) TriggerReconcile(ctx context.Context) {
	logger.Info("Reconciliation sweep requested", "actor_id", ActorFrom(ctx))
	s.worker.EnqueueAsync(s.plans.ReconcileAll)
}
