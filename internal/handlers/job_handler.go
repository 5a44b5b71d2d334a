package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/antecipa-api/internal/services"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobSvc *services.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobSvc,
	}
}

// Status returns the current worker status
// @Summary Get background job status
// @Description Get statistics about background jobs (active, completed, failed, queue length, cron jobs)
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /jobs/status [get]
func (h *JobHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.jobService.GetStatus())
}

// Reconcile queues a recalculation of every plan
// @Summary Run reconciliation now
// @Description Queues the plan reconciliation sweep without waiting for its cron schedule
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 202 {object} map[string]string
// @Router /jobs/reconcile [post]
func (h *JobHandler) Reconcile(c *gin.Context) {
	h.jobService.TriggerReconcile(actorContext(c).Request.Context())
	c.JSON(http.StatusAccepted, gin.H{"message": "Reconciliação agendada"})
}
