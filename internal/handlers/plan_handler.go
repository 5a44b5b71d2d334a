package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/antecipa-api/internal/middleware"
	"github.com/sjperalta/antecipa-api/internal/models"
	"github.com/sjperalta/antecipa-api/internal/services"
)

type PlanHandler struct {
	planService   *services.PlanService
	indexService  *services.IndexService
	auditService  *services.AuditService
	exportService *services.ExportService
	reportService *services.ReportService
}

func NewPlanHandler(
	planService *services.PlanService,
	indexService *services.IndexService,
	auditService *services.AuditService,
	exportService *services.ExportService,
	reportService *services.ReportService,
) *PlanHandler {
	return &PlanHandler{
		planService:   planService,
		indexService:  indexService,
		auditService:  auditService,
		exportService: exportService,
		reportService: reportService,
	}
}

// UpdateIndexRequest sets or clears the monetary correction of a plan
type UpdateIndexRequest struct {
	IndexID       *uint   `json:"index_id"`
	IndexBaseDate *string `json:"index_base_date"`
}

// loadPlan resolves the plan_id parameter and checks the caller's project
func (h *PlanHandler) loadPlan(c *gin.Context) (*models.PaymentPlan, bool) {
	id, ok := uintParam(c, "plan_id")
	if !ok {
		return nil, false
	}
	plan, err := h.planService.GetPlan(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if !middleware.CanAccessProject(c, plan.ProjectID) {
		forbidden(c)
		return nil, false
	}
	return plan, true
}

// @Summary Get Plan
// @Description Get a payment plan with its installment schedule
// @Tags Plans
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Success 200 {object} models.PlanResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id} [get]
func (h *PlanHandler) Show(c *gin.Context) {
	plan, ok := h.loadPlan(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, plan.ToResponse())
}

// @Summary Delete Plan
// @Description Deletes a plan with its installments, receivable links and billing documents
// @Tags Plans
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id} [delete]
func (h *PlanHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "plan_id")
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(actorContext(c).Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Plano removido com sucesso"})
}

// @Summary Recalculate Plan
// @Description Recomputes receivables, balance, reserve fund and refund of every installment
// @Tags Plans
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Success 200 {object} services.RecalculationReport
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id}/recalculate [post]
func (h *PlanHandler) Recalculate(c *gin.Context) {
	id, ok := uintParam(c, "plan_id")
	if !ok {
		return
	}

	report, err := h.planService.Recalculate(actorContext(c).Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// @Summary Update Plan Index
// @Description Sets or clears the monetary correction index of a plan and recalculates it
// @Tags Plans
// @Accept json
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Param request body UpdateIndexRequest true "Index settings"
// @Success 200 {object} services.Recalculation
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id}/index [put]
func (h *PlanHandler) UpdateIndex(c *gin.Context) {
	id, ok := uintParam(c, "plan_id")
	if !ok {
		return
	}

	var req UpdateIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido"})
		return
	}
	baseDate, err := parseOptionalMonth(req.IndexBaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.planService.UpdateIndexSettings(actorContext(c).Request.Context(), id, req.IndexID, baseDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// @Summary Project Plan
// @Description Returns the PMTs of the plan corrected by its index up to each due date
// @Tags Plans
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Success 200 {object} services.Projection
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id}/projection [get]
func (h *PlanHandler) Projection(c *gin.Context) {
	plan, ok := h.loadPlan(c)
	if !ok {
		return
	}

	projection, err := h.indexService.ProjectSchedule(c.Request.Context(), plan.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, projection)
}

// @Summary Export Plan Schedule
// @Description Downloads the installment schedule as an Excel workbook
// @Tags Plans
// @Produce application/octet-stream
// @Param plan_id path int true "Plan ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id}/export [get]
func (h *PlanHandler) Export(c *gin.Context) {
	plan, ok := h.loadPlan(c)
	if !ok {
		return
	}

	data, filename, err := h.exportService.ExportScheduleXLSX(c.Request.Context(), plan.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Plan Statement
// @Description Downloads the plan statement as PDF
// @Tags Plans
// @Produce application/pdf
// @Param plan_id path int true "Plan ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id}/statement [get]
func (h *PlanHandler) Statement(c *gin.Context) {
	plan, ok := h.loadPlan(c)
	if !ok {
		return
	}

	buf, filename, err := h.reportService.GeneratePlanStatementPDF(c.Request.Context(), plan.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary Plan Audit Trail
// @Description Lists the audit entries recorded for a plan
// @Tags Plans
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /plans/{plan_id}/audit [get]
func (h *PlanHandler) Audit(c *gin.Context) {
	id, ok := uintParam(c, "plan_id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	entries, total, err := h.auditService.List(c.Request.Context(), services.EntityPlan, id, perPage, (page-1)*perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audit_logs": entries,
		"pagination": gin.H{
			"page":        page,
			"per_page":    perPage,
			"total":       total,
			"total_pages": (total + int64(perPage) - 1) / int64(perPage),
		},
	})
}
