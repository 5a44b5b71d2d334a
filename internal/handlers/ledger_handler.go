package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/antecipa-api/internal/middleware"
	"github.com/sjperalta/antecipa-api/internal/models"
	"github.com/sjperalta/antecipa-api/internal/services"
)

type LedgerHandler struct {
	ledgerService *services.LedgerService
	planService   *services.PlanService
}

func NewLedgerHandler(ledgerService *services.LedgerService, planService *services.PlanService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, planService: planService}
}

// AttachRequest lists the receivables to allocate to an installment
type AttachRequest struct {
	ReceivableIDs []uint `json:"receivable_ids" binding:"required,min=1"`
}

// @Summary List Installment Receivables
// @Description Lists the receivables allocated to an installment
// @Tags Receivables
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Param installment_id path int true "Installment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id}/installments/{installment_id}/receivables [get]
func (h *LedgerHandler) Index(c *gin.Context) {
	planID, ok := uintParam(c, "plan_id")
	if !ok {
		return
	}
	installmentID, ok := uintParam(c, "installment_id")
	if !ok {
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !middleware.CanAccessProject(c, plan.ProjectID) {
		forbidden(c)
		return
	}

	links, err := h.ledgerService.ListLinks(c.Request.Context(), planID, installmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	collected, err := h.ledgerService.CollectedAmount(c.Request.Context(), installmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.ReceivableLinkResponse, 0, len(links))
	for i := range links {
		responses = append(responses, links[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"receivables": responses,
		"recebiveis":  collected.StringFixed(2),
	})
}

// @Summary Attach Receivables
// @Description Allocates receivables of the plan's project to an installment and recalculates the plan. Admin only; company tokens get 403
// @Tags Receivables
// @Accept json
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Param installment_id path int true "Installment ID"
// @Param request body AttachRequest true "Receivable IDs"
// @Success 200 {object} services.AttachResult
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id}/installments/{installment_id}/receivables [post]
func (h *LedgerHandler) Attach(c *gin.Context) {
	planID, ok := uintParam(c, "plan_id")
	if !ok {
		return
	}
	installmentID, ok := uintParam(c, "installment_id")
	if !ok {
		return
	}

	var req AttachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Informe ao menos um recebível em receivable_ids"})
		return
	}

	result, err := h.ledgerService.Attach(actorContext(c).Request.Context(), planID, installmentID, req.ReceivableIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Detach Receivable
// @Description Removes a receivable allocation with its billing documents and recalculates the plan. Admin only; company tokens get 403
// @Tags Receivables
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Param installment_id path int true "Installment ID"
// @Param link_id path int true "Link ID"
// @Success 200 {object} services.DetachResult
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id}/installments/{installment_id}/receivables/{link_id} [delete]
func (h *LedgerHandler) Detach(c *gin.Context) {
	planID, ok := uintParam(c, "plan_id")
	if !ok {
		return
	}
	installmentID, ok := uintParam(c, "installment_id")
	if !ok {
		return
	}
	linkID, ok := uintParam(c, "link_id")
	if !ok {
		return
	}

	result, err := h.ledgerService.Detach(actorContext(c).Request.Context(), planID, installmentID, linkID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
