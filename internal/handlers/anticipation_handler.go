package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/antecipa-api/internal/adjustment"
	"github.com/sjperalta/antecipa-api/internal/middleware"
	"github.com/sjperalta/antecipa-api/internal/services"
)

type AnticipationHandler struct {
	anticipationService *services.AnticipationService
}

func NewAnticipationHandler(anticipationService *services.AnticipationService) *AnticipationHandler {
	return &AnticipationHandler{anticipationService: anticipationService}
}

// ApproveRequest carries the plan settings chosen at approval
type ApproveRequest struct {
	BillingDay     int                   `json:"billing_day"`
	ReserveCeiling decimal.Decimal       `json:"teto_fundo_reserva"`
	PMTs           []decimal.NullDecimal `json:"pmts"`
	FirstDueMonth  string                `json:"first_due_month"`
	IndexID        *uint                 `json:"index_id"`
	IndexBaseDate  *string               `json:"index_base_date"`
}

// toInput parses the dates of the request
func (r ApproveRequest) toInput() (services.BootstrapInput, error) {
	in := services.BootstrapInput{
		BillingDay:     r.BillingDay,
		ReserveCeiling: r.ReserveCeiling,
		PMTs:           r.PMTs,
		IndexID:        r.IndexID,
	}

	first, err := adjustment.ParseMonth(r.FirstDueMonth)
	if err != nil {
		return in, err
	}
	in.FirstDueMonth = first

	in.IndexBaseDate, err = parseOptionalMonth(r.IndexBaseDate)
	return in, err
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

// @Summary Get Anticipation
// @Description Get an anticipation request by ID
// @Tags Anticipations
// @Produce json
// @Param anticipation_id path int true "Anticipation ID"
// @Success 200 {object} models.AnticipationResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /anticipations/{anticipation_id} [get]
func (h *AnticipationHandler) Show(c *gin.Context) {
	id, ok := uintParam(c, "anticipation_id")
	if !ok {
		return
	}

	req, err := h.anticipationService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !middleware.CanAccessProject(c, req.ProjectID) {
		forbidden(c)
		return
	}

	c.JSON(http.StatusOK, req.ToResponse())
}

// @Summary Approve Anticipation
// @Description Approves a requested anticipation and creates its payment plan
// @Tags Anticipations
// @Accept json
// @Produce json
// @Param anticipation_id path int true "Anticipation ID"
// @Param request body ApproveRequest true "Plan settings"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /anticipations/{anticipation_id}/approve [post]
func (h *AnticipationHandler) Approve(c *gin.Context) {
	id, ok := uintParam(c, "anticipation_id")
	if !ok {
		return
	}

	var req ApproveRequest
	if err := BindNestedOrFlat(c, "plan", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido: " + err.Error()})
		return
	}
	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.anticipationService.Approve(actorContext(c).Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"anticipation":  result.Anticipation,
		"plan":          result.Plan.ToResponse(),
		"recalculation": result.Report,
		"warning":       result.Warning,
	})
}

// @Summary Reject Anticipation
// @Description Rejects a requested anticipation
// @Tags Anticipations
// @Accept json
// @Produce json
// @Param anticipation_id path int true "Anticipation ID"
// @Param request body RejectRequest true "Rejection reason"
// @Success 200 {object} models.AnticipationResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /anticipations/{anticipation_id}/reject [post]
func (h *AnticipationHandler) Reject(c *gin.Context) {
	id, ok := uintParam(c, "anticipation_id")
	if !ok {
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido"})
		return
	}

	updated, err := h.anticipationService.Reject(actorContext(c).Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated.ToResponse())
}

// @Summary Complete Anticipation
// @Description Concludes an approved anticipation whose plan is fully amortized
// @Tags Anticipations
// @Produce json
// @Param anticipation_id path int true "Anticipation ID"
// @Success 200 {object} models.AnticipationResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /anticipations/{anticipation_id}/complete [post]
func (h *AnticipationHandler) Complete(c *gin.Context) {
	id, ok := uintParam(c, "anticipation_id")
	if !ok {
		return
	}

	updated, err := h.anticipationService.Complete(actorContext(c).Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated.ToResponse())
}

// parseOptionalMonth reads an optional month query/body value
func parseOptionalMonth(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := adjustment.ParseMonth(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
