package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/antecipa-api/internal/services"
)

type IndexHandler struct {
	indexService *services.IndexService
}

func NewIndexHandler(indexService *services.IndexService) *IndexHandler {
	return &IndexHandler{indexService: indexService}
}

// @Summary Compound Index Adjustment
// @Description Compounds the monthly percentages of an index between two months (inclusive)
// @Tags Indexes
// @Produce json
// @Param index_id path int true "Index ID"
// @Param start query string true "First month (YYYY-MM or YYYY-MM-DD)"
// @Param end query string true "Last month (YYYY-MM or YYYY-MM-DD)"
// @Success 200 {object} adjustment.Result
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /indexes/{index_id}/adjustment [get]
func (h *IndexHandler) Adjustment(c *gin.Context) {
	id, ok := uintParam(c, "index_id")
	if !ok {
		return
	}

	result, err := h.indexService.CompoundAdjustment(c.Request.Context(), id, c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
