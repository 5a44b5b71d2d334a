package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/antecipa-api/internal/middleware"
	"github.com/sjperalta/antecipa-api/internal/services"
	"github.com/sjperalta/antecipa-api/pkg/logger"
)

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidIndexDateRange):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrCrossProjectViolation),
		errors.Is(err, services.ErrCrossPlanViolation),
		errors.Is(err, services.ErrMissingPricingInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrPlanLocked):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "Erro interno do servidor"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// uintParam reads a positive numeric path parameter, answering 400 otherwise
func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parâmetro inválido: " + name})
		return 0, false
	}
	return uint(id), true
}

// actorContext carries the authenticated user into the services' audit trail
func actorContext(c *gin.Context) *gin.Context {
	c.Request = c.Request.WithContext(services.WithActor(c.Request.Context(), middleware.GetUserID(c)))
	return c
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "Você não tem acesso a este projeto"})
}
