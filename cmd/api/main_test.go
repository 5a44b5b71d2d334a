package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjperalta/antecipa-api/internal/config"
	"github.com/sjperalta/antecipa-api/internal/handlers"
	"github.com/sjperalta/antecipa-api/internal/middleware"
)

const testSecret = "router-test-secret"

func companyToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID:    7,
		Email:     "financeiro@empresa.com.br",
		Role:      middleware.RoleCompany,
		ProjectID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// Requests below are rejected by middleware, so the handlers are never reached
func TestRouter_AdminRoutesRejectCompanyUsers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := setupRouter(ctx, &handlers.Handlers{}, &config.Config{
		JWTSecret:      testSecret,
		AllowedOrigins: []string{"*"},
	})
	token := companyToken(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/plans/1/installments/2/receivables"},
		{http.MethodDelete, "/api/v1/plans/1/installments/2/receivables/3"},
		{http.MethodPost, "/api/v1/anticipations/1/approve"},
		{http.MethodDelete, "/api/v1/plans/1"},
		{http.MethodPost, "/api/v1/jobs/reconcile"},
	}

	for _, tt := range routes {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/plans/1/installments/2/receivables", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "no token")
}
