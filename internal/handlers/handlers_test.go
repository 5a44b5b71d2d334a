package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/antecipa-api/internal/events"
	"github.com/sjperalta/antecipa-api/internal/jobs"
	"github.com/sjperalta/antecipa-api/internal/lock"
	"github.com/sjperalta/antecipa-api/internal/models"
	"github.com/sjperalta/antecipa-api/internal/repository"
	"github.com/sjperalta/antecipa-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockPlanRepo struct {
	repository.PlanRepository
	plans map[uint]*models.PaymentPlan
}

func (m *mockPlanRepo) FindByIDWithSchedule(ctx context.Context, id uint) (*models.PaymentPlan, error) {
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockIndexRepo struct {
	repository.IndexRepository
	updates []models.IndexMonthlyUpdate
}

func (m *mockIndexRepo) FindByID(ctx context.Context, id uint) (*models.Index, error) {
	if id != 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Index{ID: 1, Name: "IPCA"}, nil
}

func (m *mockIndexRepo) MonthlyUpdates(ctx context.Context, indexID uint, from, to time.Time) ([]models.IndexMonthlyUpdate, error) {
	var out []models.IndexMonthlyUpdate
	for _, u := range m.updates {
		if !u.Month.Before(from) && !u.Month.After(to) {
			out = append(out, u)
		}
	}
	return out, nil
}

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func newTestPlanHandler() *PlanHandler {
	planRepo := &mockPlanRepo{plans: map[uint]*models.PaymentPlan{
		1: {
			ID:             1,
			ProjectID:      7,
			BillingDay:     10,
			ReserveCeiling: decimal.NewFromInt(500),
			Installments: []models.Installment{
				{ID: 11, PlanID: 1, Number: 0, Balance: decimal.NewFromInt(8000)},
				{ID: 12, PlanID: 1, Number: 1, Balance: decimal.NewFromInt(6000)},
			},
		},
	}}
	repos := &repository.Repositories{Plan: planRepo}
	planSvc := services.NewPlanService(repos, lock.NewLocalLocker(), events.NewLogPublisher(slog.Default()), nil, nil, services.PlanOptions{})
	return NewPlanHandler(planSvc, nil, nil, nil, nil)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("plano 3: %w", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: dia inválido", services.ErrValidation), http.StatusBadRequest},
		{services.ErrInvalidIndexDateRange, http.StatusBadRequest},
		{services.ErrCrossProjectViolation, http.StatusUnprocessableEntity},
		{services.ErrCrossPlanViolation, http.StatusUnprocessableEntity},
		{services.ErrMissingPricingInput, http.StatusUnprocessableEntity},
		{services.ErrInvalidState, http.StatusConflict},
		{services.ErrPlanLocked, http.StatusConflict},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.err))
		})
	}
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	respondError(c, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestPlanHandler_Show_ProjectScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestPlanHandler()

	tests := []struct {
		name      string
		planID    string
		role      string
		projectID uint
		status    int
	}{
		{"admin sees any project", "1", "admin", 0, http.StatusOK},
		{"company sees its own project", "1", "company", 7, http.StatusOK},
		{"company blocked from other project", "1", "company", 8, http.StatusForbidden},
		{"unknown plan", "99", "admin", 0, http.StatusNotFound},
		{"invalid id", "abc", "admin", 0, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/api/v1/plans/"+tt.planID, nil)
			c.Params = gin.Params{{Key: "plan_id", Value: tt.planID}}
			c.Set("userRole", tt.role)
			c.Set("projectID", tt.projectID)

			handler.Show(c)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestPlanHandler_Show_Body(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestPlanHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/plans/1", nil)
	c.Params = gin.Params{{Key: "plan_id", Value: "1"}}
	c.Set("userRole", "admin")

	handler.Show(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "6000", body["saldo_devedor_atual"])
	assert.Len(t, body["installments"], 2)
}

func TestIndexHandler_Adjustment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	indexRepo := &mockIndexRepo{updates: []models.IndexMonthlyUpdate{
		{IndexID: 1, Month: month(2024, 1), Percentage: decimal.NewFromInt(1)},
		{IndexID: 1, Month: month(2024, 2), Percentage: decimal.NewFromInt(2)},
		{IndexID: 1, Month: month(2024, 3), Percentage: decimal.NewFromInt(-1)},
	}}
	handler := NewIndexHandler(services.NewIndexService(indexRepo, nil))

	router := gin.New()
	router.GET("/indexes/:index_id/adjustment", handler.Adjustment)

	t.Run("compounds the range", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/indexes/1/adjustment?start=2024-01&end=2024-03-31", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Factor        decimal.Decimal `json:"factor"`
			MonthsApplied int             `json:"months_applied"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Factor.Equal(decimal.RequireFromString("1.019898")), body.Factor.String())
		assert.Equal(t, 3, body.MonthsApplied)
	})

	t.Run("start after end", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/indexes/1/adjustment?start=2024-03&end=2024-01", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown index", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/indexes/2/adjustment?start=2024-01&end=2024-03", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLedgerHandler_Attach_RequiresReceivables(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewLedgerHandler(nil, nil)

	for _, body := range []string{`{}`, `{"receivable_ids": []}`, `not json`} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "plan_id", Value: "1"}, {Key: "installment_id", Value: "11"}}

		handler.Attach(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/health", nil)

	NewHealthHandler().Index(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "antecipa-api")
}

func TestJobHandler_Status(t *testing.T) {
	gin.SetMode(gin.TestMode)
	worker := jobs.NewWorker(2)
	defer worker.Shutdown()
	require.NoError(t, worker.ScheduleCron("0 3 * * *", "reconcile-plans", func(ctx context.Context) error { return nil }))

	handler := NewJobHandler(services.NewJobService(worker, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/jobs/status", nil)
	handler.Status(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(10), body["max_concurrent"])
	assert.Equal(t, []interface{}{"reconcile-plans (0 3 * * *)"}, body["cron_jobs"])
}
