package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sjperalta/antecipa-api/internal/amortization"
	"github.com/sjperalta/antecipa-api/internal/jobs"
	"github.com/sjperalta/antecipa-api/internal/lock"
	"github.com/sjperalta/antecipa-api/internal/models"
)

var fixedNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store        *memStore
	publisher    *recordingPublisher
	plans        *PlanService
	ledger       *LedgerService
	index        *IndexService
	anticipation *AnticipationService
}

func newTestEnv(t *testing.T, worker *jobs.Worker, opts PlanOptions) *testEnv {
	t.Helper()

	store := newMemStore()
	repos := store.repositories()
	pub := &recordingPublisher{}
	audit := NewAuditService(repos.Audit)

	if opts.Policy == (amortization.Policy{}) {
		opts.Policy = amortization.DefaultPolicy
	}
	if opts.LockTimeout == 0 {
		opts.LockTimeout = time.Second
	}

	plans := NewPlanService(repos, lock.NewLocalLocker(), pub, audit, worker, opts)
	plans.now = func() time.Time { return fixedNow }

	// Project 1 owns the anticipation; receivable 9 belongs to project 2
	store.anticipations[1] = models.AnticipationRequest{
		ID:          1,
		ProjectID:   1,
		TotalAmount: decimal.NewFromInt(10000),
		NetAmount:   decimal.NewFromInt(9500),
		Status:      models.AnticipationStatusApproved,
	}
	store.addReceivable(1, 1, "2800")
	store.addReceivable(2, 1, "1000")
	store.addReceivable(3, 1, "800")
	store.addReceivable(4, 1, "150")
	store.addReceivable(9, 2, "500")

	return &testEnv{
		store:        store,
		publisher:    pub,
		plans:        plans,
		ledger:       NewLedgerService(repos, plans, pub, audit),
		index:        NewIndexService(repos.Index, repos.Plan),
		anticipation: NewAnticipationService(repos.Anticipation, repos.Plan, plans, audit),
	}
}

func pmts(values ...string) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(values))
	for i, v := range values {
		if v == "" {
			continue
		}
		out[i] = decimal.NewNullDecimal(decimal.RequireFromString(v))
	}
	return out
}

func referenceInput() BootstrapInput {
	return BootstrapInput{
		BillingDay:     10,
		ReserveCeiling: decimal.NewFromInt(500),
		PMTs:           pmts("2000", "2000"),
		FirstDueMonth:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

// bootstrap creates the reference plan for anticipation 1 and returns it
func (e *testEnv) bootstrap(t *testing.T, in BootstrapInput) *models.PaymentPlan {
	t.Helper()
	res, err := e.plans.Bootstrap(context.Background(), 1, in)
	require.NoError(t, err)
	require.Empty(t, res.Warning)
	return res.Plan
}

func (e *testEnv) installments(t *testing.T, planID uint) []models.Installment {
	t.Helper()
	plan, err := e.plans.GetPlan(context.Background(), planID)
	require.NoError(t, err)
	return plan.Installments
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}
