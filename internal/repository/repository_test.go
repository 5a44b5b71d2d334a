package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sjperalta/antecipa-api/internal/database"
	"github.com/sjperalta/antecipa-api/internal/models"
)

// newTestDB opens an in-memory SQLite database with the full schema.
// A single connection keeps every query on the same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Migrate(db))
	return db
}

var dueDate = time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

func createPlan(t *testing.T, db *gorm.DB, anticipationID uint) *models.PaymentPlan {
	t.Helper()

	plan := &models.PaymentPlan{
		GUID:                  uuid.NewString(),
		AnticipationRequestID: anticipationID,
		ProjectID:             1,
		BillingDay:            10,
		ReserveCeiling:        decimal.NewFromInt(500),
		Installments: []models.Installment{
			{Number: 0, DueDate: dueDate, PMT: decimal.NewNullDecimal(decimal.NewFromInt(2000))},
			{Number: 1, DueDate: dueDate.AddDate(0, 1, 0), PMT: decimal.NewNullDecimal(decimal.NewFromInt(2000))},
		},
	}
	require.NoError(t, NewPlanRepository(db).CreateWithInstallments(context.Background(), plan))
	require.Len(t, plan.Installments, 2)
	return plan
}

func createReceivable(t *testing.T, db *gorm.DB, id uint, amount string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Receivable{
		ID:        id,
		ProjectID: 1,
		Amount:    decimal.RequireFromString(amount),
		DueDate:   dueDate,
		PayerName: "Sacado",
	}).Error)
}

func link(installmentID, receivableID uint) models.ReceivableLink {
	return models.ReceivableLink{InstallmentID: installmentID, ReceivableID: receivableID, EffectiveDueDate: dueDate}
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestLedgerRepository_CreateBatchSkipsLinkedReceivables(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewLedgerRepository(db)

	plan := createPlan(t, db, 1)
	first, second := plan.Installments[0].ID, plan.Installments[1].ID
	createReceivable(t, db, 1, "2800")
	createReceivable(t, db, 2, "1000")

	inserted, err := repo.CreateBatch(ctx, []models.ReceivableLink{link(first, 1)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	inserted, err = repo.CreateBatch(ctx, []models.ReceivableLink{link(second, 1), link(second, 2)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted, "receivable 1 already belongs to another installment")

	links, err := repo.FindByReceivableIDs(ctx, []uint{1, 2})
	require.NoError(t, err)
	owner := map[uint]uint{}
	for _, l := range links {
		owner[l.ReceivableID] = l.InstallmentID
	}
	assert.Equal(t, map[uint]uint{1: first, 2: second}, owner)

	inserted, err = repo.CreateBatch(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestLedgerRepository_Sums(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewLedgerRepository(db)

	plan := createPlan(t, db, 1)
	other := createPlan(t, db, 2)
	first, second := plan.Installments[0].ID, plan.Installments[1].ID

	createReceivable(t, db, 1, "2800")
	createReceivable(t, db, 2, "1000.50")
	createReceivable(t, db, 3, "800")
	_, err := repo.CreateBatch(ctx, []models.ReceivableLink{
		link(first, 1),
		link(first, 2),
		link(other.Installments[0].ID, 3),
	})
	require.NoError(t, err)

	total, err := repo.SumByInstallment(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "3800.50", total.StringFixed(2))

	total, err = repo.SumByInstallment(ctx, second)
	require.NoError(t, err)
	assert.True(t, total.IsZero(), "installment without links sums to zero")

	sums, err := repo.SumByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, sums, 1, "only installments with links, only this plan")
	assert.Equal(t, "3800.50", sums[first].StringFixed(2))
}

func TestLedgerRepository_DeleteRemovesDocuments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewLedgerRepository(db)

	plan := createPlan(t, db, 1)
	createReceivable(t, db, 1, "2800")
	createReceivable(t, db, 2, "1000")
	_, err := repo.CreateBatch(ctx, []models.ReceivableLink{
		link(plan.Installments[0].ID, 1),
		link(plan.Installments[0].ID, 2),
	})
	require.NoError(t, err)

	links, err := repo.FindByInstallment(ctx, plan.Installments[0].ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "2800.00", links[0].Receivable.Amount.StringFixed(2))

	for _, l := range links {
		require.NoError(t, db.Create(&models.BillingDocument{LinkID: l.ID, DocumentType: "boleto"}).Error)
	}

	require.NoError(t, repo.Delete(ctx, links[0].ID))
	assert.Equal(t, int64(1), count(t, db, &models.ReceivableLink{}))
	assert.Equal(t, int64(1), count(t, db, &models.BillingDocument{}))

	assert.ErrorIs(t, repo.Delete(ctx, links[0].ID), gorm.ErrRecordNotFound)
}

func TestPlanRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	plans := NewPlanRepository(db)
	ledger := NewLedgerRepository(db)

	doomed := createPlan(t, db, 1)
	kept := createPlan(t, db, 2)
	createReceivable(t, db, 1, "2800")
	createReceivable(t, db, 2, "1000")
	_, err := ledger.CreateBatch(ctx, []models.ReceivableLink{
		link(doomed.Installments[1].ID, 1),
		link(kept.Installments[0].ID, 2),
	})
	require.NoError(t, err)

	var links []models.ReceivableLink
	require.NoError(t, db.Order("id ASC").Find(&links).Error)
	for _, l := range links {
		require.NoError(t, db.Create(&models.BillingDocument{LinkID: l.ID, DocumentType: "boleto"}).Error)
	}

	require.NoError(t, plans.Delete(ctx, doomed.ID))

	ids, err := plans.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{kept.ID}, ids)
	assert.Equal(t, int64(2), count(t, db, &models.Installment{}))
	assert.Equal(t, int64(1), count(t, db, &models.ReceivableLink{}))
	assert.Equal(t, int64(1), count(t, db, &models.BillingDocument{}))
	assert.Equal(t, int64(2), count(t, db, &models.Receivable{}), "receivables are freed, not deleted")

	assert.ErrorIs(t, plans.Delete(ctx, doomed.ID), gorm.ErrRecordNotFound)
}

func TestPlanRepository_SaveFiguresIsAtomic(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewPlanRepository(db)

	plan := createPlan(t, db, 1)
	at := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	err := repo.SaveFigures(ctx, plan.ID, []InstallmentFigures{
		{InstallmentID: plan.Installments[0].ID, Balance: decimal.NewFromInt(8000)},
		{InstallmentID: 9999, Balance: decimal.NewFromInt(6000)},
	}, at)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	reloaded, err := repo.FindByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Installments[0].Balance.IsZero(), "failed pass leaves no partial figures")
	assert.Nil(t, reloaded.LastRecalculatedAt)

	require.NoError(t, repo.SaveFigures(ctx, plan.ID, []InstallmentFigures{
		{InstallmentID: plan.Installments[0].ID, Balance: decimal.NewFromInt(8000), ReserveFund: decimal.NewFromInt(500)},
		{InstallmentID: plan.Installments[1].ID, Balance: decimal.NewFromInt(6000)},
	}, at))

	reloaded, err = repo.FindByIDWithSchedule(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Installments, 2)
	assert.Equal(t, 0, reloaded.Installments[0].Number)
	assert.Equal(t, "8000.00", reloaded.Installments[0].Balance.StringFixed(2))
	assert.Equal(t, "500.00", reloaded.Installments[0].ReserveFund.StringFixed(2))
	assert.Equal(t, "6000.00", reloaded.Installments[1].Balance.StringFixed(2))
	assert.NotNil(t, reloaded.LastRecalculatedAt)
}
