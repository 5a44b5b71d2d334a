package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportScheduleXLSX(t *testing.T) {
	env := newTestEnv(t, nil, PlanOptions{})
	ctx := context.Background()
	plan := env.bootstrap(t, referenceInput())
	insts := env.installments(t, plan.ID)
	_, err := env.ledger.Attach(ctx, plan.ID, insts[0].ID, []uint{1})
	require.NoError(t, err)

	svc := NewExportService(env.plans)
	data, filename, err := svc.ExportScheduleXLSX(ctx, plan.ID)
	require.NoError(t, err)
	assert.Contains(t, filename, ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Cronograma", "E5")
	require.NoError(t, err)
	assert.Equal(t, "Saldo Devedor", header)

	rows, err := f.GetRows("Cronograma")
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, "0", rows[5][0])
	assert.Equal(t, "1", rows[5][7])

	_, _, err = svc.ExportScheduleXLSX(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGeneratePlanStatementPDF(t *testing.T) {
	env := newTestEnv(t, nil, PlanOptions{})
	plan := env.bootstrap(t, referenceInput())

	svc := NewReportService(env.plans)
	buf, filename, err := svc.GeneratePlanStatementPDF(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Contains(t, filename, ".pdf")
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestBRL(t *testing.T) {
	tests := map[string]string{
		"0":          "R$ 0,00",
		"12.5":       "R$ 12,50",
		"1234.56":    "R$ 1.234,56",
		"1000000":    "R$ 1.000.000,00",
		"-2500.1":    "-R$ 2.500,10",
		"999999.999": "R$ 1.000.000,00",
	}
	for in, want := range tests {
		assert.Equal(t, want, brl(decimal.RequireFromString(in)), in)
	}
}
