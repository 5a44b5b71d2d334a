package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sjperalta/antecipa-api/internal/models"
)

type ExportService struct {
	plans *PlanService
}

func NewExportService(plans *PlanService) *ExportService {
	return &ExportService{plans: plans}
}

var scheduleHeader = []interface{}{
	"Parcela", "Vencimento", "PMT", "Recebíveis", "Saldo Devedor", "Fundo de Reserva", "Devolução", "Qtd. Recebíveis",
}

// ExportScheduleXLSX writes the plan's installment schedule to a spreadsheet
func (s *ExportService) ExportScheduleXLSX(ctx context.Context, planID uint) ([]byte, string, error) {
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Cronograma"
	_ = f.SetSheetName("Sheet1", sheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	moneyFmt := "#,##0.00"
	moneyStyle, _ := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})

	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Plano de Pagamento %s", plan.GUID))
	_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	_ = f.SetCellValue(sheet, "A2", "Antecipação")
	_ = f.SetCellValue(sheet, "B2", plan.AnticipationRequestID)
	_ = f.SetCellValue(sheet, "A3", "Teto do Fundo de Reserva")
	_ = f.SetCellValue(sheet, "B3", plan.ReserveCeiling.InexactFloat64())
	_ = f.SetCellStyle(sheet, "B3", "B3", moneyStyle)

	const headerRow = 5
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", headerRow), &scheduleHeader); err != nil {
		return nil, "", err
	}
	_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("H%d", headerRow), headerStyle)

	for i, inst := range plan.Installments {
		row := headerRow + 1 + i
		values := scheduleRow(inst)
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return nil, "", err
		}
	}
	if n := len(plan.Installments); n > 0 {
		_ = f.SetCellStyle(sheet, fmt.Sprintf("C%d", headerRow+1), fmt.Sprintf("G%d", headerRow+n), moneyStyle)
	}
	_ = f.SetColWidth(sheet, "A", "H", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("plano_%d_%s.xlsx", plan.ID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func scheduleRow(inst models.Installment) []interface{} {
	var pmt interface{} = ""
	if inst.PMT.Valid {
		pmt = inst.PMT.Decimal.InexactFloat64()
	}
	return []interface{}{
		inst.Number,
		inst.DueDate.Format("02/01/2006"),
		pmt,
		inst.Receivables.InexactFloat64(),
		inst.Balance.InexactFloat64(),
		inst.ReserveFund.InexactFloat64(),
		inst.Refund.InexactFloat64(),
		len(inst.Links),
	}
}
