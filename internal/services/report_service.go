package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

type ReportService struct {
	plans *PlanService
}

func NewReportService(plans *PlanService) *ReportService {
	return &ReportService{plans: plans}
}

// GeneratePlanStatementPDF renders the schedule and its totals as a PDF statement
func (s *ReportService) GeneratePlanStatementPDF(ctx context.Context, planID uint) (*bytes.Buffer, string, error) {
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr("Extrato do Plano de Pagamento"))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Plano %d (%s) - Antecipação %d", plan.ID, plan.GUID, plan.AnticipationRequestID)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Teto do fundo de reserva: %s", brl(plan.ReserveCeiling))))
	pdf.Ln(6)
	if plan.LastRecalculatedAt != nil {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Último recálculo: %s", plan.LastRecalculatedAt.Format("02/01/2006 15:04"))))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	widths := []float64{20, 30, 35, 35, 40, 40, 35, 30}
	header := []string{"Parcela", "Vencimento", "PMT", "Recebíveis", "Saldo Devedor", "Fundo Reserva", "Devolução", "Recebíveis (qtd)"}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(224, 224, 224)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	resp := plan.ToResponse()
	for _, inst := range plan.Installments {
		pmt := "-"
		if inst.PMT.Valid {
			pmt = brl(inst.PMT.Decimal)
		}
		cells := []string{
			fmt.Sprintf("%d", inst.Number),
			inst.DueDate.Format("02/01/2006"),
			pmt,
			brl(inst.Receivables),
			brl(inst.Balance),
			brl(inst.ReserveFund),
			brl(inst.Refund),
			fmt.Sprintf("%d", len(inst.Links)),
		}
		for i, c := range cells {
			align := "R"
			if i < 2 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Total de recebíveis: %s", brl(resp.TotalReceivables))))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Total devolvido: %s", brl(resp.TotalRefund))))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Saldo devedor atual: %s", brl(resp.OutstandingBalance))))

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("extrato_plano_%d_%s.pdf", plan.ID, time.Now().Format("2006-01-02"))
	return buf, filename, nil
}

// brl formats an amount as Brazilian currency, e.g. R$ 1.234,56
func brl(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	var out []byte
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, intPart[i])
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + string(out) + "," + frac
}
