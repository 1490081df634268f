package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
)

// RenderCombinedPDF renders the combined report as a one-page A4 PDF.
func RenderCombinedPDF(report *CombinedReport) ([]byte, error) {
	pdf := newReportPDF("Farm Report", report.Start, report.End)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(95, 7, "Metric", "1", 0, "C", true, 0, "")
	pdf.CellFormat(95, 7, "Value", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	rows := [][2]string{
		{"Total production (kg)", fmt.Sprintf("%.2f", report.TotalProduction)},
		{"Total income", report.TotalIncome.StringFixed(2)},
		{"Total expenses", report.TotalExpenses.StringFixed(2)},
		{"Net profit", report.NetProfit.StringFixed(2)},
	}
	for _, row := range rows {
		pdf.CellFormat(95, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, row[1], "1", 1, "R", false, 0, "")
	}

	return outputPDF(pdf)
}

// RenderExpensesPDF renders the expense report with its line items.
func RenderExpensesPDF(report *ExpenseReport) ([]byte, error) {
	pdf := newReportPDF("Expense Report", report.Start, report.End)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(40, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(110, 7, "Description", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, expense := range report.Details {
		description := ""
		if expense.Description != nil {
			description = truncate(*expense.Description, 60)
		}
		pdf.CellFormat(40, 6, expense.Date.Format("02-Jan-2006"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(110, 6, description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", expense.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(150, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, report.TotalExpenses.StringFixed(2), "1", 1, "R", false, 0, "")

	return outputPDF(pdf)
}

// RenderEmployeePDF renders a single employee's performance summary.
func RenderEmployeePDF(report *EmployeeReport) ([]byte, error) {
	pdf := newReportPDF("Employee Performance", report.Start, report.End)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(190, 7, fmt.Sprintf("Employee: %s", report.EmployeeName), "1", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(95, 7, "Total weight (kg)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(95, 7, "Total income", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, fmt.Sprintf("%.2f", report.TotalWeight), "1", 0, "R", false, 0, "")
	pdf.CellFormat(95, 6, report.TotalIncome.StringFixed(2), "1", 1, "R", false, 0, "")

	return outputPDF(pdf)
}

func newReportPDF(title string, start, end time.Time) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	period := fmt.Sprintf("%s to %s", start.Format("02-Jan-2006"), end.Format("02-Jan-2006"))
	pdf.CellFormat(190, 6, period, "", 1, "C", false, 0, "")
	pdf.Ln(5)
	return pdf
}

// truncate shortens s to at most max runes, never splitting a multi-byte
// character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func outputPDF(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render pdf")
	}
	return buf.Bytes(), nil
}
