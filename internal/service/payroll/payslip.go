package payroll

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/stafma/stafma-backend-go/internal/domain/payroll"
)

// renderPayslip draws one payroll record as an A4 PDF.
func renderPayslip(companyName string, rec payroll.PayrollRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s", monthLabel(rec.Period())), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, companyName)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Payslip for %s", monthLabel(rec.Period())))
	pdf.Ln(12)

	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", valueOr(rec.EmployeeName, rec.EmployeeID)))
	pdf.Ln(6)
	if rec.EmployeeNumber != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Employee No: %s", *rec.EmployeeNumber))
		pdf.Ln(6)
	}
	if rec.Position != nil && *rec.Position != "" {
		pdf.Cell(0, 7, fmt.Sprintf("Position: %s", *rec.Position))
		pdf.Ln(6)
	}
	if rec.Department != nil && *rec.Department != "" {
		pdf.Cell(0, 7, fmt.Sprintf("Department: %s", *rec.Department))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Processed: %s", rec.ProcessedDate.Format("2006-01-02")))
	pdf.Ln(12)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
	}
	row := func(label string, amount decimal.Decimal) {
		pdf.CellFormat(120, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	section("Earnings")
	row("Basic Salary", rec.BasicSalary)
	row("Allowances", rec.Allowances)
	row("Gross Salary", rec.GrossSalary)
	pdf.Ln(4)

	section("Deductions")
	row("PAYE", rec.Deductions.PAYE)
	row("NHIF", rec.Deductions.NHIF)
	row("NSSF", rec.Deductions.NSSF)
	row("Other Deductions", rec.Deductions.Other)
	row("Total Deductions", rec.Deductions.Total)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 8, "Net Salary", "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, rec.NetSalary.StringFixed(2), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip: %w", err)
	}
	return buf.Bytes(), nil
}

func monthLabel(p payroll.Period) string {
	return fmt.Sprintf("%s %d", time.Month(p.Month), p.Year)
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
