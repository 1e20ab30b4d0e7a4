package report

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
)

const (
	pageWidth = 182.0 // A4 minus 14mm margins
	rowHeight = 7.0
	// Enough rows to stay on one page below the summary block.
	maxCategoryRows = 20
)

// WritePDF writes a one-page A4 report with the totals, the trailing window
// totals and the expense category breakdown.
func WritePDF(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(false, 14)
	pdf.SetTitle("FinSight report", true)
	pdf.SetCreator("finsight", true)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "FinSight Report")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Generated: "+doc.GeneratedAt.UTC().Format("Jan 2, 2006 15:04 MST"))
	pdf.Ln(5)
	pdf.Cell(0, 6, "User: "+maskID(doc.UserID))
	pdf.Ln(10)

	s := doc.Summary
	third := pageWidth / 3
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(third, 9, "Total Income", "1", 0, "C", true, 0, "")
	pdf.CellFormat(third, 9, "Total Expenses", "1", 0, "C", true, 0, "")
	pdf.CellFormat(third, 9, "Net Balance", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(16, 185, 129)
	pdf.CellFormat(third, 11, s.Income.Format(), "1", 0, "C", false, 0, "")
	pdf.SetTextColor(239, 68, 68)
	pdf.CellFormat(third, 11, s.Expense.Format(), "1", 0, "C", false, 0, "")
	if !s.Surplus {
		pdf.SetTextColor(239, 68, 68)
	} else {
		pdf.SetTextColor(16, 185, 129)
	}
	pdf.CellFormat(third, 11, s.Balance.Format()+" ("+status(s)+")", "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	income, expense := windowTotals(s.Daily)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Last %d days: income %s, expenses %s", len(s.Daily), income.Format(), expense.Format()))
	pdf.Ln(10)

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Expenses by Category")
	pdf.Ln(9)

	if len(s.Categories) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(107, 114, 128)
		pdf.Cell(0, 8, "No expense data")
		pdf.Ln(8)
	} else {
		categoryTable(pdf, doc)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func categoryTable(pdf *gofpdf.Fpdf, doc Document) {
	colW := []float64{62, 36, 22, 62}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.CellFormat(colW[0], rowHeight, "CATEGORY", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colW[1], rowHeight, "AMOUNT", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colW[2], rowHeight, "SHARE", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colW[3], rowHeight, "", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for i, c := range doc.Summary.Categories {
		if i >= maxCategoryRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, rowHeight, fmt.Sprintf("%d more categories not shown", len(doc.Summary.Categories)-i), "1", 1, "C", false, 0, "")
			break
		}
		r, g, b := rgb(doc.colour(c.Name))
		x, y := pdf.GetX(), pdf.GetY()

		pdf.SetFillColor(r, g, b)
		pdf.Rect(x+2, y+2, 3, 3, "F")
		pdf.SetX(x + 7)
		pdf.CellFormat(colW[0]-7, rowHeight, c.Name, "", 0, "L", false, 0, "")
		pdf.SetXY(x, y)
		pdf.CellFormat(colW[0], rowHeight, "", "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[1], rowHeight, c.Amount.Format(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[2], rowHeight, fmt.Sprintf("%.1f%%", c.Percent), "1", 0, "R", false, 0, "")

		barX := pdf.GetX()
		pdf.CellFormat(colW[3], rowHeight, "", "1", 1, "L", false, 0, "")
		if width := (colW[3] - 4) * c.Percent / 100; width > 0 {
			pdf.Rect(barX+2, y+2, width, rowHeight-4, "F")
		}
	}
}
