package report

import (
	"fmt"
	"io"

	"dario.cat/mergo"
	"github.com/xuri/excelize/v2"

	"finsight/internal/core"
)

const (
	sheetSummary      = "Summary"
	sheetCategories   = "Categories"
	sheetDaily        = "Daily"
	sheetTransactions = "Transactions"
)

// WriteXLSX writes a workbook with Summary, Categories, Daily and
// Transactions sheets. Amounts are numeric cells in currency units.
func WriteXLSX(w io.Writer, doc Document) error {
	xlsx := excelize.NewFile()
	defer xlsx.Close()

	_ = xlsx.SetDocProps(&excelize.DocProperties{
		Title:   "FinSight export",
		Creator: "finsight",
		Created: doc.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})

	first := xlsx.GetSheetName(xlsx.GetActiveSheetIndex())
	if err := xlsx.SetSheetName(first, sheetSummary); err != nil {
		return err
	}
	for _, name := range []string{sheetCategories, sheetDaily, sheetTransactions} {
		if _, err := xlsx.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	st, err := newStyles(xlsx)
	if err != nil {
		return err
	}
	writeSummarySheet(xlsx, st, doc)
	writeCategoriesSheet(xlsx, st, doc)
	writeDailySheet(xlsx, st, doc)
	writeTransactionsSheet(xlsx, st, doc)

	xlsx.SetActiveSheet(0)
	return xlsx.Write(w)
}

type styles struct {
	header, money, moneyBold, positive, negative int
}

func newStyles(xlsx *excelize.File) (styles, error) {
	var st styles
	defs := []struct {
		id    *int
		style *excelize.Style
	}{
		{&st.header, mergeStyles(fontBold(), fill("#F3F4F6"), thinBorder("bottom"))},
		{&st.money, moneyFormat()},
		{&st.moneyBold, mergeStyles(moneyFormat(), fontBold())},
		{&st.positive, mergeStyles(moneyFormat(), fontBold(), fontColour("#10B981"))},
		{&st.negative, mergeStyles(moneyFormat(), fontBold(), fontColour("#EF4444"))},
	}
	for _, d := range defs {
		id, err := xlsx.NewStyle(d.style)
		if err != nil {
			return styles{}, fmt.Errorf("create style: %w", err)
		}
		*d.id = id
	}
	return st, nil
}

func writeSummarySheet(xlsx *excelize.File, st styles, doc Document) {
	s := doc.Summary
	_ = xlsx.SetColWidth(sheetSummary, "A", "A", 22)
	_ = xlsx.SetColWidth(sheetSummary, "B", "B", 18)

	rows := [][]any{
		{"Generated", doc.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")},
		{"User", doc.UserID},
		{"Total Income", s.Income.Dollars()},
		{"Total Expenses", s.Expense.Dollars()},
		{"Net Balance", s.Balance.Dollars()},
		{"Status", status(s)},
	}
	for i, row := range rows {
		_ = xlsx.SetSheetRow(sheetSummary, cell(1, i+1), &row)
	}
	_ = xlsx.SetCellStyle(sheetSummary, "A1", "A6", st.header)
	_ = xlsx.SetCellStyle(sheetSummary, "B3", "B4", st.moneyBold)
	balance := st.positive
	if !s.Surplus {
		balance = st.negative
	}
	_ = xlsx.SetCellStyle(sheetSummary, "B5", "B5", balance)
}

func writeCategoriesSheet(xlsx *excelize.File, st styles, doc Document) {
	header := []any{"Category", "Amount", "Share %"}
	_ = xlsx.SetSheetRow(sheetCategories, "A1", &header)
	_ = xlsx.SetCellStyle(sheetCategories, "A1", "C1", st.header)
	_ = xlsx.SetColWidth(sheetCategories, "A", "A", 22)
	_ = xlsx.SetColWidth(sheetCategories, "B", "C", 14)

	for i, c := range doc.Summary.Categories {
		r := i + 2
		row := []any{c.Name, c.Amount.Dollars(), c.Percent}
		_ = xlsx.SetSheetRow(sheetCategories, cell(1, r), &row)
		_ = xlsx.SetCellStyle(sheetCategories, cell(2, r), cell(2, r), st.money)
		if id, err := xlsx.NewStyle(mergeStyles(fill(doc.colour(c.Name)), fontColour("#FFFFFF"))); err == nil {
			_ = xlsx.SetCellStyle(sheetCategories, cell(1, r), cell(1, r), id)
		}
	}
}

func writeDailySheet(xlsx *excelize.File, st styles, doc Document) {
	header := []any{"Date", "Income", "Expenses"}
	_ = xlsx.SetSheetRow(sheetDaily, "A1", &header)
	_ = xlsx.SetCellStyle(sheetDaily, "A1", "C1", st.header)
	_ = xlsx.SetColWidth(sheetDaily, "A", "C", 14)

	for i, p := range doc.Summary.Daily {
		row := []any{p.Date.String(), p.Income.Dollars(), p.Expense.Dollars()}
		_ = xlsx.SetSheetRow(sheetDaily, cell(1, i+2), &row)
	}
	if n := len(doc.Summary.Daily); n > 0 {
		_ = xlsx.SetCellStyle(sheetDaily, "B2", cell(3, n+1), st.money)
	}
}

func writeTransactionsSheet(xlsx *excelize.File, st styles, doc Document) {
	header := []any{"Date", "Type", "Category", "Amount", "Note", "ID"}
	_ = xlsx.SetSheetRow(sheetTransactions, "A1", &header)
	_ = xlsx.SetCellStyle(sheetTransactions, "A1", "F1", st.header)
	_ = xlsx.SetColWidth(sheetTransactions, "A", "B", 12)
	_ = xlsx.SetColWidth(sheetTransactions, "C", "D", 18)
	_ = xlsx.SetColWidth(sheetTransactions, "E", "E", 40)
	_ = xlsx.SetColWidth(sheetTransactions, "F", "F", 38)
	_ = xlsx.SetPanes(sheetTransactions, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	for i, tx := range doc.Transactions {
		amount := tx.Amount.Dollars()
		if tx.Type == core.Expense {
			amount = -amount
		}
		row := []any{tx.Date.String(), string(tx.Type), tx.Category, amount, tx.Note, tx.ID}
		_ = xlsx.SetSheetRow(sheetTransactions, cell(1, i+2), &row)
	}
	if n := len(doc.Transactions); n > 0 {
		_ = xlsx.SetCellStyle(sheetTransactions, "D2", cell(4, n+1), st.money)
	}
}

func status(s core.Summary) string {
	if s.Surplus {
		return "Surplus"
	}
	return "Deficit"
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func moneyFormat() *excelize.Style {
	f := "#,##0.00"
	return &excelize.Style{CustomNumFmt: &f}
}

func fontBold() *excelize.Style {
	return &excelize.Style{Font: &excelize.Font{Bold: true}}
}

func fontColour(c string) *excelize.Style {
	return &excelize.Style{Font: &excelize.Font{Color: c}}
}

func fill(c string) *excelize.Style {
	return &excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{c}, Pattern: 1},
	}
}

func thinBorder(where ...string) *excelize.Style {
	s := &excelize.Style{}
	for _, w := range where {
		s.Border = append(s.Border, excelize.Border{Type: w, Color: "#000000", Style: 1})
	}
	return s
}

// mergeStyles folds later styles into the first, later fields winning.
func mergeStyles(ext ...*excelize.Style) *excelize.Style {
	if len(ext) == 0 {
		return nil
	}
	for _, e := range ext[1:] {
		_ = mergo.Merge(ext[0], e, mergo.WithOverride)
	}
	return ext[0]
}
