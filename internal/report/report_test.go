package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"finsight/internal/core"
)

func sampleDocument() Document {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		{ID: "t1", UserID: "u1", Type: core.Income, Category: "Salary", Amount: core.Money{Cents: 500000}, Date: core.NewDate(2025, 6, 1)},
		{ID: "t2", UserID: "u1", Type: core.Expense, Category: "Food & Dining", Amount: core.Money{Cents: 4250}, Date: core.NewDate(2025, 6, 2), Note: "groceries"},
		{ID: "t3", UserID: "u1", Type: core.Expense, Category: "Travel", Amount: core.Money{Cents: 120000}, Date: core.NewDate(2025, 6, 9)},
	}
	return Document{
		UserID:       "8f14e45f-ceea-4e7b-9c6a-1f2d3e4b5a6c",
		GeneratedAt:  now,
		Summary:      core.Summarize(txs, now, 0, 0),
		Transactions: core.SortRecent(txs),
		Colour: func(c string) string {
			if c == "Travel" {
				return "#6366f1"
			}
			return "#ef4444"
		},
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleDocument()); err != nil {
		t.Fatalf("WriteXLSX() = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open written workbook: %v", err)
	}
	defer f.Close()

	want := []string{sheetSummary, sheetCategories, sheetDaily, sheetTransactions}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sheets = %v, want %v", got, want)
		}
	}

	if v, _ := f.GetCellValue(sheetSummary, "A5"); v != "Net Balance" {
		t.Fatalf("Summary!A5 = %q", v)
	}
	if v, _ := f.GetCellValue(sheetCategories, "A2"); v != "Travel" {
		t.Fatalf("largest category should come first, got %q", v)
	}
	rows, _ := f.GetRows(sheetDaily)
	if len(rows) != core.DefaultWindowDays+1 {
		t.Fatalf("daily rows = %d, want %d", len(rows), core.DefaultWindowDays+1)
	}
	if v, _ := f.GetCellValue(sheetTransactions, "F2"); v != "t3" {
		t.Fatalf("newest transaction should be first, got %q", v)
	}
}

func TestWritePDF(t *testing.T) {
	for name, doc := range map[string]Document{
		"with data": sampleDocument(),
		"empty":     {GeneratedAt: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)},
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WritePDF(&buf, doc); err != nil {
				t.Fatalf("WritePDF() = %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
				t.Fatalf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	if r, g, b := rgb("#ef4444"); r != 0xef || g != 0x44 || b != 0x44 {
		t.Fatalf("rgb(#ef4444) = %d,%d,%d", r, g, b)
	}
	if r, g, b := rgb("nope"); r != 107 || g != 114 || b != 128 {
		t.Fatalf("rgb fallback = %d,%d,%d", r, g, b)
	}
	if got := maskID("8f14e45f-ceea-4e7b-9c6a-1f2d3e4b5a6c"); got != "8f14...5a6c" {
		t.Fatalf("maskID() = %q", got)
	}
	if got := maskID("short"); got != "short" {
		t.Fatalf("maskID() = %q", got)
	}
}
