package core

import (
	"testing"
	"time"
)

func tx(t TxType, category string, cents int64, date Date) Transaction {
	return Transaction{Type: t, Category: category, Amount: Money{Cents: cents}, Date: date}
}

var now = time.Date(2025, 6, 30, 15, 4, 5, 0, time.UTC)

func sampleLedger() []Transaction {
	d := NewDate(2025, 6, 20)
	return []Transaction{
		tx(Income, "Salary", 100000, d),
		tx(Expense, "Food & Dining", 20000, d),
		tx(Expense, "Food & Dining", 5000, d),
		tx(Expense, "Shopping", 30000, d),
	}
}

func TestTotalsAndBalance(t *testing.T) {
	txs := sampleLedger()
	if got := TotalByType(txs, Income); got.Cents != 100000 {
		t.Fatalf("income = %d", got.Cents)
	}
	if got := TotalByType(txs, Expense); got.Cents != 55000 {
		t.Fatalf("expense = %d", got.Cents)
	}
	if got := NetBalance(txs); got.Cents != 45000 {
		t.Fatalf("balance = %d", got.Cents)
	}

	deficit := append(sampleLedger(), tx(Expense, "Travel", 200000, NewDate(2025, 6, 1)))
	net := NetBalance(deficit)
	if net.Cents >= 0 {
		t.Fatalf("expected deficit, got %d", net.Cents)
	}
	if net != TotalByType(deficit, Income).Sub(TotalByType(deficit, Expense)) {
		t.Fatalf("balance must equal income minus expense")
	}
}

func TestEmptyLedger(t *testing.T) {
	if TotalByType(nil, Income).Cents != 0 || TotalByType(nil, Expense).Cents != 0 {
		t.Fatalf("empty totals should be zero")
	}
	if NetBalance(nil).Cents != 0 {
		t.Fatalf("empty balance should be zero")
	}
	if rows := CategoryTotals(nil, Expense, 0); len(rows) != 0 {
		t.Fatalf("expected no categories, got %v", rows)
	}
	series := DailySeries(nil, now, 0)
	if len(series) != DefaultWindowDays {
		t.Fatalf("expected %d days, got %d", DefaultWindowDays, len(series))
	}
	for _, p := range series {
		if p.Income.Cents != 0 || p.Expense.Cents != 0 {
			t.Fatalf("expected zero pair on %s", p.Date)
		}
	}
}

func TestCategoryTotals(t *testing.T) {
	rows := CategoryTotals(sampleLedger(), Expense, 8)
	want := []CategoryAmount{
		{Name: "Shopping", Amount: Money{Cents: 30000}},
		{Name: "Food & Dining", Amount: Money{Cents: 25000}},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %v, want %v", rows, want)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}

	income := CategoryTotals(sampleLedger(), Income, 8)
	if len(income) != 1 || income[0].Name != "Salary" {
		t.Fatalf("unexpected income categories: %v", income)
	}
}

func TestCategoryTotalsTopN(t *testing.T) {
	d := NewDate(2025, 6, 1)
	txs := []Transaction{
		tx(Expense, "Travel", 500, d),
		tx(Expense, "Education", 900, d),
		tx(Expense, "Healthcare", 100, d),
	}
	rows := CategoryTotals(txs, Expense, 1)
	if len(rows) != 1 || rows[0].Name != "Education" || rows[0].Amount.Cents != 900 {
		t.Fatalf("expected only the largest category, got %v", rows)
	}

	var many []Transaction
	for i, c := range ExpenseCategories {
		many = append(many, tx(Expense, c, int64(100*(i+1)), d))
	}
	rows = CategoryTotals(many, Expense, 0)
	if len(rows) != DefaultTopCategories {
		t.Fatalf("default topN should keep %d rows, got %d", DefaultTopCategories, len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Amount.Cents > rows[i-1].Amount.Cents {
			t.Fatalf("rows not sorted descending: %v", rows)
		}
	}
	for _, r := range rows {
		if r.Name == ExpenseCategories[0] {
			t.Fatalf("smallest category should have been dropped")
		}
	}
}

func TestCategoryTotalsTiesKeepFirstSeen(t *testing.T) {
	d := NewDate(2025, 6, 1)
	txs := []Transaction{
		tx(Expense, "Travel", 100, d),
		tx(Expense, "Shopping", 300, d),
		tx(Expense, "Education", 200, d),
		tx(Expense, "Travel", 100, d),
		tx(Expense, "Healthcare", 200, d),
	}
	rows := CategoryTotals(txs, Expense, 8)
	order := []string{"Shopping", "Travel", "Education", "Healthcare"}
	for i, name := range order {
		if rows[i].Name != name {
			t.Fatalf("position %d = %s, want %s (%v)", i, rows[i].Name, name, rows)
		}
	}
}

func TestCategoryShares(t *testing.T) {
	rows := []CategoryAmount{
		{Name: "Shopping", Amount: Money{Cents: 30000}},
		{Name: "Food & Dining", Amount: Money{Cents: 25000}},
	}
	shares := CategoryShares(rows)
	if shares[0].Percent != 54.5 || shares[1].Percent != 45.5 {
		t.Fatalf("unexpected shares: %+v", shares)
	}
	zero := CategoryShares([]CategoryAmount{{Name: "Travel"}})
	if zero[0].Percent != 0 {
		t.Fatalf("zero total should give zero share")
	}
}

func TestDailySeries(t *testing.T) {
	txs := []Transaction{
		tx(Income, "Salary", 1000, NewDate(2025, 6, 30)),
		tx(Expense, "Shopping", 200, NewDate(2025, 6, 30)),
		tx(Expense, "Shopping", 50, NewDate(2025, 6, 30)),
		tx(Expense, "Travel", 300, NewDate(2025, 6, 1)),  // first day of window
		tx(Expense, "Travel", 999, NewDate(2025, 5, 31)), // just outside
		tx(Income, "Gift", 999, NewDate(2025, 7, 1)),     // future
	}
	series := DailySeries(txs, now, 30)
	if len(series) != 30 {
		t.Fatalf("expected 30 days, got %d", len(series))
	}
	if series[0].Date != NewDate(2025, 6, 1) || series[29].Date != NewDate(2025, 6, 30) {
		t.Fatalf("window bounds wrong: %s..%s", series[0].Date, series[29].Date)
	}
	for i := 1; i < len(series); i++ {
		if series[i].Date != series[i-1].Date.AddDays(1) {
			t.Fatalf("days not consecutive at %d", i)
		}
	}
	if series[0].Expense.Cents != 300 || series[0].Income.Cents != 0 {
		t.Fatalf("first day = %+v", series[0])
	}
	last := series[29]
	if last.Income.Cents != 1000 || last.Expense.Cents != 250 {
		t.Fatalf("last day = %+v", last)
	}
	var outside int64
	for _, p := range series {
		outside += p.Income.Cents + p.Expense.Cents
	}
	if outside != 1550 {
		t.Fatalf("out-of-window transactions leaked into series, total=%d", outside)
	}

	week := DailySeries(txs, now, 7)
	if len(week) != 7 || week[0].Date != NewDate(2025, 6, 24) {
		t.Fatalf("7-day window wrong: %d days starting %s", len(week), week[0].Date)
	}
}

func TestDailySeriesUsesLocalDayOfNow(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 2025-07-01 02:00 in UTC+9 is still June 30 in UTC; the window follows now's own calendar.
	local := time.Date(2025, 7, 1, 2, 0, 0, 0, loc)
	series := DailySeries([]Transaction{tx(Income, "Gift", 100, NewDate(2025, 7, 1))}, local, 3)
	if series[2].Date != NewDate(2025, 7, 1) || series[2].Income.Cents != 100 {
		t.Fatalf("unexpected last point: %+v", series[2])
	}
}

func TestSummarizeIsRepeatable(t *testing.T) {
	txs := sampleLedger()
	a := Summarize(txs, now, 8, 30)
	b := Summarize(txs, now, 8, 30)
	if a.Income != b.Income || a.Expense != b.Expense || a.Balance != b.Balance || len(a.Daily) != len(b.Daily) {
		t.Fatalf("summaries differ")
	}
	if !a.Surplus || a.Balance.Cents != 45000 {
		t.Fatalf("unexpected summary %+v", a)
	}
	if len(a.Categories) != 2 || a.Categories[0].Name != "Shopping" {
		t.Fatalf("unexpected categories %+v", a.Categories)
	}
	if txs[0].Type != Income || txs[1].Amount.Cents != 20000 {
		t.Fatalf("input was mutated")
	}
}

func TestSortRecent(t *testing.T) {
	older := tx(Expense, "Travel", 1, NewDate(2025, 1, 1))
	newer := tx(Expense, "Travel", 2, NewDate(2025, 2, 1))
	sameDayLater := newer
	sameDayLater.Amount = Money{Cents: 3}
	sameDayLater.CreatedAt = time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	in := []Transaction{older, newer, sameDayLater}
	out := SortRecent(in)
	if out[0].Amount.Cents != 3 || out[1].Amount.Cents != 2 || out[2].Amount.Cents != 1 {
		t.Fatalf("unexpected order: %v", out)
	}
	if in[0].Amount.Cents != 1 {
		t.Fatalf("input was reordered")
	}
}
