package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultTopCategories is used when CategoryTotals is called with topN <= 0.
	DefaultTopCategories = 8
	// DefaultWindowDays is used when DailySeries is called with windowDays <= 0.
	DefaultWindowDays = 30
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// CategoryShare is a CategoryAmount with its percentage of the listed total.
type CategoryShare struct {
	CategoryAmount
	Percent float64 // one decimal, 0-100
}

// DailyPoint holds the income and expense sums of one calendar day.
type DailyPoint struct {
	Date    Date
	Income  Money
	Expense Money
}

// Summary is everything the dashboard renders for one snapshot.
type Summary struct {
	Income     Money
	Expense    Money
	Balance    Money
	Surplus    bool // Balance >= 0
	Categories []CategoryShare
	Daily      []DailyPoint
}

// TotalByType sums the amounts of every transaction of type t.
func TotalByType(txs []Transaction, t TxType) Money {
	var total Money
	for _, tx := range txs {
		if tx.Type == t {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// NetBalance is total income minus total expense. Negative means deficit.
func NetBalance(txs []Transaction) Money {
	return TotalByType(txs, Income).Sub(TotalByType(txs, Expense))
}

// CategoryTotals groups transactions of type t by category and returns at most
// topN groups ordered by amount, largest first. Equal amounts keep the order in
// which their category first appeared. Groups past topN are dropped.
func CategoryTotals(txs []Transaction, t TxType, topN int) []CategoryAmount {
	if topN <= 0 {
		topN = DefaultTopCategories
	}
	index := map[string]int{}
	var rows []CategoryAmount
	for _, tx := range txs {
		if tx.Type != t {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(rows)
			index[tx.Category] = i
			rows = append(rows, CategoryAmount{Name: tx.Category})
		}
		rows[i].Amount = rows[i].Amount.Add(tx.Amount)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Amount.Cents > rows[j].Amount.Cents
	})
	if len(rows) > topN {
		rows = rows[:topN]
	}
	return rows
}

// CategoryShares computes each row's percentage of the sum of rows.
func CategoryShares(rows []CategoryAmount) []CategoryShare {
	var total int64
	for _, r := range rows {
		total += r.Amount.Cents
	}
	out := make([]CategoryShare, len(rows))
	for i, r := range rows {
		out[i] = CategoryShare{CategoryAmount: r}
		if total == 0 {
			continue
		}
		pct, _ := decimal.NewFromInt(r.Amount.Cents).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(total)).
			Round(1).
			Float64()
		out[i].Percent = pct
	}
	return out
}

// DailySeries returns windowDays consecutive calendar days ending on now's day,
// oldest first, with per-day income and expense sums. Days without
// transactions are present with zero amounts.
func DailySeries(txs []Transaction, now time.Time, windowDays int) []DailyPoint {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	today := DateOf(now)
	first := today.AddDays(-(windowDays - 1))

	series := make([]DailyPoint, windowDays)
	slot := make(map[Date]int, windowDays)
	for i := range series {
		d := first.AddDays(i)
		series[i].Date = d
		slot[d] = i
	}

	for _, tx := range txs {
		i, ok := slot[DateOf(tx.Date.Time)]
		if !ok {
			continue
		}
		switch tx.Type {
		case Income:
			series[i].Income = series[i].Income.Add(tx.Amount)
		case Expense:
			series[i].Expense = series[i].Expense.Add(tx.Amount)
		}
	}
	return series
}

// Summarize computes the full dashboard view of a snapshot.
func Summarize(txs []Transaction, now time.Time, topN, windowDays int) Summary {
	income := TotalByType(txs, Income)
	expense := TotalByType(txs, Expense)
	balance := income.Sub(expense)
	return Summary{
		Income:     income,
		Expense:    expense,
		Balance:    balance,
		Surplus:    balance.Cents >= 0,
		Categories: CategoryShares(CategoryTotals(txs, Expense, topN)),
		Daily:      DailySeries(txs, now, windowDays),
	}
}

// SortRecent returns a copy of txs ordered newest first by date, then by
// creation time.
func SortRecent(txs []Transaction) []Transaction {
	out := append([]Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
