// Package report renders a user's dashboard as XLSX and PDF documents.
package report

import (
	"strconv"
	"strings"
	"time"

	"finsight/internal/core"
)

// Document is the input of every export.
type Document struct {
	UserID       string
	GeneratedAt  time.Time
	Summary      core.Summary
	Transactions []core.Transaction
	// Colour maps a category to a "#rrggbb" display colour. Optional.
	Colour func(category string) string
}

func (d Document) colour(category string) string {
	if d.Colour == nil {
		return "#6b7280"
	}
	return d.Colour(category)
}

func rgb(hex string) (r, g, b int) {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(hex, "#")) != 6 {
		return 107, 114, 128
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

// maskID keeps the first and last four characters of long ids.
func maskID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:4] + "..." + id[len(id)-4:]
}

func windowTotals(daily []core.DailyPoint) (income, expense core.Money) {
	for _, p := range daily {
		income = income.Add(p.Income)
		expense = expense.Add(p.Expense)
	}
	return income, expense
}
