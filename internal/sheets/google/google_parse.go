package google

import (
	"fmt"
	"strings"

	"finsight/internal/core"
	"finsight/internal/sheets"
)

func headerRow() []any {
	row := make([]any, len(sheets.Header))
	for i, h := range sheets.Header {
		row[i] = h
	}
	return row
}

// transactionRow lays tx out as ID, User, Date, Type, Category, Amount, Note.
// The amount is a plain decimal so the sheet can sum the column.
func transactionRow(tx core.Transaction) []any {
	return []any{
		tx.ID,
		tx.UserID,
		tx.Date.String(),
		string(tx.Type),
		tx.Category,
		tx.Amount.String(),
		tx.Note,
	}
}

// findRow returns the zero-based index of the row whose first two cells are
// id and userID, or -1.
func findRow(values [][]any, userID, id string) int {
	for i, row := range values {
		if len(row) < 2 {
			continue
		}
		if cell(row[0]) == id && cell(row[1]) == userID {
			return i
		}
	}
	return -1
}

func cell(v any) string {
	return strings.TrimSpace(fmt.Sprint(v))
}
