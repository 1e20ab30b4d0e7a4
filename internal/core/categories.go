package core

// Recognised categories per transaction type. The engine does not enforce
// them; the write path does.
var (
	IncomeCategories = []string{
		"Salary",
		"Freelance",
		"Business",
		"Investment",
		"Gift",
		"Other Income",
	}

	ExpenseCategories = []string{
		"Food & Dining",
		"Transportation",
		"Shopping",
		"Entertainment",
		"Bills & Utilities",
		"Healthcare",
		"Education",
		"Travel",
		"Other Expense",
	}
)

// CategoriesFor returns a copy of the catalogue for t, nil for an unknown type.
func CategoriesFor(t TxType) []string {
	switch t {
	case Income:
		return append([]string(nil), IncomeCategories...)
	case Expense:
		return append([]string(nil), ExpenseCategories...)
	default:
		return nil
	}
}

// IsKnownCategory reports whether category belongs to the catalogue of t.
func IsKnownCategory(t TxType, category string) bool {
	var list []string
	switch t {
	case Income:
		list = IncomeCategories
	case Expense:
		list = ExpenseCategories
	}
	for _, c := range list {
		if c == category {
			return true
		}
	}
	return false
}
