package http

import "finsight/internal/core"

// NeutralColour is used for categories outside the catalogue.
const NeutralColour = "#6b7280"

var categoryColours = map[string]string{
	"Food & Dining":     "#ef4444",
	"Transportation":    "#f59e0b",
	"Shopping":          "#8b5cf6",
	"Entertainment":     "#ec4899",
	"Bills & Utilities": "#3b82f6",
	"Healthcare":        "#10b981",
	"Education":         "#06b6d4",
	"Travel":            "#6366f1",
	"Other Expense":     NeutralColour,

	"Salary":       "#16a34a",
	"Freelance":    "#22c55e",
	"Business":     "#15803d",
	"Investment":   "#0d9488",
	"Gift":         "#84cc16",
	"Other Income": "#4ade80",
}

// CategoryColour returns the display colour of category.
func CategoryColour(category string) string {
	if c, ok := categoryColours[category]; ok {
		return c
	}
	return NeutralColour
}

type catalogEntry struct {
	Name   string `json:"name"`
	Colour string `json:"colour"`
}

type catalogResponse struct {
	Income  []catalogEntry `json:"income"`
	Expense []catalogEntry `json:"expense"`
}

func buildCatalog() catalogResponse {
	entries := func(t core.TxType) []catalogEntry {
		names := core.CategoriesFor(t)
		out := make([]catalogEntry, 0, len(names))
		for _, n := range names {
			out = append(out, catalogEntry{Name: n, Colour: CategoryColour(n)})
		}
		return out
	}
	return catalogResponse{
		Income:  entries(core.Income),
		Expense: entries(core.Expense),
	}
}
