package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"finsight/internal/core"
	"finsight/internal/log"
)

type moneyJSON struct {
	Cents   int64  `json:"cents"`
	Value   string `json:"value"`
	Display string `json:"display"`
}

func toMoneyJSON(m core.Money) moneyJSON {
	return moneyJSON{Cents: m.Cents, Value: m.String(), Display: m.Format()}
}

type transactionJSON struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Colour    string    `json:"colour"`
	Amount    moneyJSON `json:"amount"`
	Date      string    `json:"date"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:        tx.ID,
		Type:      string(tx.Type),
		Category:  tx.Category,
		Colour:    CategoryColour(tx.Category),
		Amount:    toMoneyJSON(tx.Amount),
		Date:      tx.Date.String(),
		Note:      tx.Note,
		CreatedAt: tx.CreatedAt,
	}
}

type summaryJSON struct {
	Income  moneyJSON `json:"income"`
	Expense moneyJSON `json:"expense"`
	Balance moneyJSON `json:"balance"`
	Surplus bool      `json:"surplus"`
}

type categoryJSON struct {
	Name    string    `json:"name"`
	Colour  string    `json:"colour"`
	Amount  moneyJSON `json:"amount"`
	Percent float64   `json:"percent"`
}

type dailyJSON struct {
	Date    string    `json:"date"`
	Income  moneyJSON `json:"income"`
	Expense moneyJSON `json:"expense"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and a user-facing message. Only
// validation messages are shown verbatim; everything else is logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status  int
		message string
		bad     badRequestError
	)
	switch {
	case errors.As(err, &bad):
		status, message = http.StatusBadRequest, "Malformed request body"
	case errors.Is(err, core.ErrValidation):
		status, message = http.StatusUnprocessableEntity, validationMessage(err)
	case errors.Is(err, core.ErrNotFound):
		status, message = http.StatusNotFound, "Transaction not found"
	default:
		status, message = http.StatusInternalServerError, "Something went wrong, please try again"
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.NewFields().WithError(err).Args()...)
	}

	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSON(w, status, errorJSON{Error: message})
		return
	}
	http.Error(w, message, status)
}

// validationMessage drops the shared "validation failed: " prefix.
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, core.ErrValidation.Error()+": "); i >= 0 {
		msg = msg[i+len(core.ErrValidation.Error())+2:]
	}
	if msg == "" {
		return "Invalid transaction"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
