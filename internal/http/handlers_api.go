package http

import (
	"context"
	"net/http"
	"strings"

	"finsight/internal/core"
	"finsight/internal/log"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	txs, err := s.svc.ListTransactions(ctx, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range core.SortRecent(txs) {
		out = append(out, toTransactionJSON(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateTransaction accepts JSON or a form post. Browsers posting the
// dashboard form are redirected back to it.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	tx, err := ParseTransaction(p, userID(r), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	created, err := s.svc.CreateTransaction(ctx, tx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !p.IsJSON() && wantsHTML(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.Header().Set("Location", "/api/transactions/"+created.ID)
	writeJSON(w, http.StatusCreated, toTransactionJSON(created))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := s.svc.DeleteTransaction(ctx, userID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	d, err := s.dashboard(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryJSON{
		Income:  toMoneyJSON(d.Summary.Income),
		Expense: toMoneyJSON(d.Summary.Expense),
		Balance: toMoneyJSON(d.Summary.Balance),
		Surplus: d.Summary.Surplus,
	})
}

// handleCategories serves ?type=income|expense (default expense) and
// ?top=N (default from config).
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	typ := core.Expense
	if v := r.URL.Query().Get("type"); v != "" {
		t, err := core.ParseTxType(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		typ = t
	}
	top := queryInt(r, "top", s.opts.TopCategories, 50)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	txs, err := s.svc.ListTransactions(ctx, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	shares := core.CategoryShares(core.CategoryTotals(txs, typ, top))
	out := make([]categoryJSON, 0, len(shares))
	for _, c := range shares {
		out = append(out, categoryJSON{
			Name:    c.Name,
			Colour:  CategoryColour(c.Name),
			Amount:  toMoneyJSON(c.Amount),
			Percent: c.Percent,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", s.opts.WindowDays, 366)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	txs, err := s.svc.ListTransactions(ctx, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	series := core.DailySeries(txs, s.now(), days)
	out := make([]dailyJSON, 0, len(series))
	for _, p := range series {
		out = append(out, dailyJSON{
			Date:    p.Date.String(),
			Income:  toMoneyJSON(p.Income),
			Expense: toMoneyJSON(p.Expense),
		})
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "Daily series served",
		log.FieldOperation, log.OpSummary, "days", days)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildCatalog())
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
