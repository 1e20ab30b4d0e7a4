package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"finsight/internal/core"
	"finsight/internal/log"
	"finsight/internal/report"
	"finsight/internal/services"
)

var templateFuncs = template.FuncMap{
	"money":  func(m core.Money) string { return m.Format() },
	"colour": CategoryColour,
	"pct":    func(p float64) string { return strconv.FormatFloat(p, 'f', 1, 64) + "%" },
}

type categoryView struct {
	core.CategoryShare
	Colour string
}

type dailyView struct {
	core.DailyPoint
	// Bar lengths out of 100, relative to the busiest day.
	IncomeBar  int
	ExpenseBar int
}

type dashboardView struct {
	Generated         string
	Today             string
	Summary           core.Summary
	Categories        []categoryView
	Daily             []dailyView
	WindowDays        int
	Recent            []core.Transaction
	IncomeCategories  []string
	ExpenseCategories []string
}

func newDashboardView(d services.Dashboard) dashboardView {
	v := dashboardView{
		Generated:         d.GeneratedAt.Format("Jan 2, 2006 15:04"),
		Today:             core.DateOf(d.GeneratedAt).String(),
		Summary:           d.Summary,
		WindowDays:        len(d.Summary.Daily),
		Recent:            d.Recent,
		IncomeCategories:  core.CategoriesFor(core.Income),
		ExpenseCategories: core.CategoriesFor(core.Expense),
	}
	for _, c := range d.Summary.Categories {
		v.Categories = append(v.Categories, categoryView{CategoryShare: c, Colour: CategoryColour(c.Name)})
	}

	var peak int64
	for _, p := range d.Summary.Daily {
		peak = max(peak, p.Income.Cents, p.Expense.Cents)
	}
	for _, p := range d.Summary.Daily {
		dv := dailyView{DailyPoint: p}
		if peak > 0 {
			dv.IncomeBar = int(p.Income.Cents * 100 / peak)
			dv.ExpenseBar = int(p.Expense.Cents * 100 / peak)
		}
		v.Daily = append(v.Daily, dv)
	}
	return v
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.dashboard(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "dashboard.html", newDashboardView(d)); err != nil {
		writeError(w, r, fmt.Errorf("render dashboard: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report.WriteXLSX)
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "pdf", "application/pdf", report.WritePDF)
}

// export renders into memory first so a failure can still produce a 500.
func (s *Server) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(io.Writer, report.Document) error) {
	d, err := s.dashboard(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	doc := report.Document{
		UserID:       d.UserID,
		GeneratedAt:  d.GeneratedAt,
		Summary:      d.Summary,
		Transactions: d.Recent,
		Colour:       CategoryColour,
	}
	if err := write(&buf, doc); err != nil {
		writeError(w, r, fmt.Errorf("export %s: %w", ext, err))
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Dashboard exported",
		log.FieldOperation, log.OpExport, "format", ext, "bytes", buf.Len())

	filename := fmt.Sprintf("finsight-%s.%s", d.GeneratedAt.Format(time.DateOnly), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
