package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kingpin"

	"finsight/internal/cli"
	"finsight/internal/core"
	apphttp "finsight/internal/http"
	"finsight/internal/log"
	"finsight/internal/report"
	"finsight/internal/services"
)

func main() {
	user := kingpin.Flag("user", "User id whose ledger to read").Required().String()

	cmdSummary := kingpin.Command("summary", "Show income, expense and balance")
	cmdCategories := kingpin.Command("categories", "Show totals per category")
	catType := cmdCategories.Flag("type", "income or expense").Default("expense").Enum("income", "expense")
	catTop := cmdCategories.Flag("top", "Number of categories to show").Default("8").Int()
	cmdDaily := kingpin.Command("daily", "Show the trailing daily income and expense series")
	dailyDays := cmdDaily.Flag("days", "Window length in days").Default("30").Int()
	cmdXLSX := kingpin.Command("xlsx", "Write the dashboard as an XLSX workbook")
	xlsxOut := cmdXLSX.Flag("output", "Output file").Short('o').Default("finsight.xlsx").String()
	cmdPDF := kingpin.Command("pdf", "Write the dashboard as a one-page PDF")
	pdfOut := cmdPDF.Flag("output", "Output file").Short('o').Default("finsight.pdf").String()
	cmd := kingpin.Parse()

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentReport)

	ctx := context.Background()
	be, err := cli.OpenLedger(ctx, cfg, logger)
	kingpin.FatalIfError(err, "open ledger")
	defer be.Close()

	svc := services.NewTransactionService(be.Store, nil, logger)
	now := time.Now()
	dash, err := svc.BuildDashboard(ctx, *user, now, services.DashboardOptions{
		TopCategories: cfg.TopCategories,
		WindowDays:    cfg.WindowDays,
	})
	kingpin.FatalIfError(err, "load transactions")

	switch cmd {
	case cmdSummary.FullCommand():
		printSummary(os.Stdout, dash.Summary)
	case cmdCategories.FullCommand():
		printCategories(os.Stdout, core.CategoryShares(core.CategoryTotals(dash.Recent, core.TxType(*catType), *catTop)))
	case cmdDaily.FullCommand():
		printDaily(os.Stdout, core.DailySeries(dash.Recent, now, *dailyDays))
	case cmdXLSX.FullCommand():
		kingpin.FatalIfError(writeFile(*xlsxOut, dash, report.WriteXLSX), "write xlsx")
	case cmdPDF.FullCommand():
		kingpin.FatalIfError(writeFile(*pdfOut, dash, report.WritePDF), "write pdf")
	}
}

func printSummary(w io.Writer, s core.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Total income\t%s\t\n", s.Income.Format())
	fmt.Fprintf(tw, "Total expenses\t%s\t\n", s.Expense.Format())
	status := "surplus"
	if !s.Surplus {
		status = "deficit"
	}
	fmt.Fprintf(tw, "Net balance (%s)\t%s\t\n", status, s.Balance.Format())
	tw.Flush()
}

func printCategories(w io.Writer, rows []core.CategoryShare) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No data")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%.1f%%\n", r.Name, r.Amount.Format(), r.Percent)
	}
	tw.Flush()
}

func printDaily(w io.Writer, points []core.DailyPoint) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tINCOME\tEXPENSES")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Date, p.Income.Format(), p.Expense.Format())
	}
	tw.Flush()
}

func writeFile(path string, d services.Dashboard, write func(io.Writer, report.Document) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, report.Document{
		UserID:       d.UserID,
		GeneratedAt:  d.GeneratedAt,
		Summary:      d.Summary,
		Transactions: d.Recent,
		Colour:       apphttp.CategoryColour,
	}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Println("Wrote", path)
	return nil
}
