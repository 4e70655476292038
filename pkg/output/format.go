// Package output provides utilities for formatting and exporting loan
// reports.
package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/iwvelando/mortgage-calculator/internal/calculator"
	"github.com/iwvelando/mortgage-calculator/pkg/format"
	"github.com/iwvelando/mortgage-calculator/pkg/loans"
)

// PrettyFormat writes a human-readable rather than machine-readable report.
// page selects one schedule page per loan; 0 prints every page.
func PrettyFormat(w io.Writer, report *calculator.Report, page int) {
	cur := report.Currency
	money := func(v float64) string { return format.Currency(v, cur) }

	if len(report.Loans) > 1 {
		fmt.Fprintf(w, "--- Combined totals for %d loans ---\n", len(report.Loans))
		writeSummaryLine(w, "Principal", money(report.Totals.Principal))
		writeSummaryLine(w, "Monthly EMI", money(report.Totals.MonthlyEMI))
		writeSummaryLine(w, "Total interest", money(report.Totals.TotalInterest))
		writeSummaryLine(w, "Total amount", money(report.Totals.TotalAmount))
		writeSummaryLine(w, fmt.Sprintf("Interest paid (%d months)", report.PeriodMonths), money(report.Totals.PeriodInterestPaid))
		writeSummaryLine(w, fmt.Sprintf("Principal paid (%d months)", report.PeriodMonths), money(report.Totals.PeriodPrincipalPaid))
		fmt.Fprintln(w)
	}

	for _, result := range report.Loans {
		writeLoan(w, result, report, page, money)
		fmt.Fprintln(w)
	}

	if inv := report.Investment; inv != nil {
		fmt.Fprintf(w, "--- Investment projection ---\n")
		writeSummaryLine(w, "Current value", money(inv.CurrentValue))
		writeSummaryLine(w, "Annual rate", fmt.Sprintf("%.2f%%", inv.AnnualRatePercent))
		writeSummaryLine(w, "Years", fmt.Sprintf("%g", inv.Years))
		writeSummaryLine(w, "Projected value", money(inv.ProjectedValue))
		writeSummaryLine(w, "Growth", money(inv.Growth))
		if len(inv.Yearly) > 0 {
			fmt.Fprintf(w, "Year | Value\n")
			fmt.Fprintf(w, "____ | _____\n")
			for _, yv := range inv.Yearly {
				fmt.Fprintf(w, "%4d | %s\n", yv.Year, money(yv.Value))
			}
		}
		fmt.Fprintln(w)
	}

	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

func writeSummaryLine(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%-28s | %s\n", label, value)
}

func writeLoan(w io.Writer, result loans.LoanResult, report *calculator.Report, page int, money func(float64) string) {
	fmt.Fprintf(w, "--- Loan %s ---\n", loanTitle(result))
	writeSummaryLine(w, "Principal", money(result.Principal))
	writeSummaryLine(w, "Monthly EMI", money(result.MonthlyEMI))
	writeSummaryLine(w, "Total interest", money(result.TotalInterest))
	writeSummaryLine(w, "Total amount", money(result.TotalAmount))
	writeSummaryLine(w, "Term", fmt.Sprintf("%d of %d months", result.ActualTermMonths, result.NominalTermMonths))
	if rows := result.Schedule.Rows; len(rows) > 0 && rows[len(rows)-1].Date != "" {
		writeSummaryLine(w, "Payoff", rows[len(rows)-1].Date)
	}
	writeSummaryLine(w, fmt.Sprintf("Interest paid (%d months)", result.PeriodMonths), money(result.PeriodInterestPaid))
	writeSummaryLine(w, fmt.Sprintf("Principal paid (%d months)", result.PeriodMonths), money(result.PeriodPrincipalPaid))
	writeSummaryLine(w, "Payment progress", fmt.Sprintf("%.2f%%", result.PaymentProgress()))

	first := Paginate(result.Schedule.Rows, report.PageSize, page)
	pages := []Page{first}
	if page == 0 {
		for n := 2; n <= first.TotalPages; n++ {
			pages = append(pages, Paginate(result.Schedule.Rows, report.PageSize, n))
		}
	}

	for _, p := range pages {
		fmt.Fprintf(w, "\nPage %d of %d\n", p.Number, p.TotalPages)
		fmt.Fprintf(w, "Month | Date    | Payment | Principal | Prepayment | Interest | Remaining | Total interest\n")
		fmt.Fprintf(w, "_____ | _______ | _______ | _________ | __________ | ________ | _________ | ______________\n")
		for _, row := range p.Rows {
			date := row.Date
			if date == "" {
				date = "-"
			}
			fmt.Fprintf(w, "%5d | %-7s | %s | %s | %s | %s | %s | %s\n",
				row.Month, date, money(row.Payment), money(row.Principal), money(row.Prepayment),
				money(row.Interest), money(row.RemainingPrincipal), money(row.TotalInterest))
		}
	}
}

func loanTitle(result loans.LoanResult) string {
	if result.Name != "" && result.Name != result.LoanID {
		return fmt.Sprintf("%s (%s)", result.LoanID, result.Name)
	}
	return result.LoanID
}

// CsvFormat writes one CSV block per loan, each headed by a record naming
// the loan and separated by a blank line.
func CsvFormat(w io.Writer, report *calculator.Report) error {
	exporter := CSVExporter{}
	for i, result := range report.Loans {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"Loan", loanTitle(result)}); err != nil {
			return err
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		if err := exporter.Export(w, result); err != nil {
			return fmt.Errorf("loan %s: %w", result.LoanID, err)
		}
	}
	return nil
}
