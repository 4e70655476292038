// Package calculator turns a configuration into a full loan report: validated
// inputs, per-loan schedules and summaries, combined totals and the optional
// investment projection.
package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/datetime"
	"github.com/iwvelando/mortgage-calculator/pkg/finance"
	"github.com/iwvelando/mortgage-calculator/pkg/format"
	"github.com/iwvelando/mortgage-calculator/pkg/loans"
	"go.uber.org/zap"
)

// ErrNoLoans is returned when a configuration has nothing to calculate.
var ErrNoLoans = errors.New("at least one loan is required")

// Report holds every computed figure for one configuration.
type Report struct {
	Currency     format.CurrencyInfo           `json:"currency"`
	PeriodMonths int                           `json:"periodMonths"`
	PageSize     int                           `json:"pageSize"`
	Loans        []loans.LoanResult            `json:"loans"`
	Totals       loans.Totals                  `json:"totals"`
	Investment   *finance.InvestmentProjection `json:"investment,omitempty"`
	Warnings     []string                      `json:"warnings,omitempty"`
}

// FindLoan returns the loan whose ID matches key. A key that matches no ID is
// tried as a 1-based position.
func (r *Report) FindLoan(key string) (*loans.LoanResult, bool) {
	key = strings.TrimSpace(key)
	for i := range r.Loans {
		if r.Loans[i].LoanID == key {
			return &r.Loans[i], true
		}
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(r.Loans) {
		return &r.Loans[n-1], true
	}
	return nil, false
}

// GetReport validates conf and computes the report. The period is clamped to
// the longest nominal term among the loans.
func GetReport(logger *zap.Logger, conf config.Configuration) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(conf.Loans) == 0 {
		return nil, ErrNoLoans
	}

	inputs, err := conf.LoanInputs()
	if err != nil {
		return nil, err
	}

	longest := 1
	for _, input := range inputs {
		if input.TermYears > 0 && input.TermYears <= constants.MaxTermYears {
			if n := loans.NominalTermMonths(input.TermYears); n > longest {
				longest = n
			}
		}
	}

	requested := conf.PeriodMonths
	if requested == 0 {
		requested = constants.DefaultPeriodMonths
	}
	period := loans.ClampPeriod(requested, longest)
	if period != requested {
		logger.Debug(fmt.Sprintf("clamped period of %d months to %d", requested, period),
			zap.String("op", "calculator.GetReport"),
		)
	}

	results, err := loans.CalculateLoanSummary(inputs, period)
	if err != nil {
		return nil, err
	}

	for i := range results {
		if err := labelDates(&results[i], conf.Loans[i].StartDate); err != nil {
			return nil, fmt.Errorf("loan %s: invalid start date %q: %w", conf.LoanLabel(i), conf.Loans[i].StartDate, err)
		}
		logger.Debug(fmt.Sprintf("loan %s pays off in %d of %d months", results[i].LoanID,
			results[i].ActualTermMonths, results[i].NominalTermMonths),
			zap.String("op", "calculator.GetReport"),
		)
	}

	pageSize := conf.PageSize
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}

	report := &Report{
		Currency:     conf.CurrencyInfo(),
		PeriodMonths: period,
		PageSize:     pageSize,
		Loans:        results,
		Totals:       loans.AggregateResults(results),
		Warnings:     conf.ValidateConfiguration(),
	}

	investment, err := conf.InvestmentInput()
	if err != nil {
		return nil, err
	}
	if investment != nil {
		projection, err := finance.NewInvestmentProcessor(logger).Project(*investment)
		if err != nil {
			return nil, fmt.Errorf("investment: %w", err)
		}
		report.Investment = &projection
	}

	logger.Info(fmt.Sprintf("calculated %d loans over a %d month period", len(results), period),
		zap.String("op", "calculator.GetReport"),
	)

	return report, nil
}

// labelDates stamps each row with its payment month. The first payment falls
// in the start month. An empty start date leaves the rows unlabelled.
func labelDates(result *loans.LoanResult, startDate string) error {
	startDate = strings.TrimSpace(startDate)
	if startDate == "" {
		return nil
	}
	dates, err := datetime.MonthSequence(startDate, datetime.DateTimeLayout, len(result.Schedule.Rows))
	if err != nil {
		return err
	}
	for j := range result.Schedule.Rows {
		result.Schedule.Rows[j].Date = dates[j]
	}
	return nil
}
