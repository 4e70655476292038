// Package chart renders loan and investment charts as PNG images.
package chart

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/iwvelando/mortgage-calculator/pkg/finance"
	"github.com/iwvelando/mortgage-calculator/pkg/format"
	"github.com/iwvelando/mortgage-calculator/pkg/loans"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
	"github.com/vicanso/go-charts/v2"
)

const (
	width  = 1000
	height = 600
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to chart")

// splitNumber picks how many x-axis labels to show for n points.
func splitNumber(n int) int {
	split := 6
	if n <= 30 {
		split = n / 3
		if split < 3 {
			split = 3
		}
	}
	return split
}

// BalanceChart plots the remaining principal and the cumulative interest of
// a loan for every month of its schedule.
func BalanceChart(result loans.LoanResult, cur format.CurrencyInfo) ([]byte, error) {
	rows := result.Schedule.Rows
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	labels := make([]string, len(rows))
	balance := make([]float64, len(rows))
	interest := make([]float64, len(rows))
	for i, row := range rows {
		labels[i] = row.Date
		if labels[i] == "" {
			labels[i] = strconv.Itoa(row.Month)
		}
		balance[i] = mathutil.Round(row.RemainingPrincipal)
		interest[i] = mathutil.Round(row.TotalInterest)
	}

	title := fmt.Sprintf("Loan %s, EMI %s", result.LoanID, format.Currency(result.MonthlyEMI, cur))
	subtitle := fmt.Sprintf("Total interest %s over %d months",
		format.Currency(result.TotalInterest, cur), result.ActualTermMonths)

	yMin := 0.0
	p, err := charts.LineRender(
		[][]float64{balance, interest},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: splitNumber(len(labels)),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: []string{"Remaining principal", "Total interest"},
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(width),
		charts.HeightOptionFunc(height),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// InvestmentChart plots the year-end values of a growth projection.
func InvestmentChart(projection finance.InvestmentProjection, cur format.CurrencyInfo) ([]byte, error) {
	if len(projection.Yearly) == 0 {
		return nil, ErrNoData
	}

	labels := make([]string, 0, len(projection.Yearly)+1)
	values := make([]float64, 0, len(projection.Yearly)+1)
	labels = append(labels, "0")
	values = append(values, projection.CurrentValue)
	for _, yv := range projection.Yearly {
		labels = append(labels, strconv.Itoa(yv.Year))
		values = append(values, mathutil.Round(yv.Value))
	}

	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(
			fmt.Sprintf("Projected value at %.2f%%", projection.AnnualRatePercent),
			fmt.Sprintf("%s to %s", format.Currency(projection.CurrentValue, cur), format.Currency(projection.ProjectedValue, cur)),
		),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: splitNumber(len(labels)),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(width),
		charts.HeightOptionFunc(height),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}
