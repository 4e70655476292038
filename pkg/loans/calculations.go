// Package loans provides the amortization engine: monthly payment (EMI),
// schedule generation with prepayments, and cross-loan aggregation.
//
// Every function is a pure function of its arguments. Inputs are validated up
// front and rejected with *InvalidInputError instead of producing NaN or Inf.
package loans

import (
	"fmt"
	"math"
	"sort"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
)

// CalculateEMI calculates the monthly payment for a loan using the standard
// amortization formula. A zero rate divides the principal evenly over the term.
func CalculateEMI(principal, annualRatePercent, years float64) (float64, error) {
	if err := validateTerms(principal, annualRatePercent, years); err != nil {
		return 0, err
	}
	emi := monthlyPayment(principal, mathutil.MonthlyRate(annualRatePercent), years*constants.MonthsPerYear)
	if !mathutil.IsFinite(emi) {
		return 0, &InvalidInputError{Field: "annual rate", Value: annualRatePercent, Reason: "produces a payment that cannot be represented"}
	}
	return emi, nil
}

// monthlyPayment evaluates P*r*(1+r)^n / ((1+r)^n - 1) for n months, which
// may be fractional.
func monthlyPayment(principal, monthlyRate, months float64) float64 {
	if monthlyRate == 0 {
		return principal / months
	}
	power := math.Pow(1+monthlyRate, months)
	switch {
	case power == 1:
		// Rate too small to register in float64.
		return principal / months
	case math.IsInf(power, 1):
		// Limit of the formula for very long terms: interest only.
		return principal * monthlyRate
	}
	return principal * monthlyRate * power / (power - 1)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualRatePercent float64) float64 {
	return remainingPrincipal * mathutil.MonthlyRate(annualRatePercent)
}

// NominalTermMonths returns the number of schedule months for a term in
// years; fractional years round up to a final partial month.
func NominalTermMonths(years float64) int {
	months := int(math.Ceil(years*constants.MonthsPerYear - constants.PayoffTolerance))
	if months < 1 {
		return 1
	}
	return months
}

// NormalizePrepayments returns a copy of prepayments with missing entries
// (month < 1 or amount <= 0) removed, sorted by month ascending. Entries on
// the same month keep their input order.
func NormalizePrepayments(prepayments []Prepayment) []Prepayment {
	normalized := make([]Prepayment, 0, len(prepayments))
	for _, p := range prepayments {
		if p.Month < 1 || !(p.Amount > 0) || math.IsInf(p.Amount, 1) {
			continue
		}
		normalized = append(normalized, p)
	}
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].Month < normalized[j].Month
	})
	return normalized
}

// CalculateAmortizationSchedule generates the month-by-month schedule of a
// loan.
//
// The payment is re-derived every month from the remaining principal and the
// remaining term. Without prepayments this equals the fixed EMI; after a
// prepayment the payment drops and the loan still matures on its nominal
// month unless a prepayment clears the balance first. All prepayments that
// fall on the same month are summed, and a prepayment never exceeds the
// balance left after the regular principal.
func CalculateAmortizationSchedule(principal, annualRatePercent, years float64, prepayments []Prepayment) (Schedule, error) {
	if err := validateTerms(principal, annualRatePercent, years); err != nil {
		return Schedule{}, err
	}

	monthlyRate := mathutil.MonthlyRate(annualRatePercent)
	totalMonths := years * constants.MonthsPerYear
	nominal := NominalTermMonths(years)
	extra := NormalizePrepayments(prepayments)

	schedule := Schedule{
		Rows:              make([]ScheduleRow, 0, nominal),
		NominalTermMonths: nominal,
	}

	remaining := principal
	next := 0
	for month := 1; month <= nominal; month++ {
		interest := CalculateInterestPayment(remaining, annualRatePercent)

		remainingTerm := totalMonths - float64(month-1)
		principalPart := mathutil.Min(monthlyPayment(remaining, monthlyRate, remainingTerm)-interest, remaining)

		requested := 0.0
		for next < len(extra) && extra[next].Month <= month {
			if extra[next].Month == month {
				requested += extra[next].Amount
			}
			next++
		}
		prepayment := mathutil.Min(requested, remaining-principalPart)

		remaining -= principalPart + prepayment
		if remaining < constants.PayoffTolerance {
			remaining = 0
		}

		schedule.TotalInterest += interest
		schedule.TotalPrincipal += principalPart + prepayment
		schedule.TotalPayment += interest + principalPart + prepayment

		schedule.Rows = append(schedule.Rows, ScheduleRow{
			Month:              month,
			Payment:            interest + principalPart,
			Interest:           interest,
			Principal:          principalPart,
			Prepayment:         prepayment,
			RemainingPrincipal: remaining,
			TotalInterest:      schedule.TotalInterest,
			TotalPrincipal:     schedule.TotalPrincipal,
		})

		if remaining == 0 {
			break
		}
	}

	if !mathutil.IsFinite(schedule.TotalPayment) {
		return Schedule{}, &InvalidInputError{Field: "annual rate", Value: annualRatePercent, Reason: "produces interest that cannot be represented"}
	}

	schedule.ActualTermMonths = len(schedule.Rows)
	return schedule, nil
}

// SummarizeLoan computes the lifetime and period-to-date figures of one loan.
// periodMonths longer than the schedule covers every row.
func SummarizeLoan(loan LoanInput, periodMonths int) (LoanResult, error) {
	if periodMonths < 1 {
		return LoanResult{}, &InvalidInputError{
			Field:  "periodMonths",
			Value:  float64(periodMonths),
			Reason: "must be at least 1",
		}
	}

	schedule, err := CalculateAmortizationSchedule(loan.Principal, loan.AnnualRatePercent, loan.TermYears, loan.Prepayments)
	if err != nil {
		return LoanResult{}, err
	}

	result := LoanResult{
		LoanID:            loan.ID,
		Name:              loan.Name,
		Principal:         loan.Principal,
		MonthlyEMI:        schedule.Rows[0].Payment,
		TotalInterest:     schedule.TotalInterest,
		TotalAmount:       loan.Principal + schedule.TotalInterest,
		PeriodMonths:      periodMonths,
		ActualTermMonths:  schedule.ActualTermMonths,
		NominalTermMonths: schedule.NominalTermMonths,
		Schedule:          schedule,
	}

	periodRows := schedule.Rows
	if periodMonths < len(periodRows) {
		periodRows = periodRows[:periodMonths]
	}
	for _, row := range periodRows {
		result.PeriodInterestPaid += row.Interest
		result.PeriodPrincipalPaid += row.Principal + row.Prepayment
	}

	return result, nil
}

// CalculateLoanSummary summarizes every loan with the same period length.
// The period is not clamped here; see ClampPeriod.
func CalculateLoanSummary(loans []LoanInput, periodMonths int) ([]LoanResult, error) {
	results := make([]LoanResult, 0, len(loans))
	for _, loan := range loans {
		result, err := SummarizeLoan(loan, periodMonths)
		if err != nil {
			return nil, fmt.Errorf("loan %s: %w", loan.Label(), err)
		}
		results = append(results, result)
	}
	return results, nil
}

// AggregateResults sums the summary fields of every result. The sum does not
// depend on the order of results.
func AggregateResults(results []LoanResult) Totals {
	var totals Totals
	for _, r := range results {
		totals.Principal += r.Principal
		totals.MonthlyEMI += r.MonthlyEMI
		totals.TotalInterest += r.TotalInterest
		totals.TotalAmount += r.TotalAmount
		totals.PeriodInterestPaid += r.PeriodInterestPaid
		totals.PeriodPrincipalPaid += r.PeriodPrincipalPaid
	}
	return totals
}

// ClampPeriod clamps a requested period to [1, totalMonths].
func ClampPeriod(periodMonths, totalMonths int) int {
	if totalMonths < 1 {
		totalMonths = 1
	}
	if periodMonths < 1 {
		return 1
	}
	if periodMonths > totalMonths {
		return totalMonths
	}
	return periodMonths
}

func validateTerms(principal, annualRatePercent, years float64) error {
	if !mathutil.IsFinite(principal) || principal <= 0 {
		return &InvalidInputError{Field: "principal", Value: principal, Reason: "must be a finite number greater than 0"}
	}
	if principal > constants.MaxLoanAmount {
		return &InvalidInputError{Field: "principal", Value: principal, Reason: fmt.Sprintf("must not exceed %.0f", constants.MaxLoanAmount)}
	}
	if !mathutil.IsFinite(annualRatePercent) || annualRatePercent < 0 {
		return &InvalidInputError{Field: "annual rate", Value: annualRatePercent, Reason: "must be a finite number not less than 0"}
	}
	if annualRatePercent > constants.MaxInterestRate {
		return &InvalidInputError{Field: "annual rate", Value: annualRatePercent, Reason: fmt.Sprintf("must not exceed %.0f%%", constants.MaxInterestRate)}
	}
	if !mathutil.IsFinite(years) || years <= 0 {
		return &InvalidInputError{Field: "term", Value: years, Reason: "must be a finite number of years greater than 0"}
	}
	if years > constants.MaxTermYears {
		return &InvalidInputError{Field: "term", Value: years, Reason: fmt.Sprintf("must not exceed %d years", constants.MaxTermYears)}
	}
	return nil
}
