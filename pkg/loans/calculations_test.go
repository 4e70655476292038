package loans

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
)

func TestCalculateEMI(t *testing.T) {
	tests := []struct {
		name              string
		principal         float64
		annualRatePercent float64
		years             float64
		expectedRange     []float64 // [min, max] expected range
	}{
		{
			name:              "Standard 30-year mortgage",
			principal:         300000,
			annualRatePercent: 6.0,
			years:             30,
			expectedRange:     []float64{1798.64, 1798.66},
		},
		{
			name:              "5-year car loan",
			principal:         20000,
			annualRatePercent: 4.0,
			years:             5,
			expectedRange:     []float64{368, 369}, // Around $368.33
		},
		{
			name:              "High interest loan",
			principal:         10000,
			annualRatePercent: 18.0,
			years:             3,
			expectedRange:     []float64{361, 362}, // Around $361.52
		},
		{
			name:              "Fractional term",
			principal:         12000,
			annualRatePercent: 0.0,
			years:             2.5,
			expectedRange:     []float64{400, 400},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CalculateEMI(tt.principal, tt.annualRatePercent, tt.years)
			if err != nil {
				t.Fatalf("CalculateEMI() error = %v", err)
			}
			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("CalculateEMI() = %.4f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestCalculateEMIExceedsPrincipalWhenRatePositive(t *testing.T) {
	for _, principal := range []float64{1000, 250000, 1e7} {
		for _, rate := range []float64{0.01, 1, 6.5, 24, 99} {
			for _, years := range []float64{0.5, 1, 15, 30} {
				emi, err := CalculateEMI(principal, rate, years)
				if err != nil {
					t.Fatalf("CalculateEMI(%v, %v, %v) error = %v", principal, rate, years, err)
				}
				if math.IsNaN(emi) || math.IsInf(emi, 0) || emi <= 0 {
					t.Fatalf("CalculateEMI(%v, %v, %v) = %v, expected finite positive", principal, rate, years, emi)
				}
				if emi*years*12 <= principal {
					t.Errorf("CalculateEMI(%v, %v, %v) total %.2f does not exceed principal", principal, rate, years, emi*years*12)
				}
			}
		}
	}
}

func TestCalculateEMIZeroRate(t *testing.T) {
	tests := []struct {
		principal float64
		years     float64
	}{
		{120000, 10},
		{10000, 3},
		{99999.99, 7},
	}

	for _, tt := range tests {
		emi, err := CalculateEMI(tt.principal, 0, tt.years)
		if err != nil {
			t.Fatalf("CalculateEMI() error = %v", err)
		}
		if expected := tt.principal / (tt.years * 12); emi != expected {
			t.Errorf("CalculateEMI(%v, 0, %v) = %v, expected exactly %v", tt.principal, tt.years, emi, expected)
		}
	}
}

func TestExtremeTermsStayFinite(t *testing.T) {
	emi, err := CalculateEMI(constants.MaxLoanAmount, constants.MaxInterestRate, constants.MaxTermYears)
	if err != nil {
		t.Fatalf("CalculateEMI() error = %v", err)
	}
	if !mathutil.IsFinite(emi) || emi <= 0 {
		t.Errorf("EMI at the ceilings = %v, expected a positive finite value", emi)
	}

	schedule, err := CalculateAmortizationSchedule(constants.MaxLoanAmount, constants.MaxInterestRate, constants.MaxTermYears, nil)
	if err != nil {
		t.Fatalf("CalculateAmortizationSchedule() error = %v", err)
	}
	if !mathutil.IsFinite(schedule.TotalInterest) || !mathutil.IsFinite(schedule.TotalPayment) {
		t.Errorf("totals at the ceilings are not finite: interest=%v payment=%v", schedule.TotalInterest, schedule.TotalPayment)
	}

	if _, err := CalculateAmortizationSchedule(1e6, 1e306, 30, nil); err == nil {
		t.Error("expected an error for a rate far above the ceiling")
	}
}

func TestCalculateEMIRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		years     float64
		field     string
	}{
		{"Zero principal", 0, 5, 10, "principal"},
		{"Negative principal", -100, 5, 10, "principal"},
		{"NaN principal", math.NaN(), 5, 10, "principal"},
		{"Negative rate", 100000, -1, 10, "annual rate"},
		{"Infinite rate", 100000, math.Inf(1), 10, "annual rate"},
		{"Huge rate", 1e6, 1e306, 30, "annual rate"},
		{"Rate above ceiling", 100000, 1000.5, 10, "annual rate"},
		{"Principal above ceiling", 2e12, 5, 10, "principal"},
		{"Zero term", 100000, 5, 0, "term"},
		{"Negative term", 100000, 5, -5, "term"},
		{"Term too long", 100000, 5, 1000, "term"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateEMI(tt.principal, tt.rate, tt.years)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
			if invalid.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, invalid.Field)
			}
		})
	}
}

func TestCalculateInterestPayment(t *testing.T) {
	tests := []struct {
		name               string
		remainingPrincipal float64
		annualRatePercent  float64
		expected           float64
	}{
		{"Standard mortgage interest", 200000, 6.0, 1000.0},
		{"Car loan interest", 15000, 4.5, 56.25},
		{"Zero interest", 10000, 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateInterestPayment(tt.remainingPrincipal, tt.annualRatePercent)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("CalculateInterestPayment() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestCalculateAmortizationScheduleThirtyYearMortgage(t *testing.T) {
	schedule, err := CalculateAmortizationSchedule(300000, 6, 30, nil)
	if err != nil {
		t.Fatalf("CalculateAmortizationSchedule() error = %v", err)
	}

	if schedule.ActualTermMonths != 360 || schedule.NominalTermMonths != 360 {
		t.Fatalf("expected 360 months, got actual %d nominal %d", schedule.ActualTermMonths, schedule.NominalTermMonths)
	}
	if math.Abs(schedule.Rows[0].Payment-1798.65) > 0.01 {
		t.Errorf("first payment = %.4f, expected 1798.65", schedule.Rows[0].Payment)
	}
	if math.Abs(schedule.TotalInterest-347514.57) > 1.0 {
		t.Errorf("total interest = %.2f, expected about 347514", schedule.TotalInterest)
	}
	if math.Abs(schedule.TotalPrincipal-300000) > 0.01 {
		t.Errorf("total principal = %.2f, expected 300000", schedule.TotalPrincipal)
	}
	if last := schedule.Rows[len(schedule.Rows)-1]; last.RemainingPrincipal != 0 {
		t.Errorf("final remaining principal = %v, expected 0", last.RemainingPrincipal)
	}
	// Without prepayments the re-derived payment equals the fixed EMI.
	for _, row := range schedule.Rows {
		if math.Abs(row.Payment-schedule.Rows[0].Payment) > 0.01 {
			t.Fatalf("month %d payment %.4f drifted from %.4f", row.Month, row.Payment, schedule.Rows[0].Payment)
		}
	}
}

func TestCalculateAmortizationScheduleInvariants(t *testing.T) {
	tests := []struct {
		name        string
		principal   float64
		rate        float64
		years       float64
		prepayments []Prepayment
	}{
		{"No prepayments", 250000, 5.5, 30, nil},
		{"Zero rate", 48000, 0, 4, []Prepayment{{Month: 6, Amount: 5000}}},
		{"Several prepayments", 180000, 7.25, 20, []Prepayment{{Month: 3, Amount: 10000}, {Month: 60, Amount: 25000}, {Month: 61, Amount: 1000}}},
		{"Fractional term", 10000, 9, 1.3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := CalculateAmortizationSchedule(tt.principal, tt.rate, tt.years, tt.prepayments)
			if err != nil {
				t.Fatalf("CalculateAmortizationSchedule() error = %v", err)
			}

			previous := tt.principal
			for i, row := range schedule.Rows {
				if row.Month != i+1 {
					t.Fatalf("row %d has month %d", i, row.Month)
				}
				if row.RemainingPrincipal < 0 {
					t.Fatalf("month %d remaining principal %v is negative", row.Month, row.RemainingPrincipal)
				}
				if row.RemainingPrincipal > previous {
					t.Fatalf("month %d remaining principal rose from %v to %v", row.Month, previous, row.RemainingPrincipal)
				}
				previous = row.RemainingPrincipal
			}

			if schedule.ActualTermMonths != len(schedule.Rows) {
				t.Errorf("ActualTermMonths = %d, rows = %d", schedule.ActualTermMonths, len(schedule.Rows))
			}
			if previous != 0 {
				t.Errorf("loan not fully repaid, remaining %v", previous)
			}
			if math.Abs(schedule.TotalPrincipal-tt.principal) > 0.01 {
				t.Errorf("total principal %.2f, expected %.2f", schedule.TotalPrincipal, tt.principal)
			}
			if math.Abs(schedule.TotalPayment-(schedule.TotalInterest+schedule.TotalPrincipal)) > 0.01 {
				t.Errorf("total payment %.2f does not equal interest plus principal", schedule.TotalPayment)
			}
		})
	}
}

func TestCalculateAmortizationSchedulePrepaymentReducesBalance(t *testing.T) {
	base, err := CalculateAmortizationSchedule(100000, 5, 10, nil)
	if err != nil {
		t.Fatalf("CalculateAmortizationSchedule() error = %v", err)
	}
	prepaid, err := CalculateAmortizationSchedule(100000, 5, 10, []Prepayment{{Month: 12, Amount: 20000}})
	if err != nil {
		t.Fatalf("CalculateAmortizationSchedule() error = %v", err)
	}

	baseRow := base.Rows[11]
	prepaidRow := prepaid.Rows[11]
	if prepaidRow.RemainingPrincipal >= baseRow.RemainingPrincipal {
		t.Fatalf("prepayment did not reduce the balance: %.2f >= %.2f", prepaidRow.RemainingPrincipal, baseRow.RemainingPrincipal)
	}
	diff := baseRow.RemainingPrincipal - prepaidRow.RemainingPrincipal
	if math.Abs(diff-20000) > 1.0 {
		t.Errorf("balance difference at month 12 = %.2f, expected about 20000", diff)
	}
	if prepaidRow.Prepayment != 20000 {
		t.Errorf("recorded prepayment = %.2f, expected 20000", prepaidRow.Prepayment)
	}
	// The payment is re-derived from the lower balance from month 13 on.
	if prepaid.Rows[12].Payment >= base.Rows[12].Payment {
		t.Errorf("payment after prepayment %.2f should be below %.2f", prepaid.Rows[12].Payment, base.Rows[12].Payment)
	}
	if prepaid.TotalInterest >= base.TotalInterest {
		t.Errorf("prepayment should reduce total interest: %.2f >= %.2f", prepaid.TotalInterest, base.TotalInterest)
	}
}

func TestCalculateAmortizationScheduleEarlyPayoff(t *testing.T) {
	schedule, err := CalculateAmortizationSchedule(50000, 4, 15, []Prepayment{{Month: 24, Amount: 1000000}})
	if err != nil {
		t.Fatalf("CalculateAmortizationSchedule() error = %v", err)
	}

	if schedule.ActualTermMonths != 24 {
		t.Fatalf("expected payoff in month 24, got %d months", schedule.ActualTermMonths)
	}
	if schedule.ActualTermMonths >= schedule.NominalTermMonths {
		t.Errorf("actual term %d should be below nominal %d", schedule.ActualTermMonths, schedule.NominalTermMonths)
	}
	last := schedule.Rows[len(schedule.Rows)-1]
	if last.RemainingPrincipal != 0 {
		t.Errorf("remaining principal after payoff = %v", last.RemainingPrincipal)
	}
	// The prepayment is capped at the outstanding balance.
	if last.Prepayment >= 1000000 {
		t.Errorf("prepayment %.2f was not capped to the balance", last.Prepayment)
	}
	if math.Abs(schedule.TotalPrincipal-50000) > 0.01 {
		t.Errorf("total principal %.2f, expected 50000", schedule.TotalPrincipal)
	}
}

func TestCalculateAmortizationSchedulePrepaymentMatching(t *testing.T) {
	sorted, err := CalculateAmortizationSchedule(100000, 6, 10, []Prepayment{{Month: 5, Amount: 3000}, {Month: 9, Amount: 2000}})
	if err != nil {
		t.Fatalf("CalculateAmortizationSchedule() error = %v", err)
	}

	t.Run("Unsorted input matches the same months", func(t *testing.T) {
		unsorted, err := CalculateAmortizationSchedule(100000, 6, 10, []Prepayment{{Month: 9, Amount: 2000}, {Month: 5, Amount: 3000}})
		if err != nil {
			t.Fatalf("CalculateAmortizationSchedule() error = %v", err)
		}
		if !reflect.DeepEqual(sorted, unsorted) {
			t.Error("prepayment order changed the schedule")
		}
	})

	t.Run("Same month prepayments are summed", func(t *testing.T) {
		split, err := CalculateAmortizationSchedule(100000, 6, 10, []Prepayment{{Month: 5, Amount: 1000}, {Month: 9, Amount: 2000}, {Month: 5, Amount: 2000}})
		if err != nil {
			t.Fatalf("CalculateAmortizationSchedule() error = %v", err)
		}
		if split.Rows[4].Prepayment != 3000 {
			t.Errorf("month 5 prepayment = %.2f, expected 3000", split.Rows[4].Prepayment)
		}
		if math.Abs(split.Rows[4].RemainingPrincipal-sorted.Rows[4].RemainingPrincipal) > 1e-6 {
			t.Errorf("split prepayment balance %.4f differs from single %.4f", split.Rows[4].RemainingPrincipal, sorted.Rows[4].RemainingPrincipal)
		}
	})

	t.Run("Missing entries are ignored", func(t *testing.T) {
		withBlanks, err := CalculateAmortizationSchedule(100000, 6, 10, []Prepayment{{Month: 0, Amount: 5000}, {Month: 5, Amount: 3000}, {Month: 7, Amount: 0}, {Month: 9, Amount: 2000}, {Month: 8, Amount: -10}})
		if err != nil {
			t.Fatalf("CalculateAmortizationSchedule() error = %v", err)
		}
		if !reflect.DeepEqual(sorted, withBlanks) {
			t.Error("missing prepayment entries changed the schedule")
		}
	})

	t.Run("Months beyond the term are ignored", func(t *testing.T) {
		beyond, err := CalculateAmortizationSchedule(100000, 6, 10, []Prepayment{{Month: 5, Amount: 3000}, {Month: 9, Amount: 2000}, {Month: 500, Amount: 2000}})
		if err != nil {
			t.Fatalf("CalculateAmortizationSchedule() error = %v", err)
		}
		if !reflect.DeepEqual(sorted, beyond) {
			t.Error("out of range prepayment changed the schedule")
		}
	})
}

func TestCalculateAmortizationScheduleDoesNotMutateInput(t *testing.T) {
	prepayments := []Prepayment{{Month: 9, Amount: 2000}, {Month: 0, Amount: 1}, {Month: 5, Amount: 3000}}
	original := append([]Prepayment(nil), prepayments...)

	if _, err := CalculateAmortizationSchedule(100000, 6, 10, prepayments); err != nil {
		t.Fatalf("CalculateAmortizationSchedule() error = %v", err)
	}
	if !reflect.DeepEqual(prepayments, original) {
		t.Errorf("prepayments mutated: %v, expected %v", prepayments, original)
	}
}

func TestNormalizePrepayments(t *testing.T) {
	input := []Prepayment{{Month: 12, Amount: 100}, {Month: 0, Amount: 50}, {Month: 3, Amount: 200}, {Month: 12, Amount: 300}, {Month: 4}}
	expected := []Prepayment{{Month: 3, Amount: 200}, {Month: 12, Amount: 100}, {Month: 12, Amount: 300}}

	if got := NormalizePrepayments(input); !reflect.DeepEqual(got, expected) {
		t.Errorf("NormalizePrepayments() = %v, expected %v", got, expected)
	}
}

func TestNominalTermMonths(t *testing.T) {
	tests := []struct {
		years    float64
		expected int
	}{
		{30, 360},
		{2.5, 30},
		{1.3, 16},
		{1.0 / 12.0, 1},
		{0.001, 1},
	}

	for _, tt := range tests {
		if got := NominalTermMonths(tt.years); got != tt.expected {
			t.Errorf("NominalTermMonths(%v) = %d, expected %d", tt.years, got, tt.expected)
		}
	}
}

func TestCalculateLoanSummary(t *testing.T) {
	loans := []LoanInput{
		{ID: "1", Name: "Home", Principal: 300000, AnnualRatePercent: 6, TermYears: 30},
		{ID: "2", Name: "Car", Principal: 20000, AnnualRatePercent: 4, TermYears: 5, Prepayments: []Prepayment{{Month: 6, Amount: 2000}}},
	}

	results, err := CalculateLoanSummary(loans, 12)
	if err != nil {
		t.Fatalf("CalculateLoanSummary() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	home := results[0]
	if home.LoanID != "1" || home.Name != "Home" {
		t.Errorf("unexpected identity %q/%q", home.LoanID, home.Name)
	}
	if math.Abs(home.MonthlyEMI-1798.65) > 0.01 {
		t.Errorf("MonthlyEMI = %.4f, expected 1798.65", home.MonthlyEMI)
	}
	if math.Abs(home.TotalAmount-(home.Principal+home.TotalInterest)) > 1e-9 {
		t.Errorf("TotalAmount %.2f is not principal plus interest", home.TotalAmount)
	}

	var interest, principal float64
	for _, row := range home.Schedule.Rows[:12] {
		interest += row.Interest
		principal += row.Principal + row.Prepayment
	}
	if math.Abs(home.PeriodInterestPaid-interest) > 1e-9 || math.Abs(home.PeriodPrincipalPaid-principal) > 1e-9 {
		t.Errorf("period totals %.2f/%.2f, expected %.2f/%.2f", home.PeriodInterestPaid, home.PeriodPrincipalPaid, interest, principal)
	}
	// 12 payments of 1798.65 split between interest and principal.
	if math.Abs(home.PeriodInterestPaid+home.PeriodPrincipalPaid-12*home.MonthlyEMI) > 0.01 {
		t.Errorf("period payments %.2f, expected %.2f", home.PeriodInterestPaid+home.PeriodPrincipalPaid, 12*home.MonthlyEMI)
	}

	car := results[1]
	if car.PeriodPrincipalPaid <= 2000 {
		t.Errorf("car period principal %.2f should include the 2000 prepayment", car.PeriodPrincipalPaid)
	}
}

func TestCalculateLoanSummaryPeriodLongerThanSchedule(t *testing.T) {
	results, err := CalculateLoanSummary([]LoanInput{{Principal: 12000, AnnualRatePercent: 0, TermYears: 1}}, 120)
	if err != nil {
		t.Fatalf("CalculateLoanSummary() error = %v", err)
	}
	if math.Abs(results[0].PeriodPrincipalPaid-12000) > 1e-9 {
		t.Errorf("PeriodPrincipalPaid = %.2f, expected the full principal", results[0].PeriodPrincipalPaid)
	}
	if results[0].PeriodInterestPaid != 0 {
		t.Errorf("PeriodInterestPaid = %.2f, expected 0", results[0].PeriodInterestPaid)
	}
}

func TestCalculateLoanSummaryErrors(t *testing.T) {
	valid := LoanInput{Name: "ok", Principal: 1000, AnnualRatePercent: 5, TermYears: 1}

	_, err := CalculateLoanSummary([]LoanInput{valid}, 0)
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) || invalid.Field != "periodMonths" {
		t.Errorf("expected periodMonths InvalidInputError, got %v", err)
	}

	_, err = CalculateLoanSummary([]LoanInput{valid, {Name: "broken", Principal: 1000, AnnualRatePercent: 5}}, 12)
	if !errors.As(err, &invalid) || invalid.Field != "term" {
		t.Fatalf("expected term InvalidInputError, got %v", err)
	}
	if got := err.Error(); got[:len("loan broken")] != "loan broken" {
		t.Errorf("error %q does not name the loan", got)
	}
}

func TestAggregateResults(t *testing.T) {
	results, err := CalculateLoanSummary([]LoanInput{
		{Principal: 300000, AnnualRatePercent: 6, TermYears: 30},
		{Principal: 20000, AnnualRatePercent: 4, TermYears: 5},
		{Principal: 5000, AnnualRatePercent: 0, TermYears: 2},
	}, 12)
	if err != nil {
		t.Fatalf("CalculateLoanSummary() error = %v", err)
	}

	t.Run("Single loan equals its own result", func(t *testing.T) {
		totals := AggregateResults(results[:1])
		r := results[0]
		expected := Totals{
			Principal:           r.Principal,
			MonthlyEMI:          r.MonthlyEMI,
			TotalInterest:       r.TotalInterest,
			TotalAmount:         r.TotalAmount,
			PeriodInterestPaid:  r.PeriodInterestPaid,
			PeriodPrincipalPaid: r.PeriodPrincipalPaid,
		}
		if totals != expected {
			t.Errorf("AggregateResults() = %+v, expected %+v", totals, expected)
		}
	})

	t.Run("Order independent", func(t *testing.T) {
		forward := AggregateResults(results)
		reversed := AggregateResults([]LoanResult{results[2], results[1], results[0]})
		if math.Abs(forward.TotalInterest-reversed.TotalInterest) > 1e-6 ||
			math.Abs(forward.MonthlyEMI-reversed.MonthlyEMI) > 1e-9 ||
			math.Abs(forward.TotalAmount-reversed.TotalAmount) > 1e-6 {
			t.Errorf("aggregation depends on order: %+v vs %+v", forward, reversed)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if totals := AggregateResults(nil); totals != (Totals{}) {
			t.Errorf("AggregateResults(nil) = %+v", totals)
		}
	})
}

func TestClampPeriod(t *testing.T) {
	tests := []struct {
		period   int
		total    int
		expected int
	}{
		{12, 360, 12},
		{0, 360, 1},
		{-5, 360, 1},
		{400, 360, 360},
		{5, 0, 1},
	}

	for _, tt := range tests {
		if got := ClampPeriod(tt.period, tt.total); got != tt.expected {
			t.Errorf("ClampPeriod(%d, %d) = %d, expected %d", tt.period, tt.total, got, tt.expected)
		}
	}
}

func TestPaymentProgress(t *testing.T) {
	tests := []struct {
		name     string
		result   LoanResult
		expected float64
	}{
		{"Quarter repaid", LoanResult{Principal: 100000, PeriodPrincipalPaid: 25000}, 25},
		{"Nothing repaid", LoanResult{Principal: 100000}, 0},
		{"Fully repaid", LoanResult{Principal: 1000, PeriodPrincipalPaid: 1000}, 100},
		{"Zero principal", LoanResult{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.PaymentProgress(); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("PaymentProgress() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestLoanInputLabel(t *testing.T) {
	if got := (LoanInput{ID: "7", Name: "Home"}).Label(); got != "Home" {
		t.Errorf("Label() = %q, expected name", got)
	}
	if got := (LoanInput{ID: "7"}).Label(); got != "7" {
		t.Errorf("Label() = %q, expected ID", got)
	}
	if got := (LoanInput{}).Label(); got != "loan" {
		t.Errorf("Label() = %q, expected fallback", got)
	}
}
