package loans

import (
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
)

// Prepayment is a one-time extra principal payment applied in a given
// 1-indexed schedule month.
type Prepayment struct {
	Month  int     `json:"month"`
	Amount float64 `json:"amount"`
}

// LoanInput holds the validated numeric parameters of a single loan.
type LoanInput struct {
	ID                string       `json:"id,omitempty"`
	Name              string       `json:"name,omitempty"`
	Principal         float64      `json:"principal"`
	AnnualRatePercent float64      `json:"annualRatePercent"`
	TermYears         float64      `json:"termYears"`
	Prepayments       []Prepayment `json:"prepayments,omitempty"`
}

// Label returns the display name of the loan, falling back to its ID.
func (l LoanInput) Label() string {
	if l.Name != "" {
		return l.Name
	}
	if l.ID != "" {
		return l.ID
	}
	return "loan"
}

// ScheduleRow holds the values for a given month of the schedule.
type ScheduleRow struct {
	Month              int     `json:"month"`
	Date               string  `json:"date,omitempty"`
	Payment            float64 `json:"payment"`
	Interest           float64 `json:"interest"`
	Principal          float64 `json:"principal"`
	Prepayment         float64 `json:"prepayment"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
	TotalInterest      float64 `json:"totalInterest"`
	TotalPrincipal     float64 `json:"totalPrincipal"`
}

// Schedule is a complete amortization schedule and its lifetime totals.
type Schedule struct {
	Rows              []ScheduleRow `json:"rows"`
	TotalInterest     float64       `json:"totalInterest"`
	TotalPrincipal    float64       `json:"totalPrincipal"`
	TotalPayment      float64       `json:"totalPayment"`
	ActualTermMonths  int           `json:"actualTermMonths"`
	NominalTermMonths int           `json:"nominalTermMonths"`
}

// LoanResult summarizes a loan over its full schedule and over a
// caller-supplied period.
type LoanResult struct {
	LoanID              string   `json:"loanId,omitempty"`
	Name                string   `json:"name,omitempty"`
	Principal           float64  `json:"principal"`
	MonthlyEMI          float64  `json:"monthlyEMI"`
	TotalInterest       float64  `json:"totalInterest"`
	TotalAmount         float64  `json:"totalAmount"`
	PeriodMonths        int      `json:"periodMonths"`
	PeriodInterestPaid  float64  `json:"periodInterestPaid"`
	PeriodPrincipalPaid float64  `json:"periodPrincipalPaid"`
	ActualTermMonths    int      `json:"actualTermMonths"`
	NominalTermMonths   int      `json:"nominalTermMonths"`
	Schedule            Schedule `json:"schedule"`
}

// PaymentProgress is the share of the principal repaid within the period,
// in percent.
func (r LoanResult) PaymentProgress() float64 {
	return mathutil.Min(mathutil.CalculatePercentage(r.PeriodPrincipalPaid, r.Principal), 100)
}

// Totals is the field-wise sum of several loan results.
type Totals struct {
	Principal           float64 `json:"principal"`
	MonthlyEMI          float64 `json:"monthlyEMI"`
	TotalInterest       float64 `json:"totalInterest"`
	TotalAmount         float64 `json:"totalAmount"`
	PeriodInterestPaid  float64 `json:"periodInterestPaid"`
	PeriodPrincipalPaid float64 `json:"periodPrincipalPaid"`
}
