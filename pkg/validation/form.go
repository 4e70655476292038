package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/finance"
	"github.com/iwvelando/mortgage-calculator/pkg/loans"
	"github.com/spf13/cast"
)

// MissingFieldsMessage is reported whenever a required loan field is blank.
const MissingFieldsMessage = "please fill in all required fields for each loan"

// ValidationError reports form fields that are blank or not numeric.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(e.Fields, ", "))
}

// LoanForm is a loan as entered by a user, every field still text.
type LoanForm struct {
	ID           string           `json:"id" yaml:"id" mapstructure:"id"`
	Name         string           `json:"name" yaml:"name" mapstructure:"name"`
	Principal    string           `json:"principal" yaml:"principal" mapstructure:"principal"`
	InterestRate string           `json:"interestRate" yaml:"interestRate" mapstructure:"interestRate"`
	TermYears    string           `json:"termYears" yaml:"termYears" mapstructure:"termYears"`
	Prepayments  []PrepaymentForm `json:"prepayments" yaml:"prepayments" mapstructure:"prepayments"`
}

// PrepaymentForm is a prepayment row as entered by a user.
type PrepaymentForm struct {
	Month  string `json:"month" yaml:"month" mapstructure:"month"`
	Amount string `json:"amount" yaml:"amount" mapstructure:"amount"`
}

// InvestmentForm is a growth projection request as entered by a user.
type InvestmentForm struct {
	CurrentValue string `json:"currentValue" yaml:"currentValue" mapstructure:"currentValue"`
	AnnualRate   string `json:"annualRate" yaml:"annualRate" mapstructure:"annualRate"`
	Years        string `json:"years" yaml:"years" mapstructure:"years"`
}

// IsBlank reports whether a prepayment row was left empty. Blank rows are
// dropped rather than rejected.
func (p PrepaymentForm) IsBlank() bool {
	return strings.TrimSpace(p.Month) == "" || strings.TrimSpace(p.Amount) == ""
}

// ParseLoanForm checks that every required field is filled in and converts
// the form to engine input. Range checks are left to the engine.
func ParseLoanForm(form LoanForm) (loans.LoanInput, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"principal", form.Principal},
		{"interestRate", form.InterestRate},
		{"termYears", form.TermYears},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return loans.LoanInput{}, &ValidationError{Message: MissingFieldsMessage, Fields: missing}
	}

	input := loans.LoanInput{
		ID:   strings.TrimSpace(form.ID),
		Name: strings.TrimSpace(form.Name),
	}

	var err error
	if input.Principal, err = ParseNumber("principal", form.Principal); err != nil {
		return loans.LoanInput{}, err
	}
	if input.AnnualRatePercent, err = ParseNumber("interestRate", form.InterestRate); err != nil {
		return loans.LoanInput{}, err
	}
	if input.TermYears, err = ParseNumber("termYears", form.TermYears); err != nil {
		return loans.LoanInput{}, err
	}

	for i, row := range form.Prepayments {
		if row.IsBlank() {
			continue
		}
		prepayment, err := parsePrepayment(i, row)
		if err != nil {
			return loans.LoanInput{}, err
		}
		input.Prepayments = append(input.Prepayments, prepayment)
	}

	return input, nil
}

func parsePrepayment(index int, row PrepaymentForm) (loans.Prepayment, error) {
	monthField := fmt.Sprintf("prepayments[%d].month", index)
	month, err := ParseNumber(monthField, row.Month)
	if err != nil {
		return loans.Prepayment{}, err
	}
	if month != math.Trunc(month) || math.Abs(month) > math.MaxInt32 {
		return loans.Prepayment{}, &ValidationError{
			Message: fmt.Sprintf("prepayment month %q must be a whole number", strings.TrimSpace(row.Month)),
			Fields:  []string{monthField},
		}
	}

	amount, err := ParseNumber(fmt.Sprintf("prepayments[%d].amount", index), row.Amount)
	if err != nil {
		return loans.Prepayment{}, err
	}

	return loans.Prepayment{Month: int(month), Amount: amount}, nil
}

// ParseInvestmentForm converts a growth projection form. A blank field is a
// validation error.
func ParseInvestmentForm(form InvestmentForm) (finance.InvestmentInput, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"currentValue", form.CurrentValue},
		{"annualRate", form.AnnualRate},
		{"years", form.Years},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return finance.InvestmentInput{}, &ValidationError{Message: "please fill in all investment fields", Fields: missing}
	}

	var input finance.InvestmentInput
	var err error
	if input.CurrentValue, err = ParseNumber("currentValue", form.CurrentValue); err != nil {
		return finance.InvestmentInput{}, err
	}
	if input.AnnualRatePercent, err = ParseNumber("annualRate", form.AnnualRate); err != nil {
		return finance.InvestmentInput{}, err
	}
	if input.Years, err = ParseNumber("years", form.Years); err != nil {
		return finance.InvestmentInput{}, err
	}
	return input, nil
}

// ParseNumber coerces a text field to a float. Surrounding whitespace and
// thousands separators are ignored.
func ParseNumber(field, value string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	n, err := cast.ToFloat64E(cleaned)
	if err != nil || cleaned == "" {
		return 0, &ValidationError{
			Message: fmt.Sprintf("%s must be a number, got %q", field, strings.TrimSpace(value)),
			Fields:  []string{field},
		}
	}
	return n, nil
}
