package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/finance"
	"github.com/iwvelando/mortgage-calculator/pkg/format"
	"github.com/iwvelando/mortgage-calculator/pkg/loans"
	"github.com/iwvelando/mortgage-calculator/pkg/validation"
)

// LoanInputs passes every configured loan through the validation layer and
// returns the engine inputs in config order. Loans without an ID get a
// positional one. The first invalid loan stops the conversion.
func (c *Configuration) LoanInputs() ([]loans.LoanInput, error) {
	inputs := make([]loans.LoanInput, 0, len(c.Loans))
	for i, loan := range c.Loans {
		input, err := validation.ParseLoanForm(loan.Form())
		if err != nil {
			return nil, fmt.Errorf("loan %s: %w", c.LoanLabel(i), err)
		}
		if input.ID == "" {
			input.ID = DefaultLoanID(i)
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

// InvestmentInput converts the investment section, or returns nil when the
// config has none.
func (c *Configuration) InvestmentInput() (*finance.InvestmentInput, error) {
	if c.Investment == nil {
		return nil, nil
	}
	input, err := validation.ParseInvestmentForm(*c.Investment)
	if err != nil {
		return nil, fmt.Errorf("investment: %w", err)
	}
	return &input, nil
}

// CurrencyInfo resolves the configured currency, falling back to the default
// for an empty or unknown value.
func (c *Configuration) CurrencyInfo() format.CurrencyInfo {
	if cur, ok := format.LookupCurrency(strings.TrimSpace(c.Currency)); ok {
		return cur
	}
	return format.DefaultCurrency()
}
