package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/format"
	"github.com/iwvelando/mortgage-calculator/pkg/loans"
	"github.com/iwvelando/mortgage-calculator/pkg/validation"
)

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Nothing reported here stops a calculation; hard errors
// come from LoanInputs.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if strings.TrimSpace(c.Currency) != "" {
		if _, ok := format.LookupCurrency(c.Currency); !ok {
			warnings = append(warnings, fmt.Sprintf("unknown currency %q, using %s",
				c.Currency, format.DefaultCurrency().Code))
		}
	}

	if len(c.Loans) == 0 {
		warnings = append(warnings, "no loans configured")
	}

	longest := 0
	seenIDs := make(map[string]bool)
	for i, loan := range c.Loans {
		label := c.LoanLabel(i)

		if id := strings.TrimSpace(loan.ID); id != "" {
			if seenIDs[id] {
				warnings = append(warnings, fmt.Sprintf("loan ID %q is used more than once; exports select the first match", id))
			}
			seenIDs[id] = true
		}

		nominal := 0
		if years, err := validation.ParseNumber("termYears", loan.TermYears); err == nil && years > 0 {
			nominal = loans.NominalTermMonths(years)
			if nominal > longest {
				longest = nominal
			}
		}

		months := make(map[int]int)
		for _, row := range loan.Prepayments {
			if row.IsBlank() {
				continue
			}
			month, err := validation.ParseNumber("month", row.Month)
			if err != nil {
				continue
			}
			m := int(month)
			months[m]++
			if months[m] == 2 {
				warnings = append(warnings, fmt.Sprintf("loan %s has several prepayments in month %d; they will be summed", label, m))
			}
			if nominal > 0 && m > nominal {
				warnings = append(warnings, fmt.Sprintf("loan %s prepayment in month %d is beyond its %d month term and will be ignored", label, m, nominal))
			}
			if m < 1 {
				warnings = append(warnings, fmt.Sprintf("loan %s prepayment month %d is before the first payment and will be ignored", label, m))
			}
		}
	}

	if c.PeriodMonths < 0 {
		warnings = append(warnings, fmt.Sprintf("period of %d months is below 1 and will be raised to 1", c.PeriodMonths))
	} else if longest > 0 && c.PeriodMonths > longest {
		warnings = append(warnings, fmt.Sprintf("period of %d months exceeds the longest term of %d months and will be clamped", c.PeriodMonths, longest))
	}

	return warnings
}
