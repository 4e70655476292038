// Package datetime provides month arithmetic on YYYY-MM date strings.
package datetime

import (
	"time"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in config files and is also the
	// output date format.
	DateTimeLayout = constants.DateTimeLayout
)

// MonthSequence returns n consecutive months starting at start, inclusive.
func MonthSequence(start, layout string, n int) ([]string, error) {
	t, err := time.Parse(layout, start)
	if err != nil {
		return nil, err
	}
	months := make([]string, n)
	for i := range months {
		months[i] = t.AddDate(0, i, 0).Format(layout)
	}
	return months, nil
}
