// Package finance provides compound-growth projections for property and
// investment values.
package finance

import (
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
	"go.uber.org/zap"
)

func percentToDecimal(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// InvestmentInput holds the parameters of a growth projection.
type InvestmentInput struct {
	CurrentValue      float64 `json:"currentValue"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	Years             float64 `json:"years"`
}

// YearValue is the projected value at the end of a given year.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// InvestmentProjection is the result of a growth projection.
type InvestmentProjection struct {
	CurrentValue      float64     `json:"currentValue"`
	AnnualRatePercent float64     `json:"annualRatePercent"`
	Years             float64     `json:"years"`
	ProjectedValue    float64     `json:"projectedValue"`
	Growth            float64     `json:"growth"`
	Yearly            []YearValue `json:"yearly"`
}

// CalculateInvestmentGrowth compounds currentValue annually:
// currentValue * (1 + rate/100)^years. A negative rate models depreciation.
func CalculateInvestmentGrowth(currentValue, annualRatePercent, years float64) (float64, error) {
	if !mathutil.IsFinite(currentValue) || currentValue < 0 {
		return 0, fmt.Errorf("invalid current value %v: must be a finite number not less than 0", currentValue)
	}
	if !mathutil.IsFinite(annualRatePercent) || annualRatePercent <= -constants.PercentageMultiplier {
		return 0, fmt.Errorf("invalid annual rate %v: must be a finite number above -100", annualRatePercent)
	}
	if !mathutil.IsFinite(years) || years < 0 || years > constants.MaxTermYears {
		return 0, fmt.Errorf("invalid years %v: must be a finite number from 0 to %d", years, constants.MaxTermYears)
	}
	value := currentValue * math.Pow(1+percentToDecimal(annualRatePercent), years)
	if !mathutil.IsFinite(value) {
		return 0, fmt.Errorf("projection of %v at %v%% for %v years cannot be represented", currentValue, annualRatePercent, years)
	}
	return value, nil
}

// InvestmentProcessor computes projections and logs them.
type InvestmentProcessor struct {
	logger *zap.Logger
}

// NewInvestmentProcessor creates a processor for investment calculations.
func NewInvestmentProcessor(logger *zap.Logger) *InvestmentProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvestmentProcessor{logger: logger}
}

// Project computes the projected value and one value per whole year. A
// fractional final year adds a last entry at the full horizon.
func (ip *InvestmentProcessor) Project(input InvestmentInput) (InvestmentProjection, error) {
	projected, err := CalculateInvestmentGrowth(input.CurrentValue, input.AnnualRatePercent, input.Years)
	if err != nil {
		return InvestmentProjection{}, err
	}

	projection := InvestmentProjection{
		CurrentValue:      input.CurrentValue,
		AnnualRatePercent: input.AnnualRatePercent,
		Years:             input.Years,
		ProjectedValue:    projected,
		Growth:            projected - input.CurrentValue,
	}

	wholeYears := int(math.Floor(input.Years))
	for year := 1; year <= wholeYears; year++ {
		value, _ := CalculateInvestmentGrowth(input.CurrentValue, input.AnnualRatePercent, float64(year))
		projection.Yearly = append(projection.Yearly, YearValue{Year: year, Value: value})
	}
	if input.Years > float64(wholeYears) {
		projection.Yearly = append(projection.Yearly, YearValue{Year: wholeYears + 1, Value: projected})
	}

	ip.logger.Debug(fmt.Sprintf("projected %.2f growing at %.2f%% for %v years to %.2f",
		input.CurrentValue, input.AnnualRatePercent, input.Years, projected),
		zap.String("op", "finance.Project"),
	)

	return projection, nil
}
