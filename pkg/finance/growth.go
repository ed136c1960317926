// Package finance projects the growth of an investment with monthly
// compounding and fixed monthly contributions.
package finance

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/calcdash/pkg/constants"
	"github.com/iwvelando/calcdash/pkg/mathutil"
	"go.uber.org/zap"
)

// InvestmentPlan describes a lump sum plus monthly contributions.
type InvestmentPlan struct {
	InitialInvestment   float64 `json:"initial_investment"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	AnnualReturn        float64 `json:"annual_return"`
	Years               int     `json:"years"`
}

// Validate checks the plan inputs.
func (p InvestmentPlan) Validate() error {
	if p.InitialInvestment < 0 || p.MonthlyContribution < 0 {
		return errors.New("investment amounts must not be negative")
	}
	if p.AnnualReturn < 0 || p.AnnualReturn > constants.PercentageMultiplier {
		return fmt.Errorf("annual return must be between 0 and 100 percent, got %v", p.AnnualReturn)
	}
	if p.Years < 1 {
		return fmt.Errorf("investment period must be at least one year, got %d", p.Years)
	}
	return nil
}

// YearValue is the projected value at the end of a year.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Projection is the outcome of an investment plan.
type Projection struct {
	FutureValue   float64     `json:"future_value"`
	TotalInvested float64     `json:"total_invested"`
	TotalReturns  float64     `json:"total_returns"`
	Growth        []YearValue `json:"growth"`
}

// FutureValue returns P(1+r)^n + C((1+r)^n-1)/r for a monthly rate r over
// n months. A zero rate yields P + C*n.
func FutureValue(initial, monthly, annualReturn float64, months int) float64 {
	r := mathutil.MonthlyRate(annualReturn)
	if r == 0 {
		return initial + monthly*float64(months)
	}
	growth := math.Pow(1+r, float64(months))
	return initial*growth + monthly*(growth-1)/r
}

// InvestmentProcessor handles investment projections.
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

// Project computes the future value, totals and the value at the end of
// every year from 0 through the plan's period.
func (ip *InvestmentProcessor) Project(plan InvestmentPlan) (Projection, error) {
	if err := plan.Validate(); err != nil {
		return Projection{}, err
	}

	months := plan.Years * constants.MonthsPerYear
	fv := FutureValue(plan.InitialInvestment, plan.MonthlyContribution, plan.AnnualReturn, months)
	invested := plan.InitialInvestment + plan.MonthlyContribution*float64(months)

	growth := make([]YearValue, 0, plan.Years+1)
	for year := 0; year <= plan.Years; year++ {
		growth = append(growth, YearValue{
			Year:  year,
			Value: FutureValue(plan.InitialInvestment, plan.MonthlyContribution, plan.AnnualReturn, year*constants.MonthsPerYear),
		})
	}

	ip.logger.Debug("projected investment growth",
		zap.String("op", "finance.Project"),
		zap.Float64("future_value", fv),
		zap.Int("months", months),
	)
	return Projection{
		FutureValue:   fv,
		TotalInvested: invested,
		TotalReturns:  fv - invested,
		Growth:        growth,
	}, nil
}
