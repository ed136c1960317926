// Package mortgage estimates home affordability under the 28/36 rule and
// compares renting with buying.
package mortgage

import (
	"errors"
	"fmt"

	"github.com/iwvelando/calcdash/pkg/constants"
	"github.com/iwvelando/calcdash/pkg/loans"
	"github.com/iwvelando/calcdash/pkg/mathutil"
	"go.uber.org/zap"
)

const (
	// housingRatio caps the mortgage payment as a share of income.
	housingRatio = 0.28
	// debtRatio caps all debt payments as a share of income.
	debtRatio = 0.36
)

// AffordabilityInput holds the borrower's finances and the loan terms.
type AffordabilityInput struct {
	MonthlyIncome float64 `json:"monthly_income"`
	OtherDebts    float64 `json:"other_debts"`
	DownPayment   float64 `json:"down_payment"`
	AnnualRate    float64 `json:"annual_rate"`
	Years         int     `json:"years"`
}

// Validate checks the affordability inputs.
func (in AffordabilityInput) Validate() error {
	if in.MonthlyIncome < 0 || in.OtherDebts < 0 || in.DownPayment < 0 {
		return errors.New("income, debts and down payment must not be negative")
	}
	if in.AnnualRate < 0 || in.AnnualRate > constants.PercentageMultiplier {
		return fmt.Errorf("annual rate must be between 0 and 100 percent, got %v", in.AnnualRate)
	}
	if in.Years < 1 {
		return fmt.Errorf("loan term must be at least one year, got %d", in.Years)
	}
	return nil
}

// Affordability is the largest home the borrower can finance.
type Affordability struct {
	MaxHomePrice   float64             `json:"max_home_price"`
	MaxLoan        float64             `json:"max_loan"`
	MaxPayment     float64             `json:"max_payment"`
	MonthlyPayment float64             `json:"monthly_payment"`
	TotalPayment   float64             `json:"total_payment"`
	TotalInterest  float64             `json:"total_interest"`
	Schedule       []loans.YearSummary `json:"schedule"`
}

// Calculator computes mortgage figures.
type Calculator struct {
	logger *zap.Logger
	loans  *loans.AmortizationScheduleGenerator
}

// NewCalculator creates a mortgage calculator.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger, loans: loans.NewAmortizationScheduleGenerator(logger)}
}

// MaxPayment returns min(28% of income, 36% of income minus other debts),
// never negative.
func MaxPayment(monthlyIncome, otherDebts float64) float64 {
	payment := mathutil.Min(monthlyIncome*housingRatio, monthlyIncome*debtRatio-otherDebts)
	return mathutil.Max(payment, 0)
}

// Affordability applies the 28/36 rule and amortizes the largest loan it
// allows by year.
func (c *Calculator) Affordability(in AffordabilityInput) (Affordability, error) {
	if err := in.Validate(); err != nil {
		return Affordability{}, err
	}

	months := in.Years * constants.MonthsPerYear
	maxPayment := MaxPayment(in.MonthlyIncome, in.OtherDebts)
	maxLoan := loans.PresentValue(maxPayment, in.AnnualRate, months)
	result := Affordability{
		MaxHomePrice: maxLoan + in.DownPayment,
		MaxLoan:      maxLoan,
		MaxPayment:   maxPayment,
		Schedule:     []loans.YearSummary{},
	}
	if maxLoan <= 0 {
		c.logger.Debug("no loan affordable",
			zap.String("op", "mortgage.Affordability"),
			zap.Float64("income", in.MonthlyIncome),
			zap.Float64("debts", in.OtherDebts),
		)
		return result, nil
	}

	summary, err := c.loans.Summarize(loans.LoanConfig{
		Name:         "mortgage",
		Principal:    maxLoan,
		InterestRate: in.AnnualRate,
		Term:         months,
	})
	if err != nil {
		return Affordability{}, err
	}
	result.MonthlyPayment = summary.MonthlyPayment
	result.TotalPayment = summary.TotalPayment
	result.TotalInterest = summary.TotalInterest
	result.Schedule = loans.YearlySchedule(summary.Schedule)
	return result, nil
}
