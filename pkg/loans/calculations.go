// Package loans provides loan payment and amortization utilities.
package loans

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/calcdash/pkg/constants"
	"github.com/iwvelando/calcdash/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given month of the schedule.
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"balance"`
}

// YearSummary aggregates twelve months of a schedule.
type YearSummary struct {
	Year               int     `json:"year"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"balance"`
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, downPayment, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return (principal - downPayment) / float64(termMonths)
	}

	periodicInterestRate := mathutil.MonthlyRate(annualInterestRate)
	power := math.Pow((1.00 + periodicInterestRate), float64(termMonths))
	discountFactor := (power - 1.00) / power
	return (principal - downPayment) * periodicInterestRate / discountFactor
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * mathutil.MonthlyRate(annualInterestRate)
}

// PresentValue returns the principal a fixed monthly payment repays over
// termMonths at the given annual rate.
func PresentValue(payment, annualInterestRate float64, termMonths int) float64 {
	if annualInterestRate == 0 {
		return payment * float64(termMonths)
	}
	r := mathutil.MonthlyRate(annualInterestRate)
	return payment * (1 - math.Pow(1+r, -float64(termMonths))) / r
}

// LoanConfig represents loan configuration parameters
type LoanConfig struct {
	Name         string  `json:"name,omitempty"`
	Principal    float64 `json:"principal"`
	DownPayment  float64 `json:"down_payment,omitempty"`
	InterestRate float64 `json:"interest_rate"`
	Term         int     `json:"term_months"`
}

// Validate checks the loan parameters.
func (l LoanConfig) Validate() error {
	if l.Principal <= 0 {
		return errors.New("loan principal must be positive")
	}
	if l.DownPayment < 0 || l.DownPayment > l.Principal {
		return fmt.Errorf("down payment must be between 0 and the principal %.2f", l.Principal)
	}
	if l.InterestRate < 0 || l.InterestRate > constants.PercentageMultiplier {
		return fmt.Errorf("interest rate must be between 0 and 100 percent, got %v", l.InterestRate)
	}
	if l.Term <= 0 {
		return fmt.Errorf("loan term must be at least one month, got %d", l.Term)
	}
	return nil
}

// Summary is the cost of a loan over its full term.
type Summary struct {
	MonthlyPayment float64   `json:"monthly_payment"`
	TotalPayment   float64   `json:"total_payment"`
	TotalInterest  float64   `json:"total_interest"`
	Schedule       []Payment `json:"schedule"`
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates a complete monthly amortization schedule for a loan
func (g *AmortizationScheduleGenerator) GenerateSchedule(loan LoanConfig) ([]Payment, error) {
	if err := loan.Validate(); err != nil {
		return nil, err
	}

	monthlyPayment := CalculateMonthlyPayment(loan.Principal, loan.DownPayment, loan.InterestRate, loan.Term)
	balance := loan.Principal - loan.DownPayment
	schedule := make([]Payment, 0, loan.Term)

	for month := 1; month <= loan.Term; month++ {
		var current Payment
		current.Month = month
		current.Payment = monthlyPayment
		current.Interest = CalculateInterestPayment(balance, loan.InterestRate)
		current.Principal = monthlyPayment - current.Interest
		balance -= current.Principal

		if month == loan.Term || mathutil.Round(balance) == 0 {
			// We will get machine error otherwise so just set to 0.
			balance = 0.00
		}
		current.RemainingPrincipal = balance
		schedule = append(schedule, current)
	}

	g.logger.Debug(fmt.Sprintf("generated %d month schedule at %.2f per month", len(schedule), monthlyPayment),
		zap.String("op", "loans.GenerateSchedule"),
		zap.String("loan", loan.Name),
	)
	return schedule, nil
}

// Summarize computes the monthly payment, the totals and the schedule of a loan.
func (g *AmortizationScheduleGenerator) Summarize(loan LoanConfig) (Summary, error) {
	schedule, err := g.GenerateSchedule(loan)
	if err != nil {
		return Summary{}, err
	}
	monthlyPayment := CalculateMonthlyPayment(loan.Principal, loan.DownPayment, loan.InterestRate, loan.Term)
	totalPayment := monthlyPayment * float64(loan.Term)
	return Summary{
		MonthlyPayment: monthlyPayment,
		TotalPayment:   totalPayment,
		TotalInterest:  totalPayment - (loan.Principal - loan.DownPayment),
		Schedule:       schedule,
	}, nil
}

// YearlySchedule folds a monthly schedule into years. A trailing partial year
// is kept.
func YearlySchedule(schedule []Payment) []YearSummary {
	years := make([]YearSummary, 0, (len(schedule)+constants.MonthsPerYear-1)/constants.MonthsPerYear)
	for i, p := range schedule {
		if i%constants.MonthsPerYear == 0 {
			years = append(years, YearSummary{Year: i/constants.MonthsPerYear + 1})
		}
		y := &years[len(years)-1]
		y.Principal += p.Principal
		y.Interest += p.Interest
		y.RemainingPrincipal = p.RemainingPrincipal
	}
	return years
}
