// Package tax computes Indian salary income tax under the old and new
// regimes.
package tax

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/calcdash/pkg/constants"
	"github.com/iwvelando/calcdash/pkg/format"
	"github.com/iwvelando/calcdash/pkg/mathutil"
)

// Regimes.
const (
	OldRegime = "old"
	NewRegime = "new"
)

const (
	// cessRate is the health and education cess on computed tax.
	cessRate = 0.04
	// section80CLimit caps EPF, life insurance and ELSS deductions.
	section80CLimit = 150000
)

// NewRegimeNote is shown with every new regime calculation.
const NewRegimeNote = "The new tax regime offers lower tax rates but doesn't allow most deductions. " +
	"Compare both regimes to choose what's best for you."

// ErrUnknownRegime is returned for a regime other than old or new.
var ErrUnknownRegime = errors.New("unknown tax regime")

// Bracket taxes income up to UpTo at Rate. The last bracket of a table has an
// infinite upper bound.
type Bracket struct {
	UpTo float64
	Rate float64
}

var oldBrackets = []Bracket{
	{250000, 0},
	{500000, 0.05},
	{750000, 0.10},
	{1000000, 0.15},
	{1250000, 0.20},
	{1500000, 0.25},
	{math.Inf(1), 0.30},
}

var newBrackets = []Bracket{
	{300000, 0},
	{600000, 0.05},
	{900000, 0.10},
	{1200000, 0.15},
	{1500000, 0.20},
	{math.Inf(1), 0.30},
}

// Brackets returns the bracket table of a regime.
func Brackets(regime string) ([]Bracket, error) {
	switch regime {
	case OldRegime:
		return oldBrackets, nil
	case NewRegime:
		return newBrackets, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegime, regime)
	}
}

// IncomeTax applies a bracket table to taxable income. Income at or below
// zero owes nothing.
func IncomeTax(taxable float64, brackets []Bracket) float64 {
	tax := 0.0
	lower := 0.0
	for _, b := range brackets {
		if taxable <= lower {
			break
		}
		tax += (math.Min(taxable, b.UpTo) - lower) * b.Rate
		lower = b.UpTo
	}
	return tax
}

// Deductions are the old regime exemptions claimed.
type Deductions struct {
	EPF              float64 `json:"epf"`
	LifeInsurance    float64 `json:"life_insurance"`
	ELSS             float64 `json:"elss"`
	MedicalInsurance float64 `json:"medical_insurance"`
	HomeLoanInterest float64 `json:"home_loan_interest"`
}

func (d Deductions) section80C() float64 {
	return d.EPF + d.LifeInsurance + d.ELSS
}

// Total returns the 80C investments capped at 1,50,000 plus the 80D premium
// and the home loan interest.
func (d Deductions) Total() float64 {
	return mathutil.Min(d.section80C(), section80CLimit) + d.MedicalInsurance + d.HomeLoanInterest
}

func (d Deductions) validate() error {
	for _, v := range []float64{d.EPF, d.LifeInsurance, d.ELSS, d.MedicalInsurance, d.HomeLoanInterest} {
		if v < 0 {
			return errors.New("deductions must not be negative")
		}
	}
	return nil
}

// Input is an annual salary under a regime. Deductions apply to the old
// regime only.
type Input struct {
	AnnualSalary float64    `json:"annual_salary"`
	Regime       string     `json:"regime"`
	Deductions   Deductions `json:"deductions"`
}

// Result is the tax owed and the take-home pay.
type Result struct {
	GrossSalary     float64  `json:"gross_salary"`
	TotalDeductions float64  `json:"total_deductions"`
	TaxableIncome   float64  `json:"taxable_income"`
	IncomeTax       float64  `json:"income_tax"`
	Cess            float64  `json:"cess"`
	TotalTax        float64  `json:"total_tax"`
	AnnualTakeHome  float64  `json:"annual_take_home"`
	MonthlyTakeHome float64  `json:"monthly_take_home"`
	EffectiveRate   float64  `json:"effective_rate"`
	Suggestions     []string `json:"suggestions"`
}

// Calculate computes the tax, the 4% cess and the take-home pay.
func Calculate(in Input) (Result, error) {
	if in.AnnualSalary < 0 {
		return Result{}, errors.New("annual salary must not be negative")
	}
	brackets, err := Brackets(in.Regime)
	if err != nil {
		return Result{}, err
	}
	if err := in.Deductions.validate(); err != nil {
		return Result{}, err
	}

	deductions := 0.0
	if in.Regime == OldRegime {
		deductions = in.Deductions.Total()
	}
	taxable := in.AnnualSalary - deductions
	incomeTax := IncomeTax(taxable, brackets)
	cess := incomeTax * cessRate
	total := incomeTax + cess
	takeHome := in.AnnualSalary - total

	return Result{
		GrossSalary:     in.AnnualSalary,
		TotalDeductions: deductions,
		TaxableIncome:   taxable,
		IncomeTax:       incomeTax,
		Cess:            cess,
		TotalTax:        total,
		AnnualTakeHome:  takeHome,
		MonthlyTakeHome: takeHome / constants.MonthsPerYear,
		EffectiveRate:   mathutil.CalculatePercentage(total, in.AnnualSalary),
		Suggestions:     Suggestions(in),
	}, nil
}

// Suggestions returns deduction advice for the old regime and the regime
// note for the new one.
func Suggestions(in Input) []string {
	if in.Regime != OldRegime {
		return []string{NewRegimeNote}
	}
	suggestions := make([]string, 0)
	if invested := in.Deductions.section80C(); invested < section80CLimit {
		suggestions = append(suggestions,
			fmt.Sprintf("You can still invest %s under Section 80C", format.Currency(section80CLimit-invested)))
	}
	if in.Deductions.MedicalInsurance == 0 {
		suggestions = append(suggestions, "Consider getting medical insurance for tax benefits under Section 80D")
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "You're making good use of available tax deductions!")
	}
	return suggestions
}
