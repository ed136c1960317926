package mortgage

import (
	"errors"
	"fmt"

	"github.com/iwvelando/calcdash/pkg/constants"
	"github.com/iwvelando/calcdash/pkg/loans"
	"go.uber.org/zap"
)

// Recommendations for the rent vs buy comparison.
const (
	BuyRecommendation = "Based on your inputs, buying appears to be more financially advantageous " +
		"in the long term. However, consider other factors such as flexibility, " +
		"maintenance responsibilities, and your long-term plans."
	RentRecommendation = "Based on your inputs, renting appears to be more cost-effective. " +
		"Consider your long-term plans and the non-financial benefits of " +
		"homeownership before making a decision."
)

// RentVsBuyInput holds the property, the financing and the yearly growth
// assumptions. Rates are percentages.
type RentVsBuyInput struct {
	HomePrice          float64 `json:"home_price"`
	DownPayment        float64 `json:"down_payment"`
	AnnualRate         float64 `json:"annual_rate"`
	LoanYears          int     `json:"loan_years"`
	MonthlyRent        float64 `json:"monthly_rent"`
	HomeAppreciation   float64 `json:"home_appreciation"`
	RentIncrease       float64 `json:"rent_increase"`
	PropertyTaxRate    float64 `json:"property_tax_rate"`
	MaintenancePercent float64 `json:"maintenance_percent"`
	AnalysisYears      int     `json:"analysis_years"`
}

// Validate checks the comparison inputs.
func (in RentVsBuyInput) Validate() error {
	for _, v := range []float64{in.HomePrice, in.DownPayment, in.AnnualRate, in.MonthlyRent,
		in.HomeAppreciation, in.RentIncrease, in.PropertyTaxRate, in.MaintenancePercent} {
		if v < 0 {
			return errors.New("rent vs buy inputs must not be negative")
		}
	}
	if in.DownPayment > in.HomePrice {
		return fmt.Errorf("down payment %.2f exceeds the home price %.2f", in.DownPayment, in.HomePrice)
	}
	if in.LoanYears < 1 || in.AnalysisYears < 1 {
		return errors.New("loan term and analysis period must be at least one year")
	}
	return nil
}

// YearCost is the cost of owning and of renting in one year.
type YearCost struct {
	Year      int     `json:"year"`
	BuyCost   float64 `json:"buy_cost"`
	RentCost  float64 `json:"rent_cost"`
	HomeValue float64 `json:"home_value"`
}

// RentVsBuy is the outcome of the comparison. BreakEvenYear is the first year
// cumulative rent exceeds cumulative ownership cost, or 0 when that never
// happens.
type RentVsBuy struct {
	Years          []YearCost `json:"years"`
	TotalBuyCost   float64    `json:"total_buy_cost"`
	TotalRentCost  float64    `json:"total_rent_cost"`
	FinalHomeValue float64    `json:"final_home_value"`
	BreakEvenYear  int        `json:"break_even_year"`
	BuyingCheaper  bool       `json:"buying_cheaper"`
	Recommendation string     `json:"recommendation"`
}

// RentVsBuy compares yearly ownership cost (mortgage, property tax and
// maintenance on the appreciating home value) to yearly rent.
func (c *Calculator) RentVsBuy(in RentVsBuyInput) (RentVsBuy, error) {
	if err := in.Validate(); err != nil {
		return RentVsBuy{}, err
	}

	monthlyPayment := loans.CalculateMonthlyPayment(in.HomePrice, in.DownPayment, in.AnnualRate,
		in.LoanYears*constants.MonthsPerYear)
	homeValue := in.HomePrice
	rent := in.MonthlyRent

	result := RentVsBuy{Years: make([]YearCost, 0, in.AnalysisYears)}
	for year := 1; year <= in.AnalysisYears; year++ {
		buy := monthlyPayment*constants.MonthsPerYear +
			homeValue*in.PropertyTaxRate/constants.PercentageMultiplier +
			homeValue*in.MaintenancePercent/constants.PercentageMultiplier
		homeValue *= 1 + in.HomeAppreciation/constants.PercentageMultiplier
		yearlyRent := rent * constants.MonthsPerYear
		rent *= 1 + in.RentIncrease/constants.PercentageMultiplier

		result.TotalBuyCost += buy
		result.TotalRentCost += yearlyRent
		if result.BreakEvenYear == 0 && result.TotalRentCost > result.TotalBuyCost {
			result.BreakEvenYear = year
		}
		result.Years = append(result.Years, YearCost{Year: year, BuyCost: buy, RentCost: yearlyRent, HomeValue: homeValue})
	}
	result.FinalHomeValue = homeValue
	result.BuyingCheaper = result.TotalRentCost > result.TotalBuyCost
	if result.BuyingCheaper {
		result.Recommendation = BuyRecommendation
	} else {
		result.Recommendation = RentRecommendation
	}

	c.logger.Debug("compared renting with buying",
		zap.String("op", "mortgage.RentVsBuy"),
		zap.Int("break_even_year", result.BreakEvenYear),
	)
	return result, nil
}
