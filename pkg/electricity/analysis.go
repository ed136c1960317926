package electricity

import (
	"fmt"

	"github.com/iwvelando/calcdash/pkg/aggregate"
	"github.com/iwvelando/calcdash/pkg/constants"
)

// Appliance names that drive the usage profile and the saving tips. The bulb
// name is matched exactly, so the catalogue's "LED Light Bulb" falls into the
// daytime profile.
const (
	AirConditioner = "Air Conditioner"
	LightBulb      = "Light Bulb"
	Refrigerator   = "Refrigerator"
)

const (
	// acComfortHours is the daily AC usage above which savings are proposed.
	acComfortHours = 8.0
	// ledWatts is the rating a replacement LED bulb draws.
	ledWatts = 10.0
	// longUsageHours flags any appliance running longer than this.
	longUsageHours = 12.0
	// topConsumers is the size of the top consumer list.
	topConsumers = 3
)

// Report is the full usage analysis of an appliance snapshot.
type Report struct {
	Rate           float64           `json:"rate"`
	DailyKWh       float64           `json:"daily_kwh"`
	MonthlyKWh     float64           `json:"monthly_kwh"`
	MonthlyBill    float64           `json:"monthly_bill"`
	Distribution   []aggregate.Group `json:"distribution"`
	HourlyUsage    []float64         `json:"hourly_usage"`
	TopConsumers   []Appliance       `json:"top_consumers"`
	Tips           []string          `json:"tips"`
	LEDSavings     float64           `json:"led_savings"`
	ACSavings      float64           `json:"ac_savings"`
	DailyTrend     []aggregate.Point `json:"daily_trend"`
	ApplianceCount int               `json:"appliance_count"`
}

// Analyze computes the usage report at the given price per kWh.
func Analyze(appliances []Appliance, rate float64) (Report, error) {
	if rate <= 0 {
		return Report{}, fmt.Errorf("electricity rate must be positive, got %v", rate)
	}
	trend, err := DailyTrend(appliances)
	if err != nil {
		return Report{}, err
	}

	daily := DailyConsumption(appliances)
	monthly := MonthlyConsumption(daily)
	hourly := HourlyProfile(appliances)
	return Report{
		Rate:           rate,
		DailyKWh:       daily,
		MonthlyKWh:     monthly,
		MonthlyBill:    Bill(monthly, rate),
		Distribution:   Distribution(appliances),
		HourlyUsage:    hourly[:],
		TopConsumers:   TopConsumers(appliances, topConsumers),
		Tips:           Tips(appliances),
		LEDSavings:     Bill(LEDSavingsKWh(appliances), rate),
		ACSavings:      Bill(ACSavingsKWh(appliances), rate),
		DailyTrend:     trend,
		ApplianceCount: len(appliances),
	}, nil
}

// DailyConsumption returns the total daily energy in kWh, recomputed from
// each appliance's rating.
func DailyConsumption(appliances []Appliance) float64 {
	return aggregate.Sum(appliances, func(a Appliance) float64 {
		return Energy(a.Watts, a.Hours, a.Quantity)
	})
}

// MonthlyConsumption scales a daily energy to a billing month.
func MonthlyConsumption(dailyKWh float64) float64 {
	return dailyKWh * constants.DaysPerMonth
}

// Bill prices an energy amount.
func Bill(kwh, rate float64) float64 {
	return kwh * rate
}

// Distribution returns the daily energy per appliance name.
func Distribution(appliances []Appliance) []aggregate.Group {
	return aggregate.GroupSum(appliances, name, dailyKWh)
}

// HourlyProfile spreads each appliance's energy over a typical day. Air
// conditioners and light bulbs run 18:00 to midnight, refrigerators run
// around the clock and everything else runs 08:00 to 20:00.
func HourlyProfile(appliances []Appliance) [24]float64 {
	var profile [24]float64
	for _, a := range appliances {
		switch a.Name {
		case AirConditioner, LightBulb:
			for h := 18; h < 24; h++ {
				profile[h] += a.DailyKWh / a.Hours
			}
		case Refrigerator:
			for h := 0; h < 24; h++ {
				profile[h] += a.DailyKWh / 24
			}
		default:
			for h := 8; h < 20; h++ {
				profile[h] += a.DailyKWh / a.Hours
			}
		}
	}
	return profile
}

// TopConsumers returns the n appliances with the largest daily energy.
func TopConsumers(appliances []Appliance, n int) []Appliance {
	return aggregate.TopN(appliances, n, dailyKWh)
}

// Tips returns energy saving advice, at most one line per appliance.
func Tips(appliances []Appliance) []string {
	tips := make([]string, 0)
	for _, a := range appliances {
		switch {
		case a.Name == AirConditioner && a.Hours > acComfortHours:
			tips = append(tips, "Consider using AC for fewer hours or at a higher temperature")
		case a.Name == LightBulb && a.Watts > ledWatts:
			tips = append(tips, "Replace high-wattage bulbs with LED alternatives")
		case a.Hours > longUsageHours:
			tips = append(tips, fmt.Sprintf("Reduce usage hours of %s", a.Name))
		}
	}
	return tips
}

// LEDSavingsKWh returns the monthly energy saved by replacing bulbs above
// 10 W with LEDs.
func LEDSavingsKWh(appliances []Appliance) float64 {
	saved := 0.0
	for _, a := range appliances {
		if a.Name == LightBulb && a.Watts > ledWatts {
			saved += (a.Watts - ledWatts) * a.Hours * float64(a.Quantity) * constants.DaysPerMonth / 1000
		}
	}
	return saved
}

// ACSavingsKWh returns the monthly energy saved by capping AC usage at 8
// hours per day.
func ACSavingsKWh(appliances []Appliance) float64 {
	saved := 0.0
	for _, a := range appliances {
		if a.Name == AirConditioner && a.Hours > acComfortHours {
			saved += (a.Hours - acComfortHours) * a.Watts * float64(a.Quantity) * constants.DaysPerMonth / 1000
		}
	}
	return saved
}

// DailyTrend sums daily energy per date added.
func DailyTrend(appliances []Appliance) ([]aggregate.Point, error) {
	return aggregate.Trend(appliances, func(a Appliance) string { return a.DateAdded }, dailyKWh, aggregate.Day, false)
}

func name(a Appliance) string      { return a.Name }
func dailyKWh(a Appliance) float64 { return a.DailyKWh }
