// Package electricity models logged household appliances and estimates their
// consumption and bill.
package electricity

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/calcdash/pkg/datetime"
)

// Appliance is one logged appliance entry of the appliance_usage log.
type Appliance struct {
	Name      string  `json:"name"`
	Watts     float64 `json:"watts"`
	Quantity  int     `json:"quantity"`
	Hours     float64 `json:"hours"`
	DailyKWh  float64 `json:"daily_kwh"`
	DateAdded string  `json:"date_added"`
}

// CatalogueEntry is a common appliance with its typical power rating.
type CatalogueEntry struct {
	Name  string  `json:"name"`
	Watts float64 `json:"watts"`
}

// CommonAppliances lists typical household appliances in display order.
var CommonAppliances = []CatalogueEntry{
	{"Air Conditioner", 1500},
	{"Refrigerator", 150},
	{"Washing Machine", 500},
	{"Television", 100},
	{"Microwave", 1000},
	{"Electric Fan", 75},
	{"LED Light Bulb", 10},
	{"Desktop Computer", 200},
	{"Laptop", 60},
	{"Water Heater", 2000},
	{"Iron", 1000},
	{"Dishwasher", 1500},
	{"Electric Kettle", 1500},
	{"Ceiling Fan", 75},
	{"Router/Modem", 10},
}

// CommonWatts returns the catalogue rating of a common appliance.
func CommonWatts(name string) (float64, bool) {
	for _, e := range CommonAppliances {
		if e.Name == name {
			return e.Watts, true
		}
	}
	return 0, false
}

// NewAppliance builds an appliance entry added on the given day, deriving
// its daily energy.
func NewAppliance(name string, watts float64, quantity int, hours float64, added time.Time) Appliance {
	return Appliance{
		Name:      name,
		Watts:     watts,
		Quantity:  quantity,
		Hours:     hours,
		DailyKWh:  Energy(watts, hours, quantity),
		DateAdded: datetime.FormatDay(added),
	}
}

// Energy returns the daily energy in kWh of quantity appliances rated watts
// running hours per day.
func Energy(watts, hours float64, quantity int) float64 {
	return watts * hours * float64(quantity) / 1000
}

// Validate checks the appliance fields.
func (a Appliance) Validate() error {
	if a.Name == "" {
		return errors.New("appliance name is required")
	}
	return a.ValidateStored()
}

// ValidateStored checks an appliance read back from storage. Older logs may
// carry custom appliances with an empty name.
func (a Appliance) ValidateStored() error {
	if a.Watts <= 0 {
		return fmt.Errorf("appliance %q: watts must be positive, got %v", a.Name, a.Watts)
	}
	if a.Quantity < 1 {
		return fmt.Errorf("appliance %q: quantity must be at least 1, got %d", a.Name, a.Quantity)
	}
	if a.Hours <= 0 || a.Hours > 24 {
		return fmt.Errorf("appliance %q: daily hours must be in (0, 24], got %v", a.Name, a.Hours)
	}
	if a.DailyKWh < 0 {
		return fmt.Errorf("appliance %q: daily_kwh must not be negative", a.Name)
	}
	if _, err := datetime.ParseDay(a.DateAdded); err != nil {
		return fmt.Errorf("appliance %q: %w", a.Name, err)
	}
	return nil
}
