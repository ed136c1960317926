package grocery

import (
	"sort"

	"github.com/iwvelando/calcdash/pkg/aggregate"
)

const (
	recentItems = 10
	topItems    = 5
	// budgetBuffer pads the average monthly spend for the recommended budget.
	budgetBuffer = 1.1
)

// SavingTips are shown with every grocery analysis.
var SavingTips = []string{
	"Buy seasonal fruits and vegetables",
	"Purchase non-perishables in bulk",
	"Compare prices across stores",
	"Plan meals to minimize waste",
	"Use loyalty programs and discounts",
}

// Report is the spending analysis of the purchased items.
type Report struct {
	ByCategory        []aggregate.Group `json:"by_category"`
	MonthlyTrend      []aggregate.Point `json:"monthly_trend"`
	TotalSpent        float64           `json:"total_spent"`
	AverageMonthly    float64           `json:"average_monthly"`
	TopItems          []aggregate.Group `json:"top_items"`
	RecommendedBudget float64           `json:"recommended_budget"`
	Recent            []Item            `json:"recent"`
	Tips              []string          `json:"tips"`
}

// Analyze summarizes grocery spending. Prices are summed as entered, without
// scaling by quantity.
func Analyze(items []Item) (Report, error) {
	monthly, err := aggregate.Trend(items, date, price, aggregate.Month, true)
	if err != nil {
		return Report{}, err
	}

	avg := aggregate.Mean(monthly, func(p aggregate.Point) float64 { return p.Value })
	return Report{
		ByCategory:        aggregate.GroupSum(items, category, price),
		MonthlyTrend:      monthly,
		TotalSpent:        aggregate.Sum(items, price),
		AverageMonthly:    avg,
		TopItems:          aggregate.TopGroups(aggregate.GroupSum(items, name, price), topItems),
		RecommendedBudget: avg * budgetBuffer,
		Recent:            Recent(items, recentItems),
		Tips:              append([]string(nil), SavingTips...),
	}, nil
}

// Recent returns up to n items, newest purchase first.
func Recent(items []Item, n int) []Item {
	sorted := append([]Item(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []Item{}
	}
	return sorted
}

func price(i Item) float64   { return i.Price }
func category(i Item) string { return i.Category }
func name(i Item) string     { return i.Item }
func date(i Item) string     { return i.Date }
