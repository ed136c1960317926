package expense

import (
	"github.com/iwvelando/calcdash/pkg/aggregate"
)

// BudgetLine compares one category's spending to its budget.
type BudgetLine struct {
	Category  string  `json:"category"`
	Spent     float64 `json:"spent"`
	Budget    float64 `json:"budget"`
	Remaining float64 `json:"remaining"`
}

// Report is the spending analysis of an expense snapshot.
type Report struct {
	ByCategory      []aggregate.Group `json:"by_category"`
	Comparison      []BudgetLine      `json:"comparison"`
	DailyTrend      []aggregate.Point `json:"daily_trend"`
	TotalSpent      float64           `json:"total_spent"`
	TotalBudget     float64           `json:"total_budget"`
	OverBudget      bool              `json:"over_budget"`
	Difference      float64           `json:"difference"`
	HighestCategory *aggregate.Group  `json:"highest_category,omitempty"`
}

// Analyze compares all expenses to the monthly budgets.
func Analyze(expenses []Expense, budgets Budgets) (Report, error) {
	trend, err := aggregate.Trend(expenses, date, amount, aggregate.Day, false)
	if err != nil {
		return Report{}, err
	}

	byCategory := ByCategory(expenses)
	totalSpent := Total(expenses)
	totalBudget := budgets.Total()
	report := Report{
		ByCategory:  byCategory,
		Comparison:  Compare(byCategory, budgets),
		DailyTrend:  trend,
		TotalSpent:  totalSpent,
		TotalBudget: totalBudget,
		OverBudget:  totalSpent > totalBudget,
	}
	if report.OverBudget {
		report.Difference = totalSpent - totalBudget
	} else {
		report.Difference = totalBudget - totalSpent
	}
	if highest, ok := aggregate.MaxGroup(byCategory); ok {
		report.HighestCategory = &highest
	}
	return report, nil
}

// Total sums the expense amounts.
func Total(expenses []Expense) float64 {
	return aggregate.Sum(expenses, amount)
}

// ByCategory sums the amounts per category.
func ByCategory(expenses []Expense) []aggregate.Group {
	return aggregate.GroupSum(expenses, category, amount)
}

// Compare builds the budget vs actual table in category order.
func Compare(byCategory []aggregate.Group, budgets Budgets) []BudgetLine {
	lines := make([]BudgetLine, 0, len(Categories))
	for _, c := range Categories {
		spent := aggregate.Lookup(byCategory, c)
		budget := budgets.For(c)
		lines = append(lines, BudgetLine{
			Category:  c,
			Spent:     spent,
			Budget:    budget,
			Remaining: budget - spent,
		})
	}
	return lines
}

func amount(e Expense) float64  { return e.Amount }
func category(e Expense) string { return e.Category }
func date(e Expense) string     { return e.Date }
