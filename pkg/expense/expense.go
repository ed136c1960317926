// Package expense tracks logged expenses against per-category monthly budgets.
package expense

import (
	"errors"
	"fmt"
	"sort"

	"github.com/iwvelando/calcdash/pkg/constants"
	"github.com/iwvelando/calcdash/pkg/datetime"
)

// Categories is the fixed set of expense categories, in display order.
var Categories = []string{
	"Housing", "Transportation", "Food", "Utilities", "Healthcare",
	"Entertainment", "Shopping", "Education", "Savings", "Other",
}

// ErrUnknownCategory is returned for a category outside Categories.
var ErrUnknownCategory = errors.New("unknown expense category")

// Expense is one entry of the expenses log.
type Expense struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// Validate checks the expense fields.
func (e Expense) Validate() error {
	if e.Amount < 0 {
		return fmt.Errorf("expense amount must not be negative, got %v", e.Amount)
	}
	if !IsCategory(e.Category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, e.Category)
	}
	if _, err := datetime.ParseDay(e.Date); err != nil {
		return err
	}
	return nil
}

// IsCategory reports whether name is one of Categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Budgets maps a category to its monthly budget.
type Budgets map[string]float64

// DefaultBudgets returns the default budget for every category.
func DefaultBudgets() Budgets {
	b := make(Budgets, len(Categories))
	for _, c := range Categories {
		b[c] = constants.DefaultCategoryBudget
	}
	return b
}

// For returns the budget of a category, falling back to the default budget
// for categories without an explicit entry.
func (b Budgets) For(category string) float64 {
	if v, ok := b[category]; ok {
		return v
	}
	return constants.DefaultCategoryBudget
}

// Total sums the budget of every category.
func (b Budgets) Total() float64 {
	total := 0.0
	for _, c := range Categories {
		total += b.For(c)
	}
	return total
}

// Validate rejects negative budgets and unknown categories.
func (b Budgets) Validate() error {
	for c, v := range b {
		if !IsCategory(c) {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, c)
		}
		if v < 0 {
			return fmt.Errorf("budget for %s must not be negative, got %v", c, v)
		}
	}
	return nil
}

// Months returns the distinct YYYY-MM months of the expenses, ascending.
func Months(expenses []Expense) ([]string, error) {
	seen := make(map[string]bool)
	months := make([]string, 0)
	for _, e := range expenses {
		m, err := datetime.MonthOf(e.Date)
		if err != nil {
			return nil, err
		}
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	sort.Strings(months)
	return months, nil
}

// Filter returns the expenses of a month whose category is in categories,
// newest first. A nil categories list selects every category; a non-nil
// empty list selects none.
func Filter(expenses []Expense, month string, categories []string) ([]Expense, error) {
	all := categories == nil
	selected := make(map[string]bool, len(categories))
	for _, c := range categories {
		selected[c] = true
	}

	out := make([]Expense, 0)
	for _, e := range expenses {
		m, err := datetime.MonthOf(e.Date)
		if err != nil {
			return nil, err
		}
		if m != month {
			continue
		}
		if !all && !selected[e.Category] {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}
