package grocery

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/iwvelando/calcdash/pkg/aggregate"
	"github.com/iwvelando/calcdash/pkg/datetime"
)

// MaxListDays bounds the range of a generated shopping list.
const MaxListDays = 14

// ErrNoMeals is returned when a shopping list is requested without any
// planned meal.
var ErrNoMeals = errors.New("no meals planned")

// DayPlan holds the meals planned for one day.
type DayPlan struct {
	Date  string `json:"date"`
	Meals []Meal `json:"meals"`
}

// MealPlan groups meals by date, ordered by date then meal type name.
func MealPlan(meals []Meal) []DayPlan {
	sorted := append([]Meal(nil), meals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].Type < sorted[j].Type
	})

	plan := make([]DayPlan, 0)
	for _, m := range sorted {
		if n := len(plan); n > 0 && plan[n-1].Date == m.Date {
			plan[n-1].Meals = append(plan[n-1].Meals, m)
			continue
		}
		plan = append(plan, DayPlan{Date: m.Date, Meals: []Meal{m}})
	}
	return plan
}

// GenerateShoppingList counts the ingredients of the meals planned from start
// through start+days, both ends inclusive. Lines are ordered most needed
// first.
func GenerateShoppingList(meals []Meal, start time.Time, days int, created time.Time) (ShoppingList, error) {
	if days < 1 || days > MaxListDays {
		return ShoppingList{}, fmt.Errorf("shopping list range must be 1 to %d days, got %d", MaxListDays, days)
	}
	if len(meals) == 0 {
		return ShoppingList{}, ErrNoMeals
	}

	from := datetime.FormatDay(start)
	to := datetime.FormatDay(start.AddDate(0, 0, days))

	ingredients := make([]string, 0)
	for _, m := range meals {
		if m.Date >= from && m.Date <= to {
			ingredients = append(ingredients, m.Ingredients...)
		}
	}

	counts := aggregate.GroupCount(ingredients, func(s string) string { return s })
	items := make([]ListItem, 0, len(counts))
	for _, c := range counts {
		items = append(items, ListItem{Item: c.Key, Quantity: c.Count})
	}
	return ShoppingList{
		DateCreated: datetime.FormatDay(created),
		StartDate:   from,
		EndDate:     to,
		Items:       items,
	}, nil
}

// CategoryLines holds the shopping list lines of one catalogue category.
type CategoryLines struct {
	Category string     `json:"category"`
	Items    []ListItem `json:"items"`
}

// ByCategory arranges list lines under their catalogue category in catalogue
// order. Lines for uncatalogued items are left out, as are empty categories.
func (l ShoppingList) ByCategory() []CategoryLines {
	out := make([]CategoryLines, 0)
	for _, c := range Catalogue {
		var lines []ListItem
		for _, i := range l.Items {
			if category, ok := CategoryOf(i.Item); ok && category == c.Name {
				lines = append(lines, i)
			}
		}
		if len(lines) > 0 {
			out = append(out, CategoryLines{Category: c.Name, Items: lines})
		}
	}
	return out
}
