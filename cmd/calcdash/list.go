package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/iwvelando/calcdash/pkg/datetime"
	"github.com/iwvelando/calcdash/pkg/electricity"
	"github.com/iwvelando/calcdash/pkg/expense"
	"github.com/iwvelando/calcdash/pkg/grocery"
	"github.com/iwvelando/calcdash/pkg/output"
	"github.com/iwvelando/calcdash/pkg/session"
	"github.com/iwvelando/calcdash/pkg/sleep"
	"github.com/iwvelando/calcdash/pkg/task"
	"github.com/spf13/cobra"
)

var listKinds = []string{"appliances", "expenses", "sleep", "tasks", "grocery-items", "meals", "shopping-lists"}

func (a *app) newListCmd() *cobra.Command {
	var month string
	var categories []string
	cmd := &cobra.Command{
		Use:       "list <kind>",
		Short:     "List the records of a log",
		Long:      "Lists stored records. Kinds: " + strings.Join(listKinds, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: listKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(sess *session.Session) error {
				sections, err := a.listSection(cmd, sess, args[0], month, categories)
				if err != nil {
					return err
				}
				return a.print(cmd, sections...)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&month, "month", "", "only expenses of this month, YYYY-MM")
	f.StringSliceVar(&categories, "category", nil, "only expenses in these categories (with --month)")
	return cmd
}

func (a *app) listSection(cmd *cobra.Command, sess *session.Session, kind, month string, categories []string) ([]output.Section, error) {
	ctx := cmd.Context()
	switch kind {
	case "appliances":
		appliances, err := sess.Appliances.All(ctx)
		if err != nil {
			return nil, err
		}
		return []output.Section{a.applianceTable(appliances)}, nil
	case "expenses":
		expenses, err := sess.Expenses.All(ctx)
		if err != nil {
			return nil, err
		}
		if month != "" {
			if expenses, err = expense.Filter(expenses, month, categories); err != nil {
				return nil, err
			}
		}
		return []output.Section{
			a.expenseTable(expenses),
			{Fields: []output.Field{{Label: "Total", Value: output.Money(expense.Total(expenses))}}},
		}, nil
	case "sleep":
		records, err := sess.Sleep.All(ctx)
		if err != nil {
			return nil, err
		}
		return []output.Section{a.sleepTable(records)}, nil
	case "tasks":
		tasks, err := sess.Tasks.All(ctx)
		if err != nil {
			return nil, err
		}
		return []output.Section{a.taskTable(tasks)}, nil
	case "grocery-items":
		data, err := sess.Grocery.Data(ctx)
		if err != nil {
			return nil, err
		}
		return []output.Section{a.groceryTable(data.Items)}, nil
	case "meals":
		data, err := sess.Grocery.Data(ctx)
		if err != nil {
			return nil, err
		}
		return []output.Section{a.mealTable(data.Meals)}, nil
	case "shopping-lists":
		data, err := sess.Grocery.Data(ctx)
		if err != nil {
			return nil, err
		}
		table := output.Section{Title: "Shopping lists", Columns: []string{"Created", "From", "To", "Items"}}
		for _, l := range data.ShoppingLists {
			items := make([]string, 0, len(l.Items))
			for _, line := range l.Items {
				items = append(items, fmt.Sprintf("%s x%d", line.Item, line.Quantity))
			}
			table.Rows = append(table.Rows, []interface{}{l.DateCreated, l.StartDate, l.EndDate, items})
		}
		return []output.Section{table}, nil
	default:
		return nil, fmt.Errorf("unknown kind %q, expected one of %s", kind, strings.Join(listKinds, ", "))
	}
}

// age renders a YYYY-MM-DD date relative to now, e.g. "3 days ago".
func (a *app) age(date string) string {
	day, err := datetime.ParseDay(date)
	if err != nil {
		return ""
	}
	today, _ := datetime.ParseDay(a.today())
	if day.Equal(today) {
		return "today"
	}
	return humanize.RelTime(day, today, "ago", "from now")
}

func (a *app) applianceTable(appliances []electricity.Appliance) output.Section {
	s := output.Section{Title: "Appliances", Columns: []string{"Name", "Watts", "Quantity", "Hours/day", "kWh/day", "Added"}}
	for _, ap := range appliances {
		s.Rows = append(s.Rows, []interface{}{ap.Name, ap.Watts, ap.Quantity, ap.Hours, ap.DailyKWh, a.age(ap.DateAdded)})
	}
	return s
}

func (a *app) expenseTable(expenses []expense.Expense) output.Section {
	s := output.Section{Title: "Expenses", Columns: []string{"Date", "Category", "Amount", "Description", "When"}}
	for _, e := range expenses {
		s.Rows = append(s.Rows, []interface{}{e.Date, e.Category, output.Money(e.Amount), e.Description, a.age(e.Date)})
	}
	return s
}

func (a *app) sleepTable(records []sleep.Record) output.Section {
	s := output.Section{Title: "Sleep", Columns: []string{"Date", "Bedtime", "Wake", "Hours", "Quality"}}
	for _, r := range records {
		s.Rows = append(s.Rows, []interface{}{r.Date, r.SleepTime, r.WakeTime, r.Duration, r.Quality})
	}
	return s
}

func (a *app) taskTable(tasks []task.Task) output.Section {
	s := output.Section{Title: "Tasks", Columns: []string{"Name", "Complexity", "Type", "Experience", "Estimate", "Range", "When"}}
	for _, t := range tasks {
		s.Rows = append(s.Rows, []interface{}{
			t.Name, t.Complexity, t.Type, t.ExperienceLevel, t.EstimatedTime,
			p2(t.MinTime) + "-" + p2(t.MaxTime), a.age(t.Date),
		})
	}
	return s
}

func (a *app) groceryTable(items []grocery.Item) output.Section {
	s := output.Section{Title: "Grocery items", Columns: []string{"Date", "Category", "Item", "Quantity", "Price"}}
	for _, i := range items {
		s.Rows = append(s.Rows, []interface{}{i.Date, i.Category, i.Item, i.Quantity, output.Money(i.Price)})
	}
	return s
}

func (a *app) mealTable(meals []grocery.Meal) output.Section {
	s := output.Section{Title: "Meal plan", Columns: []string{"Date", "Type", "Meal", "Servings", "Ingredients"}}
	for _, day := range grocery.MealPlan(meals) {
		for _, m := range day.Meals {
			s.Rows = append(s.Rows, []interface{}{day.Date, m.Type, m.Name, m.Servings, m.Ingredients})
		}
	}
	return s
}
