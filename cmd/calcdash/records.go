package main

import (
	"fmt"
	"strconv"
	"time"

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

func p2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (a *app) newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a record to one of the logs",
	}
	cmd.AddCommand(
		a.newAddApplianceCmd(),
		a.newAddExpenseCmd(),
		a.newAddSleepCmd(),
		a.newAddTaskCmd(),
		a.newAddGroceryItemCmd(),
		a.newAddMealCmd(),
	)
	return cmd
}

// dayOrToday parses a YYYY-MM-DD flag value, defaulting to the current day.
func (a *app) dayOrToday(date string) (time.Time, error) {
	if date == "" {
		return a.now(), nil
	}
	return datetime.ParseDay(date)
}

func (a *app) newAddApplianceCmd() *cobra.Command {
	var name, date string
	var watts, hours float64
	var quantity int
	cmd := &cobra.Command{
		Use:   "appliance",
		Short: "Log an appliance and its daily use",
		Long: `Logs an appliance. Without --watts the rating is taken from the
catalogue of common appliances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if watts == 0 {
				w, ok := electricity.CommonWatts(name)
				if !ok {
					return fmt.Errorf("--watts is required for %q", name)
				}
				watts = w
			}
			added, err := a.dayOrToday(date)
			if err != nil {
				return err
			}
			appliance := electricity.NewAppliance(name, watts, quantity, hours, added)
			return a.withSession(func(sess *session.Session) error {
				if _, err := sess.Appliances.Append(cmd.Context(), appliance); err != nil {
					return err
				}
				return a.print(cmd, a.applianceTable([]electricity.Appliance{appliance}))
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "appliance name")
	f.Float64Var(&watts, "watts", 0, "power rating in watts")
	f.IntVar(&quantity, "quantity", 1, "number of identical appliances")
	f.Float64Var(&hours, "hours", 0, "hours of use per day")
	f.StringVar(&date, "date", "", "date added, YYYY-MM-DD (default today)")
	return cmd
}

func (a *app) newAddExpenseCmd() *cobra.Command {
	var e expense.Expense
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Log an expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := a.dayOrToday(e.Date)
			if err != nil {
				return err
			}
			e.Date = datetime.FormatDay(day)
			return a.withSession(func(sess *session.Session) error {
				if _, err := sess.Expenses.Append(cmd.Context(), e); err != nil {
					return err
				}
				return a.print(cmd, a.expenseTable([]expense.Expense{e}))
			})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&e.Amount, "amount", 0, "amount spent")
	f.StringVar(&e.Category, "category", "", "expense category")
	f.StringVar(&e.Description, "description", "", "what the money was spent on")
	f.StringVar(&e.Date, "date", "", "date, YYYY-MM-DD (default today)")
	return cmd
}

func (a *app) newAddSleepCmd() *cobra.Command {
	var date, sleepTime, wakeTime, quality string
	cmd := &cobra.Command{
		Use:   "sleep",
		Short: "Log a night of sleep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			night, err := a.dayOrToday(date)
			if err != nil {
				return err
			}
			record, err := sleep.NewRecord(night, sleepTime, wakeTime, quality)
			if err != nil {
				return err
			}
			return a.withSession(func(sess *session.Session) error {
				if _, err := sess.Sleep.Append(cmd.Context(), record); err != nil {
					return err
				}
				return a.print(cmd, a.sleepTable([]sleep.Record{record}))
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&date, "date", "", "date, YYYY-MM-DD (default today)")
	f.StringVar(&sleepTime, "sleep-time", "", "bedtime as HH:MM")
	f.StringVar(&wakeTime, "wake-time", "", "wake time as HH:MM")
	f.StringVar(&quality, "quality", "Good", "Poor, Fair, Good or Excellent")
	return cmd
}

func (a *app) newAddTaskCmd() *cobra.Command {
	var name, description, complexity, taskType, experience string
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Estimate a task and keep it in the history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := task.NewTask(name, description, complexity, taskType, experience, a.now())
			if err != nil {
				return err
			}
			return a.withSession(func(sess *session.Session) error {
				if _, err := sess.Tasks.Append(cmd.Context(), t); err != nil {
					return err
				}
				return a.print(cmd, a.taskTable([]task.Task{t}))
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "task name")
	f.StringVar(&description, "description", "", "task description")
	f.StringVar(&complexity, "complexity", task.Complexities[1], "Low, Medium, High or Very High")
	f.StringVar(&taskType, "type", task.Types[0], "task type")
	f.StringVar(&experience, "experience", task.ExperienceLevels[1], "Beginner, Intermediate or Expert")
	return cmd
}

func (a *app) newAddGroceryItemCmd() *cobra.Command {
	var item grocery.Item
	cmd := &cobra.Command{
		Use:   "grocery-item",
		Short: "Log a grocery purchase",
		Long: `Logs a grocery purchase. Without --category the category is looked up
in the grocery catalogue.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if item.Category == "" {
				category, ok := grocery.CategoryOf(item.Item)
				if !ok {
					return fmt.Errorf("--category is required for %q", item.Item)
				}
				item.Category = category
			}
			day, err := a.dayOrToday(item.Date)
			if err != nil {
				return err
			}
			item.Date = datetime.FormatDay(day)
			return a.withSession(func(sess *session.Session) error {
				if _, err := sess.Grocery.AddItem(cmd.Context(), item); err != nil {
					return err
				}
				return a.print(cmd, a.groceryTable([]grocery.Item{item}))
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&item.Item, "item", "", "item name")
	f.StringVar(&item.Category, "category", "", "catalogue category")
	f.IntVar(&item.Quantity, "quantity", 1, "units bought")
	f.Float64Var(&item.Price, "price", 0, "price paid")
	f.StringVar(&item.Date, "date", "", "date, YYYY-MM-DD (default today)")
	return cmd
}

func (a *app) newAddMealCmd() *cobra.Command {
	var meal grocery.Meal
	cmd := &cobra.Command{
		Use:   "meal",
		Short: "Plan a meal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := a.dayOrToday(meal.Date)
			if err != nil {
				return err
			}
			meal.Date = datetime.FormatDay(day)
			return a.withSession(func(sess *session.Session) error {
				if _, err := sess.Grocery.AddMeal(cmd.Context(), meal); err != nil {
					return err
				}
				return a.print(cmd, a.mealTable([]grocery.Meal{meal}))
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&meal.Date, "date", "", "date, YYYY-MM-DD (default today)")
	f.StringVar(&meal.Type, "type", grocery.MealTypes[1], "Breakfast, Lunch or Dinner")
	f.StringVar(&meal.Name, "name", "", "meal name")
	f.StringSliceVar(&meal.Ingredients, "ingredients", nil, "comma-separated catalogue items")
	f.IntVar(&meal.Servings, "servings", 1, "number of servings")
	return cmd
}

func (a *app) newShoppingListCmd() *cobra.Command {
	var start string
	var days int
	cmd := &cobra.Command{
		Use:   "shopping-list",
		Short: "Generate and keep a shopping list from the meal plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := a.dayOrToday(start)
			if err != nil {
				return err
			}
			return a.withSession(func(sess *session.Session) error {
				list, err := sess.Grocery.AddShoppingList(cmd.Context(), from, days, a.now())
				if err != nil {
					return err
				}
				sections := []output.Section{{
					Title: "Shopping list",
					Fields: []output.Field{
						{Label: "From", Value: list.StartDate},
						{Label: "To", Value: list.EndDate},
					},
				}}
				for _, group := range list.ByCategory() {
					table := output.Section{Title: group.Category, Columns: []string{"Item", "Quantity"}}
					for _, line := range group.Items {
						table.Rows = append(table.Rows, []interface{}{line.Item, line.Quantity})
					}
					sections = append(sections, table)
				}
				return a.print(cmd, sections...)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&start, "start", "", "first day, YYYY-MM-DD (default today)")
	f.IntVar(&days, "days", 7, "days after the first day to cover")
	return cmd
}
