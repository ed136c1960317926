package main

import (
	"fmt"

	"github.com/iwvelando/calcdash/pkg/aggregate"
	"github.com/iwvelando/calcdash/pkg/electricity"
	"github.com/iwvelando/calcdash/pkg/expense"
	"github.com/iwvelando/calcdash/pkg/format"
	"github.com/iwvelando/calcdash/pkg/grocery"
	"github.com/iwvelando/calcdash/pkg/output"
	"github.com/iwvelando/calcdash/pkg/session"
	"github.com/iwvelando/calcdash/pkg/sleep"
	"github.com/iwvelando/calcdash/pkg/task"
	"github.com/spf13/cobra"
)

func (a *app) newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Analyse one of the logs",
	}
	cmd.AddCommand(
		a.newElectricityReportCmd(),
		a.newExpenseReportCmd(),
		a.newGroceryReportCmd(),
		a.newSleepReportCmd(),
		a.newTaskReportCmd(),
	)
	return cmd
}

func groupTable(title, valueColumn string, groups []aggregate.Group, money bool) output.Section {
	s := output.Section{Title: title, Columns: []string{"Name", valueColumn, "Count"}}
	for _, g := range groups {
		var v interface{} = g.Value
		if money {
			v = output.Money(g.Value)
		}
		s.Rows = append(s.Rows, []interface{}{g.Key, v, g.Count})
	}
	return s
}

func trendTable(title, valueColumn string, points []aggregate.Point, money bool) output.Section {
	s := output.Section{Title: title, Columns: []string{"Period", valueColumn}}
	for _, p := range points {
		var v interface{} = p.Value
		if money {
			v = output.Money(p.Value)
		}
		s.Rows = append(s.Rows, []interface{}{p.Bucket, v})
	}
	return s
}

func (a *app) newElectricityReportCmd() *cobra.Command {
	var rate float64
	cmd := &cobra.Command{
		Use:   "electricity",
		Short: "Consumption, bill and savings of the logged appliances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("rate") {
				rate = a.conf.Electricity.Rate
			}
			return a.withSession(func(sess *session.Session) error {
				appliances, err := sess.Appliances.All(cmd.Context())
				if err != nil {
					return err
				}
				r, err := electricity.Analyze(appliances, rate)
				if err != nil {
					return err
				}
				hourly := output.Section{Title: "Hourly usage", Columns: []string{"Hour", "kWh"}}
				for h, kwh := range r.HourlyUsage {
					hourly.Rows = append(hourly.Rows, []interface{}{fmt.Sprintf("%02d:00", h), kwh})
				}
				top := output.Section{Title: "Top consumers", Columns: []string{"Name", "kWh/day"}}
				for _, ap := range r.TopConsumers {
					top.Rows = append(top.Rows, []interface{}{ap.Name, ap.DailyKWh})
				}
				return a.print(cmd,
					output.Section{
						Title: "Electricity",
						Fields: []output.Field{
							{Label: "Appliances", Value: r.ApplianceCount},
							{Label: "Rate per kWh", Value: output.Money(r.Rate)},
							{Label: "Daily", Value: format.KWh(r.DailyKWh)},
							{Label: "Monthly", Value: format.KWh(r.MonthlyKWh)},
							{Label: "Monthly bill", Value: output.Money(r.MonthlyBill)},
							{Label: "LED savings", Value: format.KWh(r.LEDSavings)},
							{Label: "AC savings", Value: format.KWh(r.ACSavings)},
							{Label: "Tips", Value: r.Tips},
						},
					},
					groupTable("Distribution", "kWh/day", r.Distribution, false),
					top,
					hourly,
					trendTable("Daily trend", "kWh/day", r.DailyTrend, false),
				)
			})
		},
	}
	cmd.Flags().Float64Var(&rate, "rate", 0, "price per kWh (default from config)")
	return cmd
}

func (a *app) newExpenseReportCmd() *cobra.Command {
	var month string
	var categories []string
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Spending per category against the budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(func(sess *session.Session) error {
				expenses, err := sess.Expenses.All(cmd.Context())
				if err != nil {
					return err
				}
				if month != "" {
					if expenses, err = expense.Filter(expenses, month, categories); err != nil {
						return err
					}
				}
				r, err := expense.Analyze(expenses, a.conf.Budgets())
				if err != nil {
					return err
				}
				summary := output.Section{
					Title: "Expenses",
					Fields: []output.Field{
						{Label: "Total spent", Value: output.Money(r.TotalSpent)},
						{Label: "Total budget", Value: output.Money(r.TotalBudget)},
						{Label: "Over budget", Value: r.OverBudget},
						{Label: "Difference", Value: output.Money(r.Difference)},
					},
				}
				if r.HighestCategory != nil {
					summary.Fields = append(summary.Fields, output.Field{Label: "Highest category", Value: r.HighestCategory.Key})
				}
				budget := output.Section{Title: "Budget", Columns: []string{"Category", "Spent", "Budget", "Remaining"}}
				for _, l := range r.Comparison {
					budget.Rows = append(budget.Rows, []interface{}{l.Category, output.Money(l.Spent), output.Money(l.Budget), output.Money(l.Remaining)})
				}
				return a.print(cmd, summary, budget, trendTable("Daily trend", "Spent", r.DailyTrend, true))
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&month, "month", "", "only this month, YYYY-MM")
	f.StringSliceVar(&categories, "category", nil, "only these categories (with --month)")
	return cmd
}

func (a *app) newGroceryReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grocery",
		Short: "Grocery spending trend and budget recommendation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(func(sess *session.Session) error {
				data, err := sess.Grocery.Data(cmd.Context())
				if err != nil {
					return err
				}
				r, err := grocery.Analyze(data.Items)
				if err != nil {
					return err
				}
				return a.print(cmd,
					output.Section{
						Title: "Grocery",
						Fields: []output.Field{
							{Label: "Total spent", Value: output.Money(r.TotalSpent)},
							{Label: "Average monthly", Value: output.Money(r.AverageMonthly)},
							{Label: "Recommended budget", Value: output.Money(r.RecommendedBudget)},
							{Label: "Tips", Value: r.Tips},
						},
					},
					groupTable("By category", "Spent", r.ByCategory, true),
					groupTable("Top items", "Spent", r.TopItems, true),
					trendTable("Monthly trend", "Spent", r.MonthlyTrend, true),
					a.groceryTable(r.Recent),
				)
			})
		},
	}
}

func (a *app) newSleepReportCmd() *cobra.Command {
	var target float64
	cmd := &cobra.Command{
		Use:   "sleep",
		Short: "Sleep duration, debt and quality statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("target") {
				target = a.conf.Sleep.TargetHours
			}
			return a.withSession(func(sess *session.Session) error {
				records, err := sess.Sleep.All(cmd.Context())
				if err != nil {
					return err
				}
				stats, err := sleep.Analyze(records, target)
				if err != nil {
					return err
				}
				var window []string
				for h, asleep := range stats.AsleepHours {
					if asleep {
						window = append(window, fmt.Sprintf("%02d", h))
					}
				}
				return a.print(cmd,
					output.Section{
						Title: "Sleep",
						Fields: []output.Field{
							{Label: "Average duration", Value: format.Hours(stats.AverageDuration)},
							{Label: "Total debt", Value: format.Hours(stats.TotalDebt)},
							{Label: "Consistency (std dev)", Value: stats.Consistency},
							{Label: "Average bedtime hour", Value: stats.AverageSleepHour},
							{Label: "Average wake hour", Value: stats.AverageWakeHour},
							{Label: "Asleep hours", Value: window},
							{Label: "Tips", Value: sleep.Tips(records)},
						},
					},
					groupTable("Quality", "Nights", stats.QualityCounts, false),
					trendTable("Duration trend", "Hours", stats.DurationTrend, false),
				)
			})
		},
	}
	cmd.Flags().Float64Var(&target, "target", 0, "target hours per night (default from config)")
	return cmd
}

func (a *app) newTaskReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "Estimated time across the task history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(func(sess *session.Session) error {
				tasks, err := sess.Tasks.All(cmd.Context())
				if err != nil {
					return err
				}
				r := task.Analyze(tasks)
				return a.print(cmd,
					output.Section{
						Title: "Tasks",
						Fields: []output.Field{
							{Label: "Tasks", Value: r.TotalTasks},
							{Label: "Total hours", Value: r.TotalHours},
							{Label: "Average hours", Value: r.AverageHours},
							{Label: "Most common type", Value: r.MostCommonType},
						},
					},
					groupTable("Average by complexity", "Hours", r.ByComplexity, false),
					groupTable("Average by type", "Hours", r.ByType, false),
					groupTable("Time by type", "Hours", r.TimeByType, false),
				)
			})
		},
	}
}
