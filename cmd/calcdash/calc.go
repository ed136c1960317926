package main

import (
	"github.com/iwvelando/calcdash/pkg/finance"
	"github.com/iwvelando/calcdash/pkg/health"
	"github.com/iwvelando/calcdash/pkg/loans"
	"github.com/iwvelando/calcdash/pkg/mortgage"
	"github.com/iwvelando/calcdash/pkg/output"
	"github.com/iwvelando/calcdash/pkg/session"
	"github.com/iwvelando/calcdash/pkg/sleep"
	"github.com/iwvelando/calcdash/pkg/task"
	"github.com/iwvelando/calcdash/pkg/tax"
	"github.com/spf13/cobra"
)

func (a *app) newCalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Run a single-shot calculator",
	}
	cmd.AddCommand(
		a.newLoanCmd(),
		a.newInvestmentCmd(),
		a.newAffordabilityCmd(),
		a.newRentBuyCmd(),
		a.newBMICmd(),
		a.newCaloriesCmd(),
		a.newHydrationCmd(),
		a.newTaxCmd(),
		a.newTaskEstimateCmd(),
		a.newRecoveryCmd(),
	)
	return cmd
}

func yearlyRows(years []loans.YearSummary) [][]interface{} {
	rows := make([][]interface{}, 0, len(years))
	for _, y := range years {
		rows = append(rows, []interface{}{y.Year, output.Money(y.Principal), output.Money(y.Interest), output.Money(y.RemainingPrincipal)})
	}
	return rows
}

var yearlyColumns = []string{"Year", "Principal", "Interest", "Balance"}

func (a *app) newLoanCmd() *cobra.Command {
	var loan loans.LoanConfig
	var monthly bool
	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Monthly payment and amortization schedule of a loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := loans.NewAmortizationScheduleGenerator(a.logger).Summarize(loan)
			if err != nil {
				return err
			}
			sections := []output.Section{{
				Title: "Loan",
				Fields: []output.Field{
					{Label: "Monthly payment", Value: output.Money(summary.MonthlyPayment)},
					{Label: "Total payment", Value: output.Money(summary.TotalPayment)},
					{Label: "Total interest", Value: output.Money(summary.TotalInterest)},
				},
			}}
			if monthly {
				table := output.Section{Title: "Monthly schedule", Columns: []string{"Month", "Payment", "Principal", "Interest", "Balance"}}
				for _, p := range summary.Schedule {
					table.Rows = append(table.Rows, []interface{}{p.Month, output.Money(p.Payment), output.Money(p.Principal), output.Money(p.Interest), output.Money(p.RemainingPrincipal)})
				}
				sections = append(sections, table)
			} else {
				sections = append(sections, output.Section{
					Title:   "Yearly schedule",
					Columns: yearlyColumns,
					Rows:    yearlyRows(loans.YearlySchedule(summary.Schedule)),
				})
			}
			return a.print(cmd, sections...)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&loan.Principal, "principal", 0, "loan amount")
	f.Float64Var(&loan.DownPayment, "down-payment", 0, "amount paid up front")
	f.Float64Var(&loan.InterestRate, "rate", 0, "annual interest rate in percent")
	f.IntVar(&loan.Term, "term", 0, "term in months")
	f.BoolVar(&monthly, "monthly", false, "print the monthly rather than the yearly schedule")
	return cmd
}

func (a *app) newInvestmentCmd() *cobra.Command {
	var plan finance.InvestmentPlan
	cmd := &cobra.Command{
		Use:   "investment",
		Short: "Future value of an investment with monthly contributions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := finance.NewInvestmentProcessor(a.logger).Project(plan)
			if err != nil {
				return err
			}
			growth := output.Section{Title: "Growth", Columns: []string{"Year", "Value"}}
			for _, y := range p.Growth {
				growth.Rows = append(growth.Rows, []interface{}{y.Year, output.Money(y.Value)})
			}
			return a.print(cmd, output.Section{
				Title: "Investment",
				Fields: []output.Field{
					{Label: "Future value", Value: output.Money(p.FutureValue)},
					{Label: "Total invested", Value: output.Money(p.TotalInvested)},
					{Label: "Total returns", Value: output.Money(p.TotalReturns)},
				},
			}, growth)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&plan.InitialInvestment, "initial", 0, "initial investment")
	f.Float64Var(&plan.MonthlyContribution, "monthly", 0, "monthly contribution")
	f.Float64Var(&plan.AnnualReturn, "return", 0, "expected annual return in percent")
	f.IntVar(&plan.Years, "years", 0, "investment period in years")
	return cmd
}

func (a *app) newAffordabilityCmd() *cobra.Command {
	var in mortgage.AffordabilityInput
	cmd := &cobra.Command{
		Use:   "affordability",
		Short: "Most expensive home the income can carry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := mortgage.NewCalculator(a.logger).Affordability(in)
			if err != nil {
				return err
			}
			return a.print(cmd, output.Section{
				Title: "Affordability",
				Fields: []output.Field{
					{Label: "Max monthly payment", Value: output.Money(r.MaxPayment)},
					{Label: "Max loan", Value: output.Money(r.MaxLoan)},
					{Label: "Max home price", Value: output.Money(r.MaxHomePrice)},
					{Label: "Monthly payment", Value: output.Money(r.MonthlyPayment)},
					{Label: "Total payment", Value: output.Money(r.TotalPayment)},
					{Label: "Total interest", Value: output.Money(r.TotalInterest)},
				},
			}, output.Section{Title: "Yearly schedule", Columns: yearlyColumns, Rows: yearlyRows(r.Schedule)})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.MonthlyIncome, "income", 0, "gross monthly income")
	f.Float64Var(&in.OtherDebts, "debts", 0, "other monthly debt payments")
	f.Float64Var(&in.DownPayment, "down-payment", 0, "available down payment")
	f.Float64Var(&in.AnnualRate, "rate", 0, "annual interest rate in percent")
	f.IntVar(&in.Years, "years", 20, "loan term in years")
	return cmd
}

func (a *app) newRentBuyCmd() *cobra.Command {
	var in mortgage.RentVsBuyInput
	cmd := &cobra.Command{
		Use:   "rentbuy",
		Short: "Compare the cost of renting against buying",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := mortgage.NewCalculator(a.logger).RentVsBuy(in)
			if err != nil {
				return err
			}
			table := output.Section{Title: "Cumulative cost", Columns: []string{"Year", "Buy", "Rent", "Home value"}}
			for _, y := range r.Years {
				table.Rows = append(table.Rows, []interface{}{y.Year, output.Money(y.BuyCost), output.Money(y.RentCost), output.Money(y.HomeValue)})
			}
			return a.print(cmd, output.Section{
				Title: "Rent vs buy",
				Fields: []output.Field{
					{Label: "Total buy cost", Value: output.Money(r.TotalBuyCost)},
					{Label: "Total rent cost", Value: output.Money(r.TotalRentCost)},
					{Label: "Final home value", Value: output.Money(r.FinalHomeValue)},
					{Label: "Break-even year", Value: r.BreakEvenYear},
					{Label: "Buying cheaper", Value: r.BuyingCheaper},
					{Label: "Recommendation", Value: r.Recommendation},
				},
			}, table)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.HomePrice, "home-price", 0, "purchase price")
	f.Float64Var(&in.DownPayment, "down-payment", 0, "down payment")
	f.Float64Var(&in.AnnualRate, "rate", 0, "annual mortgage rate in percent")
	f.IntVar(&in.LoanYears, "loan-years", 20, "mortgage term in years")
	f.Float64Var(&in.MonthlyRent, "rent", 0, "current monthly rent")
	f.Float64Var(&in.HomeAppreciation, "appreciation", 3, "annual home appreciation in percent")
	f.Float64Var(&in.RentIncrease, "rent-increase", 5, "annual rent increase in percent")
	f.Float64Var(&in.PropertyTaxRate, "property-tax", 1, "annual property tax in percent of home value")
	f.Float64Var(&in.MaintenancePercent, "maintenance", 1, "annual maintenance in percent of home value")
	f.IntVar(&in.AnalysisYears, "analysis-years", 10, "years to compare")
	return cmd
}

func (a *app) newBMICmd() *cobra.Command {
	var weight, height float64
	var gender string
	cmd := &cobra.Command{
		Use:   "bmi",
		Short: "Body mass index and ideal weight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := health.CalculateBMI(weight, height, gender)
			if err != nil {
				return err
			}
			return a.print(cmd, output.Section{
				Title: "BMI",
				Fields: []output.Field{
					{Label: "BMI", Value: r.BMI},
					{Label: "Category", Value: r.Category},
					{Label: "Ideal weight (kg)", Value: r.IdealWeight},
					{Label: "Healthy range (kg)", Value: []string{p2(r.IdealMin), p2(r.IdealMax)}},
				},
			})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&weight, "weight", 0, "weight in kg")
	f.Float64Var(&height, "height", 0, "height in cm")
	f.StringVar(&gender, "gender", health.Male, "Male or Female")
	return cmd
}

func (a *app) newCaloriesCmd() *cobra.Command {
	var in health.CalorieInput
	cmd := &cobra.Command{
		Use:   "calories",
		Short: "Daily calorie needs and macronutrient split",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := health.CalculateCalories(in)
			if err != nil {
				return err
			}
			macros := output.Section{Title: "Macros", Columns: []string{"Macro", "Grams", "Calories"}}
			for _, m := range r.Macros {
				macros.Rows = append(macros.Rows, []interface{}{m.Name, m.Grams, m.Calories})
			}
			return a.print(cmd, output.Section{
				Title: "Calories",
				Fields: []output.Field{
					{Label: "BMR", Value: r.BMR},
					{Label: "TDEE", Value: r.TDEE},
					{Label: "Daily calories", Value: r.Calories},
				},
			}, macros)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.WeightKg, "weight", 0, "weight in kg")
	f.Float64Var(&in.HeightCm, "height", 0, "height in cm")
	f.IntVar(&in.Age, "age", 0, "age in years")
	f.StringVar(&in.Gender, "gender", health.Male, "Male or Female")
	f.StringVar(&in.Activity, "activity", health.ActivityLevels[0], "activity level")
	f.StringVar(&in.Goal, "goal", health.GoalMaintain, "calorie goal")
	return cmd
}

func (a *app) newHydrationCmd() *cobra.Command {
	var in health.HydrationInput
	var glasses int
	cmd := &cobra.Command{
		Use:   "hydration",
		Short: "Daily water target and drinking schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := health.CalculateHydration(in)
			if err != nil {
				return err
			}
			summary := output.Section{
				Title: "Hydration",
				Fields: []output.Field{
					{Label: "Daily target (ml)", Value: r.Ml},
					{Label: "Daily target (l)", Value: r.Liters},
					{Label: "Tips", Value: r.Tips},
				},
			}
			if cmd.Flags().Changed("glasses") {
				progress, err := health.HydrationProgress(glasses, r.Ml)
				if err != nil {
					return err
				}
				summary.Fields = append(summary.Fields,
					output.Field{Label: "Progress", Value: progress.Fraction},
					output.Field{Label: "Remaining (l)", Value: progress.RemainingLiters},
					output.Field{Label: "Status", Value: progress.Message},
				)
			}
			schedule := output.Section{Title: "Schedule", Columns: []string{"Hour", "ml"}}
			for _, h := range r.Schedule {
				schedule.Rows = append(schedule.Rows, []interface{}{h.Hour, h.Ml})
			}
			return a.print(cmd, summary, schedule)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.WeightKg, "weight", 0, "weight in kg")
	f.StringVar(&in.Activity, "activity", health.ExerciseLevels[0], "exercise level")
	f.StringVar(&in.Climate, "climate", "Moderate", "climate")
	f.BoolVar(&in.Pregnant, "pregnant", false, "pregnant or nursing")
	f.BoolVar(&in.HighAltitude, "high-altitude", false, "living at high altitude")
	f.IntVar(&in.CaffeineCups, "caffeine", 0, "caffeinated drinks per day")
	f.IntVar(&glasses, "glasses", 0, "glasses of 250 ml drunk so far today")
	return cmd
}

func (a *app) newTaxCmd() *cobra.Command {
	var in tax.Input
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Income tax under the old or new regime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := tax.Calculate(in)
			if err != nil {
				return err
			}
			return a.print(cmd, output.Section{
				Title: "Income tax",
				Fields: []output.Field{
					{Label: "Gross salary", Value: output.Money(r.GrossSalary)},
					{Label: "Deductions", Value: output.Money(r.TotalDeductions)},
					{Label: "Taxable income", Value: output.Money(r.TaxableIncome)},
					{Label: "Income tax", Value: output.Money(r.IncomeTax)},
					{Label: "Cess", Value: output.Money(r.Cess)},
					{Label: "Total tax", Value: output.Money(r.TotalTax)},
					{Label: "Annual take-home", Value: output.Money(r.AnnualTakeHome)},
					{Label: "Monthly take-home", Value: output.Money(r.MonthlyTakeHome)},
					{Label: "Effective rate (%)", Value: r.EffectiveRate},
					{Label: "Suggestions", Value: r.Suggestions},
				},
			})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.AnnualSalary, "salary", 0, "annual gross salary")
	f.StringVar(&in.Regime, "regime", tax.NewRegime, "tax regime: old or new")
	f.Float64Var(&in.Deductions.EPF, "epf", 0, "EPF contribution")
	f.Float64Var(&in.Deductions.LifeInsurance, "life-insurance", 0, "life insurance premium")
	f.Float64Var(&in.Deductions.ELSS, "elss", 0, "ELSS investment")
	f.Float64Var(&in.Deductions.MedicalInsurance, "medical-insurance", 0, "medical insurance premium")
	f.Float64Var(&in.Deductions.HomeLoanInterest, "home-loan-interest", 0, "home loan interest paid")
	return cmd
}

func (a *app) newTaskEstimateCmd() *cobra.Command {
	var complexity, taskType, experience string
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Estimate the hours a task takes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := task.EstimateTime(complexity, taskType, experience)
			if err != nil {
				return err
			}
			return a.print(cmd, estimateSection(e))
		},
	}
	f := cmd.Flags()
	f.StringVar(&complexity, "complexity", task.Complexities[1], "Low, Medium, High or Very High")
	f.StringVar(&taskType, "type", task.Types[0], "task type")
	f.StringVar(&experience, "experience", task.ExperienceLevels[1], "Beginner, Intermediate or Expert")
	return cmd
}

func estimateSection(e task.Estimate) output.Section {
	return output.Section{
		Title: "Task estimate",
		Fields: []output.Field{
			{Label: "Estimated hours", Value: e.Expected},
			{Label: "Optimistic", Value: e.Min},
			{Label: "Conservative", Value: e.Max},
		},
	}
}

func (a *app) newRecoveryCmd() *cobra.Command {
	var target, maxExtra float64
	cmd := &cobra.Command{
		Use:   "recovery",
		Short: "Plan recovery from the sleep debt of the last week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("target") {
				target = a.conf.Sleep.TargetHours
			}
			if !cmd.Flags().Changed("max-extra") {
				maxExtra = a.conf.Sleep.MaxExtraSleep
			}
			return a.withSession(func(sess *session.Session) error {
				records, err := sess.Sleep.All(cmd.Context())
				if err != nil {
					return err
				}
				plan, err := sleep.PlanRecovery(records, target, maxExtra)
				if err != nil {
					return err
				}
				schedule := output.Section{Title: "Schedule", Columns: []string{"Day", "Extra hours", "Target hours"}}
				for _, d := range plan.Schedule {
					schedule.Rows = append(schedule.Rows, []interface{}{d.Day, d.ExtraSleep, d.TotalTarget})
				}
				return a.print(cmd, output.Section{
					Title: "Sleep recovery",
					Fields: []output.Field{
						{Label: "Recent average", Value: plan.RecentAverage},
						{Label: "Sleep debt", Value: plan.Debt},
						{Label: "Recovery days", Value: plan.Days},
						{Label: "Tips", Value: plan.Tips},
					},
				}, schedule)
			})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&target, "target", 0, "target hours per night (default from config)")
	f.Float64Var(&maxExtra, "max-extra", 0, "most extra hours per night (default from config)")
	return cmd
}
