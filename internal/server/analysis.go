package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/iwvelando/calcdash/pkg/electricity"
	"github.com/iwvelando/calcdash/pkg/expense"
	"github.com/iwvelando/calcdash/pkg/grocery"
	"github.com/iwvelando/calcdash/pkg/sleep"
	"github.com/iwvelando/calcdash/pkg/task"
	"github.com/iwvelando/calcdash/pkg/validation"
)

type groceryAnalysisResponse struct {
	grocery.Report
	MealPlan []grocery.DayPlan `json:"meal_plan"`
}

type expenseAnalysisResponse struct {
	expense.Report
	Month    string   `json:"month,omitempty"`
	Category []string `json:"category,omitempty"`
}

// queryFloat returns the float query parameter name, or fallback when it is
// absent.
func queryFloat(r *http.Request, name string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", errBadRequest, name, raw)
	}
	return v, nil
}

func (h *handler) handleElectricityAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleElectricityAnalysis"
	rate, err := queryFloat(r, "rate", h.defaults.ElectricityRate)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	appliances, err := h.session.Appliances.All(r.Context())
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	report, err := electricity.Analyze(appliances, rate)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// handleExpenseAnalysis analyses every expense, or with ?month=YYYY-MM the
// expenses of that month in the repeated ?category= parameters.
func (h *handler) handleExpenseAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExpenseAnalysis"
	expenses, err := h.session.Expenses.All(r.Context())
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}

	query := r.URL.Query()
	month := query.Get("month")
	categories := query["category"]
	if month != "" {
		expenses, err = expense.Filter(expenses, month, categories)
		if err != nil {
			h.respondFailure(w, err, op)
			return
		}
	}
	report, err := expense.Analyze(expenses, h.defaults.Budgets)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, expenseAnalysisResponse{Report: report, Month: month, Category: categories})
}

func (h *handler) handleGroceryAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGroceryAnalysis"
	data, err := h.session.Grocery.Data(r.Context())
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	report, err := grocery.Analyze(data.Items)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, groceryAnalysisResponse{Report: report, MealPlan: grocery.MealPlan(data.Meals)})
}

func (h *handler) handleSleepAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSleepAnalysis"
	target, err := queryFloat(r, "target", h.defaults.SleepTarget)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	if err := validation.ValidateRange("target", target, sleep.MinTargetHours, sleep.MaxTargetHours); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	records, err := h.session.Sleep.All(r.Context())
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	stats, err := sleep.Analyze(records, target)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *handler) handleTaskAnalysis(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.session.Tasks.All(r.Context())
	if err != nil {
		h.respondFailure(w, err, "server.handleTaskAnalysis")
		return
	}
	h.writeJSON(w, http.StatusOK, task.Analyze(tasks))
}
