package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/iwvelando/calcdash/pkg/datetime"
	"github.com/iwvelando/calcdash/pkg/electricity"
	"github.com/iwvelando/calcdash/pkg/expense"
	"github.com/iwvelando/calcdash/pkg/grocery"
	"github.com/iwvelando/calcdash/pkg/sleep"
	"github.com/iwvelando/calcdash/pkg/task"
)

// defaultListDays is the shopping list range when a request omits it.
const defaultListDays = 7

type applianceRequest struct {
	Name      string  `json:"name"`
	Watts     float64 `json:"watts,omitempty"`
	Quantity  int     `json:"quantity,omitempty"`
	Hours     float64 `json:"hours"`
	DateAdded string  `json:"date_added,omitempty"`
}

type sleepRequest struct {
	Date      string `json:"date,omitempty"`
	SleepTime string `json:"sleep_time"`
	WakeTime  string `json:"wake_time"`
	Quality   string `json:"quality"`
}

type taskRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Complexity      string `json:"complexity"`
	Type            string `json:"type"`
	ExperienceLevel string `json:"experience_level"`
}

type shoppingListRequest struct {
	StartDate string `json:"start_date,omitempty"`
	Days      int    `json:"days,omitempty"`
}

type expenseListResponse struct {
	Expenses []expense.Expense `json:"expenses"`
	Total    float64           `json:"total"`
	Months   []string          `json:"months"`
}

// dayOrToday parses a YYYY-MM-DD date, defaulting to the current day.
func (h *handler) dayOrToday(date string) (time.Time, error) {
	if date == "" {
		return h.now(), nil
	}
	day, err := datetime.ParseDay(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return day, nil
}

func (h *handler) handleListAppliances(w http.ResponseWriter, r *http.Request) {
	appliances, err := h.session.Appliances.All(r.Context())
	if err != nil {
		h.respondFailure(w, err, "server.handleListAppliances")
		return
	}
	h.writeJSON(w, http.StatusOK, appliances)
}

func (h *handler) handleAddAppliance(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddAppliance"
	var req applianceRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	if req.Watts == 0 {
		watts, ok := electricity.CommonWatts(req.Name)
		if !ok {
			h.respondFailure(w, fmt.Errorf("%w: watts are required for %q", errBadRequest, req.Name), op)
			return
		}
		req.Watts = watts
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	added, err := h.dayOrToday(req.DateAdded)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}

	appliance := electricity.NewAppliance(req.Name, req.Watts, req.Quantity, req.Hours, added)
	if _, err := h.session.Appliances.Append(r.Context(), appliance); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, appliance)
}

// handleListExpenses lists the expenses log. With ?month=YYYY-MM only that
// month is returned, newest first, optionally narrowed by repeated
// ?category= parameters.
func (h *handler) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListExpenses"
	expenses, err := h.session.Expenses.All(r.Context())
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	months, err := expense.Months(expenses)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}

	query := r.URL.Query()
	if month := query.Get("month"); month != "" {
		expenses, err = expense.Filter(expenses, month, query["category"])
		if err != nil {
			h.respondFailure(w, err, op)
			return
		}
	}
	h.writeJSON(w, http.StatusOK, expenseListResponse{
		Expenses: expenses,
		Total:    expense.Total(expenses),
		Months:   months,
	})
}

func (h *handler) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddExpense"
	var e expense.Expense
	if err := h.decodeBody(w, r, &e); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	if e.Date == "" {
		e.Date = datetime.FormatDay(h.now())
	}
	if _, err := h.session.Expenses.Append(r.Context(), e); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, e)
}

func (h *handler) handleListSleep(w http.ResponseWriter, r *http.Request) {
	records, err := h.session.Sleep.All(r.Context())
	if err != nil {
		h.respondFailure(w, err, "server.handleListSleep")
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

func (h *handler) handleAddSleep(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddSleep"
	var req sleepRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	date, err := h.dayOrToday(req.Date)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	record, err := sleep.NewRecord(date, req.SleepTime, req.WakeTime, req.Quality)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	if _, err := h.session.Sleep.Append(r.Context(), record); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, record)
}

func (h *handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.session.Tasks.All(r.Context())
	if err != nil {
		h.respondFailure(w, err, "server.handleListTasks")
		return
	}
	h.writeJSON(w, http.StatusOK, tasks)
}

func (h *handler) handleAddTask(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddTask"
	var req taskRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	t, err := task.NewTask(req.Name, req.Description, req.Complexity, req.Type, req.ExperienceLevel, h.now())
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	if _, err := h.session.Tasks.Append(r.Context(), t); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, t)
}

func (h *handler) handleListGroceryItems(w http.ResponseWriter, r *http.Request) {
	data, err := h.session.Grocery.Data(r.Context())
	if err != nil {
		h.respondFailure(w, err, "server.handleListGroceryItems")
		return
	}
	h.writeJSON(w, http.StatusOK, data.Items)
}

func (h *handler) handleAddGroceryItem(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddGroceryItem"
	var item grocery.Item
	if err := h.decodeBody(w, r, &item); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	if item.Date == "" {
		item.Date = datetime.FormatDay(h.now())
	}
	if _, err := h.session.Grocery.AddItem(r.Context(), item); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, item)
}

// handleListMeals returns the meal plan grouped by day.
func (h *handler) handleListMeals(w http.ResponseWriter, r *http.Request) {
	data, err := h.session.Grocery.Data(r.Context())
	if err != nil {
		h.respondFailure(w, err, "server.handleListMeals")
		return
	}
	h.writeJSON(w, http.StatusOK, grocery.MealPlan(data.Meals))
}

func (h *handler) handleAddMeal(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddMeal"
	var meal grocery.Meal
	if err := h.decodeBody(w, r, &meal); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	if meal.Date == "" {
		meal.Date = datetime.FormatDay(h.now())
	}
	if _, err := h.session.Grocery.AddMeal(r.Context(), meal); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, meal)
}

func (h *handler) handleListShoppingLists(w http.ResponseWriter, r *http.Request) {
	data, err := h.session.Grocery.Data(r.Context())
	if err != nil {
		h.respondFailure(w, err, "server.handleListShoppingLists")
		return
	}
	h.writeJSON(w, http.StatusOK, data.ShoppingLists)
}

// handleAddShoppingList generates a shopping list from the stored meal plan
// and persists it.
func (h *handler) handleAddShoppingList(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddShoppingList"
	var req shoppingListRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	start, err := h.dayOrToday(req.StartDate)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	if req.Days == 0 {
		req.Days = defaultListDays
	}

	list, err := h.session.Grocery.AddShoppingList(r.Context(), start, req.Days, h.now())
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, struct {
		grocery.ShoppingList
		ByCategory []grocery.CategoryLines `json:"by_category"`
	}{list, list.ByCategory()})
}
