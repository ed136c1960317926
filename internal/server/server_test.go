package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/calcdash/pkg/constants"
	"github.com/iwvelando/calcdash/pkg/electricity"
	"github.com/iwvelando/calcdash/pkg/expense"
	"github.com/iwvelando/calcdash/pkg/grocery"
	"github.com/iwvelando/calcdash/pkg/health"
	"github.com/iwvelando/calcdash/pkg/session"
	"github.com/iwvelando/calcdash/pkg/sleep"
	"github.com/iwvelando/calcdash/pkg/storage"
	"github.com/iwvelando/calcdash/pkg/task"
	"github.com/iwvelando/calcdash/pkg/tax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

func newTestHandler(t *testing.T, store storage.ByteStore) (http.Handler, *session.Session) {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStore()
	}
	s := session.New(store, zap.NewNop())
	h := NewHandler(Options{
		Logger:      zap.NewNop(),
		Session:     s,
		MaxBodySize: 4096,
		Version:     "1.2.3",
		Now:         func() time.Time { return fixedNow },
	})
	return h, s
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHandleVersion(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rr := do(t, h, http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))

	resp := decode[map[string]string](t, rr)
	assert.Equal(t, "1.2.3", resp["version"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rr := do(t, h, http.MethodGet, "/api/calc/loan", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestCalculators(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	t.Run("Loan", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/calc/loan",
			`{"principal":100000,"interest_rate":10,"term_months":60}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		resp := decode[loanResponse](t, rr)
		assert.InDelta(t, 2124.70, resp.MonthlyPayment, 0.01)
		assert.GreaterOrEqual(t, resp.TotalPayment, 100000.0)
		assert.Len(t, resp.Schedule, 60)
		assert.Len(t, resp.Yearly, 5)
	})

	t.Run("BMI", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/calc/bmi", `{"weight":70,"height":170,"gender":"Male"}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		resp := decode[health.BMIResult](t, rr)
		assert.InDelta(t, 24.2, resp.BMI, 0.05)
		assert.Equal(t, health.NormalWeight, resp.Category)
	})

	t.Run("Tax", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/calc/tax", `{"annual_salary":700000,"regime":"new"}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		resp := decode[tax.Result](t, rr)
		assert.InDelta(t, 26000, resp.TotalTax, 0.01)
	})

	t.Run("Task", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/calc/task",
			`{"complexity":"Medium","type":"Development","experience_level":"Intermediate"}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		resp := decode[task.Estimate](t, rr)
		assert.InDelta(t, 3.0, resp.Expected, 1e-9)
		assert.InDelta(t, 2.4, resp.Min, 1e-9)
		assert.InDelta(t, 3.6, resp.Max, 1e-9)
	})

	t.Run("Hydration with progress", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/calc/hydration",
			`{"weight":70,"activity_level":"Sedentary","climate":"Moderate","glasses":4}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		resp := decode[hydrationResponse](t, rr)
		assert.Greater(t, resp.Ml, 0.0)
		assert.Len(t, resp.Schedule, 16)
		require.NotNil(t, resp.Progress)
	})

	t.Run("Investment", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/calc/investment",
			`{"initial_investment":10000,"monthly_contribution":1000,"annual_return":8,"years":10}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	})
}

func TestCalculatorErrors(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"Malformed JSON", "/api/calc/loan", `{"principal":`, http.StatusBadRequest},
		{"Unknown field", "/api/calc/bmi", `{"weight":70,"height":170,"gender":"Male","age":3}`, http.StatusBadRequest},
		{"Invalid loan", "/api/calc/loan", `{"principal":-1,"interest_rate":10,"term_months":60}`, http.StatusBadRequest},
		{"Unknown regime", "/api/calc/tax", `{"annual_salary":700000,"regime":"flat"}`, http.StatusBadRequest},
		{"Unknown complexity", "/api/calc/task", `{"complexity":"Huge","type":"Development","experience_level":"Expert"}`, http.StatusBadRequest},
		{"Body too large", "/api/calc/tax", `{"annual_salary":700000,"regime":"` + strings.Repeat("x", 5000) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, tt.target, tt.body)
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			resp := decode[map[string]string](t, rr)
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestExpenseLogAndAnalysis(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	for _, body := range []string{
		`{"amount":1500,"category":"Food","description":"groceries","date":"2025-01-03"}`,
		`{"amount":12000,"category":"Housing","description":"rent","date":"2025-01-01"}`,
		`{"amount":300,"category":"Food","description":"dinner","date":"2024-12-28"}`,
		`{"amount":80,"category":"Transportation","description":"metro"}`,
	} {
		rr := do(t, h, http.MethodPost, "/api/logs/expenses", body)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr := do(t, h, http.MethodPost, "/api/logs/expenses", `{"amount":5,"category":"Gadgets","date":"2025-01-03"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/logs/expenses?month=2025-01&category=Food&category=Transportation", "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[expenseListResponse](t, rr)
	require.Len(t, list.Expenses, 2)
	assert.Equal(t, "2025-01-15", list.Expenses[0].Date, "newest first, dated today when omitted")
	assert.InDelta(t, 1580, list.Total, 1e-9)
	assert.Equal(t, []string{"2024-12", "2025-01"}, list.Months)

	rr = do(t, h, http.MethodGet, "/api/analysis/expenses?month=2025-01", "")
	require.Equal(t, http.StatusOK, rr.Code)
	report := decode[expenseAnalysisResponse](t, rr)
	assert.InDelta(t, 13580, report.TotalSpent, 1e-9)
	require.NotNil(t, report.HighestCategory)
	assert.Equal(t, "Housing", report.HighestCategory.Key)
	assert.Len(t, report.Comparison, len(expense.Categories))
}

func TestApplianceLogAndAnalysis(t *testing.T) {
	h, s := newTestHandler(t, nil)

	rr := do(t, h, http.MethodPost, "/api/logs/appliances", `{"name":"Refrigerator","hours":24}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[electricity.Appliance](t, rr)
	assert.InDelta(t, 150, created.Watts, 1e-9)
	assert.Equal(t, 1, created.Quantity)
	assert.Equal(t, "2025-01-15", created.DateAdded)

	rr = do(t, h, http.MethodPost, "/api/logs/appliances", `{"name":"Mystery Box","hours":2}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	stored, err := s.Appliances.All(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)

	rr = do(t, h, http.MethodGet, "/api/analysis/electricity?rate=10", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	report := decode[electricity.Report](t, rr)
	assert.InDelta(t, created.DailyKWh, report.DailyKWh, 1e-9)
	assert.InDelta(t, created.DailyKWh*30*10, report.MonthlyBill, 1e-6)

	rr = do(t, h, http.MethodGet, "/api/analysis/electricity?rate=abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSleepLogAnalysisAndRecovery(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	for _, body := range []string{
		`{"date":"2025-01-10","sleep_time":"23:00","wake_time":"06:00","quality":"Fair"}`,
		`{"date":"2025-01-11","sleep_time":"01:00","wake_time":"07:00","quality":"Poor"}`,
	} {
		rr := do(t, h, http.MethodPost, "/api/logs/sleep", body)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr := do(t, h, http.MethodGet, "/api/logs/sleep", "")
	require.Equal(t, http.StatusOK, rr.Code)
	records := decode[[]sleep.Record](t, rr)
	require.Len(t, records, 2)
	assert.InDelta(t, 6.0, records[1].Duration, 1e-9)

	rr = do(t, h, http.MethodGet, "/api/analysis/sleep", "")
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[sleep.Stats](t, rr)
	assert.InDelta(t, 6.5, stats.AverageDuration, 1e-9)
	assert.InDelta(t, 3.0, stats.TotalDebt, 1e-9)

	rr = do(t, h, http.MethodGet, "/api/analysis/sleep?target=12", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/calc/sleep-recovery", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	plan := decode[sleep.Recovery](t, rr)
	assert.InDelta(t, 3.0, plan.Debt, 1e-9)
	assert.Equal(t, 2, plan.Days)
	require.Len(t, plan.Schedule, 2)
	assert.InDelta(t, 1.0, plan.Schedule[1].ExtraSleep, 1e-9)

	rr = do(t, h, http.MethodPost, "/api/calc/sleep-recovery", `{"max_extra_sleep":9}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTaskLogAndAnalysis(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rr := do(t, h, http.MethodPost, "/api/logs/tasks",
		`{"name":"API","description":"build api","complexity":"High","type":"Development","experience_level":"Expert"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[task.Task](t, rr)
	assert.InDelta(t, 5.6, created.EstimatedTime, 1e-9)

	rr = do(t, h, http.MethodGet, "/api/analysis/tasks", "")
	require.Equal(t, http.StatusOK, rr.Code)
	report := decode[task.Report](t, rr)
	assert.Equal(t, 1, report.TotalTasks)
	assert.Equal(t, "Development", report.MostCommonType)
}

func TestGroceryEndpoints(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rr := do(t, h, http.MethodPost, "/api/logs/grocery/shopping-lists", `{"start_date":"2025-01-15"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "no meals planned yet")

	rr = do(t, h, http.MethodPost, "/api/logs/grocery/items",
		`{"category":"Dairy & Eggs","item":"Milk","quantity":2,"price":60,"date":"2025-01-02"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, h, http.MethodPost, "/api/logs/grocery/meals",
		`{"date":"2025-01-16","type":"Dinner","name":"Dal","ingredients":["Lentils","Rice"],"servings":2}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, h, http.MethodPost, "/api/logs/grocery/shopping-lists", `{}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var list struct {
		grocery.ShoppingList
		ByCategory []grocery.CategoryLines `json:"by_category"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, "2025-01-15", list.StartDate)
	assert.Equal(t, "2025-01-22", list.EndDate)
	assert.Len(t, list.Items, 2)
	assert.Len(t, list.ByCategory, 2)

	rr = do(t, h, http.MethodGet, "/api/logs/grocery/shopping-lists", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]grocery.ShoppingList](t, rr), 1)

	rr = do(t, h, http.MethodGet, "/api/logs/grocery/meals", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]grocery.DayPlan](t, rr), 1)

	rr = do(t, h, http.MethodGet, "/api/analysis/grocery", "")
	require.Equal(t, http.StatusOK, rr.Code)
	report := decode[groceryAnalysisResponse](t, rr)
	assert.InDelta(t, 60, report.TotalSpent, 1e-9)
	assert.InDelta(t, 66, report.RecommendedBudget, 1e-9)
}

type brokenStore struct{}

func (brokenStore) Read(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}
func (brokenStore) Write(context.Context, string, []byte) error { return errors.New("disk on fire") }
func (brokenStore) Close() error                                { return nil }

func TestStorageFailuresAre500(t *testing.T) {
	h, _ := newTestHandler(t, brokenStore{})

	rr := do(t, h, http.MethodGet, "/api/logs/expenses", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, decode[map[string]string](t, rr)["error"], "disk on fire")

	rr = do(t, h, http.MethodPost, "/api/logs/tasks",
		`{"name":"x","description":"y","complexity":"Low","type":"Testing","experience_level":"Beginner"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestServeStopsOnCancel(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, &Config{Address: "127.0.0.1:0", ShutdownTimeout: time.Second}, h, zap.NewNop())
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestPersistedFormat(t *testing.T) {
	store := storage.NewMemoryStore()
	h, _ := newTestHandler(t, store)

	rr := do(t, h, http.MethodPost, "/api/logs/expenses", `{"amount":10,"category":"Other","description":"pen","date":"2025-01-02"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	raw, err := store.Read(context.Background(), constants.KeyExpenses)
	require.NoError(t, err)
	var stored []map[string]interface{}
	require.NoError(t, json.NewDecoder(bytes.NewReader(raw)).Decode(&stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "pen", stored[0]["description"])
	assert.Equal(t, "2025-01-02", stored[0]["date"])
}
