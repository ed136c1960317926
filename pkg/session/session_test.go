package session

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/calcdash/pkg/constants"
	"github.com/iwvelando/calcdash/pkg/electricity"
	"github.com/iwvelando/calcdash/pkg/expense"
	"github.com/iwvelando/calcdash/pkg/grocery"
	"github.com/iwvelando/calcdash/pkg/recordlog"
	"github.com/iwvelando/calcdash/pkg/sleep"
	"github.com/iwvelando/calcdash/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func day(s string) time.Time {
	t, err := time.Parse(constants.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestHandleAppendAndAll(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemoryStore(), zap.NewNop())

	empty, err := s.Expenses.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	entries := []expense.Expense{
		{Amount: 250, Category: "Food", Description: "groceries", Date: "2025-01-03"},
		{Amount: 1200, Category: "Housing", Description: "rent", Date: "2025-01-01"},
		{Amount: 40, Category: "Transportation", Description: "bus", Date: "2025-01-05"},
	}
	for _, e := range entries {
		_, err := s.Expenses.Append(ctx, e)
		require.NoError(t, err)
	}

	got, err := s.Expenses.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestHandleAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemoryStore(), nil)

	_, err := s.Appliances.Append(ctx, electricity.NewAppliance("Fan", 75, 2, 10, day("2025-01-01")))
	require.NoError(t, err)

	first, err := s.Appliances.All(ctx)
	require.NoError(t, err)
	first[0].Name = "changed"

	second, err := s.Appliances.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fan", second[0].Name)
}

func TestHandleRejectsInvalidRecord(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemoryStore(), nil)

	_, err := s.Expenses.Append(ctx, expense.Expense{Amount: 10, Category: "Gadgets", Date: "2025-01-01"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, recordlog.ErrInvalidRecord))

	got, err := s.Expenses.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHandleConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemoryStore(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Expenses.Append(ctx, expense.Expense{Amount: 1, Category: "Other", Date: "2025-02-01"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Expenses.All(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

func TestInvalidateReloadsFromStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	s := New(store, nil)

	got, err := s.Expenses.All(ctx)
	require.NoError(t, err)
	require.Empty(t, got)

	// Another writer replaces the stored collection.
	require.NoError(t, store.Write(ctx, constants.KeyExpenses,
		[]byte(`[{"amount":5,"category":"Food","description":"tea","date":"2025-03-01"}]`)))

	got, err = s.Expenses.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "cached snapshot is served until invalidated")

	assert.True(t, s.Invalidate(constants.KeyExpenses))
	got, err = s.Expenses.All(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tea", got[0].Description)

	assert.False(t, s.Invalidate("unrelated"))
}

func TestGroceryDocument(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemoryStore(), nil)

	data, err := s.Grocery.Data(ctx)
	require.NoError(t, err)
	assert.NotNil(t, data.Items)
	assert.NotNil(t, data.Meals)
	assert.NotNil(t, data.ShoppingLists)

	_, err = s.Grocery.AddItem(ctx, grocery.Item{Category: "Dairy & Eggs", Item: "Milk", Quantity: 2, Price: 60, Date: "2025-01-02"})
	require.NoError(t, err)

	_, err = s.Grocery.AddItem(ctx, grocery.Item{Category: "Protein", Item: "Milk", Quantity: 1, Price: 30, Date: "2025-01-02"})
	assert.True(t, errors.Is(err, recordlog.ErrInvalidRecord))

	meals := []grocery.Meal{
		{Date: "2025-01-06", Type: "Breakfast", Name: "Omelette", Ingredients: []string{"Eggs", "Milk"}, Servings: 1},
		{Date: "2025-01-07", Type: "Dinner", Name: "Dal", Ingredients: []string{"Lentils", "Rice", "Spices"}, Servings: 2},
		{Date: "2025-01-20", Type: "Lunch", Name: "Pasta", Ingredients: []string{"Pasta"}, Servings: 2},
	}
	for _, m := range meals {
		_, err := s.Grocery.AddMeal(ctx, m)
		require.NoError(t, err)
	}

	list, err := s.Grocery.AddShoppingList(ctx, day("2025-01-06"), 7, day("2025-01-05"))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-06", list.StartDate)
	assert.Equal(t, "2025-01-13", list.EndDate)
	assert.Len(t, list.Items, 5)

	data, err = s.Grocery.Data(ctx)
	require.NoError(t, err)
	assert.Len(t, data.Items, 1)
	assert.Len(t, data.Meals, 3)
	require.Len(t, data.ShoppingLists, 1)
	assert.Equal(t, list, data.ShoppingLists[0])
}

func TestGroceryShoppingListWithoutMeals(t *testing.T) {
	s := New(storage.NewMemoryStore(), nil)

	_, err := s.Grocery.AddShoppingList(context.Background(), day("2025-01-06"), 7, day("2025-01-05"))
	assert.True(t, errors.Is(err, grocery.ErrNoMeals))

	data, err := s.Grocery.Data(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data.ShoppingLists)
}

func TestLoadsLegacyLogs(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	// Older versions put every wake time on the next day and saved custom
	// appliances with an empty name.
	require.NoError(t, store.Write(ctx, constants.KeySleep, []byte(`[
		{"date": "2024-01-01", "sleep_time": "23:00", "wake_time": "07:00", "duration": 8.0, "quality": "Good"},
		{"date": "2024-01-02", "sleep_time": "00:30", "wake_time": "07:00", "duration": 30.5, "quality": "Fair"}
	]`)))
	require.NoError(t, store.Write(ctx, constants.KeyAppliances, []byte(`[
		{"name": "", "watts": 100, "quantity": 1, "hours": 2.5, "daily_kwh": 0.25, "date_added": "2024-01-02"}
	]`)))
	s := New(store, nil)

	records, err := s.Sleep.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 30.5, records[1].Duration)

	// New records are still held to the append rules and the legacy ones
	// survive the rewrite.
	_, err = s.Sleep.Append(ctx, sleep.Record{Date: "2024-01-03", SleepTime: "00:30", WakeTime: "07:00", Duration: 30.5, Quality: "Good"})
	assert.True(t, errors.Is(err, recordlog.ErrInvalidRecord))
	next, err := sleep.NewRecord(day("2024-01-03"), "00:30", "07:00", "Good")
	require.NoError(t, err)
	got, err := s.Sleep.Append(ctx, next)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	appliances, err := s.Appliances.All(ctx)
	require.NoError(t, err)
	require.Len(t, appliances, 1)
	assert.Equal(t, "", appliances[0].Name)

	_, err = s.Appliances.Append(ctx, electricity.NewAppliance("", 100, 1, 1, day("2024-01-03")))
	assert.True(t, errors.Is(err, recordlog.ErrInvalidRecord))

	// Shape checks still apply on load.
	require.NoError(t, store.Write(ctx, constants.KeySleep, []byte(`[
		{"date": "2024-01-04", "sleep_time": "23:00", "wake_time": "07:00", "duration": 0, "quality": "Good"}
	]`)))
	s.Invalidate(constants.KeySleep)
	_, err = s.Sleep.All(ctx)
	var readErr *recordlog.StorageReadError
	assert.True(t, errors.As(err, &readErr))
}

func TestGroceryDataIsDeepCopy(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemoryStore(), nil)

	_, err := s.Grocery.AddMeal(ctx, grocery.Meal{Date: "2025-01-06", Type: "Dinner", Name: "Dal", Ingredients: []string{"Lentils", "Rice"}, Servings: 2})
	require.NoError(t, err)
	_, err = s.Grocery.AddShoppingList(ctx, day("2025-01-06"), 1, day("2025-01-05"))
	require.NoError(t, err)

	data, err := s.Grocery.Data(ctx)
	require.NoError(t, err)
	data.Meals[0].Ingredients[0] = "Chicken"
	data.ShoppingLists[0].Items[0].Quantity = 99

	again, err := s.Grocery.Data(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lentils", "Rice"}, again.Meals[0].Ingredients)
	assert.Equal(t, 1, again.ShoppingLists[0].Items[0].Quantity)
}

func TestStorageErrorsSurface(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Write(ctx, constants.KeySleep, []byte(`{not json`)))
	s := New(store, nil)

	_, err := s.Sleep.All(ctx)
	var readErr *recordlog.StorageReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, constants.KeySleep, readErr.Key)
}

func TestWatchInvalidatesOnExternalWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	store := storage.NewFileStore(dir)
	s := New(store, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	got, err := s.Expenses.All(ctx)
	require.NoError(t, err)
	require.Empty(t, got)

	go func() { done <- s.Watch(ctx, store) }()

	payload := []byte(`[{"amount":9,"category":"Food","description":"chai","date":"2025-04-01"}]`)
	require.Eventually(t, func() bool {
		if err := os.WriteFile(store.Path(constants.KeyExpenses), payload, 0o644); err != nil {
			return false
		}
		rs, err := s.Expenses.All(ctx)
		return err == nil && len(rs) == 1
	}, 5*time.Second, 25*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
