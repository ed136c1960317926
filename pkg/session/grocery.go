package session

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/iwvelando/calcdash/pkg/constants"
	"github.com/iwvelando/calcdash/pkg/grocery"
	"github.com/iwvelando/calcdash/pkg/recordlog"
	"github.com/iwvelando/calcdash/pkg/storage"
	"go.uber.org/zap"
)

// GroceryHandle guards the grocery document, which keeps items, meals and
// shopping lists in one stored object.
type GroceryHandle struct {
	mu     sync.Mutex
	doc    *recordlog.Document[grocery.Data]
	cached grocery.Data
	loaded bool
	logger *zap.Logger
}

func newGroceryHandle(store storage.ByteStore, logger *zap.Logger) *GroceryHandle {
	return &GroceryHandle{
		doc:    recordlog.NewDocument(store, constants.KeyGrocery, grocery.NewData, logger),
		logger: logger,
	}
}

// Key returns the storage key of the grocery document.
func (g *GroceryHandle) Key() string {
	return g.doc.Key()
}

// Data returns a copy of the stored grocery document.
func (g *GroceryHandle) Data(ctx context.Context) (grocery.Data, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.ensureLoaded(ctx); err != nil {
		return grocery.NewData(), err
	}
	return cloneData(g.cached), nil
}

// AddItem validates and persists a purchased item.
func (g *GroceryHandle) AddItem(ctx context.Context, item grocery.Item) (grocery.Data, error) {
	if err := item.Validate(); err != nil {
		return grocery.Data{}, fmt.Errorf("%w: %v", recordlog.ErrInvalidRecord, err)
	}
	return g.update(ctx, "session.AddItem", func(d *grocery.Data) error {
		d.Items = append(d.Items, item)
		return nil
	})
}

// AddMeal validates and persists a planned meal.
func (g *GroceryHandle) AddMeal(ctx context.Context, meal grocery.Meal) (grocery.Data, error) {
	if err := meal.Validate(); err != nil {
		return grocery.Data{}, fmt.Errorf("%w: %v", recordlog.ErrInvalidRecord, err)
	}
	return g.update(ctx, "session.AddMeal", func(d *grocery.Data) error {
		d.Meals = append(d.Meals, meal)
		return nil
	})
}

// AddShoppingList builds a shopping list from the stored meals planned in
// [start, start+days] and persists it.
func (g *GroceryHandle) AddShoppingList(ctx context.Context, start time.Time, days int, created time.Time) (grocery.ShoppingList, error) {
	var list grocery.ShoppingList
	_, err := g.update(ctx, "session.AddShoppingList", func(d *grocery.Data) error {
		generated, err := grocery.GenerateShoppingList(d.Meals, start, days, created)
		if err != nil {
			return err
		}
		list = generated
		d.ShoppingLists = append(d.ShoppingLists, list)
		return nil
	})
	if err != nil {
		return grocery.ShoppingList{}, err
	}
	return list, nil
}

// Invalidate drops the cached document so the next read hits the store.
func (g *GroceryHandle) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cached = grocery.Data{}
	g.loaded = false
}

func (g *GroceryHandle) ensureLoaded(ctx context.Context) error {
	if g.loaded {
		return nil
	}
	data, err := g.doc.Load(ctx)
	if err != nil {
		return err
	}
	data.Normalize()
	g.cached = data
	g.loaded = true
	return nil
}

// update reloads the document, applies mutate to a copy and writes it back.
// The cache only changes once the write succeeds.
func (g *GroceryHandle) update(ctx context.Context, op string, mutate func(*grocery.Data) error) (grocery.Data, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.loaded = false
	if err := g.ensureLoaded(ctx); err != nil {
		return grocery.Data{}, err
	}
	next := cloneData(g.cached)
	if err := mutate(&next); err != nil {
		return grocery.Data{}, err
	}
	if err := g.doc.Save(ctx, next); err != nil {
		return grocery.Data{}, err
	}
	g.cached = next
	g.logger.Debug("grocery document updated",
		zap.String("op", op),
		zap.Int("items", len(next.Items)),
		zap.Int("meals", len(next.Meals)),
		zap.Int("shoppingLists", len(next.ShoppingLists)),
	)
	return cloneData(next), nil
}

func cloneData(d grocery.Data) grocery.Data {
	out := grocery.Data{
		Items:         slices.Clone(d.Items),
		Meals:         slices.Clone(d.Meals),
		ShoppingLists: slices.Clone(d.ShoppingLists),
	}
	for i := range out.Meals {
		out.Meals[i].Ingredients = slices.Clone(out.Meals[i].Ingredients)
	}
	for i := range out.ShoppingLists {
		out.ShoppingLists[i].Items = slices.Clone(out.ShoppingLists[i].Items)
	}
	out.Normalize()
	return out
}
