// Package grocery models purchased grocery items, planned meals and the
// shopping lists generated from them.
package grocery

import (
	"errors"
	"fmt"

	"github.com/iwvelando/calcdash/pkg/datetime"
)

// Category is a grocery aisle and the items it stocks.
type Category struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// Catalogue lists the grocery categories in display order.
var Catalogue = []Category{
	{"Fruits & Vegetables", []string{"Apples", "Bananas", "Oranges", "Tomatoes", "Potatoes", "Onions", "Carrots"}},
	{"Dairy & Eggs", []string{"Milk", "Cheese", "Yogurt", "Butter", "Eggs"}},
	{"Grains & Cereals", []string{"Rice", "Wheat Flour", "Bread", "Pasta", "Oats"}},
	{"Protein", []string{"Chicken", "Fish", "Tofu", "Lentils", "Beans"}},
	{"Pantry Items", []string{"Oil", "Sugar", "Salt", "Spices", "Tea", "Coffee"}},
}

// MealTypes are the meals of a day.
var MealTypes = []string{"Breakfast", "Lunch", "Dinner"}

// ErrUnknownCategory is returned for a category or item outside the Catalogue.
var ErrUnknownCategory = errors.New("unknown grocery category")

// CategoryOf returns the catalogue category stocking item.
func CategoryOf(item string) (string, bool) {
	for _, c := range Catalogue {
		for _, i := range c.Items {
			if i == item {
				return c.Name, true
			}
		}
	}
	return "", false
}

// AllItems returns every catalogue item in display order.
func AllItems() []string {
	items := make([]string, 0)
	for _, c := range Catalogue {
		items = append(items, c.Items...)
	}
	return items
}

// Item is one purchased grocery item.
type Item struct {
	Category string  `json:"category"`
	Item     string  `json:"item"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Date     string  `json:"date"`
}

// Validate checks that the item is stocked by its category.
func (i Item) Validate() error {
	category, ok := CategoryOf(i.Item)
	if !ok || category != i.Category {
		return fmt.Errorf("%w: item %q in category %q", ErrUnknownCategory, i.Item, i.Category)
	}
	if i.Quantity < 1 {
		return fmt.Errorf("item %q: quantity must be at least 1, got %d", i.Item, i.Quantity)
	}
	if i.Price < 0 {
		return fmt.Errorf("item %q: price must not be negative, got %v", i.Item, i.Price)
	}
	if _, err := datetime.ParseDay(i.Date); err != nil {
		return fmt.Errorf("item %q: %w", i.Item, err)
	}
	return nil
}

// Meal is one planned meal.
type Meal struct {
	Date        string   `json:"date"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Servings    int      `json:"servings"`
}

// Validate checks the meal fields.
func (m Meal) Validate() error {
	if _, err := datetime.ParseDay(m.Date); err != nil {
		return fmt.Errorf("meal %q: %w", m.Name, err)
	}
	known := false
	for _, t := range MealTypes {
		if t == m.Type {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("meal %q: unknown meal type %q", m.Name, m.Type)
	}
	if m.Servings < 1 {
		return fmt.Errorf("meal %q: servings must be at least 1, got %d", m.Name, m.Servings)
	}
	for _, ing := range m.Ingredients {
		if ing == "" {
			return fmt.Errorf("meal %q: empty ingredient", m.Name)
		}
	}
	return nil
}

// ListItem is one line of a shopping list.
type ListItem struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// ShoppingList is a generated list of ingredients for a date range.
type ShoppingList struct {
	DateCreated string     `json:"date_created"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	Items       []ListItem `json:"items"`
}

// Validate checks the list dates and quantities.
func (l ShoppingList) Validate() error {
	for _, d := range []string{l.DateCreated, l.StartDate, l.EndDate} {
		if _, err := datetime.ParseDay(d); err != nil {
			return fmt.Errorf("shopping list: %w", err)
		}
	}
	if l.EndDate < l.StartDate {
		return fmt.Errorf("shopping list ends %s before it starts %s", l.EndDate, l.StartDate)
	}
	for _, i := range l.Items {
		if i.Item == "" || i.Quantity < 1 {
			return fmt.Errorf("shopping list: invalid line %+v", i)
		}
	}
	return nil
}

// Data is the grocery_data document.
type Data struct {
	Items         []Item         `json:"items"`
	Meals         []Meal         `json:"meals"`
	ShoppingLists []ShoppingList `json:"shopping_lists"`
}

// NewData returns an empty document.
func NewData() Data {
	return Data{
		Items:         []Item{},
		Meals:         []Meal{},
		ShoppingLists: []ShoppingList{},
	}
}

// Normalize replaces missing sections with empty ones.
func (d *Data) Normalize() {
	if d.Items == nil {
		d.Items = []Item{}
	}
	if d.Meals == nil {
		d.Meals = []Meal{}
	}
	if d.ShoppingLists == nil {
		d.ShoppingLists = []ShoppingList{}
	}
}

// Validate checks every record of the document.
func (d Data) Validate() error {
	for i, item := range d.Items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	for i, meal := range d.Meals {
		if err := meal.Validate(); err != nil {
			return fmt.Errorf("meals[%d]: %w", i, err)
		}
	}
	for i, list := range d.ShoppingLists {
		if err := list.Validate(); err != nil {
			return fmt.Errorf("shopping_lists[%d]: %w", i, err)
		}
	}
	return nil
}
