package menu

import (
	"fmt"
	"slices"

	"github.com/angelmondragon/restaurant-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Currency is the ISO code menu prices are expressed in.
const Currency = "PLN"

// AddOnOption is an optional extra offered for a menu item.
type AddOnOption struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Mode  enums.AddOnMode `json:"type"`
}

type Item struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"desc,omitempty"`
	BasePrice   decimal.Decimal `json:"basePrice"`
	Vegetarian  bool            `json:"veg"`
	AddOns      []AddOnOption   `json:"addOns,omitempty"`
}

type Category struct {
	Name  string `json:"category"`
	Items []Item `json:"items"`
}

// Catalog is an immutable, id-indexed menu.
type Catalog struct {
	categories []Category
	byID       map[string]Item
}

// NewCatalog validates the categories and indexes their items.
func NewCatalog(categories []Category) (*Catalog, error) {
	byID := make(map[string]Item)
	for _, category := range categories {
		for _, item := range category.Items {
			if item.ID == "" {
				return nil, fmt.Errorf("category %q has an item without id", category.Name)
			}
			if _, dup := byID[item.ID]; dup {
				return nil, fmt.Errorf("duplicate menu item id %q", item.ID)
			}
			if item.BasePrice.IsNegative() {
				return nil, fmt.Errorf("menu item %q has a negative price", item.ID)
			}
			seen := make(map[string]struct{}, len(item.AddOns))
			for _, opt := range item.AddOns {
				if _, dup := seen[opt.ID]; dup || opt.ID == "" {
					return nil, fmt.Errorf("menu item %q has an invalid add-on id %q", item.ID, opt.ID)
				}
				seen[opt.ID] = struct{}{}
				if opt.Price.IsNegative() {
					return nil, fmt.Errorf("add-on %q of %q has a negative price", opt.ID, item.ID)
				}
				if !opt.Mode.IsValid() {
					return nil, fmt.Errorf("add-on %q of %q has invalid mode %q", opt.ID, item.ID, opt.Mode)
				}
			}
			byID[item.ID] = item
		}
	}
	return &Catalog{categories: categories, byID: byID}, nil
}

// Categories returns a copy of the menu grouped by category.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, category := range c.categories {
		out[i] = Category{Name: category.Name, Items: slices.Clone(category.Items)}
	}
	return out
}

func (c *Catalog) Item(id string) (Item, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// Option looks up an add-on offered by the item.
func (i Item) Option(id string) (AddOnOption, bool) {
	for _, opt := range i.AddOns {
		if opt.ID == id {
			return opt, true
		}
	}
	return AddOnOption{}, false
}

// ResolveSelection maps add-on ids to the item's options in selection order.
// Duplicate ids are collapsed and unknown ids are rejected.
func (i Item) ResolveSelection(ids []string) ([]AddOnOption, error) {
	out := make([]AddOnOption, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		opt, ok := i.Option(id)
		if !ok {
			return nil, fmt.Errorf("unknown add-on %q for item %q", id, i.ID)
		}
		seen[id] = struct{}{}
		out = append(out, opt)
	}
	return out, nil
}

// UnitPrice is the base price plus the price of every selected add-on.
func (i Item) UnitPrice(selected []AddOnOption) decimal.Decimal {
	total := i.BasePrice
	for _, opt := range selected {
		total = total.Add(opt.Price)
	}
	return total
}

// ToggleAddOn applies one click on an option to the current selection.
// A single option replaces the whole selection; a multi option is added or removed.
func ToggleAddOn(selection []string, opt AddOnOption) []string {
	if opt.Mode == enums.AddOnModeSingle {
		return []string{opt.ID}
	}
	if idx := slices.Index(selection, opt.ID); idx >= 0 {
		return slices.Delete(slices.Clone(selection), idx, idx+1)
	}
	return append(slices.Clone(selection), opt.ID)
}
