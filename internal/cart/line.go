package cart

import (
	"fmt"
	"slices"
	"strings"

	"github.com/angelmondragon/restaurant-backend/internal/menu"
	"github.com/shopspring/decimal"
)

// AddOn is an add-on selected on a cart line.
type AddOn struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Line is one cart row. Lines are unique by Key.
type Line struct {
	ItemID        string             `json:"id"`
	Title         string             `json:"title"`
	UnitBasePrice decimal.Decimal    `json:"basePrice"`
	Quantity      int                `json:"qty"`
	AddOns        []AddOn            `json:"addOns"`
	AddOnOptions  []menu.AddOnOption `json:"addOnOptions"`
	Vegetarian    bool               `json:"veg"`
}

// LineKey identifies a line by item id and the sorted ids of its add-ons.
func LineKey(itemID string, addOns []AddOn) string {
	ids := make([]string, len(addOns))
	for i, a := range addOns {
		ids[i] = a.ID
	}
	slices.Sort(ids)
	return itemID + "::" + strings.Join(ids, "|")
}

func (l Line) Key() string {
	return LineKey(l.ItemID, l.AddOns)
}

// UnitPrice is the base price plus every selected add-on.
func (l Line) UnitPrice() decimal.Decimal {
	total := l.UnitBasePrice
	for _, a := range l.AddOns {
		total = total.Add(a.Price)
	}
	return total
}

// Total is UnitPrice times Quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ResolveAddOns maps add-on ids to the options snapshotted on the line.
func (l Line) ResolveAddOns(ids []string) ([]AddOn, error) {
	out := make([]AddOn, 0, len(ids))
	for _, id := range ids {
		idx := slices.IndexFunc(l.AddOnOptions, func(opt menu.AddOnOption) bool { return opt.ID == id })
		if idx < 0 {
			return nil, fmt.Errorf("add-on %q is not offered for %q", id, l.ItemID)
		}
		opt := l.AddOnOptions[idx]
		out = append(out, AddOn{ID: opt.ID, Name: opt.Name, Price: opt.Price})
	}
	return normalizeAddOns(out), nil
}

func (l Line) clone() Line {
	l.AddOns = slices.Clone(l.AddOns)
	l.AddOnOptions = slices.Clone(l.AddOnOptions)
	return l
}

// Candidate is the input to Cart.Add.
type Candidate struct {
	ItemID       string
	Title        string
	BasePrice    decimal.Decimal
	Quantity     int
	AddOns       []AddOn
	AddOnOptions []menu.AddOnOption
	Vegetarian   bool
}

// CandidateFromMenu builds a candidate for a catalog item with the given add-on ids.
func CandidateFromMenu(item menu.Item, addOnIDs []string, quantity int) (Candidate, error) {
	selected, err := item.ResolveSelection(addOnIDs)
	if err != nil {
		return Candidate{}, err
	}
	addOns := make([]AddOn, len(selected))
	for i, opt := range selected {
		addOns[i] = AddOn{ID: opt.ID, Name: opt.Name, Price: opt.Price}
	}
	return Candidate{
		ItemID:       item.ID,
		Title:        item.Title,
		BasePrice:    item.BasePrice,
		Quantity:     quantity,
		AddOns:       addOns,
		AddOnOptions: slices.Clone(item.AddOns),
		Vegetarian:   item.Vegetarian,
	}, nil
}

// MaxLineQuantity caps the units on a single line. Merges saturate at it.
const MaxLineQuantity = 999

// normalizeLine coerces a line into its invariants: prices are never
// negative, quantity is within [1, MaxLineQuantity] and add-on ids are unique.
func normalizeLine(l Line) Line {
	if l.UnitBasePrice.IsNegative() {
		l.UnitBasePrice = decimal.Zero
	}
	l.Quantity = max(1, min(l.Quantity, MaxLineQuantity))
	l.AddOns = normalizeAddOns(l.AddOns)
	options := make([]menu.AddOnOption, len(l.AddOnOptions))
	for i, opt := range l.AddOnOptions {
		if opt.Price.IsNegative() {
			opt.Price = decimal.Zero
		}
		options[i] = opt
	}
	l.AddOnOptions = options
	return l
}

// addQuantity sums two normalized quantities, saturating at MaxLineQuantity.
func addQuantity(a, b int) int {
	return min(a+b, MaxLineQuantity)
}

func normalizeAddOns(addOns []AddOn) []AddOn {
	out := make([]AddOn, 0, len(addOns))
	seen := make(map[string]struct{}, len(addOns))
	for _, a := range addOns {
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		if a.Price.IsNegative() {
			a.Price = decimal.Zero
		}
		out = append(out, a)
	}
	return out
}
