package cart

import (
	"slices"

	"github.com/shopspring/decimal"
)

// AddResult reports where an added candidate landed.
type AddResult struct {
	Merged bool `json:"merged"`
	Index  int  `json:"index"`
}

// Cart is an ordered list of lines with at most one line per key. It is not
// safe for concurrent use; Service serializes access per session.
type Cart struct {
	lines []Line
}

// New builds a cart from persisted lines, normalizing them and merging any
// lines that share a key.
func New(lines []Line) *Cart {
	c := &Cart{}
	for _, l := range lines {
		l = normalizeLine(l)
		if idx := c.indexOf(l.Key()); idx >= 0 {
			c.lines[idx].Quantity = addQuantity(c.lines[idx].Quantity, l.Quantity)
			continue
		}
		c.lines = append(c.lines, l.clone())
	}
	return c
}

// Add merges the candidate into the line with the same key, or appends a new line.
func (c *Cart) Add(candidate Candidate) AddResult {
	line := normalizeLine(Line{
		ItemID:        candidate.ItemID,
		Title:         candidate.Title,
		UnitBasePrice: candidate.BasePrice,
		Quantity:      candidate.Quantity,
		AddOns:        slices.Clone(candidate.AddOns),
		AddOnOptions:  slices.Clone(candidate.AddOnOptions),
		Vegetarian:    candidate.Vegetarian,
	})

	if idx := c.indexOf(line.Key()); idx >= 0 {
		c.lines[idx].Quantity = addQuantity(c.lines[idx].Quantity, line.Quantity)
		return AddResult{Merged: true, Index: idx}
	}
	c.lines = append(c.lines, line)
	return AddResult{Merged: false, Index: len(c.lines) - 1}
}

// UpdateQuantity sets the quantity of line index; qty <= 0 removes it and
// anything above MaxLineQuantity is capped. It reports whether the cart changed.
func (c *Cart) UpdateQuantity(index, qty int) bool {
	if !c.inRange(index) {
		return false
	}
	if qty <= 0 {
		return c.Remove(index)
	}
	c.lines[index].Quantity = min(qty, MaxLineQuantity)
	return true
}

// UpdateLineAddOns replaces the selected add-ons of line index, keeping its
// option snapshot. When another line already holds the resulting key the two
// are merged into that line and the edited one is removed.
func (c *Cart) UpdateLineAddOns(index int, addOns []AddOn) (AddResult, bool) {
	if !c.inRange(index) {
		return AddResult{Index: -1}, false
	}
	edited := c.lines[index]
	edited.AddOns = normalizeAddOns(addOns)

	for i, other := range c.lines {
		if i == index || other.Key() != edited.Key() {
			continue
		}
		c.lines[i].Quantity = addQuantity(c.lines[i].Quantity, edited.Quantity)
		c.lines = slices.Delete(c.lines, index, index+1)
		if i > index {
			i--
		}
		return AddResult{Merged: true, Index: i}, true
	}

	c.lines[index] = edited
	return AddResult{Merged: false, Index: index}, true
}

// Remove deletes line index. Out-of-range indexes are ignored.
func (c *Cart) Remove(index int) bool {
	if !c.inRange(index) {
		return false
	}
	c.lines = slices.Delete(c.lines, index, index+1)
	return true
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a deep copy of the cart lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		out[i] = l.clone()
	}
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Subtotal sums (base + add-ons) * qty over every line.
func (c *Cart) Subtotal() decimal.Decimal {
	return Subtotal(c.lines)
}

// TotalQuantity is the number of units across all lines.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// Subtotal sums the totals of lines.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}

func (c *Cart) indexOf(key string) int {
	return slices.IndexFunc(c.lines, func(l Line) bool { return l.Key() == key })
}

func (c *Cart) inRange(index int) bool {
	return index >= 0 && index < len(c.lines)
}
