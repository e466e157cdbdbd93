package checkout

import (
	"strings"
	"time"

	"github.com/angelmondragon/restaurant-backend/internal/cart"
	"github.com/angelmondragon/restaurant-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type DeliveryAddress struct {
	Street    string  `json:"street"`
	Landmark  string  `json:"landmark"`
	Pincode   string  `json:"pincode"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

type Delivery struct {
	Type    enums.DeliveryType `json:"type"`
	Address *DeliveryAddress   `json:"address"`
	Notes   *string            `json:"notes"`
}

type Payment struct {
	Method enums.PaymentMethod `json:"method"`
}

type OrderItem struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"qty"`
	BasePrice decimal.Decimal `json:"basePrice"`
	AddOns    []cart.AddOn    `json:"addOns"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}

// OrderPayload is the order handed to the caller once payment succeeds.
type OrderPayload struct {
	Customer  Customer    `json:"customer"`
	Delivery  Delivery    `json:"delivery"`
	Payment   Payment     `json:"payment"`
	Items     []OrderItem `json:"items"`
	Totals    Totals      `json:"totals"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ItemCount is the number of units across all items.
func (p OrderPayload) ItemCount() int {
	n := 0
	for _, item := range p.Items {
		n += item.Quantity
	}
	return n
}

// BuildPayload shapes the form and cart lines into an order. It has no side effects.
func BuildPayload(form Form, lines []cart.Line, now time.Time) OrderPayload {
	form = form.withDefaults()

	items := make([]OrderItem, len(lines))
	for i, l := range lines {
		addOns := make([]cart.AddOn, len(l.AddOns))
		copy(addOns, l.AddOns)
		items[i] = OrderItem{
			ID:        l.ItemID,
			Title:     l.Title,
			Quantity:  l.Quantity,
			BasePrice: l.UnitBasePrice,
			AddOns:    addOns,
			LineTotal: l.Total(),
		}
	}

	var address *DeliveryAddress
	if form.DeliveryType.RequiresAddress() {
		address = &DeliveryAddress{
			Street:    strings.TrimSpace(form.Address.Street),
			Landmark:  strings.TrimSpace(form.Address.Landmark),
			Pincode:   strings.TrimSpace(form.Address.Pincode),
			Latitude:  DefaultLatitude,
			Longitude: DefaultLongitude,
		}
		if form.Address.Latitude != nil && form.Address.Longitude != nil {
			address.Latitude = *form.Address.Latitude
			address.Longitude = *form.Address.Longitude
		}
	}

	subtotal := cart.Subtotal(lines)
	return OrderPayload{
		Customer: Customer{
			Name:  strings.TrimSpace(form.Name),
			Phone: strings.TrimSpace(form.Phone),
			Email: strings.TrimSpace(form.Email),
		},
		Delivery: Delivery{
			Type:    form.DeliveryType,
			Address: address,
		},
		Payment:   Payment{Method: form.PaymentMethod},
		Items:     items,
		Totals:    Totals{Subtotal: subtotal, Total: subtotal},
		CreatedAt: now.UTC(),
	}
}
