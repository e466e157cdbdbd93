package checkout

import (
	"strings"

	"github.com/angelmondragon/restaurant-backend/pkg/enums"
)

// Default map pin used when the customer does not pick a delivery location.
const (
	DefaultLatitude  = 51.7592
	DefaultLongitude = 19.4560
)

type Address struct {
	Street    string   `json:"street"`
	Landmark  string   `json:"landmark"`
	Pincode   string   `json:"pincode"`
	Latitude  *float64 `json:"lat,omitempty"`
	Longitude *float64 `json:"lng,omitempty"`
}

// Form is the customer-entered checkout state.
type Form struct {
	Name          string              `json:"name"`
	Phone         string              `json:"phone"`
	Email         string              `json:"email"`
	DeliveryType  enums.DeliveryType  `json:"deliveryType"`
	Address       Address             `json:"address"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
}

// withDefaults fills the delivery type and payment method the form starts with.
func (f Form) withDefaults() Form {
	if strings.TrimSpace(string(f.DeliveryType)) == "" {
		f.DeliveryType = enums.DeliveryTypeDelivery
	}
	if strings.TrimSpace(string(f.PaymentMethod)) == "" {
		f.PaymentMethod = enums.PaymentMethodCard
	}
	return f
}
