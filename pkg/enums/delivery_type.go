package enums

import "slices"

// DeliveryType selects whether an order is delivered or collected in person.
// Only delivery requires an address.
type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

var DeliveryTypes = []DeliveryType{DeliveryTypeDelivery, DeliveryTypePickup}

func (d DeliveryType) String() string {
	return string(d)
}

func (d DeliveryType) IsValid() bool {
	return slices.Contains(DeliveryTypes, d)
}

func (d DeliveryType) RequiresAddress() bool {
	return d == DeliveryTypeDelivery
}

func NormalizeDeliveryType(value string) DeliveryType {
	return DeliveryType(normalize(value))
}

func ParseDeliveryType(value string) (DeliveryType, error) {
	return parse(value, "delivery type", DeliveryTypes)
}
