package enums

import "slices"

// PaymentMethod is how the customer settles an order. Only the choice is
// recorded; no provider is contacted.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCash   PaymentMethod = "cash"
)

var PaymentMethods = []PaymentMethod{PaymentMethodCard, PaymentMethodOnline, PaymentMethodCash}

func (p PaymentMethod) String() string {
	return string(p)
}

func (p PaymentMethod) IsValid() bool {
	return slices.Contains(PaymentMethods, p)
}

// NormalizePaymentMethod folds case and whitespace but keeps unknown values so
// validation can name the field.
func NormalizePaymentMethod(value string) PaymentMethod {
	return PaymentMethod(normalize(value))
}

func ParsePaymentMethod(value string) (PaymentMethod, error) {
	return parse(value, "payment method", PaymentMethods)
}
