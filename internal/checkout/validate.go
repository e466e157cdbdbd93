package checkout

import (
	"strings"

	"github.com/angelmondragon/restaurant-backend/internal/cart"
	pkgcheckout "github.com/angelmondragon/restaurant-backend/pkg/checkout"
)

// Field identifiers reported by Validate.
const (
	FieldCart          = "cart"
	FieldName          = "name"
	FieldPhone         = "phone"
	FieldEmail         = "email"
	FieldDeliveryType  = "deliveryType"
	FieldAddress       = "address"
	FieldPincode       = "pincode"
	FieldPaymentMethod = "paymentMethod"
)

var fieldMessages = map[string]string{
	FieldCart:          "your cart is empty",
	FieldName:          "please enter your name",
	FieldPhone:         "please enter a valid phone number",
	FieldEmail:         "please enter a valid email",
	FieldDeliveryType:  "please choose delivery or pickup",
	FieldAddress:       "please enter a street address",
	FieldPincode:       "please enter a postal code",
	FieldPaymentMethod: "please choose a payment method",
}

// Result is the outcome of Validate. Field names the first failing check.
type Result struct {
	OK    bool   `json:"ok"`
	Field string `json:"field,omitempty"`
}

// Err converts a failed result into a validation error carrying the field.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return pkgcheckout.FieldError(r.Field, fieldMessages[r.Field])
}

func fail(field string) Result {
	return Result{OK: false, Field: field}
}

// Validate checks the form against the cart. The first failing check wins, in
// order: cart, name, phone, email, delivery type, address, pincode, payment method.
func Validate(form Form, lines []cart.Line) Result {
	form = form.withDefaults()

	if len(lines) == 0 {
		return fail(FieldCart)
	}
	if pkgcheckout.IsBlank(form.Name) {
		return fail(FieldName)
	}
	if !pkgcheckout.ValidPhone(form.Phone) {
		return fail(FieldPhone)
	}
	if email := strings.TrimSpace(form.Email); email != "" && !pkgcheckout.ValidEmail(email) {
		return fail(FieldEmail)
	}
	if !form.DeliveryType.IsValid() {
		return fail(FieldDeliveryType)
	}
	if form.DeliveryType.RequiresAddress() {
		if pkgcheckout.IsBlank(form.Address.Street) {
			return fail(FieldAddress)
		}
		if pkgcheckout.IsBlank(form.Address.Pincode) {
			return fail(FieldPincode)
		}
	}
	if !form.PaymentMethod.IsValid() {
		return fail(FieldPaymentMethod)
	}
	return Result{OK: true}
}
