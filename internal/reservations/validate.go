package reservations

import (
	"strings"

	pkgcheckout "github.com/angelmondragon/restaurant-backend/pkg/checkout"
)

const (
	FieldName   = "name"
	FieldEmail  = "email"
	FieldMobile = "mobile"
	FieldDate   = "date"
	FieldSlot   = "slot"
	FieldGuests = "guests"
)

var fieldMessages = map[string]string{
	FieldName:   "please enter your name",
	FieldEmail:  "please enter a valid email",
	FieldMobile: "please enter a valid mobile number",
	FieldDate:   "please choose a date",
	FieldSlot:   "please choose a time slot",
	FieldGuests: "please choose the number of guests",
}

// Validate returns the first failing field, or "" when the form can be submitted.
// Checks run in order: name, email, mobile, date, slot, guests.
func Validate(form Form) string {
	switch {
	case pkgcheckout.IsBlank(form.Name):
		return FieldName
	case !pkgcheckout.ValidEmail(form.Email):
		return FieldEmail
	case !pkgcheckout.ValidMobile(form.Mobile):
		return FieldMobile
	case strings.TrimSpace(form.Date) == "":
		return FieldDate
	case strings.TrimSpace(form.Slot) == "":
		return FieldSlot
	case form.Guests < 1:
		return FieldGuests
	}
	return ""
}

func validationError(field string) error {
	return pkgcheckout.FieldError(field, fieldMessages[field])
}
