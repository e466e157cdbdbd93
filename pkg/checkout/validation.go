package checkout

import (
	"regexp"
	"strings"
	"unicode"

	pkgerrors "github.com/angelmondragon/restaurant-backend/pkg/errors"
)

const (
	MinPhoneDigits  = 7
	MaxMobileDigits = 15
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Digits strips every non-digit rune from the input.
func Digits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsBlank reports whether the value contains only whitespace.
func IsBlank(value string) bool {
	return strings.IndexFunc(value, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}

// ValidEmail reports whether the trimmed value looks like an email address.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(strings.TrimSpace(value))
}

// ValidPhone reports whether the value carries at least MinPhoneDigits digits.
func ValidPhone(value string) bool {
	return len(Digits(value)) >= MinPhoneDigits
}

// ValidMobile reports whether the value carries between MinPhoneDigits and MaxMobileDigits digits.
func ValidMobile(value string) bool {
	n := len(Digits(value))
	return n >= MinPhoneDigits && n <= MaxMobileDigits
}

// FieldError builds the validation error returned for the first failing form field.
func FieldError(field, message string) *pkgerrors.Error {
	return pkgerrors.Invalid(field, message)
}
