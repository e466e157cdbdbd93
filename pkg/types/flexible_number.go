package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexibleNumber accepts JSON numbers, numeric strings, null or any other value
// without failing the decode. Valid is false when the input was not numeric.
type FlexibleNumber struct {
	Value decimal.Decimal
	Valid bool
}

func (f *FlexibleNumber) UnmarshalJSON(data []byte) error {
	*f = FlexibleNumber{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	raw := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	f.Value = value
	f.Valid = true
	return nil
}

func (f FlexibleNumber) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(f.Value.String()), nil
}

var (
	minInt = decimal.NewFromInt(math.MinInt)
	maxInt = decimal.NewFromInt(math.MaxInt)
)

// Int returns the truncated integer value. ok is false when the input was not
// numeric or does not fit in an int.
func (f FlexibleNumber) Int() (int, bool) {
	if !f.Valid {
		return 0, false
	}
	whole := f.Value.Truncate(0)
	if whole.LessThan(minInt) || whole.GreaterThan(maxInt) {
		return 0, false
	}
	return int(whole.IntPart()), true
}

// IntOr returns the truncated integer value, or fallback when Int is not ok.
func (f FlexibleNumber) IntOr(fallback int) int {
	if v, ok := f.Int(); ok {
		return v
	}
	return fallback
}

// DecimalOr returns the decoded value, or fallback when the input was not numeric.
func (f FlexibleNumber) DecimalOr(fallback decimal.Decimal) decimal.Decimal {
	if !f.Valid {
		return fallback
	}
	return f.Value
}
