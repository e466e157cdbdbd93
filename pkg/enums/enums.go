// Package enums holds the closed value sets customers pick from when ordering.
package enums

import (
	"fmt"
	"slices"
	"strings"
)

// normalize folds customer input so "Pickup " and "pickup" mean the same thing.
func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func parse[T ~string](value, kind string, valid []T) (T, error) {
	candidate := T(normalize(value))
	if slices.Contains(valid, candidate) {
		return candidate, nil
	}
	return "", fmt.Errorf("invalid %s %q", kind, value)
}
