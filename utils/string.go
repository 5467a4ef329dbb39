package utils

import (
	"strconv"
	"strings"
)

// ParseAmount converts a free-form numeric input, falling back to 0 on
// missing or invalid values.
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// NormalizeName lowercases and collapses internal whitespace so consultant
// names entered on contracts match timecard records regardless of casing or
// spacing.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
