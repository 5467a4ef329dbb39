package timecard

import "math"

const (
	MinHours = 0.0
	MaxHours = 99.9
)

// ClampHours bounds a single hour bucket to [0, 99.9] at one decimal place.
// Each bucket is clamped independently; the total is never clamped.
func ClampHours(v float64) float64 {
	if math.IsNaN(v) || v < MinHours {
		return MinHours
	}
	if v > MaxHours {
		return MaxHours
	}
	return RoundHours(v)
}

// RoundHours rounds to one decimal place.
func RoundHours(v float64) float64 {
	return math.Round(v*10) / 10
}

// SumHours returns the displayed total: the sum of the three buckets rounded
// to one decimal place.
func SumHours(clientFacing, nonClientFacing, other float64) float64 {
	return RoundHours(clientFacing + nonClientFacing + other)
}
