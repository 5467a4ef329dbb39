package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatISOWeek(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		expected string
	}{
		{
			name:     "Monday opening the ISO year",
			date:     "2024-01-01",
			expected: "2024-W01",
		},
		{
			name:     "Sunday belonging to the previous ISO year",
			date:     "2023-12-31",
			expected: "2023-W52",
		},
		{
			name:     "Thursday rule pulls January date into prior year week",
			date:     "2021-01-01",
			expected: "2020-W53",
		},
		{
			name:     "mid-year date",
			date:     "2024-06-12",
			expected: "2024-W24",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatISOWeek(MustParseDate(tt.date)))
		})
	}
}

func TestIsWeekend(t *testing.T) {
	assert.False(t, IsWeekend(MustParseDate("2024-01-03"))) // Wednesday
	assert.True(t, IsWeekend(MustParseDate("2024-01-06")))  // Saturday
	assert.True(t, IsWeekend(MustParseDate("2024-01-07")))  // Sunday
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected int
	}{
		{"same day", "2024-01-15", "2024-01-15", 0},
		{"one full month", "2024-01-15", "2024-02-15", 1},
		{"just short of a month", "2024-01-15", "2024-02-14", 0},
		{"a year out", "2024-01-01", "2025-01-01", 12},
		{"reversed range", "2024-03-01", "2024-01-01", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthsBetween(MustParseDate(tt.from), MustParseDate(tt.to))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "jane doe", NormalizeName("  Jane   DOE "))
	assert.Equal(t, "jane doe", NormalizeName("jane doe"))
	assert.Equal(t, "", NormalizeName("   "))
}
