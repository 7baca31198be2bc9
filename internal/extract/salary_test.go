package extract

import (
	"testing"

	"jobparser/internal/patterns"
	"jobparser/internal/types"
)

func TestSalary(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected types.Salary
	}{
		{
			name:     "lpa range",
			text:     "CTC 5-8 LPA",
			expected: types.Salary{Min: 500000, Max: 800000, Currency: "INR", PayRate: patterns.PerYear},
		},
		{
			name:     "labelled lpa range",
			text:     "Salary: 5-8 LPA",
			expected: types.Salary{Min: 500000, Max: 800000, Currency: "INR", PayRate: patterns.PerYear},
		},
		{
			name:     "single lpa amount",
			text:     "Package of 12 LPA",
			expected: types.Salary{Min: 960000, Max: 1440000, Currency: "INR", PayRate: patterns.PerYear},
		},
		{
			name:     "single amount banded",
			text:     "$100,000 per year",
			expected: types.Salary{Min: 90000, Max: 110000, Currency: "USD", PayRate: patterns.PerYear},
		},
		{
			name:     "hourly single amount",
			text:     "Pays $45/hr",
			expected: types.Salary{Min: 40.5, Max: 49.5, Currency: "USD", PayRate: patterns.PerHour},
		},
		{
			name:     "k suffix range",
			text:     "$80k - $100k",
			expected: types.Salary{Min: 80000, Max: 100000, Currency: "USD", PayRate: patterns.PerYear},
		},
		{
			name:     "currency code range monthly",
			text:     "Pay: 4,000 - 5,000 EUR monthly",
			expected: types.Salary{Min: 4000, Max: 5000, Currency: "EUR", PayRate: patterns.PerMonth},
		},
		{
			name:     "pound symbol hint",
			text:     "£40,000 - £50,000 per year",
			expected: types.Salary{Min: 40000, Max: 50000, Currency: "GBP", PayRate: patterns.PerYear},
		},
		{
			name:     "reversed range is ordered",
			text:     "$120,000 - $90,000",
			expected: types.Salary{Min: 90000, Max: 120000, Currency: "USD", PayRate: patterns.PerYear},
		},
		{
			name:     "rupee symbol lpa range",
			text:     "CTC: ₹5-8 LPA",
			expected: types.Salary{Min: 500000, Max: 800000, Currency: "INR", PayRate: patterns.PerYear},
		},
		{
			name:     "spaced rupee lpa range with period",
			text:     "Pay ₹ 12 - 18 LPA per annum",
			expected: types.Salary{Min: 1200000, Max: 1800000, Currency: "INR", PayRate: patterns.PerYear},
		},
		{
			name:     "rupee range without lpa stays in rupees",
			text:     "₹40,000 - ₹60,000 per month",
			expected: types.Salary{Min: 40000, Max: 60000, Currency: "INR", PayRate: patterns.PerMonth},
		},
		{
			name:     "no salary",
			text:     "Competitive pay and great snacks",
			expected: DefaultSalary(),
		},
		{
			name:     "bare number is not a salary",
			text:     "Team of 40 engineers",
			expected: DefaultSalary(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sharedEngine.Salary(tt.text); got != tt.expected {
				t.Errorf("Salary() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"120,000", 120000, true},
		{"95.5", 95.5, true},
		{"80k", 80000, true},
		{"80K", 80000, true},
		{"", 0, false},
		{"k", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseAmount(tt.input)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("parseAmount(%q) = %v, %v; expected %v, %v", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestPayRate(t *testing.T) {
	tests := map[string]string{
		"":          patterns.PerYear,
		"annually":  patterns.PerYear,
		"per month": patterns.PerMonth,
		"/mo":       patterns.PerMonth,
		"hourly":    patterns.PerHour,
		"/hr":       patterns.PerHour,
	}
	for period, expected := range tests {
		if got := payRate(period); got != expected {
			t.Errorf("payRate(%q) = %q, expected %q", period, got, expected)
		}
	}
}
