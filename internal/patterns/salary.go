package patterns

import "regexp"

// Salary conventions.
const (
	PerYear  = "per year"
	PerMonth = "per month"
	PerHour  = "per hour"

	DefaultCurrency  = "USD"
	DefaultSalaryMin = 50000
	DefaultSalaryMax = 80000

	LakhMultiplier = 100000
)

// SalaryRule is one salary shape. Group indexes point into the submatches;
// zero means the shape has no such group.
type SalaryRule struct {
	Name     string
	Pattern  *regexp.Regexp
	Min      int
	Max      int // zero for single-amount shapes
	Currency int
	Period   int
	// LPA marks shapes that are always lakhs; LPAMarker is a group that is
	// non-empty when a generic shape turned out to be quoted in lakhs.
	LPA       bool
	LPAMarker int
}

// Range reports whether the rule captures two amounts.
func (r SalaryRule) Range() bool { return r.Max > 0 }

const (
	symbol   = `[$£€₹]`
	amount   = `(\d[\d,]*(?:\.\d+)?(?:[kK]\b)?)`
	lakhs    = `(\d+(?:\.\d+)?)`
	to       = `\s*(?:-|–|—|to)\s*`
	currency = `(USD|INR|EUR|GBP|CAD|AUD)\b`
	period   = `(per\s+year|per\s+annum|annually|yearly|/\s*(?:yr|year)|per\s+month|monthly|/\s*(?:mo|month)|per\s+hour|hourly|/\s*(?:hr|hour))`
	lpa      = `\s*(?:LPA|lakhs?\s+per\s+annum)\b`
)

// Ranges are tried before single amounts; within each list order is priority.
func salaryRanges() []SalaryRule {
	return []SalaryRule{
		{Name: "symbol-range", Pattern: re(`(?i)` + symbol + `\s?` + amount + to + symbol + `?\s?` + amount + `(` + lpa + `)?\s*` + period + `?`), Min: 1, Max: 2, LPAMarker: 3, Period: 4},
		{Name: "currency-range", Pattern: re(`(?i)` + amount + to + amount + `\s*` + currency + `\s*` + period + `?`), Min: 1, Max: 2, Currency: 3, Period: 4},
		{Name: "salary-label-range", Pattern: re(`(?i)\bsalary(?:\s+range)?[:\s]*` + symbol + `?` + amount + to + symbol + `?` + amount + `(` + lpa + `)?`), Min: 1, Max: 2, LPAMarker: 3},
		{Name: "compensation-label-range", Pattern: re(`(?i)\bcompensation(?:\s+range)?[:\s]*` + symbol + `?` + amount + to + symbol + `?` + amount + `(` + lpa + `)?`), Min: 1, Max: 2, LPAMarker: 3},
		{Name: "lpa-range", Pattern: re(`(?i)` + lakhs + to + lakhs + lpa), Min: 1, Max: 2, LPA: true},
	}
}

func salarySingles() []SalaryRule {
	return []SalaryRule{
		{Name: "symbol-amount", Pattern: re(`(?i)` + symbol + `\s?` + amount + `\s*` + period), Min: 1, Period: 2},
		{Name: "currency-amount", Pattern: re(`(?i)` + amount + `\s*` + currency + `\s*` + period), Min: 1, Currency: 2, Period: 3},
		{Name: "lpa-amount", Pattern: re(`(?i)` + lakhs + lpa), Min: 1, LPA: true},
	}
}

// currencyHints override the currency implied by a salary shape, except LPA.
func currencyHints() Labels {
	return Labels{
		{Pattern: re(`(?i)₹|\binr\b|\brupees?\b`), Label: "INR"},
		{Pattern: re(`(?i)€|\beur\b|\beuros?\b`), Label: "EUR"},
		{Pattern: re(`(?i)£|\bgbp\b|\bpounds?\b`), Label: "GBP"},
	}
}
