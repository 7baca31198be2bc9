package extract

import (
	"math"
	"strconv"
	"strings"

	"jobparser/internal/patterns"
	"jobparser/internal/types"
)

// DefaultSalary is reported when the text states no usable salary.
func DefaultSalary() types.Salary {
	return types.Salary{
		Min:      patterns.DefaultSalaryMin,
		Max:      patterns.DefaultSalaryMax,
		Currency: patterns.DefaultCurrency,
		PayRate:  patterns.PerYear,
	}
}

// Salary extracts the pay range. Range shapes win over single amounts, and a
// single amount is widened into a band. LPA amounts are scaled to rupees and
// always reported in INR; otherwise a currency mentioned anywhere in the text
// overrides the one implied by the matched shape.
func (e *Engine) Salary(text string) types.Salary {
	sal, lpa, ok := e.matchSalary(text)
	if !ok {
		return DefaultSalary()
	}

	if lpa {
		sal.Currency = "INR"
	} else if c, found := e.lib.Currencies.First(text); found {
		sal.Currency = c
	}
	return sal
}

func (e *Engine) matchSalary(text string) (types.Salary, bool, bool) {
	for _, rules := range [][]patterns.SalaryRule{e.lib.SalaryRanges, e.lib.SalarySingles} {
		for _, r := range rules {
			if sal, lpa, ok := applySalaryRule(r, text); ok {
				return sal, lpa, true
			}
		}
	}
	return types.Salary{}, false, false
}

// applySalaryRule returns the first match of r that parses, and whether it
// was quoted in lakhs.
func applySalaryRule(r patterns.SalaryRule, text string) (types.Salary, bool, bool) {
	for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
		lo, ok := parseAmount(m[r.Min])
		if !ok {
			continue
		}
		lpa := r.LPA || group(m, r.LPAMarker) != ""

		var low, high float64
		switch {
		case r.Range():
			hi, ok := parseAmount(m[r.Max])
			if !ok {
				continue
			}
			low, high = lo, hi
			if lpa {
				low *= patterns.LakhMultiplier
				high *= patterns.LakhMultiplier
			}
		case lpa:
			low = lo * patterns.LakhMultiplier * 0.8
			high = lo * patterns.LakhMultiplier * 1.2
		default:
			low = lo * 0.9
			high = lo * 1.1
		}
		if low > high {
			low, high = high, low
		}

		sal := types.Salary{
			Min:      round2(low),
			Max:      round2(high),
			Currency: patterns.DefaultCurrency,
			PayRate:  payRate(group(m, r.Period)),
		}
		if c := group(m, r.Currency); c != "" {
			sal.Currency = strings.ToUpper(c)
		}
		return sal, lpa, true
	}
	return types.Salary{}, false, false
}

func group(m []string, i int) string {
	if i <= 0 || i >= len(m) {
		return ""
	}
	return m[i]
}

// parseAmount reads "120,000", "95.5" or "80k". Anything unparsable is a no-match.
func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	mult := 1.0
	if strings.HasSuffix(s, "k") || strings.HasSuffix(s, "K") {
		mult = 1000
		s = s[:len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v * mult, true
}

func payRate(period string) string {
	p := strings.ToLower(period)
	switch {
	case strings.Contains(p, "mo"):
		return patterns.PerMonth
	case strings.Contains(p, "hour"), strings.Contains(p, "hr"):
		return patterns.PerHour
	default:
		return patterns.PerYear
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
