package patterns

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule is one entry of a field's ordered rule list. Pattern finds a candidate,
// Value (optional) derives the candidate from the submatches, Normalize cleans
// it up and Valid decides whether it is acceptable.
type Rule struct {
	Name      string
	Pattern   *regexp.Regexp
	Value     func(groups []string) (string, bool)
	Normalize func(string) string
	Valid     func(string) bool
}

// Apply runs the rule against the first match of its pattern in text.
func (r Rule) Apply(text string) (string, bool) {
	groups := r.Pattern.FindStringSubmatch(text)
	if groups == nil {
		return "", false
	}

	var candidate string
	switch {
	case r.Value != nil:
		v, ok := r.Value(groups)
		if !ok {
			return "", false
		}
		candidate = v
	case len(groups) > 1:
		candidate = groups[1]
	default:
		candidate = groups[0]
	}

	if r.Normalize != nil {
		candidate = r.Normalize(candidate)
	}
	if r.Valid != nil && !r.Valid(candidate) {
		return "", false
	}
	return candidate, true
}

// Rules is an ordered rule list. Position is priority.
type Rules []Rule

// First returns the value of the first rule that both matches and passes
// validation, regardless of where in text each rule matched.
func (rs Rules) First(text string) (string, bool) {
	for _, r := range rs {
		if v, ok := r.Apply(text); ok {
			return v, true
		}
	}
	return "", false
}

// Label maps a keyword pattern to a canonical, displayable label. When
// Unless matches the text the label is not reported.
type Label struct {
	Pattern *regexp.Regexp
	Unless  *regexp.Regexp
	Label   string
}

func (l Label) matches(text string) bool {
	return l.Pattern.MatchString(text) && (l.Unless == nil || !l.Unless.MatchString(text))
}

// Labels is an ordered keyword table.
type Labels []Label

// First returns the label of the earliest entry whose pattern occurs in text.
func (ls Labels) First(text string) (string, bool) {
	for _, l := range ls {
		if l.matches(text) {
			return l.Label, true
		}
	}
	return "", false
}

// All returns every matching label once, in table order.
func (ls Labels) All(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, l := range ls {
		if seen[l.Label] || !l.matches(text) {
			continue
		}
		seen[l.Label] = true
		out = append(out, l.Label)
	}
	return out
}

var (
	dashPipeChars = regexp.MustCompile(`[-|–—]`)
	dashPipeTail  = regexp.MustCompile(`(?s)\s*[-|–—].*$`)
	spaceRuns     = regexp.MustCompile(`[ \t]+`)
)

// StripDashes removes every dash and pipe, then trims.
func StripDashes(s string) string {
	return collapseSpaces(dashPipeChars.ReplaceAllString(s, ""))
}

// CutAtDash drops everything from the first dash or pipe onwards.
func CutAtDash(s string) string {
	return collapseSpaces(dashPipeTail.ReplaceAllString(strings.TrimSpace(s), ""))
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
}

// LengthBetween accepts strings whose rune count is strictly between lo and hi.
func LengthBetween(lo, hi int) func(string) bool {
	return func(s string) bool {
		n := utf8.RuneCountInString(s)
		return n > lo && n < hi
	}
}

// NotIn rejects candidates equal (case-insensitively) to any stop phrase.
func NotIn(stop ...string) func(string) bool {
	set := make(map[string]bool, len(stop))
	for _, s := range stop {
		set[strings.ToLower(s)] = true
	}
	return func(s string) bool {
		return !set[strings.ToLower(strings.TrimSpace(s))]
	}
}

// AllOf combines validity predicates.
func AllOf(preds ...func(string) bool) func(string) bool {
	return func(s string) bool {
		for _, p := range preds {
			if !p(s) {
				return false
			}
		}
		return true
	}
}
