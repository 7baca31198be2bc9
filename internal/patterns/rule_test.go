package patterns

import (
	"reflect"
	"regexp"
	"strings"
	"testing"
)

func TestRuleApply(t *testing.T) {
	upper := func(groups []string) (string, bool) {
		if groups[1] == "skip" {
			return "", false
		}
		return strings.ToUpper(groups[1]), true
	}

	tests := []struct {
		name        string
		rule        Rule
		text        string
		expected    string
		expectMatch bool
	}{
		{
			name:        "first group is the candidate",
			rule:        Rule{Pattern: regexp.MustCompile(`name: (\w+)`)},
			text:        "name: ada",
			expected:    "ada",
			expectMatch: true,
		},
		{
			name:        "whole match without groups",
			rule:        Rule{Pattern: regexp.MustCompile(`\d+`)},
			text:        "room 42",
			expected:    "42",
			expectMatch: true,
		},
		{
			name:        "value func derives candidate",
			rule:        Rule{Pattern: regexp.MustCompile(`name: (\w+)`), Value: upper},
			text:        "name: ada",
			expected:    "ADA",
			expectMatch: true,
		},
		{
			name:        "value func rejects",
			rule:        Rule{Pattern: regexp.MustCompile(`name: (\w+)`), Value: upper},
			text:        "name: skip",
			expectMatch: false,
		},
		{
			name:        "normalized then validated",
			rule:        Rule{Pattern: regexp.MustCompile(`title: ([^\n]+)`), Normalize: StripDashes, Valid: LengthBetween(3, 10)},
			text:        "title: -- Go Dev --",
			expected:    "Go Dev",
			expectMatch: true,
		},
		{
			name:        "validation failure",
			rule:        Rule{Pattern: regexp.MustCompile(`title: ([^\n]+)`), Valid: LengthBetween(3, 5)},
			text:        "title: Principal Engineer",
			expectMatch: false,
		},
		{
			name:        "no match",
			rule:        Rule{Pattern: regexp.MustCompile(`title: (\w+)`)},
			text:        "nothing",
			expectMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rule.Apply(tt.text)
			if ok != tt.expectMatch {
				t.Fatalf("Apply() matched = %v, expected %v", ok, tt.expectMatch)
			}
			if got != tt.expected {
				t.Errorf("Apply() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestRulesFirstUsesListOrder(t *testing.T) {
	rules := Rules{
		{Name: "late", Pattern: regexp.MustCompile(`b=(\w+)`)},
		{Name: "early", Pattern: regexp.MustCompile(`a=(\w+)`)},
	}
	got, ok := rules.First("a=1 b=2")
	if !ok || got != "2" {
		t.Errorf("First() = %q, %v; expected the first rule in the list to win", got, ok)
	}
}

func TestLabels(t *testing.T) {
	labels := Labels{
		{Pattern: regexp.MustCompile(`(?i)\bgo\b`), Label: "Go"},
		{Pattern: regexp.MustCompile(`(?i)golang`), Label: "Go"},
		{Pattern: regexp.MustCompile(`(?i)\brust\b`), Label: "Rust"},
	}

	if got := labels.All("Rust and golang and Go"); !reflect.DeepEqual(got, []string{"Go", "Rust"}) {
		t.Errorf("All() = %v", got)
	}
	if got := labels.All("nothing"); got != nil {
		t.Errorf("All() = %v, expected nil", got)
	}
	if got, ok := labels.First("rust first, then go"); !ok || got != "Go" {
		t.Errorf("First() = %q, %v; expected table order to win", got, ok)
	}
}

func TestLabelsUnless(t *testing.T) {
	labels := Labels{
		{
			Pattern: regexp.MustCompile(`(?i)\bremote\b`),
			Unless:  regexp.MustCompile(`(?i)\bnot\s+remote\b`),
			Label:   "Remote",
		},
		{Pattern: regexp.MustCompile(`(?i)\bonsite\b`), Label: "Onsite"},
	}

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"pattern alone", "Fully remote team", []string{"Remote"}},
		{"veto suppresses label", "This role is not remote, onsite only", []string{"Onsite"}},
		{"veto only", "not remote", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := labels.All(tt.text); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("All() = %v, expected %v", got, tt.expected)
			}
		})
	}

	if got, ok := labels.First("not remote but onsite"); !ok || got != "Onsite" {
		t.Errorf("First() = %q, %v; expected vetoed entry to be skipped", got, ok)
	}
}

func TestTextHelpers(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(string) string
		input    string
		expected string
	}{
		{"strip dashes", StripDashes, "  Senior – Go | Developer  ", "Senior Go Developer"},
		{"cut at dash", CutAtDash, "Acme Corp - Remote first", "Acme Corp"},
		{"cut at pipe", CutAtDash, "Acme Corp | Careers", "Acme Corp"},
		{"cut without dash", CutAtDash, "  Acme   Corp ", "Acme Corp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.input); got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	between := LengthBetween(2, 5)
	if between("ab") || !between("abc") || between("abcde") {
		t.Error("LengthBetween bounds must be exclusive")
	}
	if !between("äöü") {
		t.Error("LengthBetween must count runes")
	}

	notIn := NotIn("The Team", "us")
	if notIn("the team") || notIn(" US ") || !notIn("Acme") {
		t.Error("NotIn must compare case-insensitively after trimming")
	}

	both := AllOf(between, notIn)
	if both("us") || !both("Acme") || both("Acme Corp") {
		t.Error("AllOf must require every predicate")
	}
}

func TestExperienceBand(t *testing.T) {
	tests := map[int]string{
		0:  "0-1 years",
		1:  "1-2 years",
		2:  "2-3 years",
		4:  "3-5 years",
		5:  "5-7 years",
		9:  "7-10 years",
		10: "10+ years",
		25: "10+ years",
	}
	for years, expected := range tests {
		if got := ExperienceBand(years); got != expected {
			t.Errorf("ExperienceBand(%d) = %q, expected %q", years, got, expected)
		}
	}
}
