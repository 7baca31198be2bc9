package extract

import (
	"reflect"
	"testing"

	"jobparser/internal/patterns"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"job title label beats position label", "Position: Platform Engineer\nJob Title: Staff Engineer", "Staff Engineer"},
		{"flagged first line", "Data Engineer - URGENT\nJoin us in Berlin", "Data Engineer"},
		{"looking for with article", "We are looking for a Backend Engineer. Apply today", "Backend Engineer"},
		{"first line with dash tail", "Frontend Developer – Remote\nGreat team", "Frontend Developer"},
		{"url first line falls back", "https://jobs.example.com/123\nGreat team", patterns.DefaultTitle},
		{"short first line falls back", "Hi\nthere", patterns.DefaultTitle},
		{"empty", "", patterns.DefaultTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sharedEngine.Title(tt.text); got != tt.expected {
				t.Errorf("Title() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestCompany(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"label cut at dash", "Company: Globex Inc - Remote", "Globex Inc"},
		{"at name", "We are excited to work at Initech, a fintech startup.", "Initech"},
		{"is hiring", "Umbrella Labs is hiring a QA engineer", "Umbrella Labs"},
		{"stop list rejected", "Join the team, you will love it.", patterns.DefaultCompany},
		{"empty", "", patterns.DefaultCompany},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sharedEngine.Company(tt.text); got != tt.expected {
				t.Errorf("Company() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"location label", "Location: Austin, TX", "Austin, TX"},
		{"office label", "Office: Berlin, Germany", "Berlin, Germany"},
		{"based in drops parenthetical", "Based in Denver, CO (on-site)", "Denver, CO"},
		{"remote keyword", "This is a remote position", "Remote"},
		{"hybrid keyword", "Hybrid - 3 days in office", "Hybrid"},
		{"work from home is not a place", "We work from home", "Remote"},
		{"nothing", "Great team, great snacks", patterns.DefaultLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sharedEngine.Location(tt.text); got != tt.expected {
				t.Errorf("Location() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestExperience(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"explicit range", "3-5 years of experience", "3-5 years"},
		{"single number banded", "5+ years experience", "5-7 years"},
		{"open ended", "12+ years of experience", "10+ years"},
		{"minimum", "Minimum 4 years in backend", "3-5 years"},
		{"to range", "Requires 2 to 4 years in retail", "2-4 years"},
		{"junior", "Junior developer", "0-2 years"},
		{"principal", "Principal engineer", "8+ years"},
		{"nothing", "Great team", patterns.DefaultExperience},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sharedEngine.Experience(tt.text); got != tt.expected {
				t.Errorf("Experience() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestKeywordFields(t *testing.T) {
	tests := []struct {
		name     string
		extract  func(string) string
		text     string
		expected string
	}{
		{"education master", sharedEngine.Education, "Master's degree in CS preferred", "Master's degree"},
		{"education table order", sharedEngine.Education, "Bachelor's or Master's", "Bachelor's degree"},
		{"education default", sharedEngine.Education, "No formal schooling needed", patterns.DefaultEducation},
		{"category data", sharedEngine.Category, "Data Scientist", "Data Science & Analytics"},
		{"category sales", sharedEngine.Category, "Sales Executive", "Sales & Marketing"},
		{"category default", sharedEngine.Category, "Barista", patterns.DefaultCategory},
		{"priority urgent beats high", sharedEngine.Priority, "Urgent hire, high priority", "Urgent"},
		{"priority high", sharedEngine.Priority, "This is a high priority role", "High"},
		{"priority low", sharedEngine.Priority, "Flexible start date, low priority", "Low"},
		{"flexible hours is not a priority", sharedEngine.Priority, "We offer flexible hours", patterns.DefaultPriority},
		{"client label", sharedEngine.Client, "Client: Globex Corporation", "Globex Corporation"},
		{"client absent", sharedEngine.Client, "Direct hire position", ""},
		{"reporting manager", sharedEngine.Manager, "Reporting Manager: Jane Smith, VP Engineering", "Jane Smith, VP Engineering"},
		{"reports to", sharedEngine.Manager, "Reports to: Head of Data", "Head of Data"},
		{"manager absent", sharedEngine.Manager, "Flat organization", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.extract(tt.text); got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestListFields(t *testing.T) {
	tests := []struct {
		name     string
		extract  func(string) []string
		text     string
		expected []string
	}{
		{"job types word bounded", sharedEngine.JobTypes, "Full-time or contract, internal tools", []string{"Full-time", "Contract"}},
		{"job types default", sharedEngine.JobTypes, "Great team", []string{"Full-time"}},
		{"work auth in table order", sharedEngine.WorkAuth, "H1B transfers welcome. Visa sponsorship is available.", []string{"H1B Visa", "Will Sponsor"}},
		{"work auth no visa sponsorship", sharedEngine.WorkAuth, "No visa sponsorship available", []string{patterns.NoSponsorship}},
		{"work auth cannot sponsor", sharedEngine.WorkAuth, "We will not sponsor visas for this role", []string{patterns.NoSponsorship}},
		{"work auth sponsorship not available", sharedEngine.WorkAuth, "Sponsorship is not available. Green card holders welcome.", []string{"Green Card Holder", patterns.NoSponsorship}},
		{"work auth citizen", sharedEngine.WorkAuth, "Must be a US citizen", []string{"US Citizen"}},
		{"work auth default", sharedEngine.WorkAuth, "Great team", []string{patterns.NoSponsorship}},
		{"benefits canonical labels", sharedEngine.Benefits, "Benefits: Health insurance, 401k, dental care and gym membership",
			[]string{"Health insurance", "Dental insurance", "401(k)", "Wellness programs"}},
		{"benefits may be empty", sharedEngine.Benefits, "Great team", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.extract(tt.text); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("got %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestListDefaultsAreCopies(t *testing.T) {
	got := sharedEngine.Skills("")
	got[0] = "mutated"
	if patterns.DefaultSkills[0] != "JavaScript" {
		t.Fatal("default skills were mutated through a returned record")
	}
}
