package extract

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"jobparser/internal/errors"
	"jobparser/internal/patterns"
	"jobparser/internal/types"
)

var (
	jobTypeVocabulary = []string{"Full-time", "Part-time", "Contract", "Internship", "Temporary", "Volunteer"}
	priorities        = []string{"Urgent", "High", "Medium", "Low"}
	payRates          = []string{patterns.PerYear, patterns.PerMonth, patterns.PerHour}
)

// Check reports every way rec breaks the record invariants. Records built by
// Parse always pass; records from other sources (an AI assistant, a client
// submitting an edited record) may not.
func Check(rec types.Record) []string {
	var problems []string
	required := []struct{ name, value string }{
		{"jobTitle", rec.JobTitle},
		{"companyName", rec.CompanyName},
		{"jobLocation", rec.JobLocation},
		{"experienceRange", rec.ExperienceRange},
		{"educationLevel", rec.EducationLevel},
		{"jobCategory", rec.JobCategory},
		{"jobDescription", rec.JobDescription},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			problems = append(problems, f.name+" is empty")
		}
	}

	if len(rec.JobType) == 0 {
		problems = append(problems, "jobType is empty")
	}
	for _, t := range rec.JobType {
		if !slices.Contains(jobTypeVocabulary, t) {
			problems = append(problems, fmt.Sprintf("jobType %q is not a known type", t))
		}
	}

	switch {
	case len(rec.Skills) == 0:
		problems = append(problems, "skills is empty")
	case len(rec.Skills) > MaxSkills:
		problems = append(problems, fmt.Sprintf("skills has %d entries, at most %d allowed", len(rec.Skills), MaxSkills))
	}
	if len(slices.Compact(slices.Sorted(slices.Values(rec.Skills)))) != len(rec.Skills) {
		problems = append(problems, "skills has duplicates")
	}

	if rec.Salary.Min > rec.Salary.Max {
		problems = append(problems, "salary min exceeds max")
	}
	if rec.Salary.Currency == "" {
		problems = append(problems, "salary currency is empty")
	}
	if !slices.Contains(payRates, rec.Salary.PayRate) {
		problems = append(problems, fmt.Sprintf("salary payRate %q is not a known rate", rec.Salary.PayRate))
	}

	if !slices.Contains(priorities, rec.Priority) {
		problems = append(problems, fmt.Sprintf("priority %q is not a known priority", rec.Priority))
	}
	if len(rec.WorkAuth) == 0 {
		problems = append(problems, "workAuth is empty")
	}

	for name, items := range map[string][]string{"responsibilities": rec.Responsibilities, "requirements": rec.Requirements} {
		if len(items) > MaxItems {
			problems = append(problems, fmt.Sprintf("%s has %d items, at most %d allowed", name, len(items), MaxItems))
		}
		for _, it := range items {
			if n := utf8.RuneCountInString(it); n < MinItemLength || n > MaxItemLength {
				problems = append(problems, fmt.Sprintf("%s item of length %d is out of range", name, n))
			}
		}
	}

	slices.Sort(problems)
	return problems
}

// Validate wraps Check into a validation error.
func Validate(rec types.Record) error {
	problems := Check(rec)
	if len(problems) == 0 {
		return nil
	}
	return errors.NewValidationError(errors.ErrCodeInvalidInput, "record violates invariants: "+strings.Join(problems, "; "), nil).
		WithContext("problems", problems)
}

// DefaultedFields names the fields of rec that hold their fallback value.
func DefaultedFields(rec types.Record) []string {
	var out []string
	check := func(name string, defaulted bool) {
		if defaulted {
			out = append(out, name)
		}
	}
	check("jobTitle", rec.JobTitle == patterns.DefaultTitle)
	check("companyName", rec.CompanyName == patterns.DefaultCompany)
	check("jobLocation", rec.JobLocation == patterns.DefaultLocation)
	check("jobType", slices.Equal(rec.JobType, patterns.DefaultJobTypes))
	check("experienceRange", rec.ExperienceRange == patterns.DefaultExperience)
	check("skills", slices.Equal(rec.Skills, patterns.DefaultSkills))
	check("salary", rec.Salary == DefaultSalary())
	check("educationLevel", rec.EducationLevel == patterns.DefaultEducation)
	check("jobCategory", rec.JobCategory == patterns.DefaultCategory)
	check("priority", rec.Priority == patterns.DefaultPriority)
	check("workAuth", slices.Equal(rec.WorkAuth, patterns.DefaultWorkAuth))
	return out
}
